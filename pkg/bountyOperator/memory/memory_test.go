package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	"github.com/task3-labs/task3-go/pkg/types"
)

// fakeClock is a manually-advanced clock shared between test and operator
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func Test_InMemoryBountyOperator_Compliance(t *testing.T) {
	suite := &bountyOperator.TestSuite{
		NewOperator: func(t *testing.T) (bountyOperator.IBountyOperator, func(d time.Duration)) {
			clock := newFakeClock()
			op := NewInMemoryBountyOperatorWithClock(nil, clock.Now)
			return op, clock.Advance
		},
	}
	suite.Run(t)
}

func Test_InMemoryBountyOperator_CancelPolicies(t *testing.T) {
	ctx := context.Background()

	newAccepted := func(t *testing.T, policy bountyOperator.CancelPolicy) (*InMemoryBountyOperator, string) {
		op := NewInMemoryBountyOperator(&InMemoryBountyOperatorConfig{CancelPolicy: policy})
		created, err := op.CreateBounty(ctx, &bountyOperator.CreateBountyParams{
			TaskId:   "task-1",
			TaskHash: "0xhash1",
			Amount:   "100",
			Asset:    "ETH",
		})
		require.NoError(t, err)
		_, err = op.AcceptBounty(ctx, created.BountyId)
		require.NoError(t, err)
		return op, created.BountyId
	}

	t.Run("OpenOnlyRejectsAccepted", func(t *testing.T) {
		op, id := newAccepted(t, bountyOperator.CancelPolicyOpenOnly)
		_, err := op.CancelBounty(ctx, id)
		assert.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	})

	t.Run("BeforeSubmissionAllowsAccepted", func(t *testing.T) {
		op, id := newAccepted(t, bountyOperator.CancelPolicyBeforeSubmission)
		_, err := op.CancelBounty(ctx, id)
		require.NoError(t, err)

		bounty, err := op.GetBounty(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, types.BountyStatusCancelled, bounty.Status)
	})

	t.Run("PolicyAgreesWithStateMachine", func(t *testing.T) {
		// Whatever the adapter does with an Accepted cancel, the state
		// machine fed with the same policy's cancellable set must say the
		// same thing.
		for _, policy := range []bountyOperator.CancelPolicy{
			bountyOperator.CancelPolicyOpenOnly,
			bountyOperator.CancelPolicyBeforeSubmission,
		} {
			op, id := newAccepted(t, policy)
			_, cancelErr := op.CancelBounty(ctx, id)
			machineErr := types.ValidateStatusTransition(
				types.BountyStatusAccepted, types.BountyStatusCancelled, policy.CancellableStatuses())

			assert.Equal(t, cancelErr == nil, machineErr == nil, "policy %s", policy)

			bounty, err := op.GetBounty(ctx, id)
			require.NoError(t, err)
			if machineErr != nil {
				assert.Equal(t, types.BountyStatusAccepted, bounty.Status, "policy %s", policy)
			} else {
				assert.Equal(t, types.BountyStatusCancelled, bounty.Status, "policy %s", policy)
			}
		}
	})

	t.Run("BeforeSubmissionRejectsSubmitted", func(t *testing.T) {
		op, id := newAccepted(t, bountyOperator.CancelPolicyBeforeSubmission)
		_, err := op.SubmitBounty(ctx, id, "0xsub")
		require.NoError(t, err)
		_, err = op.CancelBounty(ctx, id)
		assert.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	})
}

func Test_InMemoryBountyOperator_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	op := NewInMemoryBountyOperator(nil)

	created, err := op.CreateBounty(ctx, &bountyOperator.CreateBountyParams{
		TaskId:   "task-1",
		TaskHash: "0xhash1",
		Amount:   "100",
		Asset:    "ETH",
	})
	require.NoError(t, err)

	bounty, err := op.GetBounty(ctx, created.BountyId)
	require.NoError(t, err)
	bounty.Status = types.BountyStatusClaimed

	fresh, err := op.GetBounty(ctx, created.BountyId)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusOpen, fresh.Status)
}
