package task3Operator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	bountyMemory "github.com/task3-labs/task3-go/pkg/bountyOperator/memory"
	"github.com/task3-labs/task3-go/pkg/config"
	dataMemory "github.com/task3-labs/task3-go/pkg/dataOperator/memory"
	"github.com/task3-labs/task3-go/pkg/types"
	"go.uber.org/zap/zaptest"
)

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

type harness struct {
	engine   *Task3Operator
	bountyOp bountyOperator.IBountyOperator
	dataOp   *dataMemory.InMemoryDataOperator
	clock    *fakeClock
}

func newHarness(t *testing.T, cancelPolicy bountyOperator.CancelPolicy) *harness {
	clock := newFakeClock()
	return &harness{
		engine: NewTask3OperatorWithClock(zaptest.NewLogger(t), clock.Now),
		bountyOp: bountyMemory.NewInMemoryBountyOperatorWithClock(&bountyMemory.InMemoryBountyOperatorConfig{
			CancelPolicy: cancelPolicy,
		}, clock.Now),
		dataOp: dataMemory.NewInMemoryDataOperator(),
		clock:  clock,
	}
}

func (h *harness) publish(t *testing.T, content []byte) *PublishResult {
	res, err := h.engine.Publish(context.Background(), h.bountyOp, h.dataOp, &PublishParams{
		Content: content,
		Metadata: &types.TaskMetadata{
			Chain:    types.ChainMetadata{Name: "ethereum", Network: "sepolia"},
			Workflow: types.WorkflowMetadata{Name: "review", Version: "1", Adapter: "manual"},
		},
		Amount: "100",
		Asset:  "APT",
	})
	require.NoError(t, err)
	return res
}

func Test_Task3Operator_FullLifecycle(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	pub := h.publish(t, []byte("# Task X\n\ndo the thing"))
	assert.True(t, pub.IsNew)
	assert.NotEmpty(t, pub.TaskUrl)
	assert.NotEmpty(t, pub.BountyId)
	assert.NotEmpty(t, pub.TxRef)

	md, err := h.dataOp.GetTaskMetadata(ctx, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, pub.BountyId, md.Chain.BountyId)
	assert.Equal(t, "100", md.Bounty.Amount)
	assert.Equal(t, "APT", md.Bounty.Asset)
	assert.Equal(t, types.HashTaskContent([]byte("# Task X\n\ndo the thing")), md.TaskHash)

	acc, err := h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, []byte("# Task X\n\ndo the thing"), acc.Content)
	assert.Equal(t, pub.BountyId, acc.BountyId)

	sub, err := h.engine.Submit(ctx, h.bountyOp, h.dataOp, pub.TaskUrl, []byte("done, see branch"))
	require.NoError(t, err)
	assert.NotEmpty(t, sub.SubmissionUrl)

	md, err = h.dataOp.GetTaskMetadata(ctx, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, sub.SubmissionUrl, md.DataLayer.SubmissionUrl)

	conf, err := h.engine.Confirm(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, conf.ConfirmedAt.Add(config.CoolingPeriod), conf.CoolingUntil)

	md, err = h.dataOp.GetTaskMetadata(ctx, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, conf.ConfirmedAt.Unix(), md.Bounty.ConfirmedAt)
	assert.Equal(t, conf.CoolingUntil.Unix(), md.Bounty.CoolingUntil)

	// One second into the cooling period the payout stays locked.
	h.clock.Advance(1 * time.Second)
	_, err = h.engine.Claim(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.Error(t, err)
	var coolErr *bountyOperator.CoolingPeriodError
	require.ErrorAs(t, err, &coolErr)
	assert.Equal(t, pub.BountyId, coolErr.BountyId)
	assert.Equal(t, config.CoolingPeriod-time.Second, coolErr.Remaining)

	h.clock.Advance(config.CoolingPeriod - 1*time.Second)
	claim, err := h.engine.Claim(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, "100", claim.Amount)
	assert.Equal(t, "APT", claim.Asset)

	bounty, err := h.bountyOp.GetBounty(ctx, pub.BountyId)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusClaimed, bounty.Status)
}

func Test_Task3Operator_PublishIsIdempotent(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	first := h.publish(t, []byte("same content"))
	second := h.publish(t, []byte("same content"))

	assert.False(t, second.IsNew)
	assert.Empty(t, second.TxRef)
	assert.Equal(t, first.BountyId, second.BountyId)
	assert.Equal(t, first.TaskUrl, second.TaskUrl)
	assert.Equal(t, first.TaskId, second.TaskId)

	bounties, err := h.bountyOp.ListBounties(ctx)
	require.NoError(t, err)
	assert.Len(t, bounties, 1)

	// Different content is a different task.
	third := h.publish(t, []byte("other content"))
	assert.True(t, third.IsNew)
	assert.NotEqual(t, first.BountyId, third.BountyId)
}

func Test_Task3Operator_StateGating(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	pub := h.publish(t, []byte("gated task"))

	// Open bounties reject everything but accept and cancel.
	_, err := h.engine.Submit(ctx, h.bountyOp, h.dataOp, pub.TaskUrl, []byte("early"))
	require.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	_, err = h.engine.Confirm(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	_, err = h.engine.Claim(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.ErrorIs(t, err, bountyOperator.ErrInvalidState)

	var stateErr *bountyOperator.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, types.BountyStatusConfirmed, stateErr.Expected)
	assert.Equal(t, types.BountyStatusOpen, stateErr.Actual)

	// Rejected flows leave both sides untouched.
	bounty, err := h.bountyOp.GetBounty(ctx, pub.BountyId)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusOpen, bounty.Status)
	md, err := h.dataOp.GetTaskMetadata(ctx, pub.TaskUrl)
	require.NoError(t, err)
	assert.Empty(t, md.DataLayer.SubmissionUrl)

	_, err = h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	_, err = h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.ErrorIs(t, err, bountyOperator.ErrInvalidState)
}

func Test_Task3Operator_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("open bounty cancels", func(t *testing.T) {
		h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
		pub := h.publish(t, []byte("cancellable"))

		res, err := h.engine.Cancel(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.NoError(t, err)
		assert.Equal(t, pub.BountyId, res.BountyId)

		bounty, err := h.bountyOp.GetBounty(ctx, pub.BountyId)
		require.NoError(t, err)
		assert.Equal(t, types.BountyStatusCancelled, bounty.Status)

		_, err = h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	})

	t.Run("accepted bounty rejected under open-only policy", func(t *testing.T) {
		h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
		pub := h.publish(t, []byte("accepted task"))
		_, err := h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.NoError(t, err)

		_, err = h.engine.Cancel(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.ErrorIs(t, err, bountyOperator.ErrInvalidState)
	})

	t.Run("accepted bounty cancels under before-submission policy", func(t *testing.T) {
		h := newHarness(t, bountyOperator.CancelPolicyBeforeSubmission)
		pub := h.publish(t, []byte("accepted task"))
		_, err := h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.NoError(t, err)

		_, err = h.engine.Cancel(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
		require.NoError(t, err)
	})
}

func Test_Task3Operator_Status(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	pub := h.publish(t, []byte("status task"))

	res, err := h.engine.Status(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	require.NotNil(t, res.Bounty)
	assert.Equal(t, pub.BountyId, res.Bounty.BountyId)
	assert.Equal(t, types.BountyStatusOpen, res.Bounty.Status)
	assert.Equal(t, pub.BountyId, res.Metadata.Chain.BountyId)

	// A task uploaded outside the engine has no ledger link yet.
	uploaded, err := h.dataOp.UploadTaskData(ctx, []byte("unpublished"), &types.TaskMetadata{})
	require.NoError(t, err)
	res, err = h.engine.Status(ctx, h.bountyOp, h.dataOp, uploaded.TaskUrl)
	require.NoError(t, err)
	assert.Nil(t, res.Bounty)
}

func Test_Task3Operator_UnknownTaskUrl(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	_, err := h.engine.Accept(ctx, h.bountyOp, h.dataOp, "mem://tasks/no-such-task")
	require.Error(t, err)

	uploaded, err := h.dataOp.UploadTaskData(ctx, []byte("no bounty"), &types.TaskMetadata{})
	require.NoError(t, err)
	_, err = h.engine.Accept(ctx, h.bountyOp, h.dataOp, uploaded.TaskUrl)
	require.ErrorIs(t, err, bountyOperator.ErrNotFound)
}

func Test_Task3Operator_ConfirmUsesEngineClock(t *testing.T) {
	h := newHarness(t, bountyOperator.CancelPolicyOpenOnly)
	ctx := context.Background()

	pub := h.publish(t, []byte("clocked task"))
	_, err := h.engine.Accept(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	_, err = h.engine.Submit(ctx, h.bountyOp, h.dataOp, pub.TaskUrl, []byte("work"))
	require.NoError(t, err)

	h.clock.Advance(42 * time.Minute)
	conf, err := h.engine.Confirm(ctx, h.bountyOp, h.dataOp, pub.TaskUrl)
	require.NoError(t, err)
	assert.Equal(t, h.clock.Now(), conf.ConfirmedAt)

	bounty, err := h.bountyOp.GetBounty(ctx, pub.BountyId)
	require.NoError(t, err)
	require.NotNil(t, bounty.CoolingUntil)
	assert.Equal(t, conf.CoolingUntil, *bounty.CoolingUntil)
}
