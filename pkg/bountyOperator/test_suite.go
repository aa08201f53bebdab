package bountyOperator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/types"
)

// TestSuite defines compliance tests every ledger implementation must pass.
// NewOperator returns a fresh operator plus an advance function that moves
// the operator's clock forward, so cooling-period behavior is testable
// without real waiting.
type TestSuite struct {
	NewOperator func(t *testing.T) (IBountyOperator, func(d time.Duration))
}

// Run executes all ledger capability compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("Lifecycle", s.testLifecycle)
	t.Run("StateGating", s.testStateGating)
	t.Run("CoolingPeriod", s.testCoolingPeriod)
	t.Run("TaskHashLookup", s.testTaskHashLookup)
	t.Run("Cancel", s.testCancel)
	t.Run("Listing", s.testListing)
}

func (s *TestSuite) createOpen(t *testing.T, op IBountyOperator, taskId, taskHash string) string {
	created, err := op.CreateBounty(context.Background(), &CreateBountyParams{
		TaskId:   taskId,
		TaskUrl:  "mem://tasks/" + taskId,
		TaskHash: taskHash,
		Amount:   "100",
		Asset:    "ETH",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.BountyId)
	require.NotEmpty(t, created.TxRef)
	return created.BountyId
}

func (s *TestSuite) testLifecycle(t *testing.T) {
	op, advance := s.NewOperator(t)
	ctx := context.Background()

	id := s.createOpen(t, op, "task-1", "0xhash1")

	bounty, err := op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusOpen, bounty.Status)
	assert.Equal(t, "task-1", bounty.TaskId)
	assert.Equal(t, "mem://tasks/task-1", bounty.TaskUrl)
	assert.Equal(t, "0xhash1", bounty.TaskHash)
	assert.Empty(t, bounty.Worker)

	_, err = op.AcceptBounty(ctx, id)
	require.NoError(t, err)
	bounty, err = op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusAccepted, bounty.Status)
	assert.NotEmpty(t, bounty.Worker)
	require.NotNil(t, bounty.AcceptedAt)

	_, err = op.SubmitBounty(ctx, id, "0xsubmission")
	require.NoError(t, err)
	bounty, err = op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusSubmitted, bounty.Status)
	require.NotNil(t, bounty.SubmittedAt)

	confirmedAt := time.Now().UTC().Truncate(time.Second)
	confirmed, err := op.ConfirmBounty(ctx, id, confirmedAt)
	require.NoError(t, err)
	assert.Equal(t, confirmedAt.Add(config.CoolingPeriod), confirmed.CoolingUntil)

	bounty, err = op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusConfirmed, bounty.Status)
	require.NotNil(t, bounty.ConfirmedAt)
	require.NotNil(t, bounty.CoolingUntil)

	advance(config.CoolingPeriod)

	_, err = op.ClaimPayout(ctx, id)
	require.NoError(t, err)
	bounty, err = op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusClaimed, bounty.Status)
	require.NotNil(t, bounty.ClaimedAt)

	// Timestamp ordering over the whole lifecycle
	assert.False(t, bounty.AcceptedAt.Before(bounty.CreatedAt))
	assert.False(t, bounty.SubmittedAt.Before(*bounty.AcceptedAt))
	assert.False(t, bounty.ConfirmedAt.Before(*bounty.SubmittedAt))
	assert.False(t, bounty.ClaimedAt.Before(*bounty.ConfirmedAt))
}

func (s *TestSuite) testStateGating(t *testing.T) {
	op, _ := s.NewOperator(t)
	ctx := context.Background()

	id := s.createOpen(t, op, "task-2", "0xhash2")

	// Open only permits accept (and cancel)
	_, err := op.SubmitBounty(ctx, id, "0xsub")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = op.ConfirmBounty(ctx, id, time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = op.ClaimPayout(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = op.AcceptBounty(ctx, id)
	require.NoError(t, err)

	// Accepted: re-accept and confirm are invalid
	_, err = op.AcceptBounty(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = op.ConfirmBounty(ctx, id, time.Now())
	assert.ErrorIs(t, err, ErrInvalidState)

	// Rejections must not have mutated the record
	bounty, err := op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusAccepted, bounty.Status)
	assert.Nil(t, bounty.SubmittedAt)
	assert.Nil(t, bounty.ConfirmedAt)

	_, err = op.GetBounty(ctx, "no-such-bounty")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = op.AcceptBounty(ctx, "no-such-bounty")
	assert.ErrorIs(t, err, ErrNotFound)
}

func (s *TestSuite) testCoolingPeriod(t *testing.T) {
	op, advance := s.NewOperator(t)
	ctx := context.Background()

	id := s.createOpen(t, op, "task-3", "0xhash3")
	_, err := op.AcceptBounty(ctx, id)
	require.NoError(t, err)
	_, err = op.SubmitBounty(ctx, id, "0xsub")
	require.NoError(t, err)

	confirmed, err := op.ConfirmBounty(ctx, id, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, config.CoolingPeriod, confirmed.CoolingUntil.Sub(confirmed.ConfirmedAt))

	// Immediately after confirmation the claim is rejected
	_, err = op.ClaimPayout(ctx, id)
	assert.ErrorIs(t, err, ErrCoolingPeriodActive)

	// One second before the boundary it is still rejected
	advance(config.CoolingPeriod - time.Second)
	_, err = op.ClaimPayout(ctx, id)
	assert.ErrorIs(t, err, ErrCoolingPeriodActive)

	var coolingErr *CoolingPeriodError
	require.ErrorAs(t, err, &coolingErr)
	assert.Greater(t, coolingErr.Remaining, time.Duration(0))

	// At the boundary the claim succeeds
	advance(time.Second)
	_, err = op.ClaimPayout(ctx, id)
	require.NoError(t, err)
}

func (s *TestSuite) testTaskHashLookup(t *testing.T) {
	op, _ := s.NewOperator(t)
	ctx := context.Background()

	_, found, err := op.GetBountyIdByTaskHash(ctx, "0xmissing")
	require.NoError(t, err)
	assert.False(t, found)

	id := s.createOpen(t, op, "task-4", "0xhash4")

	gotId, found, err := op.GetBountyIdByTaskHash(ctx, "0xhash4")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, id, gotId)
}

func (s *TestSuite) testCancel(t *testing.T) {
	op, _ := s.NewOperator(t)
	ctx := context.Background()

	id := s.createOpen(t, op, "task-5", "0xhash5")
	_, err := op.CancelBounty(ctx, id)
	require.NoError(t, err)

	bounty, err := op.GetBounty(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.BountyStatusCancelled, bounty.Status)

	// Terminal: nothing moves a cancelled bounty
	_, err = op.AcceptBounty(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = op.CancelBounty(ctx, id)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Both cancel policies agree a submitted bounty is not cancellable
	id2 := s.createOpen(t, op, "task-6", "0xhash6")
	_, err = op.AcceptBounty(ctx, id2)
	require.NoError(t, err)
	_, err = op.SubmitBounty(ctx, id2, "0xsub")
	require.NoError(t, err)
	_, err = op.CancelBounty(ctx, id2)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func (s *TestSuite) testListing(t *testing.T) {
	op, _ := s.NewOperator(t)
	ctx := context.Background()

	id1 := s.createOpen(t, op, "task-7", "0xhash7")
	id2 := s.createOpen(t, op, "task-8", "0xhash8")

	all, err := op.ListBounties(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bounty, err := op.GetBounty(ctx, id1)
	require.NoError(t, err)
	require.NotEmpty(t, bounty.Sponsor)

	bySponsor, err := op.ListBountiesBySponsor(ctx, bounty.Sponsor)
	require.NoError(t, err)
	assert.Len(t, bySponsor, 2)

	bySponsor, err = op.ListBountiesBySponsor(ctx, "0xnobody")
	require.NoError(t, err)
	assert.Len(t, bySponsor, 0)

	_, err = op.AcceptBounty(ctx, id2)
	require.NoError(t, err)
	accepted, err := op.GetBounty(ctx, id2)
	require.NoError(t, err)

	byWorker, err := op.ListBountiesByWorker(ctx, accepted.Worker)
	require.NoError(t, err)
	require.Len(t, byWorker, 1)
	assert.Equal(t, id2, byWorker[0].BountyId)
}
