package bountyOperator

import (
	"context"
	"time"

	"github.com/task3-labs/task3-go/pkg/types"
)

// CancelPolicy controls which bounty states an adapter allows cancellation
// from. Ledgers in the wild disagree on this, so it is adapter configuration
// rather than a fixed rule.
type CancelPolicy string

const (
	// CancelPolicyOpenOnly permits cancellation from Open only
	CancelPolicyOpenOnly CancelPolicy = "open-only"

	// CancelPolicyBeforeSubmission permits cancellation from Open or Accepted
	CancelPolicyBeforeSubmission CancelPolicy = "before-submission"
)

// CancellableStatuses returns the statuses the policy allows Cancelled to be
// reached from. The set feeds types.ValidateStatusTransition so the state
// machine and the policy cannot disagree.
func (p CancelPolicy) CancellableStatuses() []types.BountyStatus {
	switch p {
	case CancelPolicyBeforeSubmission:
		return []types.BountyStatus{types.BountyStatusOpen, types.BountyStatusAccepted}
	default:
		return []types.BountyStatus{types.BountyStatusOpen}
	}
}

// Allows reports whether the policy permits cancelling a bounty in the given status
func (p CancelPolicy) Allows(status types.BountyStatus) bool {
	for _, s := range p.CancellableStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// CreateBountyParams carries everything a ledger needs to open a new bounty.
// TaskUrl is persisted on chain so a retried publish can recover the task
// location from the ledger alone.
type CreateBountyParams struct {
	TaskId   string
	TaskUrl  string
	TaskHash string
	Amount   string
	Asset    string
}

// TxResult reports the ledger transaction reference for a mutating call
type TxResult struct {
	TxRef string
}

// CreateBountyResult reports the ledger-assigned identifier for a new bounty
type CreateBountyResult struct {
	BountyId string
	TxRef    string
}

// ConfirmBountyResult carries the ledger-authoritative confirmation times.
// Callers must take CoolingUntil from here rather than recomputing it, to
// avoid clock-skew divergence between systems.
type ConfirmBountyResult struct {
	TxRef        string
	ConfirmedAt  time.Time
	CoolingUntil time.Time
}

// IBountyOperator is the ledger capability. One implementation exists per
// supported chain; all chain-specific encoding, address derivation and event
// parsing lives behind it. Implementations are not required to deduplicate
// task hashes on create; dedup is the orchestration engine's job.
type IBountyOperator interface {
	// CreateBounty creates a new bounty in Open status
	CreateBounty(ctx context.Context, params *CreateBountyParams) (*CreateBountyResult, error)

	// AcceptBounty transitions Open -> Accepted, recording the adapter's
	// caller identity as worker
	AcceptBounty(ctx context.Context, bountyId string) (*TxResult, error)

	// SubmitBounty transitions Accepted -> Submitted, recording the
	// submission reference (a content hash of the deliverable)
	SubmitBounty(ctx context.Context, bountyId string, submissionRef string) (*TxResult, error)

	// ConfirmBounty transitions Submitted -> Confirmed and computes
	// coolingUntil = confirmedAt + the configured cooling period
	ConfirmBounty(ctx context.Context, bountyId string, confirmedAt time.Time) (*ConfirmBountyResult, error)

	// ClaimPayout transitions Confirmed -> Claimed and releases funds to the
	// worker. Rejected with ErrCoolingPeriodActive before coolingUntil.
	ClaimPayout(ctx context.Context, bountyId string) (*TxResult, error)

	// CancelBounty transitions to Cancelled, subject to the adapter's CancelPolicy
	CancelBounty(ctx context.Context, bountyId string) (*TxResult, error)

	// GetBounty returns the bounty record by ledger id
	GetBounty(ctx context.Context, bountyId string) (*types.Bounty, error)

	// GetBountyIdByTaskHash looks up a bounty by its idempotency key.
	// Absence is an expected outcome, reported via found=false, not an error.
	GetBountyIdByTaskHash(ctx context.Context, taskHash string) (string, bool, error)

	// ListBounties returns every bounty known to the ledger instance
	ListBounties(ctx context.Context) ([]*types.Bounty, error)

	// ListBountiesBySponsor returns bounties funded by the given address
	ListBountiesBySponsor(ctx context.Context, sponsor string) ([]*types.Bounty, error)

	// ListBountiesByWorker returns bounties accepted by the given address
	ListBountiesByWorker(ctx context.Context, worker string) ([]*types.Bounty, error)
}
