package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	"github.com/task3-labs/task3-go/pkg/config"
	"github.com/task3-labs/task3-go/pkg/types"
)

// InMemoryBountyOperatorConfig configures the simulated ledger. Sponsor and
// Worker stand in for the two caller identities a real chain derives from
// transaction signatures.
type InMemoryBountyOperatorConfig struct {
	Sponsor       string
	Worker        string
	CancelPolicy  bountyOperator.CancelPolicy
	CoolingPeriod time.Duration
}

// InMemoryBountyOperator implements IBountyOperator against process-local
// state. It enforces the full bounty state machine, which makes it the
// concurrency backstop the engine relies on in tests exactly the way a real
// ledger is in production.
type InMemoryBountyOperator struct {
	mu         sync.RWMutex
	cfg        *InMemoryBountyOperatorConfig
	bounties   map[string]*types.Bounty
	byTaskHash map[string]string
	now        func() time.Time
}

// NewInMemoryBountyOperator creates a simulated ledger with a real clock
func NewInMemoryBountyOperator(cfg *InMemoryBountyOperatorConfig) *InMemoryBountyOperator {
	return NewInMemoryBountyOperatorWithClock(cfg, time.Now)
}

// NewInMemoryBountyOperatorWithClock creates a simulated ledger whose notion
// of now is supplied by the caller
func NewInMemoryBountyOperatorWithClock(cfg *InMemoryBountyOperatorConfig, now func() time.Time) *InMemoryBountyOperator {
	if cfg == nil {
		cfg = &InMemoryBountyOperatorConfig{}
	}
	if cfg.Sponsor == "" {
		cfg.Sponsor = "0x00000000000000000000000000000000000sp0n50r"
	}
	if cfg.Worker == "" {
		cfg.Worker = "0x0000000000000000000000000000000000w0rk3r0"
	}
	if cfg.CancelPolicy == "" {
		cfg.CancelPolicy = bountyOperator.CancelPolicyOpenOnly
	}
	if cfg.CoolingPeriod == 0 {
		cfg.CoolingPeriod = config.CoolingPeriod
	}
	return &InMemoryBountyOperator{
		cfg:        cfg,
		bounties:   make(map[string]*types.Bounty),
		byTaskHash: make(map[string]string),
		now:        now,
	}
}

func newTxRef() string {
	return "0xsim" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// CreateBounty creates a new bounty in Open status. Duplicate task hashes
// are accepted at the ledger level; deduplication belongs to the engine.
func (o *InMemoryBountyOperator) CreateBounty(ctx context.Context, params *bountyOperator.CreateBountyParams) (*bountyOperator.CreateBountyResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if params == nil || params.TaskId == "" || params.TaskHash == "" {
		return nil, fmt.Errorf("invalid create params: taskId and taskHash are required")
	}

	bountyId := uuid.New().String()
	bounty := &types.Bounty{
		BountyId:  bountyId,
		TaskId:    params.TaskId,
		TaskUrl:   params.TaskUrl,
		TaskHash:  params.TaskHash,
		Sponsor:   o.cfg.Sponsor,
		Amount:    params.Amount,
		Asset:     params.Asset,
		Status:    types.BountyStatusOpen,
		CreatedAt: o.now(),
	}
	o.bounties[bountyId] = bounty
	if _, exists := o.byTaskHash[params.TaskHash]; !exists {
		o.byTaskHash[params.TaskHash] = bountyId
	}

	return &bountyOperator.CreateBountyResult{
		BountyId: bountyId,
		TxRef:    newTxRef(),
	}, nil
}

// AcceptBounty transitions Open -> Accepted and records the configured
// worker as the caller
func (o *InMemoryBountyOperator) AcceptBounty(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	bounty, err := o.requireStatus(bountyId, types.BountyStatusOpen)
	if err != nil {
		return nil, err
	}

	if err := o.setStatus(bounty, types.BountyStatusAccepted); err != nil {
		return nil, err
	}
	acceptedAt := o.now()
	bounty.Worker = o.cfg.Worker
	bounty.AcceptedAt = &acceptedAt

	return &bountyOperator.TxResult{TxRef: newTxRef()}, nil
}

// SubmitBounty transitions Accepted -> Submitted
func (o *InMemoryBountyOperator) SubmitBounty(ctx context.Context, bountyId string, submissionRef string) (*bountyOperator.TxResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	bounty, err := o.requireStatus(bountyId, types.BountyStatusAccepted)
	if err != nil {
		return nil, err
	}

	if err := o.setStatus(bounty, types.BountyStatusSubmitted); err != nil {
		return nil, err
	}
	submittedAt := o.now()
	bounty.SubmittedAt = &submittedAt

	return &bountyOperator.TxResult{TxRef: newTxRef()}, nil
}

// ConfirmBounty transitions Submitted -> Confirmed and computes the cooling deadline
func (o *InMemoryBountyOperator) ConfirmBounty(ctx context.Context, bountyId string, confirmedAt time.Time) (*bountyOperator.ConfirmBountyResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	bounty, err := o.requireStatus(bountyId, types.BountyStatusSubmitted)
	if err != nil {
		return nil, err
	}

	if err := o.setStatus(bounty, types.BountyStatusConfirmed); err != nil {
		return nil, err
	}
	coolingUntil := confirmedAt.Add(o.cfg.CoolingPeriod)
	bounty.ConfirmedAt = &confirmedAt
	bounty.CoolingUntil = &coolingUntil

	return &bountyOperator.ConfirmBountyResult{
		TxRef:        newTxRef(),
		ConfirmedAt:  confirmedAt,
		CoolingUntil: coolingUntil,
	}, nil
}

// ClaimPayout transitions Confirmed -> Claimed once the cooling period has elapsed
func (o *InMemoryBountyOperator) ClaimPayout(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	bounty, err := o.requireStatus(bountyId, types.BountyStatusConfirmed)
	if err != nil {
		return nil, err
	}

	now := o.now()
	if bounty.CoolingUntil != nil && now.Before(*bounty.CoolingUntil) {
		return nil, &bountyOperator.CoolingPeriodError{
			BountyId:     bountyId,
			CoolingUntil: *bounty.CoolingUntil,
			Remaining:    bounty.CoolingUntil.Sub(now),
		}
	}

	if err := o.setStatus(bounty, types.BountyStatusClaimed); err != nil {
		return nil, err
	}
	claimedAt := now
	bounty.ClaimedAt = &claimedAt

	return &bountyOperator.TxResult{TxRef: newTxRef()}, nil
}

// CancelBounty transitions to Cancelled when the configured policy permits it
func (o *InMemoryBountyOperator) CancelBounty(ctx context.Context, bountyId string) (*bountyOperator.TxResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	bounty, exists := o.bounties[bountyId]
	if !exists {
		return nil, bountyOperator.ErrNotFound
	}
	if !o.cfg.CancelPolicy.Allows(bounty.Status) {
		return nil, fmt.Errorf("%w: bounty %s is %s and not cancellable under policy %s",
			bountyOperator.ErrInvalidState, bountyId, bounty.Status, o.cfg.CancelPolicy)
	}

	if err := o.setStatus(bounty, types.BountyStatusCancelled); err != nil {
		return nil, err
	}

	return &bountyOperator.TxResult{TxRef: newTxRef()}, nil
}

// GetBounty retrieves a bounty by id
func (o *InMemoryBountyOperator) GetBounty(ctx context.Context, bountyId string) (*types.Bounty, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	bounty, exists := o.bounties[bountyId]
	if !exists {
		return nil, bountyOperator.ErrNotFound
	}
	return copyBounty(bounty), nil
}

// GetBountyIdByTaskHash looks up a bounty by idempotency key
func (o *InMemoryBountyOperator) GetBountyIdByTaskHash(ctx context.Context, taskHash string) (string, bool, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	bountyId, exists := o.byTaskHash[taskHash]
	return bountyId, exists, nil
}

// ListBounties returns every bounty the ledger knows about
func (o *InMemoryBountyOperator) ListBounties(ctx context.Context) ([]*types.Bounty, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	bounties := make([]*types.Bounty, 0, len(o.bounties))
	for _, bounty := range o.bounties {
		bounties = append(bounties, copyBounty(bounty))
	}
	return bounties, nil
}

// ListBountiesBySponsor returns bounties funded by the given address
func (o *InMemoryBountyOperator) ListBountiesBySponsor(ctx context.Context, sponsor string) ([]*types.Bounty, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	bounties := make([]*types.Bounty, 0)
	for _, bounty := range o.bounties {
		if strings.EqualFold(bounty.Sponsor, sponsor) {
			bounties = append(bounties, copyBounty(bounty))
		}
	}
	return bounties, nil
}

// ListBountiesByWorker returns bounties accepted by the given address
func (o *InMemoryBountyOperator) ListBountiesByWorker(ctx context.Context, worker string) ([]*types.Bounty, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	bounties := make([]*types.Bounty, 0)
	for _, bounty := range o.bounties {
		if bounty.Worker != "" && strings.EqualFold(bounty.Worker, worker) {
			bounties = append(bounties, copyBounty(bounty))
		}
	}
	return bounties, nil
}

// requireStatus fetches a bounty and rejects the call unless it is in the
// expected status. Callers hold the write lock.
func (o *InMemoryBountyOperator) requireStatus(bountyId string, expected types.BountyStatus) (*types.Bounty, error) {
	bounty, exists := o.bounties[bountyId]
	if !exists {
		return nil, bountyOperator.ErrNotFound
	}
	if bounty.Status != expected {
		return nil, &bountyOperator.InvalidStateError{
			BountyId: bountyId,
			Expected: expected,
			Actual:   bounty.Status,
		}
	}
	return bounty, nil
}

// setStatus applies a status change after validating it against the
// lifecycle state machine, with cancellation eligibility taken from the
// configured policy. Callers hold the write lock.
func (o *InMemoryBountyOperator) setStatus(bounty *types.Bounty, to types.BountyStatus) error {
	if err := types.ValidateStatusTransition(bounty.Status, to, o.cfg.CancelPolicy.CancellableStatuses()); err != nil {
		return fmt.Errorf("%w: %v", bountyOperator.ErrInvalidState, err)
	}
	bounty.Status = to
	return nil
}

func copyBounty(b *types.Bounty) *types.Bounty {
	out := *b
	return &out
}
