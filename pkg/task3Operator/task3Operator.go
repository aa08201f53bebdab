package task3Operator

import (
	"context"
	"fmt"
	"time"

	"github.com/task3-labs/task3-go/pkg/bountyOperator"
	"github.com/task3-labs/task3-go/pkg/dataOperator"
	"github.com/task3-labs/task3-go/pkg/types"
	"go.uber.org/zap"
)

// Task3Operator coordinates the cross-chain bounty lifecycle between a task
// store and a bounty ledger. It is stateless: capability handles arrive as
// parameters on every call and nothing is retained between invocations, so
// concurrent callers racing the same bounty are arbitrated by the ledger's
// state-guarded transitions, not by a lock held here.
//
// Only Publish is safe to blindly retry; the other flows must re-read bounty
// state after an ambiguous failure before retrying, since the original
// attempt may have succeeded.
type Task3Operator struct {
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewTask3Operator creates an orchestration engine using the real clock
func NewTask3Operator(logger *zap.Logger) *Task3Operator {
	return NewTask3OperatorWithClock(logger, time.Now)
}

// NewTask3OperatorWithClock creates an orchestration engine whose notion of
// now is supplied by the caller
func NewTask3OperatorWithClock(logger *zap.Logger, now func() time.Time) *Task3Operator {
	return &Task3Operator{
		logger: logger.Sugar(),
		now:    now,
	}
}

// PublishParams carries everything needed to publish a new task with an
// escrowed bounty. Metadata seeds the chain/workflow sections of the stored
// record; the engine fills in the hash, amount and asset.
type PublishParams struct {
	Content  []byte
	Metadata *types.TaskMetadata
	Amount   string
	Asset    string
}

// PublishResult reports the task location and bounty created (or found) by
// Publish. IsNew is false and TxRef empty when an existing bounty with the
// same content hash short-circuited the flow.
type PublishResult struct {
	TaskUrl  string
	TaskId   string
	BountyId string
	TxRef    string
	IsNew    bool
}

// AcceptResult carries the downloaded task content for the worker
type AcceptResult struct {
	Content  []byte
	LocalRef string
	BountyId string
	TxRef    string
}

// SubmitResult reports where the deliverable was published
type SubmitResult struct {
	SubmissionUrl string
	TxRef         string
}

// ConfirmResult carries the ledger-authoritative confirmation times
type ConfirmResult struct {
	TxRef        string
	ConfirmedAt  time.Time
	CoolingUntil time.Time
}

// ClaimResult reports the released payout, taken from the bounty record
type ClaimResult struct {
	TxRef  string
	Amount string
	Asset  string
}

// CancelResult reports the cancellation transaction
type CancelResult struct {
	BountyId string
	TxRef    string
}

// StatusResult joins the stored metadata with the live bounty record
type StatusResult struct {
	Metadata *types.TaskMetadata
	Bounty   *types.Bounty
}

// Publish uploads task content and creates the linked bounty. The content
// hash is the idempotency key: when a bounty with the same hash already
// exists, nothing is re-uploaded or re-created and the known identifiers are
// returned, which makes Publish safe to retry after partial failure.
func (o *Task3Operator) Publish(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	params *PublishParams,
) (*PublishResult, error) {
	taskHash := types.HashTaskContent(params.Content)

	existingId, found, err := bountyOp.GetBountyIdByTaskHash(ctx, taskHash)
	if err != nil {
		return nil, fmt.Errorf("publish: task hash lookup failed: %w", err)
	}
	if found {
		bounty, err := bountyOp.GetBounty(ctx, existingId)
		if err != nil {
			return nil, fmt.Errorf("publish: failed to load existing bounty %s: %w", existingId, err)
		}

		md, err := dataOp.GetTaskMetadata(ctx, bounty.TaskUrl)
		if err != nil {
			return nil, fmt.Errorf("publish: failed to load metadata for existing task %s: %w", bounty.TaskUrl, err)
		}

		o.logger.Infow("Publish short-circuited by existing bounty",
			"taskHash", taskHash,
			"bountyId", existingId,
			"taskUrl", bounty.TaskUrl,
		)

		return &PublishResult{
			TaskUrl:  bounty.TaskUrl,
			TaskId:   md.TaskId,
			BountyId: existingId,
			IsNew:    false,
		}, nil
	}

	md := types.TaskMetadata{}
	if params.Metadata != nil {
		md = *params.Metadata
	}
	md.TaskHash = taskHash
	md.Bounty.Amount = params.Amount
	md.Bounty.Asset = params.Asset

	uploaded, err := dataOp.UploadTaskData(ctx, params.Content, &md)
	if err != nil {
		return nil, fmt.Errorf("publish: task upload failed: %w", err)
	}

	created, err := bountyOp.CreateBounty(ctx, &bountyOperator.CreateBountyParams{
		TaskId:   uploaded.TaskId,
		TaskUrl:  uploaded.TaskUrl,
		TaskHash: taskHash,
		Amount:   params.Amount,
		Asset:    params.Asset,
	})
	if err != nil {
		// The uploaded task location stays behind with no bountyId; a retry
		// re-checks the hash, finds no ledger match and uploads again.
		return nil, fmt.Errorf("publish: bounty creation failed for task %s: %w", uploaded.TaskUrl, err)
	}

	err = dataOp.UpdateTaskMetadata(ctx, uploaded.TaskUrl, &types.TaskMetadataUpdate{
		Chain: &types.ChainMetadataUpdate{
			BountyId: types.StrPtr(created.BountyId),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("publish: metadata back-write failed for task %s: %w", uploaded.TaskUrl, err)
	}

	o.logger.Infow("Published task with bounty",
		"taskUrl", uploaded.TaskUrl,
		"bountyId", created.BountyId,
		"amount", params.Amount,
		"asset", params.Asset,
	)

	return &PublishResult{
		TaskUrl:  uploaded.TaskUrl,
		TaskId:   uploaded.TaskId,
		BountyId: created.BountyId,
		TxRef:    created.TxRef,
		IsNew:    true,
	}, nil
}

// Accept downloads the task content and accepts its bounty on the ledger.
// Bounty-side state is the source of truth for acceptance, so there is no
// metadata write-back.
func (o *Task3Operator) Accept(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
) (*AcceptResult, error) {
	bounty, _, err := o.loadBounty(ctx, bountyOp, dataOp, "accept", taskUrl)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(bounty, types.BountyStatusOpen); err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}

	downloaded, err := dataOp.DownloadTaskData(ctx, taskUrl)
	if err != nil {
		return nil, fmt.Errorf("accept: task download failed for %s: %w", taskUrl, err)
	}

	accepted, err := bountyOp.AcceptBounty(ctx, bounty.BountyId)
	if err != nil {
		return nil, fmt.Errorf("accept: ledger accept failed for bounty %s: %w", bounty.BountyId, err)
	}

	o.logger.Infow("Accepted bounty",
		"taskUrl", taskUrl,
		"bountyId", bounty.BountyId,
	)

	return &AcceptResult{
		Content:  downloaded.Content,
		LocalRef: downloaded.LocalRef,
		BountyId: bounty.BountyId,
		TxRef:    accepted.TxRef,
	}, nil
}

// Submit publishes the worker's deliverable and records its hash on the ledger
func (o *Task3Operator) Submit(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
	submission []byte,
) (*SubmitResult, error) {
	bounty, _, err := o.loadBounty(ctx, bountyOp, dataOp, "submit", taskUrl)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(bounty, types.BountyStatusAccepted); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	uploaded, err := dataOp.UploadSubmission(ctx, taskUrl, submission)
	if err != nil {
		return nil, fmt.Errorf("submit: submission upload failed for %s: %w", taskUrl, err)
	}

	submitted, err := bountyOp.SubmitBounty(ctx, bounty.BountyId, types.HashSubmission(submission))
	if err != nil {
		return nil, fmt.Errorf("submit: ledger submit failed for bounty %s: %w", bounty.BountyId, err)
	}

	err = dataOp.UpdateTaskMetadata(ctx, taskUrl, &types.TaskMetadataUpdate{
		DataLayer: &types.DataLayerMetadataUpdate{
			SubmissionUrl: types.StrPtr(uploaded.SubmissionUrl),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("submit: metadata back-write failed for %s: %w", taskUrl, err)
	}

	o.logger.Infow("Submitted deliverable",
		"taskUrl", taskUrl,
		"bountyId", bounty.BountyId,
		"submissionUrl", uploaded.SubmissionUrl,
	)

	return &SubmitResult{
		SubmissionUrl: uploaded.SubmissionUrl,
		TxRef:         submitted.TxRef,
	}, nil
}

// Confirm marks the submission as accepted by the sponsor and caches the
// ledger's confirmation times in metadata. The cooling deadline is taken
// from the ledger response, never recomputed locally, so the two systems
// cannot diverge under clock skew.
func (o *Task3Operator) Confirm(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
) (*ConfirmResult, error) {
	bounty, _, err := o.loadBounty(ctx, bountyOp, dataOp, "confirm", taskUrl)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(bounty, types.BountyStatusSubmitted); err != nil {
		return nil, fmt.Errorf("confirm: %w", err)
	}

	confirmed, err := bountyOp.ConfirmBounty(ctx, bounty.BountyId, o.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("confirm: ledger confirm failed for bounty %s: %w", bounty.BountyId, err)
	}

	err = dataOp.UpdateTaskMetadata(ctx, taskUrl, &types.TaskMetadataUpdate{
		Bounty: &types.BountyMetadataUpdate{
			ConfirmedAt:  types.Int64Ptr(confirmed.ConfirmedAt.Unix()),
			CoolingUntil: types.Int64Ptr(confirmed.CoolingUntil.Unix()),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("confirm: metadata back-write failed for %s: %w", taskUrl, err)
	}

	o.logger.Infow("Confirmed submission",
		"taskUrl", taskUrl,
		"bountyId", bounty.BountyId,
		"coolingUntil", confirmed.CoolingUntil,
	)

	return &ConfirmResult{
		TxRef:        confirmed.TxRef,
		ConfirmedAt:  confirmed.ConfirmedAt,
		CoolingUntil: confirmed.CoolingUntil,
	}, nil
}

// Claim releases the payout to the worker once the cooling period has elapsed
func (o *Task3Operator) Claim(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
) (*ClaimResult, error) {
	bounty, _, err := o.loadBounty(ctx, bountyOp, dataOp, "claim", taskUrl)
	if err != nil {
		return nil, err
	}
	if err := requireStatus(bounty, types.BountyStatusConfirmed); err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}

	now := o.now()
	if bounty.CoolingUntil != nil && now.Before(*bounty.CoolingUntil) {
		return nil, fmt.Errorf("claim: %w", &bountyOperator.CoolingPeriodError{
			BountyId:     bounty.BountyId,
			CoolingUntil: *bounty.CoolingUntil,
			Remaining:    bounty.CoolingUntil.Sub(now),
		})
	}

	claimed, err := bountyOp.ClaimPayout(ctx, bounty.BountyId)
	if err != nil {
		return nil, fmt.Errorf("claim: ledger claim failed for bounty %s: %w", bounty.BountyId, err)
	}

	o.logger.Infow("Claimed payout",
		"taskUrl", taskUrl,
		"bountyId", bounty.BountyId,
		"amount", bounty.Amount,
		"asset", bounty.Asset,
	)

	return &ClaimResult{
		TxRef:  claimed.TxRef,
		Amount: bounty.Amount,
		Asset:  bounty.Asset,
	}, nil
}

// Cancel cancels the bounty linked to a task location. Eligibility is the
// ledger's call: adapters enforce their configured cancellation policy.
func (o *Task3Operator) Cancel(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
) (*CancelResult, error) {
	bounty, _, err := o.loadBounty(ctx, bountyOp, dataOp, "cancel", taskUrl)
	if err != nil {
		return nil, err
	}

	cancelled, err := bountyOp.CancelBounty(ctx, bounty.BountyId)
	if err != nil {
		return nil, fmt.Errorf("cancel: ledger cancel failed for bounty %s: %w", bounty.BountyId, err)
	}

	o.logger.Infow("Cancelled bounty",
		"taskUrl", taskUrl,
		"bountyId", bounty.BountyId,
	)

	return &CancelResult{
		BountyId: bounty.BountyId,
		TxRef:    cancelled.TxRef,
	}, nil
}

// Status joins the stored metadata with the live bounty record. The bounty
// is nil when the task has not been published to a ledger yet.
func (o *Task3Operator) Status(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	taskUrl string,
) (*StatusResult, error) {
	md, err := dataOp.GetTaskMetadata(ctx, taskUrl)
	if err != nil {
		return nil, fmt.Errorf("status: metadata read failed for %s: %w", taskUrl, err)
	}

	result := &StatusResult{Metadata: md}
	if md.Chain.BountyId == "" {
		return result, nil
	}

	bounty, err := bountyOp.GetBounty(ctx, md.Chain.BountyId)
	if err != nil {
		return nil, fmt.Errorf("status: failed to load bounty %s: %w", md.Chain.BountyId, err)
	}
	result.Bounty = bounty
	return result, nil
}

// loadBounty resolves the task location to its linked bounty record. Every
// mutating flow starts here: the validation read always precedes the
// mutating write.
func (o *Task3Operator) loadBounty(
	ctx context.Context,
	bountyOp bountyOperator.IBountyOperator,
	dataOp dataOperator.IDataOperator,
	flow string,
	taskUrl string,
) (*types.Bounty, *types.TaskMetadata, error) {
	md, err := dataOp.GetTaskMetadata(ctx, taskUrl)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: metadata read failed for %s: %w", flow, taskUrl, err)
	}
	if md.Chain.BountyId == "" {
		return nil, nil, fmt.Errorf("%s: task %s has no linked bounty: %w", flow, taskUrl, bountyOperator.ErrNotFound)
	}

	bounty, err := bountyOp.GetBounty(ctx, md.Chain.BountyId)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to load bounty %s: %w", flow, md.Chain.BountyId, err)
	}
	return bounty, md, nil
}

func requireStatus(bounty *types.Bounty, expected types.BountyStatus) error {
	if bounty.Status != expected {
		return &bountyOperator.InvalidStateError{
			BountyId: bounty.BountyId,
			Expected: expected,
			Actual:   bounty.Status,
		}
	}
	return nil
}
