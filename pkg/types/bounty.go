package types

import (
	"fmt"
	"time"
)

// BountyStatus represents the lifecycle state of a bounty on the ledger
type BountyStatus string

const (
	BountyStatusOpen      BountyStatus = "Open"
	BountyStatusAccepted  BountyStatus = "Accepted"
	BountyStatusSubmitted BountyStatus = "Submitted"
	BountyStatusConfirmed BountyStatus = "Confirmed"
	BountyStatusClaimed   BountyStatus = "Claimed"
	BountyStatusCancelled BountyStatus = "Cancelled"
)

// Bounty is the on-chain escrow record tracking a task's reward and lifecycle.
// The ledger owns it; the engine only reads and transitions it through a
// bounty operator.
type Bounty struct {
	BountyId string
	TaskId   string
	TaskUrl  string
	TaskHash string
	Sponsor  string
	Worker   string
	Amount   string
	Asset    string
	Status   BountyStatus

	CreatedAt    time.Time
	AcceptedAt   *time.Time
	SubmittedAt  *time.Time
	ConfirmedAt  *time.Time
	ClaimedAt    *time.Time
	CoolingUntil *time.Time
}

// ValidateStatusTransition checks that moving a bounty from one status to
// another follows the lifecycle state machine. The forward path is fixed;
// which statuses may move to Cancelled is owned by the ledger's cancel
// policy and supplied as cancellableFrom.
func ValidateStatusTransition(from, to BountyStatus, cancellableFrom []BountyStatus) error {
	validTransitions := map[BountyStatus][]BountyStatus{
		BountyStatusOpen:      {BountyStatusAccepted},
		BountyStatusAccepted:  {BountyStatusSubmitted},
		BountyStatusSubmitted: {BountyStatusConfirmed},
		BountyStatusConfirmed: {BountyStatusClaimed},
		BountyStatusClaimed:   {}, // Terminal state
		BountyStatusCancelled: {}, // Terminal state
	}
	for _, status := range cancellableFrom {
		validTransitions[status] = append(validTransitions[status], BountyStatusCancelled)
	}

	allowedTransitions, exists := validTransitions[from]
	if !exists {
		return fmt.Errorf("unknown bounty status %s", from)
	}

	for _, allowed := range allowedTransitions {
		if allowed == to {
			return nil
		}
	}

	return fmt.Errorf("cannot transition bounty from %s to %s", from, to)
}
