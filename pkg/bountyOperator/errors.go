package bountyOperator

import (
	"errors"
	"fmt"
	"time"

	"github.com/task3-labs/task3-go/pkg/types"
)

var (
	// ErrNotFound is returned when a referenced bounty does not exist
	ErrNotFound = errors.New("bounty not found")

	// ErrInvalidState is returned when the bounty's current status does not
	// permit the requested transition
	ErrInvalidState = errors.New("invalid bounty state")

	// ErrCoolingPeriodActive is returned when a payout claim arrives before
	// the cooling period has elapsed
	ErrCoolingPeriodActive = errors.New("cooling period active")

	// ErrUnauthorized is returned when the caller is not the expected
	// sponsor or worker for a role-restricted operation
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTransient is returned for network or ledger failures with no state
	// change observed
	ErrTransient = errors.New("transient ledger failure")
)

// InvalidStateError reports the expected versus actual bounty status for a
// rejected transition. It matches ErrInvalidState under errors.Is.
type InvalidStateError struct {
	BountyId string
	Expected types.BountyStatus
	Actual   types.BountyStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid bounty state: bounty %s is %s, expected %s", e.BountyId, e.Actual, e.Expected)
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// CoolingPeriodError reports how long a claim must still wait. It matches
// ErrCoolingPeriodActive under errors.Is.
type CoolingPeriodError struct {
	BountyId     string
	CoolingUntil time.Time
	Remaining    time.Duration
}

func (e *CoolingPeriodError) Error() string {
	return fmt.Sprintf("cooling period active: bounty %s claimable in %ds (at %s)",
		e.BountyId, int64(e.Remaining.Seconds()), e.CoolingUntil.UTC().Format(time.RFC3339))
}

func (e *CoolingPeriodError) Is(target error) bool {
	return target == ErrCoolingPeriodActive
}
