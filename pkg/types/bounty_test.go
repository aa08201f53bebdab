package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ValidateStatusTransition(t *testing.T) {
	openOnly := []BountyStatus{BountyStatusOpen}

	valid := []struct {
		from BountyStatus
		to   BountyStatus
	}{
		{BountyStatusOpen, BountyStatusAccepted},
		{BountyStatusOpen, BountyStatusCancelled},
		{BountyStatusAccepted, BountyStatusSubmitted},
		{BountyStatusSubmitted, BountyStatusConfirmed},
		{BountyStatusConfirmed, BountyStatusClaimed},
	}
	for _, tc := range valid {
		assert.NoError(t, ValidateStatusTransition(tc.from, tc.to, openOnly), "%s -> %s", tc.from, tc.to)
	}

	invalid := []struct {
		from BountyStatus
		to   BountyStatus
	}{
		{BountyStatusOpen, BountyStatusSubmitted},
		{BountyStatusOpen, BountyStatusClaimed},
		{BountyStatusAccepted, BountyStatusCancelled},
		{BountyStatusAccepted, BountyStatusClaimed},
		{BountyStatusSubmitted, BountyStatusAccepted},
		{BountyStatusConfirmed, BountyStatusOpen},
		{BountyStatusClaimed, BountyStatusOpen},
		{BountyStatusCancelled, BountyStatusOpen},
	}
	for _, tc := range invalid {
		assert.Error(t, ValidateStatusTransition(tc.from, tc.to, openOnly), "%s -> %s", tc.from, tc.to)
	}

	assert.Error(t, ValidateStatusTransition(BountyStatus("Bogus"), BountyStatusOpen, openOnly))
}

func Test_ValidateStatusTransition_CancellableFrom(t *testing.T) {
	beforeSubmission := []BountyStatus{BountyStatusOpen, BountyStatusAccepted}

	assert.NoError(t, ValidateStatusTransition(BountyStatusAccepted, BountyStatusCancelled, beforeSubmission))
	assert.Error(t, ValidateStatusTransition(BountyStatusSubmitted, BountyStatusCancelled, beforeSubmission))

	// An empty set means nothing is cancellable.
	assert.Error(t, ValidateStatusTransition(BountyStatusOpen, BountyStatusCancelled, nil))
	// The forward path is unaffected by the cancellable set.
	assert.NoError(t, ValidateStatusTransition(BountyStatusOpen, BountyStatusAccepted, nil))
}
