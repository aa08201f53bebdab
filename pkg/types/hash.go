package types

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashTaskContent computes the idempotency key for a task payload. The hash
// covers the raw content bytes only; chain.bountyId is a deferred field and
// is never part of the input, which breaks the metadata/bounty write cycle.
func HashTaskContent(content []byte) string {
	sum := sha256.Sum256(content)
	return "0x" + hex.EncodeToString(sum[:])
}

// HashSubmission computes the on-chain submission reference for a deliverable
func HashSubmission(submission []byte) string {
	return HashTaskContent(submission)
}
