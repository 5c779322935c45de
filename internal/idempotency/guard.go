package idempotency

import (
	"context"
	"time"
)

// Guard claims processing keys so that each external event is handled
// at most once within the claim TTL. Claim must be atomic: when two
// goroutines race on the same key, exactly one receives true.
type Guard interface {
	// Claim attempts to mark key as being processed. It returns true
	// when the caller won the claim and false when the key was already
	// claimed by an earlier delivery.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release removes a claim so a later delivery can retry the event.
	// Used when processing failed after the claim was taken.
	Release(ctx context.Context, key string) error
}
