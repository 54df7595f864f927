package domain

import "errors"

// Store error taxonomy. Reads that fail with ErrUnauthorized are fatal for
// the session; everything else degrades to last-known-good aggregates.
var (
	// ErrConnection means the record store is unreachable for a read.
	ErrConnection = errors.New("record store unreachable")

	// ErrSubscription means the change-notification stream failed to
	// establish or dropped. Aggregates stay computable but will not
	// auto-refresh.
	ErrSubscription = errors.New("change subscription unavailable")

	// ErrUnauthorized means the store rejected the session credential.
	ErrUnauthorized = errors.New("record store rejected credentials")

	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
)
