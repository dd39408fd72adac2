// Package common defines shared sentinel errors used across the mediavault
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrTransactionFailure = errors.New("transaction failure")

	// Remote client errors. Conflict and Unprocessable are the only
	// retryable classes: both mean the write raced a concurrent branch
	// update and must be retried from a fresh branch head.
	ErrConfigurationMissing = errors.New("configuration missing")
	ErrConflict             = errors.New("conflict")
	ErrUnprocessable        = errors.New("unprocessable")
	ErrNetwork              = errors.New("network error")
	ErrRemote               = errors.New("remote error")
)

// IsRetryable reports whether err belongs to a conflict-class failure that
// may succeed after re-resolving the branch head.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrUnprocessable)
}
