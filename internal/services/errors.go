package services

import "errors"

var (
	// ErrValidationFailed rejects a selection before any network call.
	ErrValidationFailed = errors.New("validation failed")

	// ErrTransferFailed marks a file upload that failed after the retry budget.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrStorageUnavailable marks signed-url, move, or remove calls failing
	// after retry exhaustion.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCleanupFailed marks a discard or expiry removal that did not fully
	// succeed.
	ErrCleanupFailed = errors.New("cleanup failed")

	// ErrCommitFailed marks a commit whose moves or registration failed; the
	// staged and moved objects have been cleaned up best-effort.
	ErrCommitFailed = errors.New("commit failed")

	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftBusy     = errors.New("draft operation already in progress")
)
