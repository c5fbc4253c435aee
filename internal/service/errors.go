package service

import "errors"

var (
	// ErrQueueFull is surfaced synchronously to the submitter when the
	// pending-feedback queue is at capacity. Retry later.
	ErrQueueFull = errors.New("feedback queue is full")

	// ErrDuplicateFeedback rejects a second submission by the same
	// submitter for the same driver on the same calendar date.
	ErrDuplicateFeedback = errors.New("duplicate feedback submission")

	// ErrDriverNotFound reports a missing or concurrently deleted driver
	// aggregate during a score update.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrStorageFailure wraps unexpected storage-layer errors.
	ErrStorageFailure = errors.New("storage failure")
)
