package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrTransientFetch aborts a cycle before anything is written; the next
	// scheduled pass retries.
	ErrTransientFetch = errors.New("transient fetch failure")
	// ErrNonCriticalSubsystem marks a failure that is logged and swallowed.
	ErrNonCriticalSubsystem = errors.New("non-critical subsystem failure")
	ErrCycleInProgress      = errors.New("sync cycle already in progress")
)
