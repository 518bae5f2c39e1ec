package scribe

import (
	"errors"
	"fmt"
)

var (
	// ErrWaitTimeout is returned by Page waits when the condition never held.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrNavigationTimeout means the search produced no results. It aborts the run.
	ErrNavigationTimeout = errors.New("search results did not load")

	ErrInvalidMaxResults     = errors.New("max results must be at least 1")
	ErrConsentDismiss        = errors.New("consent overlay not dismissed")
	ErrVideoProcessing       = errors.New("video processing failed")
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)

// ConsentError is advisory; the pipeline logs it and carries on.
type ConsentError struct {
	Err error
}

func (e *ConsentError) Error() string {
	return fmt.Sprintf("%v: %v", ErrConsentDismiss, e.Err)
}

func (e *ConsentError) Unwrap() []error { return []error{ErrConsentDismiss, e.Err} }

// VideoError records a result that was skipped.
type VideoError struct {
	Index int
	Err   error
}

func (e *VideoError) Error() string {
	return fmt.Sprintf("result %d: %v: %v", e.Index, ErrVideoProcessing, e.Err)
}

func (e *VideoError) Unwrap() []error { return []error{ErrVideoProcessing, e.Err} }

// TransitionError is a failed step of the transcript state machine.
type TransitionError struct {
	From TranscriptState
	To   TranscriptState
	Err  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s -> %s: %v", ErrTranscriptUnavailable, e.From, e.To, e.Err)
}

func (e *TransitionError) Unwrap() []error { return []error{ErrTranscriptUnavailable, e.Err} }
