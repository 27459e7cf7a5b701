package session

import (
	"fmt"
	"time"
)

// LaunchError means the environment cannot produce a browser session at all
// (no compatible browser runtime, no network to the DevTools endpoint).
// Never retriable: a second attempt launches into the same environment.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot establish browser session: %v", e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// TimeoutError means the remote service did not produce a response within the
// configured wait. Retriable.
type TimeoutError struct {
	Op   string
	Wait time.Duration
	Err  error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Wait, e.Op)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ElementNotFoundError means an expected element never appeared in the page,
// which usually signals the remote layout has changed. Retriable, since slow
// renders are indistinguishable from missing structure.
type ElementNotFoundError struct {
	Selector string
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("expected element %q not found in page", e.Selector)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }
