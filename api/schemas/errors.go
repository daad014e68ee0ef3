package schemas

import (
	"errors"
	"fmt"
)

// ErrElementAbsent is returned by Page.Find when the bounded presence probe
// completed without locating an element. It distinguishes "not there yet"
// from a broken page.
var ErrElementAbsent = errors.New("element absent")

// ErrEmptyRun is returned when a report is requested over zero scenario
// results; no meaningful success rate exists for an empty run.
var ErrEmptyRun = errors.New("cannot aggregate an empty run")

// ElementNotFoundError is the terminal resolution failure: every candidate
// selector and both direct fallbacks missed within their timeouts.
type ElementNotFoundError struct {
	Role       ElementRole
	Candidates int
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("could not locate %s element after %d candidates and fallbacks", e.Role, e.Candidates)
}

// InteractionError wraps a clear/type/click failure on an already resolved
// handle.
type InteractionError struct {
	Role  ElementRole
	Cause error
}

func (e *InteractionError) Error() string {
	return fmt.Sprintf("interaction with %s element failed: %v", e.Role, e.Cause)
}

func (e *InteractionError) Unwrap() error { return e.Cause }

// NavigationError wraps a failure to load the target URL.
type NavigationError struct {
	URL   string
	Cause error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Cause)
}

func (e *NavigationError) Unwrap() error { return e.Cause }
