package controls

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Failure kinds. Every helper failure is an *AssertionError whose Kind is one of these.
var (
	ErrNotFound      = errors.New("not found")
	ErrMismatch      = errors.New("mismatch")
	ErrStateMismatch = errors.New("state mismatch")
	ErrTimeout       = errors.New("timeout")
)

// AssertionError describes a failed check. errors.Is matches both Kind and Cause.
type AssertionError struct {
	Kind      error
	Operation string
	Target    string
	Check     string
	Expected  string
	Actual    string
	Elapsed   time.Duration
	Cause     error
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	if e.Operation != "" {
		b.WriteString(e.Operation)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%v", e.Kind)
	if e.Check != "" {
		fmt.Fprintf(&b, " (%s)", e.Check)
	}
	if e.Target != "" {
		fmt.Fprintf(&b, " on %s", e.Target)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, ": expected %q, got %q", e.Expected, e.Actual)
	}
	if e.Elapsed > 0 {
		fmt.Fprintf(&b, " after %v", e.Elapsed.Round(time.Millisecond))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// KindName returns the failure kind of err as a short name, or "" when err is not an assertion failure
func KindName(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrStateMismatch):
		return "StateMismatch"
	case errors.Is(err, ErrMismatch):
		return "Mismatch"
	}
	return ""
}

// asTimeout turns a failed bounded wait into a Timeout, keeping the underlying failure as cause
func asTimeout(err error) error {
	var ae *AssertionError
	if !errors.As(err, &ae) || errors.Is(ae.Kind, ErrTimeout) {
		return err
	}
	out := *ae
	out.Kind = ErrTimeout
	if ae.Cause != nil {
		out.Cause = fmt.Errorf("%w: %w", ae.Kind, ae.Cause)
	} else {
		out.Cause = ae.Kind
	}
	return &out
}

func notFound(target, check string) *AssertionError {
	return &AssertionError{Kind: ErrNotFound, Target: target, Check: check}
}
