package fetch

import (
	"context"
	"errors"
	"fmt"
)

// FailureKind tags why an attempt produced no usable payload. All kinds
// except FailureCanceled are retried the same way.
type FailureKind int

const (
	FailureNetwork FailureKind = iota + 1
	FailureStatus
	FailureMalformed
	FailureEmpty
	FailureCanceled
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureStatus:
		return "status"
	case FailureMalformed:
		return "malformed"
	case FailureEmpty:
		return "empty"
	case FailureCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

type FetchError struct {
	Kind   FailureKind
	Status int // HTTP status for FailureStatus, 0 otherwise
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func Fail(kind FailureKind, err error) *FetchError {
	return &FetchError{Kind: kind, Err: err}
}

func Failf(kind FailureKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Empty reports a well-formed response that carried nothing to show.
func Empty(what string) *FetchError {
	return Failf(FailureEmpty, "no %s in response", what)
}

// Classify maps an arbitrary error onto a *FetchError. Errors that are not
// already tagged count as network failures.
func Classify(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Fail(FailureCanceled, err)
	}
	return Fail(FailureNetwork, err)
}

// Result is the outcome of one retried fetch: either a payload or the last
// observed failure.
type Result[T any] struct {
	Payload  T
	Attempts int
	Err      *FetchError
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Reason returns the failure description, or "" on success.
func (r Result[T]) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
