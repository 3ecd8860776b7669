package fetch

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError through errors.Is.
var ErrNotFound = errors.New("resource not found")

// NotFoundError reports that the remote resource is absent. It is an
// expected outcome, not a failure.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	if e.URL == "" {
		return ErrNotFound.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNotFound.Error(), e.URL)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// TransportError is a network failure or an unexpected HTTP status.
// Error returns the lowest-level diagnostic available: the underlying
// cause, the detail sent by the remote, or the status line.
type TransportError struct {
	URL    string
	Status int
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil:
		return e.Err.Error()
	case e.Detail != "":
		return e.Detail
	default:
		return fmt.Sprintf("HTTP status %d for url (%s)", e.Status, e.URL)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError is malformed content: bad JSON, an empty post file, markup
// that fails to render.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "invalid " + e.What
	}
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Outcome maps a loader error onto the state it produces. A missing
// resource is NotFound, or an empty Complete for list resources; everything
// else is Failed with the error text.
func Outcome(err error, list bool) State {
	switch {
	case err == nil:
		return State{Stage: Complete}
	case errors.Is(err, ErrNotFound):
		if list {
			return State{Stage: Complete}
		}
		return State{Stage: NotFound}
	default:
		return Error(err.Error())
	}
}
