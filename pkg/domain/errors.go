package domain

import (
	"errors"
	"fmt"
)

// Guard failure reasons. Match them with errors.Is against a *GuardViolation.
var (
	// ErrBusy is returned when an intent arrives while a request is in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrEmptyAnswer is returned when an answer is blank after trimming.
	ErrEmptyAnswer = errors.New("answer is empty")

	// ErrNoQuestion is returned when an action needs a question and none is held.
	ErrNoQuestion = errors.New("no question to answer")

	// ErrIllegalTransition is returned when the event is not accepted in the current status.
	ErrIllegalTransition = errors.New("illegal transition")
)

// ErrNoRecorder is returned when a session save is requested without a sessions endpoint client.
var ErrNoRecorder = errors.New("no session recorder configured")

// GuardViolation reports an event rejected by a transition guard.
// It never changes state and is never shown to the user.
type GuardViolation struct {
	Event  EventType
	Status Status
	Reason error
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("%s rejected in %s: %v", e.Event, e.Status, e.Reason)
}

func (e *GuardViolation) Unwrap() error {
	return e.Reason
}

// IsGuardViolation reports whether err is (or wraps) a *GuardViolation.
func IsGuardViolation(err error) bool {
	var gv *GuardViolation
	return errors.As(err, &gv)
}

// TransportError is the only error type returned across the transport boundary.
// It covers network failures, non-2xx responses and malformed bodies.
type TransportError struct {
	// Endpoint is the relative endpoint path (e.g. "generate-question/").
	Endpoint string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int

	// Message is a human-readable description of the failure.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
