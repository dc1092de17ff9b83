package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the event search yields no events.
var ErrNotFound = errors.New("no events found")

// TransportError reports a request that could not complete or a body that
// could not be read in full.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a body that is not valid JSON or does not match the
// expected shape.
type DecodeError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error for %s: %v", e.URL, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError reports a response with a non-2xx status code.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	ErrorClass ErrorClass
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("eventbrite %s error (status %d) for %s: %s",
		e.ErrorClass, e.StatusCode, e.URL, e.Status)
}

// classOf maps an error returned by GetJSON to its ErrorClass.
func classOf(err error) ErrorClass {
	var (
		transportErr *TransportError
		decodeErr    *DecodeError
		statusErr    *StatusError
	)
	switch {
	case errors.As(err, &transportErr):
		return ErrorClassNetwork
	case errors.As(err, &decodeErr):
		return ErrorClassDecode
	case errors.As(err, &statusErr):
		return statusErr.ErrorClass
	default:
		return ""
	}
}
