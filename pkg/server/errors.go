package server

import "fmt"

// BindError reports a listener that could not be set up.
type BindError struct {
	Addr string
	Err  error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s: %v", e.Addr, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *BindError) Unwrap() error {
	return e.Err
}

// ConnError reports a read or write failure on a single connection.
// It is only ever logged; it never reaches the accept loop.
type ConnError struct {
	ConnID string
	Op     string
	Err    error
}

// Error implements the error interface.
func (e *ConnError) Error() string {
	return fmt.Sprintf("connection %s: %s: %v", e.ConnID, e.Op, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConnError) Unwrap() error {
	return e.Err
}
