package grid

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectionSuperseded is returned by SelectTable when a newer selection
	// was started while the fetch was in flight. The response is discarded.
	ErrSelectionSuperseded = errors.New("table selection superseded by a newer selection")
	// ErrNoTableSelected is returned by row operations while no table is active.
	ErrNoTableSelected = errors.New("no table selected")
)

// NetworkError reports a transport failure, a 5xx response or an
// undecodable success body.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: network error (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError reports a row the backend rejected, e.g. a duplicate or empty id.
type ValidationError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: validation error (status %d): %s", e.Op, e.StatusCode, e.Message)
}

// NotFoundError reports that the addressed row or table does not exist.
type NotFoundError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found: %s", e.Op, e.Message)
}
