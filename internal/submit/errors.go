package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var errNoResult = errors.New("no result")

// ErrOffline is wrapped by the Offline submitter.
var ErrOffline = errors.New("no server configured")

func errMissingScore(path string) error {
	return fmt.Errorf("no numeric score at %q", path)
}

// ErrUnavailable indicates the backend could not be reached or answered
// with a server error. It is the only retryable error.
type ErrUnavailable struct {
	Endpoint string
	Status   int // 0 for transport failures
	Err      error
}

func (e *ErrUnavailable) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server unavailable (%s: HTTP %d): %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("server unavailable (%s): %v", e.Endpoint, e.Err)
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrRejected indicates the backend refused the payload (4xx).
type ErrRejected struct {
	Endpoint string
	Status   int
	Body     string
	Err      error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("submission rejected (%s: HTTP %d): %s", e.Endpoint, e.Status, e.Body)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates a 2xx response whose body could not be
// trusted.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid server response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var unavail *ErrUnavailable
	return errors.As(err, &unavail)
}
