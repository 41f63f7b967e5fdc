package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	// ErrScheduleUnavailable marks a schedule fetch that exhausted its attempts
	ErrScheduleUnavailable = errors.New("schedule unavailable")

	// ErrUnexpectedStatus marks a response outside the 2xx range
	ErrUnexpectedStatus = errors.New("unexpected status")

	errTransport = errors.New("transport failure")
)

// StatusError carries the status of a non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

func newStatusError(resp *http.Response) error {
	return errors.Mark(&StatusError{StatusCode: resp.StatusCode, Status: resp.Status}, ErrUnexpectedStatus)
}

// IsRetryable reports whether err looks transient: 5xx, 429, timeouts and transport failures.
// Caller cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}

	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, errTransport)
}
