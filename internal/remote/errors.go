package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error represents a failed call to the workflow service.
type Error struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("remote %s%s: %s: %v", e.Endpoint, status, e.Message, e.Cause)
	}
	return fmt.Sprintf("remote %s%s: %s", e.Endpoint, status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Timeout reports whether the call exceeded its deadline.
func (e *Error) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Cause, &netErr) && netErr.Timeout()
}

// IsTimeout reports whether err is a remote timeout.
func IsTimeout(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Timeout()
}
