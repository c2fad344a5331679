package adapter

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// AdapterError carries the HTTP status and retry classification of a
// failed provider call. Callers decide what to do with a failure;
// IsTransient answers whether trying again is worthwhile.
type AdapterError struct {
	Status    int
	Temporary bool
	Err       error
}

func (e *AdapterError) Error() string {
	switch {
	case e == nil:
		return "adapter error"
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("adapter error (status=%d)", e.Status)
	}
}

func (e *AdapterError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTransient reports whether a failed call may succeed on retry. Rate
// limits, provider 5xx responses, deadline expiry and network timeouts
// count as transient. An explicit cancellation never does.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var ae *AdapterError
	if !errors.As(err, &ae) {
		return false
	}
	return ae.Temporary || ae.Status == 429 || (ae.Status >= 500 && ae.Status <= 599)
}
