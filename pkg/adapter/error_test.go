package adapter

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// timeoutErr satisfies net.Error with Timeout() == true.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"cancellation", context.Canceled, false},
		{"network timeout", timeoutErr{}, true},
		{"rate limited", &AdapterError{Status: 429}, true},
		{"server error", &AdapterError{Status: 503}, true},
		{"bad request", &AdapterError{Status: 400}, false},
		{"not found", &AdapterError{Status: 404}, false},
		{"temporary flag", &AdapterError{Status: 404, Temporary: true}, true},
		{"wrapped server error", fmt.Errorf("call failed: %w", &AdapterError{Status: 500}), true},
		{"wrapped cancellation", fmt.Errorf("call failed: %w", context.Canceled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestAdapterErrorMessage(t *testing.T) {
	withCause := &AdapterError{Status: 502, Err: errors.New("bad gateway")}
	if withCause.Error() != "bad gateway" {
		t.Errorf("Error() = %q, want the wrapped cause", withCause.Error())
	}
	bare := &AdapterError{Status: 429}
	if bare.Error() != "adapter error (status=429)" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestAdapterErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("deepseek call: %w", &AdapterError{Status: 500, Err: cause})
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable through Unwrap")
	}
	var ae *AdapterError
	if !errors.As(err, &ae) || ae.Status != 500 {
		t.Errorf("errors.As failed: %+v", ae)
	}
}
