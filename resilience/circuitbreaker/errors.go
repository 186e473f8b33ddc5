package circuitbreaker

import (
	"errors"
	"fmt"
)

var (
	// ErrOpenState indicates the breaker is OPEN and the call was rejected
	// without invoking the operation.
	ErrOpenState = errors.New("circuit breaker is open")

	// ErrCallTimeout indicates the operation exceeded the configured call
	// timeout. Counted as a dependency failure.
	ErrCallTimeout = errors.New("circuit breaker call timed out")

	// ErrServiceFailure indicates the operation returned a tripping error.
	// Counted as a dependency failure.
	ErrServiceFailure = errors.New("circuit breaker service failure")
)

// BreakerError is the error type returned for breaker-attributable failures:
// fail-fast rejections, call timeouts, and tripping dependency errors.
// Non-tripping errors from the operation are propagated unchanged and never
// wrapped.
type BreakerError struct {
	Service string
	State   State

	kind  error
	cause error
}

// Error returns the formatted breaker failure message.
func (e *BreakerError) Error() string {
	if e == nil {
		return "circuit breaker error"
	}

	if e.cause != nil {
		return fmt.Sprintf("circuit breaker [%s] (%s): %v: %v", e.Service, e.State, e.kind, e.cause)
	}

	return fmt.Sprintf("circuit breaker [%s] (%s): %v", e.Service, e.State, e.kind)
}

// Unwrap exposes both the breaker classification sentinel and the underlying
// operation error (when present) to errors.Is / errors.As.
func (e *BreakerError) Unwrap() []error {
	if e == nil {
		return nil
	}

	if e.cause != nil {
		return []error{e.kind, e.cause}
	}

	return []error{e.kind}
}

func newBreakerError(service string, state State, kind, cause error) *BreakerError {
	return &BreakerError{Service: service, State: state, kind: kind, cause: cause}
}

// IsOpenError reports whether err is a fail-fast rejection from an OPEN
// breaker.
func IsOpenError(err error) bool {
	return errors.Is(err, ErrOpenState)
}

// IsTimeoutError reports whether err is a breaker call timeout.
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrCallTimeout)
}
