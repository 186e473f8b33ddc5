package circuitbreaker

import (
	"errors"
	"time"
)

// ErrInvalidConfig indicates a config field is out of range.
var ErrInvalidConfig = errors.New("circuitbreaker: invalid config")

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of counted failures that opens the
	// circuit while CLOSED.
	FailureThreshold int `json:"failure_threshold"`

	// RecoveryTimeout is how long an OPEN breaker rejects calls before the
	// next call is allowed through as a HALF_OPEN probe.
	RecoveryTimeout time.Duration `json:"recovery_timeout"`

	// SuccessThreshold is the number of successes in HALF_OPEN required to
	// close the circuit.
	SuccessThreshold int `json:"success_threshold"`

	// CallTimeout is the hard deadline applied to each wrapped operation.
	// Zero disables the deadline.
	CallTimeout time.Duration `json:"call_timeout"`

	// IsTrippingError classifies which operation errors count against the
	// breaker. Errors it rejects are propagated unchanged and do not affect
	// breaker state. Nil means every error trips.
	IsTrippingError func(error) bool `json:"-"`
}

// Validate checks that all thresholds and windows are usable.
func (c Config) Validate() error {
	if c.FailureThreshold <= 0 {
		return errors.New("circuitbreaker: failure threshold must be positive")
	}

	if c.SuccessThreshold <= 0 {
		return errors.New("circuitbreaker: success threshold must be positive")
	}

	if c.RecoveryTimeout <= 0 {
		return errors.New("circuitbreaker: recovery timeout must be positive")
	}

	if c.CallTimeout < 0 {
		return errors.New("circuitbreaker: call timeout cannot be negative")
	}

	return nil
}

// normalized fills zero fields from DefaultConfig so a partially specified
// config behaves sensibly. First caller's config wins at the registry level;
// normalization only patches holes.
func (c Config) normalized() Config {
	def := DefaultConfig()

	if c.FailureThreshold <= 0 {
		c.FailureThreshold = def.FailureThreshold
	}

	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = def.SuccessThreshold
	}

	if c.RecoveryTimeout <= 0 {
		c.RecoveryTimeout = def.RecoveryTimeout
	}

	if c.CallTimeout < 0 {
		c.CallTimeout = def.CallTimeout
	}

	return c
}

// tripping reports whether err counts against the breaker.
func (c Config) tripping(err error) bool {
	if c.IsTrippingError == nil {
		return true
	}

	return c.IsTrippingError(err)
}

// DefaultConfig provides balanced settings for most services.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 3,
		CallTimeout:      30 * time.Second,
	}
}

// AggressiveConfig for services requiring fast failure detection.
func AggressiveConfig() Config {
	return Config{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
		SuccessThreshold: 2,
		CallTimeout:      15 * time.Second,
	}
}

// ConservativeConfig for services that should tolerate more failures.
func ConservativeConfig() Config {
	return Config{
		FailureThreshold: 10,
		RecoveryTimeout:  2 * time.Minute,
		SuccessThreshold: 5,
		CallTimeout:      60 * time.Second,
	}
}

// HTTPServiceConfig optimized for external HTTP APIs: faster failure
// detection with a timeout suitable for request/response calls.
func HTTPServiceConfig() Config {
	return Config{
		FailureThreshold: 5,
		RecoveryTimeout:  20 * time.Second,
		SuccessThreshold: 3,
		CallTimeout:      10 * time.Second,
	}
}
