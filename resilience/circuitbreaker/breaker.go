package circuitbreaker

import (
	"sync"
	"time"

	"github.com/LerianStudio/lib-resilience/resilience/log"
)

// breaker is the internal state machine guarding one dependency.
//
// All counter reads and writes happen under mu. The wrapped operation itself
// executes outside the lock so concurrent callers are not serialized on a
// slow dependency.
type breaker struct {
	name   string
	config Config
	logger log.Logger

	// onStateChange is invoked after every transition, outside the lock.
	onStateChange func(name string, from, to State)

	mu              sync.Mutex
	state           State
	failureCount    int
	successCount    int
	lastFailureTime time.Time
	lastSuccessTime time.Time
}

type callOutcome struct {
	value any
	err   error
}

func newBreaker(name string, config Config, logger log.Logger, onStateChange func(string, State, State)) *breaker {
	if logger == nil {
		logger = &log.NoneLogger{}
	}

	return &breaker{
		name:          name,
		config:        config.normalized(),
		logger:        logger,
		onStateChange: onStateChange,
		state:         StateClosed,
	}
}

// Name returns the dependency name.
func (b *breaker) Name() string { return b.name }

// Call executes the operation under breaker protection.
func (b *breaker) Call(operation func() (any, error)) (any, error) {
	if err := b.beforeCall(); err != nil {
		return nil, err
	}

	value, err := b.execute(operation)

	switch {
	case err == nil:
		b.recordSuccess()
		return value, nil

	case IsTimeoutError(err):
		b.recordFailure(err)
		return nil, newBreakerError(b.name, b.State(), ErrCallTimeout, nil)

	case b.config.tripping(err):
		b.recordFailure(err)
		return nil, newBreakerError(b.name, b.State(), ErrServiceFailure, err)

	default:
		// Non-tripping error: the caller's problem, not the dependency's.
		// Propagated unchanged, never counted, breaker state untouched.
		return value, err
	}
}

// beforeCall applies the fail-fast gate and the OPEN -> HALF_OPEN timed
// transition. Returns a non-nil error when the call must be rejected.
func (b *breaker) beforeCall() error {
	b.mu.Lock()

	var transition func()

	if b.state == StateOpen {
		if time.Since(b.lastFailureTime) >= b.config.RecoveryTimeout {
			transition = b.toHalfOpenLocked()
		} else {
			state := b.state
			b.mu.Unlock()

			return newBreakerError(b.name, state, ErrOpenState, nil)
		}
	}

	b.mu.Unlock()

	if transition != nil {
		transition()
	}

	return nil
}

// execute runs the operation under the configured call timeout. The
// operation itself is not cancelled on timeout; the result of a late
// completion is discarded.
func (b *breaker) execute(operation func() (any, error)) (any, error) {
	if b.config.CallTimeout <= 0 {
		return operation()
	}

	done := make(chan callOutcome, 1)

	go func() {
		value, err := operation()
		done <- callOutcome{value: value, err: err}
	}()

	timer := time.NewTimer(b.config.CallTimeout)
	defer timer.Stop()

	select {
	case outcome := <-done:
		return outcome.value, outcome.err
	case <-timer.C:
		return nil, ErrCallTimeout
	}
}

func (b *breaker) recordSuccess() {
	b.mu.Lock()

	b.lastSuccessTime = time.Now()

	var transition func()

	switch b.state {
	case StateHalfOpen:
		b.successCount++
		b.logger.Debugf("circuit breaker [%s] success in HALF_OPEN: %d/%d",
			b.name, b.successCount, b.config.SuccessThreshold)

		if b.successCount >= b.config.SuccessThreshold {
			transition = b.toClosedLocked()
		}
	case StateClosed:
		b.failureCount = 0
	}

	b.mu.Unlock()

	if transition != nil {
		transition()
	}
}

func (b *breaker) recordFailure(cause error) {
	b.mu.Lock()

	b.failureCount++
	b.lastFailureTime = time.Now()

	b.logger.Warnf("circuit breaker [%s] failure #%d: %v", b.name, b.failureCount, cause)

	var transition func()

	switch b.state {
	case StateHalfOpen:
		// A single failed probe reopens the circuit.
		transition = b.toOpenLocked()
	case StateClosed:
		if b.failureCount >= b.config.FailureThreshold {
			transition = b.toOpenLocked()
		}
	}

	b.mu.Unlock()

	if transition != nil {
		transition()
	}
}

// toHalfOpenLocked prepares the HALF_OPEN transition and returns the
// deferred notification to run after mu is released.
func (b *breaker) toHalfOpenLocked() func() {
	from := b.state
	b.state = StateHalfOpen
	b.successCount = 0

	return func() {
		b.logger.Infof("circuit breaker [%s] HALF_OPEN - testing recovery", b.name)
		b.notify(from, StateHalfOpen)
	}
}

// toOpenLocked prepares the OPEN transition and returns the deferred
// notification to run after mu is released.
func (b *breaker) toOpenLocked() func() {
	from := b.state
	b.state = StateOpen
	b.successCount = 0
	b.lastFailureTime = time.Now()

	failures := b.failureCount

	return func() {
		b.logger.Errorf("circuit breaker [%s] OPEN after %d failures - requests will fast-fail",
			b.name, failures)
		b.notify(from, StateOpen)
	}
}

// toClosedLocked prepares the CLOSED transition and returns the deferred
// notification to run after mu is released.
func (b *breaker) toClosedLocked() func() {
	from := b.state
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0

	return func() {
		b.logger.Infof("circuit breaker [%s] CLOSED - service is healthy", b.name)
		b.notify(from, StateClosed)
	}
}

func (b *breaker) notify(from, to State) {
	if b.onStateChange != nil && from != to {
		b.onStateChange(b.name, from, to)
	}
}

// State returns the current state.
func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Metrics returns a read-only snapshot of the breaker counters.
func (b *breaker) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Metrics{
		Name:            b.name,
		State:           b.state,
		FailureCount:    b.failureCount,
		SuccessCount:    b.successCount,
		LastFailureTime: b.lastFailureTime,
		LastSuccessTime: b.lastSuccessTime,
		Config:          b.config,
	}
}

// Reset forces the breaker to CLOSED with all counters zeroed.
func (b *breaker) Reset() {
	b.mu.Lock()

	from := b.state
	b.state = StateClosed
	b.failureCount = 0
	b.successCount = 0
	b.lastFailureTime = time.Time{}
	b.lastSuccessTime = time.Time{}

	b.mu.Unlock()

	b.logger.Infof("circuit breaker [%s] manually reset to CLOSED", b.name)

	if from != StateClosed {
		b.notify(from, StateClosed)
	}
}
