package circuitbreaker

import "time"

// State represents the circuit breaker state.
type State string

// Breaker states. Exactly one is active at any time.
const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
	StateUnknown  State = "unknown"
)

// CircuitBreaker guards a single external dependency.
type CircuitBreaker interface {
	// Call executes the operation under breaker protection. While the
	// breaker is OPEN the operation is not invoked and Call fails fast
	// with an error matching ErrOpenState.
	Call(operation func() (any, error)) (any, error)

	// Name returns the dependency name the breaker was registered under.
	Name() string

	// State returns the current state.
	State() State

	// Metrics returns a read-only snapshot of the breaker counters.
	Metrics() Metrics

	// Reset forces the breaker to CLOSED with all counters zeroed.
	// Intended for operator-driven recovery.
	Reset()
}

// Metrics is a point-in-time snapshot of a breaker's observable state.
type Metrics struct {
	Name            string    `json:"name"`
	State           State     `json:"state"`
	FailureCount    int       `json:"failure_count"`
	SuccessCount    int       `json:"success_count"`
	LastFailureTime time.Time `json:"last_failure_time"`
	LastSuccessTime time.Time `json:"last_success_time"`
	Config          Config    `json:"config"`
}

// StateChangeListener is notified when a circuit breaker changes state.
type StateChangeListener interface {
	// OnStateChange is called when a breaker transitions between states.
	// Invocations happen on dedicated goroutines and must not be assumed
	// to arrive in order.
	OnStateChange(serviceName string, from State, to State)
}
