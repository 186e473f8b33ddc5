package circuitbreaker

import (
	"fmt"
	"sync"

	"github.com/LerianStudio/lib-resilience/resilience/log"
)

// Manager is a keyed, idempotent registry of circuit breakers, one per
// named external dependency, with aggregate health reporting.
type Manager interface {
	// GetOrCreate returns the existing breaker for serviceName or creates
	// one with the given config. The first caller's config wins for the
	// registry's lifetime.
	GetOrCreate(serviceName string, config Config) CircuitBreaker

	// Get returns the breaker registered under serviceName, if any.
	Get(serviceName string) (CircuitBreaker, bool)

	// Execute runs fn through the breaker registered under serviceName.
	Execute(serviceName string, fn func() (any, error)) (any, error)

	// GetState returns the current state, or StateUnknown when the service
	// is not registered.
	GetState(serviceName string) State

	// IsHealthy returns true when the breaker exists and is CLOSED.
	IsHealthy(serviceName string) bool

	// Snapshot returns metrics for every registered breaker.
	Snapshot() map[string]Metrics

	// UnhealthyServices returns the names currently OPEN or HALF_OPEN with
	// a human-readable reason.
	UnhealthyServices() map[string]string

	// Reset forces the named breaker to CLOSED with zeroed counters.
	Reset(serviceName string)

	// ResetAll resets every registered breaker.
	ResetAll()

	// RegisterStateChangeListener registers a listener notified on every
	// breaker state transition.
	RegisterStateChangeListener(listener StateChangeListener)
}

type manager struct {
	breakers  map[string]*breaker
	listeners []StateChangeListener
	mu        sync.RWMutex
	logger    log.Logger
}

// NewManager creates a new circuit breaker registry.
//
//nolint:ireturn
func NewManager(logger log.Logger) Manager {
	if logger == nil {
		logger = &log.NoneLogger{}
	}

	return &manager{
		breakers: make(map[string]*breaker),
		logger:   logger,
	}
}

//nolint:ireturn
func (m *manager) GetOrCreate(serviceName string, config Config) CircuitBreaker {
	m.mu.RLock()
	existing, ok := m.breakers[serviceName]
	m.mu.RUnlock()

	if ok {
		return existing
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock.
	if existing, ok = m.breakers[serviceName]; ok {
		return existing
	}

	created := newBreaker(serviceName, config, m.logger, m.handleStateChange)
	m.breakers[serviceName] = created

	m.logger.Infof("created circuit breaker for service: %s", serviceName)

	return created
}

//nolint:ireturn
func (m *manager) Get(serviceName string) (CircuitBreaker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	existing, ok := m.breakers[serviceName]
	if !ok {
		return nil, false
	}

	return existing, true
}

func (m *manager) Execute(serviceName string, fn func() (any, error)) (any, error) {
	m.mu.RLock()
	existing, ok := m.breakers[serviceName]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("circuit breaker not found for service: %s (call GetOrCreate first)", serviceName)
	}

	result, err := existing.Call(fn)
	if err != nil && IsOpenError(err) {
		m.logger.Warnf("circuit breaker [%s] is OPEN - request rejected immediately", serviceName)
	}

	return result, err
}

func (m *manager) GetState(serviceName string) State {
	m.mu.RLock()
	existing, ok := m.breakers[serviceName]
	m.mu.RUnlock()

	if !ok {
		return StateUnknown
	}

	return existing.State()
}

func (m *manager) IsHealthy(serviceName string) bool {
	// Only CLOSED counts as healthy: OPEN and HALF_OPEN both need
	// recovery to complete before the service is trusted again.
	return m.GetState(serviceName) == StateClosed
}

func (m *manager) Snapshot() map[string]Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]Metrics, len(m.breakers))
	for name, b := range m.breakers {
		snapshot[name] = b.Metrics()
	}

	return snapshot
}

func (m *manager) UnhealthyServices() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	unhealthy := make(map[string]string)

	for name, b := range m.breakers {
		metrics := b.Metrics()

		switch metrics.State {
		case StateOpen:
			unhealthy[name] = fmt.Sprintf("circuit OPEN - last failure: %s",
				metrics.LastFailureTime.Format("2006-01-02 15:04:05"))
		case StateHalfOpen:
			unhealthy[name] = "circuit HALF_OPEN - testing recovery"
		}
	}

	return unhealthy
}

func (m *manager) Reset(serviceName string) {
	m.mu.RLock()
	existing, ok := m.breakers[serviceName]
	m.mu.RUnlock()

	if !ok {
		return
	}

	m.logger.Infof("resetting circuit breaker for service: %s", serviceName)
	existing.Reset()
}

func (m *manager) ResetAll() {
	m.mu.RLock()
	breakers := make([]*breaker, 0, len(m.breakers))

	for _, b := range m.breakers {
		breakers = append(breakers, b)
	}
	m.mu.RUnlock()

	for _, b := range breakers {
		b.Reset()
	}

	m.logger.Info("all circuit breakers reset")
}

func (m *manager) RegisterStateChangeListener(listener StateChangeListener) {
	if listener == nil {
		m.logger.Warn("attempted to register a nil state change listener")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.listeners = append(m.listeners, listener)
	m.logger.Debugf("registered state change listener (total: %d)", len(m.listeners))
}

// handleStateChange logs transitions and fans them out to listeners.
func (m *manager) handleStateChange(serviceName string, from, to State) {
	m.logger.Warnf("circuit breaker [%s] state changed: %s -> %s", serviceName, from, to)

	m.mu.RLock()
	listeners := make([]StateChangeListener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.RUnlock()

	for _, listener := range listeners {
		// Notified on a dedicated goroutine so a slow or panicking
		// listener cannot block breaker operations.
		go func(l StateChangeListener) {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Errorf("state change listener panic for service %s: %v", serviceName, r)
				}
			}()

			l.OnStateChange(serviceName, from, to)
		}(listener)
	}
}
