package circuitbreaker

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/LerianStudio/lib-resilience/resilience/log"
)

var (
	// ErrInvalidHealthCheckInterval indicates that the health check interval must be positive.
	ErrInvalidHealthCheckInterval = errors.New("circuitbreaker: health check interval must be positive")
	// ErrInvalidHealthCheckTimeout indicates that the health check timeout must be positive.
	ErrInvalidHealthCheckTimeout = errors.New("circuitbreaker: health check timeout must be positive")
)

// HealthCheckFunc probes a service and returns nil when it is healthy.
type HealthCheckFunc func(ctx context.Context) error

// HealthChecker periodically probes services whose breaker is not CLOSED and
// resets the breaker once the service recovers.
type HealthChecker interface {
	// Register adds a service to health check.
	Register(serviceName string, healthCheckFn HealthCheckFunc)

	// Start begins the health check loop in a separate goroutine.
	Start()

	// Stop gracefully stops the health checker.
	Stop()

	// GetHealthStatus returns the breaker state of every registered service.
	GetHealthStatus() map[string]string

	// StateChangeListener lets the checker react immediately when a
	// breaker opens.
	StateChangeListener
}

type healthChecker struct {
	manager        Manager
	services       map[string]HealthCheckFunc
	interval       time.Duration
	checkTimeout   time.Duration
	logger         log.Logger
	stopChan       chan struct{}
	immediateCheck chan string
	wg             sync.WaitGroup
	mu             sync.RWMutex
}

// NewHealthChecker creates a health checker.
// interval: how often to run health checks.
// checkTimeout: timeout for each individual probe.
//
//nolint:ireturn
func NewHealthChecker(manager Manager, interval, checkTimeout time.Duration, logger log.Logger) (HealthChecker, error) {
	if interval <= 0 {
		return nil, ErrInvalidHealthCheckInterval
	}

	if checkTimeout <= 0 {
		return nil, ErrInvalidHealthCheckTimeout
	}

	if logger == nil {
		logger = &log.NoneLogger{}
	}

	return &healthChecker{
		manager:        manager,
		services:       make(map[string]HealthCheckFunc),
		interval:       interval,
		checkTimeout:   checkTimeout,
		logger:         logger,
		stopChan:       make(chan struct{}),
		immediateCheck: make(chan string, 10),
	}, nil
}

func (hc *healthChecker) Register(serviceName string, healthCheckFn HealthCheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.services[serviceName] = healthCheckFn
	hc.logger.Infof("registered health check for service: %s", serviceName)
}

func (hc *healthChecker) Start() {
	hc.wg.Add(1)

	go hc.loop()

	hc.logger.Infof("health checker started - checking services every %v", hc.interval)
}

func (hc *healthChecker) Stop() {
	close(hc.stopChan)
	hc.wg.Wait()
	hc.logger.Info("health checker stopped")
}

func (hc *healthChecker) loop() {
	defer hc.wg.Done()

	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			hc.sweep()
		case serviceName := <-hc.immediateCheck:
			hc.logger.Debugf("immediate health check for service: %s", serviceName)
			hc.checkService(serviceName)
		case <-hc.stopChan:
			return
		}
	}
}

// sweep probes every registered service whose breaker is not CLOSED.
func (hc *healthChecker) sweep() {
	hc.mu.RLock()
	services := make(map[string]HealthCheckFunc, len(hc.services))
	maps.Copy(services, hc.services)
	hc.mu.RUnlock()

	unhealthy := 0
	recovered := 0

	for serviceName, healthCheckFn := range services {
		if hc.manager.IsHealthy(serviceName) {
			continue
		}

		unhealthy++

		if hc.heal(serviceName, healthCheckFn) {
			recovered++
		}
	}

	if unhealthy > 0 {
		hc.logger.Infof("health check complete: %d services needed healing, %d recovered", unhealthy, recovered)
	} else {
		hc.logger.Debug("all services healthy")
	}
}

// checkService probes a single service, used by the immediate-check path.
func (hc *healthChecker) checkService(serviceName string) {
	hc.mu.RLock()
	healthCheckFn, ok := hc.services[serviceName]
	hc.mu.RUnlock()

	if !ok {
		hc.logger.Warnf("no health check registered for service: %s", serviceName)
		return
	}

	if hc.manager.IsHealthy(serviceName) {
		hc.logger.Debugf("service %s already healthy, skipping check", serviceName)
		return
	}

	hc.heal(serviceName, healthCheckFn)
}

// heal runs one probe and resets the breaker on success.
func (hc *healthChecker) heal(serviceName string, healthCheckFn HealthCheckFunc) bool {
	hc.logger.Infof("attempting to heal service: %s (circuit breaker is not closed)", serviceName)

	ctx, cancel := context.WithTimeout(context.Background(), hc.checkTimeout)
	err := healthCheckFn(ctx)

	cancel()

	if err != nil {
		hc.logger.Warnf("service %s still unhealthy: %v - will retry in %v", serviceName, err, hc.interval)
		return false
	}

	hc.logger.Infof("service %s recovered - resetting circuit breaker", serviceName)
	hc.manager.Reset(serviceName)

	return true
}

func (hc *healthChecker) GetHealthStatus() map[string]string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := make(map[string]string, len(hc.services))
	for serviceName := range hc.services {
		status[serviceName] = string(hc.manager.GetState(serviceName))
	}

	return status
}

// OnStateChange implements StateChangeListener. A breaker that just opened
// triggers an immediate probe instead of waiting for the next tick.
func (hc *healthChecker) OnStateChange(serviceName string, from, to State) {
	hc.logger.Debugf("health checker notified for %s: %s -> %s", serviceName, from, to)

	if to != StateOpen {
		return
	}

	select {
	case hc.immediateCheck <- serviceName:
	default:
		hc.logger.Warnf("immediate check channel full for %s, will check on next interval", serviceName)
	}
}
