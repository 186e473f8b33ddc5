// Package circuitbreaker provides per-dependency circuit breakers with a
// keyed registry and health-check-driven recovery.
//
// Each breaker is a CLOSED / OPEN / HALF_OPEN state machine guarding one
// external dependency. Use NewManager to create the registry, GetOrCreate to
// obtain a breaker per service name, and run every call to the dependency
// through CircuitBreaker.Call so failures are counted consistently across
// callers.
//
// HALF_OPEN intentionally allows concurrent probes: callers arriving after
// the recovery window opens each execute their own probe rather than being
// single-flighted.
package circuitbreaker
