// Package http provides fiber handlers that expose circuit breaker health,
// for services embedding lib-resilience that want a ready-made liveness and
// dependency-health surface.
package http
