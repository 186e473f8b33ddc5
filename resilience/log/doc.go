// Package log defines the leveled logging contract shared by all
// lib-resilience packages, together with a stdlib-backed implementation
// and a no-op logger for tests.
//
// Production services are expected to inject the zap-backed implementation
// from the sibling zap package; GoLogger keeps the library usable without
// any third-party logger.
package log
