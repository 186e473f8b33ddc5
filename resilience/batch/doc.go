// Package batch provides a bounded-concurrency batch job engine.
//
// A job is a named, ordered collection of work items. Items are dispatched
// to a fixed pool of workers; each item is handed to a caller-supplied
// ItemProcessor, which is expected to route external-dependency calls
// through the circuitbreaker package. Item failures are recorded on the
// item and never fail the job as a whole; only a job where every item
// failed ends FAILED.
//
// Cancellation is cooperative: items already picked up by a worker run to
// completion, but their results are not committed after the job is
// cancelled, and items not yet started are skipped.
package batch
