package batch

// ItemProcessor turns one item input into a result. Implementations are
// expected to route external-dependency calls through a circuit breaker;
// the engine is agnostic to what the processor does internally.
//
// Process is called concurrently from multiple workers and must be safe for
// concurrent use.
type ItemProcessor interface {
	Process(input any) (any, error)
}

// ItemProcessorFunc adapts a function to the ItemProcessor interface.
type ItemProcessorFunc func(input any) (any, error)

// Process implements ItemProcessor.
func (f ItemProcessorFunc) Process(input any) (any, error) {
	return f(input)
}

// ProgressFunc is invoked after every processed item, on the worker's own
// goroutine. Callers needing UI-thread marshaling must do so themselves.
type ProgressFunc func(jobID string, percent int, message string)

// CompletionFunc is invoked exactly once per job, on whichever worker
// finishes last.
type CompletionFunc func(jobID string, job Job)
