package batch

import (
	"fmt"
	"sync"
	"time"

	"github.com/LerianStudio/lib-resilience/resilience/log"
	"github.com/google/uuid"
)

// Config bounds the engine's concurrency.
type Config struct {
	// MaxConcurrentJobs caps how many jobs may be PROCESSING at once.
	MaxConcurrentJobs int `json:"max_concurrent_jobs"`

	// MaxConcurrentItems is the worker pool size used for each job's items.
	MaxConcurrentItems int `json:"max_concurrent_items"`
}

// DefaultConfig provides the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs:  10,
		MaxConcurrentItems: 3,
	}
}

// normalized fills non-positive fields from DefaultConfig.
func (c Config) normalized() Config {
	def := DefaultConfig()

	if c.MaxConcurrentJobs <= 0 {
		c.MaxConcurrentJobs = def.MaxConcurrentJobs
	}

	if c.MaxConcurrentItems <= 0 {
		c.MaxConcurrentItems = def.MaxConcurrentItems
	}

	return c
}

// Engine accepts batch jobs and fans their items out across a bounded pool
// of workers, tracking per-item and per-job lifecycle state.
type Engine struct {
	config Config
	logger log.Logger

	mu   sync.RWMutex // guards jobs
	jobs map[string]*job

	// activeMu guards the active set separately from any single job's
	// counters, so the start-ceiling check never blocks on a busy job.
	activeMu sync.Mutex
	active   map[string]struct{}
}

// NewEngine creates a batch engine. A nil logger disables logging.
func NewEngine(config Config, logger log.Logger) *Engine {
	if logger == nil {
		logger = &log.NoneLogger{}
	}

	cfg := config.normalized()

	logger.Infof("batch engine initialized: max %d jobs, %d workers per job",
		cfg.MaxConcurrentJobs, cfg.MaxConcurrentItems)

	return &Engine{
		config: cfg,
		logger: logger,
		jobs:   make(map[string]*job),
		active: make(map[string]struct{}),
	}
}

// CreateJob builds a new job with one PENDING item per input, in input
// order. Pure bookkeeping; no work starts until StartJob.
func (e *Engine) CreateJob(name string, inputs []any) string {
	jobID := uuid.New().String()
	now := time.Now()

	items := make([]*item, len(inputs))
	for i, input := range inputs {
		items[i] = &item{
			id:        fmt.Sprintf("%s-item-%d", jobID, i),
			input:     input,
			status:    StatusPending,
			createdAt: now,
		}
	}

	created := &job{
		id:         jobID,
		name:       name,
		createdAt:  now,
		status:     StatusPending,
		items:      items,
		totalItems: len(items),
	}

	e.mu.Lock()
	e.jobs[jobID] = created
	e.mu.Unlock()

	e.logger.Infof("created batch job %q (%s) with %d items", name, jobID, len(items))

	return jobID
}

// StartJob begins processing a PENDING job. It returns false when the job
// does not exist, is not PENDING, or the active-job ceiling is reached. The
// ceiling check and the insertion into the active set are one atomic region.
func (e *Engine) StartJob(jobID string, processor ItemProcessor, onProgress ProgressFunc, onComplete CompletionFunc) bool {
	j := e.lookup(jobID)
	if j == nil {
		e.logger.Errorf("batch job not found: %s", jobID)
		return false
	}

	if processor == nil {
		e.logger.Errorf("batch job %s: nil item processor", jobID)
		return false
	}

	e.activeMu.Lock()

	if len(e.active) >= e.config.MaxConcurrentJobs {
		e.activeMu.Unlock()
		e.logger.Errorf("batch job %s rejected: %d jobs already active", jobID, e.config.MaxConcurrentJobs)

		return false
	}

	j.mu.Lock()

	if j.status != StatusPending {
		status := j.status
		j.mu.Unlock()
		e.activeMu.Unlock()
		e.logger.Warnf("batch job %s already started or finished (status: %s)", jobID, status)

		return false
	}

	now := time.Now()
	j.status = StatusProcessing
	j.startedAt = &now
	j.mu.Unlock()

	e.active[jobID] = struct{}{}
	e.activeMu.Unlock()

	go e.runJob(j, processor, onProgress, onComplete)

	e.logger.Infof("started batch job: %s", jobID)

	return true
}

// CancelJob marks a non-terminal job CANCELLED. Cancellation is cooperative:
// items already picked up by a worker finish executing, but their results
// are not committed; items not yet started are skipped.
func (e *Engine) CancelJob(jobID string) bool {
	j := e.lookup(jobID)
	if j == nil {
		return false
	}

	j.mu.Lock()

	if j.status.Terminal() {
		j.mu.Unlock()
		return false
	}

	wasPending := j.status == StatusPending
	j.status = StatusCancelled

	if wasPending {
		// Never started: no finalization pass will run for this job.
		now := time.Now()
		j.completedAt = &now
	}

	j.mu.Unlock()

	e.activeMu.Lock()
	delete(e.active, jobID)
	e.activeMu.Unlock()

	e.logger.Infof("cancelled batch job: %s", jobID)

	return true
}

// GetJob returns a read-only snapshot of the job.
func (e *Engine) GetJob(jobID string) (Job, bool) {
	j := e.lookup(jobID)
	if j == nil {
		return Job{}, false
	}

	return j.snapshot(), true
}

// GetActiveJobs returns snapshots of every non-terminal job.
func (e *Engine) GetActiveJobs() []Job {
	e.mu.RLock()
	all := make([]*job, 0, len(e.jobs))

	for _, j := range e.jobs {
		all = append(all, j)
	}
	e.mu.RUnlock()

	activeJobs := make([]Job, 0, len(all))

	for _, j := range all {
		if snap := j.snapshot(); !snap.Finished() {
			activeJobs = append(activeJobs, snap)
		}
	}

	return activeJobs
}

// GetResults returns the results of COMPLETED items, in item order.
func (e *Engine) GetResults(jobID string) []any {
	j := e.lookup(jobID)
	if j == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	results := make([]any, 0, j.completedItems)

	for _, it := range j.items {
		if it.status == StatusCompleted {
			results = append(results, it.result)
		}
	}

	return results
}

// CleanupOldJobs evicts terminal jobs whose completion is older than maxAge
// and returns how many were removed.
func (e *Engine) CleanupOldJobs(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	e.mu.Lock()

	removed := 0

	for jobID, j := range e.jobs {
		j.mu.Lock()
		evict := j.status.Terminal() && j.completedAt != nil && j.completedAt.Before(cutoff)
		j.mu.Unlock()

		if evict {
			delete(e.jobs, jobID)

			removed++
		}
	}

	e.mu.Unlock()

	e.logger.Infof("cleaned up %d old batch jobs", removed)

	return removed
}

func (e *Engine) lookup(jobID string) *job {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.jobs[jobID]
}

// runJob feeds a job's items to a fixed pool of workers and finalizes the
// job once the pool drains.
func (e *Engine) runJob(j *job, processor ItemProcessor, onProgress ProgressFunc, onComplete CompletionFunc) {
	workers := min(e.config.MaxConcurrentItems, j.totalItems)
	queue := make(chan *item)

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for it := range queue {
				e.processItem(j, it, processor, onProgress)
			}
		}()
	}

	for _, it := range j.items {
		if j.currentStatus() == StatusCancelled {
			break
		}

		queue <- it
	}

	close(queue)
	wg.Wait()

	e.finalizeJob(j, onComplete)
}

// processItem runs one unit of work on a pool worker.
func (e *Engine) processItem(j *job, it *item, processor ItemProcessor, onProgress ProgressFunc) {
	// The progress callback fires for every dispatched item, success or
	// failure, even if the processor panicked.
	defer func() {
		e.reportProgress(j, it, onProgress)
	}()

	if j.currentStatus() == StatusCancelled {
		return
	}

	start := time.Now()
	result, err := e.invoke(processor, it.input)
	duration := time.Since(start)

	j.mu.Lock()
	defer j.mu.Unlock()

	// Re-check before committing: a job cancelled while this item was in
	// flight keeps its counters frozen and discards the late result.
	if j.status == StatusCancelled {
		return
	}

	it.processingDuration = duration

	if err != nil {
		it.status = StatusFailed
		it.err = err.Error()
		j.failedItems++

		e.logger.Errorf("batch item %s failed: %v", it.id, err)
	} else {
		it.status = StatusCompleted
		it.result = result
		j.completedItems++

		e.logger.Debugf("batch item %s completed in %v", it.id, duration)
	}

	j.progress = (j.completedItems + j.failedItems) * 100 / j.totalItems
}

// invoke runs the processor, converting panics into item errors so a
// misbehaving processor can never crash the engine.
func (e *Engine) invoke(processor ItemProcessor, input any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("item processor panic: %v", r)
		}
	}()

	return processor.Process(input)
}

func (e *Engine) reportProgress(j *job, it *item, onProgress ProgressFunc) {
	if onProgress == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorf("progress callback panic for job %s: %v", j.id, r)
		}
	}()

	onProgress(j.id, j.currentProgress(), fmt.Sprintf("processed item %s", it.id))
}

// finalizeJob runs once per started job, after every worker has drained.
func (e *Engine) finalizeJob(j *job, onComplete CompletionFunc) {
	j.mu.Lock()

	// A cancelled job keeps its status; a terminal status is never
	// overwritten by the completion computation.
	if !j.status.Terminal() {
		if j.totalItems > 0 && j.failedItems == j.totalItems {
			j.status = StatusFailed
		} else {
			j.status = StatusCompleted
		}
	}

	now := time.Now()
	j.completedAt = &now
	j.progress = 100

	snap := j.snapshotLocked()
	j.mu.Unlock()

	e.activeMu.Lock()
	delete(e.active, j.id)
	e.activeMu.Unlock()

	e.logger.Infof("batch job %s finished: status=%s success=%d/%d failed=%d",
		j.id, snap.Status, snap.CompletedItems, snap.TotalItems, snap.FailedItems)

	if onComplete != nil {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Errorf("completion callback panic for job %s: %v", j.id, r)
			}
		}()

		onComplete(j.id, snap)
	}
}
