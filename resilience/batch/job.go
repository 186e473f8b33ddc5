package batch

import (
	"sync"
	"time"
)

// Status represents the lifecycle state of a job or item.
type Status string

// Job and item statuses. COMPLETED, FAILED and CANCELLED are terminal for
// jobs; items only use PENDING, COMPLETED and FAILED (cancellation is
// modeled at the job level).
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status is a job-terminal value.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Item is a read-only snapshot of one unit of work.
type Item struct {
	ID                 string        `json:"id"`
	Input              any           `json:"-"`
	Status             Status        `json:"status"`
	Result             any           `json:"-"`
	Error              string        `json:"error,omitempty"`
	ProcessingDuration time.Duration `json:"processing_duration"`
	CreatedAt          time.Time     `json:"created_at"`
}

// Job is a read-only snapshot of a batch job. The engine owns the mutable
// state; callers only ever see copies.
type Job struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Items          []Item     `json:"items"`
	Status         Status     `json:"status"`
	TotalItems     int        `json:"total_items"`
	CompletedItems int        `json:"completed_items"`
	FailedItems    int        `json:"failed_items"`
	Progress       int        `json:"progress"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// SuccessRate returns the percentage of items that completed successfully,
// or 0 for an empty job.
func (j Job) SuccessRate() float64 {
	if j.TotalItems == 0 {
		return 0
	}

	return float64(j.CompletedItems) / float64(j.TotalItems) * 100
}

// Finished reports whether the job reached a terminal status.
func (j Job) Finished() bool {
	return j.Status.Terminal()
}

// item is the engine-owned mutable state of one unit of work. Guarded by
// the owning job's mutex.
type item struct {
	id                 string
	input              any
	status             Status
	result             any
	err                string
	processingDuration time.Duration
	createdAt          time.Time
}

// job is the engine-owned mutable state of a batch job. mu guards every
// field below it, including the items.
type job struct {
	id        string
	name      string
	createdAt time.Time

	mu             sync.Mutex
	status         Status
	items          []*item
	totalItems     int
	completedItems int
	failedItems    int
	progress       int
	startedAt      *time.Time
	completedAt    *time.Time
}

// currentStatus reads the status under the job lock.
func (j *job) currentStatus() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.status
}

// currentProgress reads the progress percentage under the job lock.
func (j *job) currentProgress() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.progress
}

// snapshot returns a deep read-only copy.
func (j *job) snapshot() Job {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.snapshotLocked()
}

func (j *job) snapshotLocked() Job {
	items := make([]Item, len(j.items))
	for i, it := range j.items {
		items[i] = Item{
			ID:                 it.id,
			Input:              it.input,
			Status:             it.status,
			Result:             it.result,
			Error:              it.err,
			ProcessingDuration: it.processingDuration,
			CreatedAt:          it.createdAt,
		}
	}

	snap := Job{
		ID:             j.id,
		Name:           j.name,
		Items:          items,
		Status:         j.status,
		TotalItems:     j.totalItems,
		CompletedItems: j.completedItems,
		FailedItems:    j.failedItems,
		Progress:       j.progress,
		CreatedAt:      j.createdAt,
	}

	if j.startedAt != nil {
		started := *j.startedAt
		snap.StartedAt = &started
	}

	if j.completedAt != nil {
		completed := *j.completedAt
		snap.CompletedAt = &completed
	}

	return snap
}
