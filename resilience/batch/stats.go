package batch

// Statistics aggregates engine-wide batch processing counters.
type Statistics struct {
	TotalJobs          int     `json:"total_jobs"`
	ActiveJobs         int     `json:"active_jobs"`
	CompletedJobs      int     `json:"completed_jobs"`
	TotalItems         int     `json:"total_items"`
	CompletedItems     int     `json:"completed_items"`
	FailedItems        int     `json:"failed_items"`
	AverageSuccessRate float64 `json:"average_success_rate"`
	MaxConcurrentItems int     `json:"max_concurrent_items"`
}

// Statistics returns a point-in-time aggregate over every known job.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	all := make([]*job, 0, len(e.jobs))

	for _, j := range e.jobs {
		all = append(all, j)
	}
	e.mu.RUnlock()

	stats := Statistics{
		TotalJobs:          len(all),
		MaxConcurrentItems: e.config.MaxConcurrentItems,
	}

	var completedRateSum float64

	for _, j := range all {
		snap := j.snapshot()

		stats.TotalItems += snap.TotalItems
		stats.CompletedItems += snap.CompletedItems
		stats.FailedItems += snap.FailedItems

		if !snap.Finished() {
			stats.ActiveJobs++
		}

		if snap.Status == StatusCompleted {
			stats.CompletedJobs++
			completedRateSum += snap.SuccessRate()
		}
	}

	if stats.CompletedJobs > 0 {
		stats.AverageSuccessRate = completedRateSum / float64(stats.CompletedJobs)
	}

	return stats
}
