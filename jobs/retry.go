package jobs

import (
	"class-timetable/models"
	"time"
)

// filterRecentAttempts drops jobs attempted (or queued) less than minAge ago so the
// poller does not race ProcessImmediate
func filterRecentAttempts(jobs []models.ImportJob, minAge time.Duration, now time.Time) []models.ImportJob {
	var ready []models.ImportJob

	for _, job := range jobs {
		last := job.UpdatedAt
		if job.LastAttemptAt != nil {
			last = *job.LastAttemptAt
		}
		if now.Sub(last) >= minAge {
			ready = append(ready, job)
		}
	}

	return ready
}

// requeueStale recovers jobs left in processing by a crashed or stopped worker
func (w *Worker) requeueStale() {
	n, err := w.repo.RequeueStaleImports(time.Now().Add(-w.staleAfter))
	if err != nil {
		w.logger.Error("failed to requeue stale imports", "error", err)
		return
	}
	if n > 0 {
		w.logger.Warn("requeued stale imports", "count", n)
	}
}
