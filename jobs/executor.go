package jobs

import (
	"class-timetable/groups"
	"class-timetable/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// processPending retries queued jobs. Returns true if any work was found.
func (w *Worker) processPending() bool {
	w.requeueStale()

	jobs, err := w.repo.GetPendingImportJobs(w.batchSize)
	if err != nil {
		w.logger.Error("failed to get pending imports", "error", err)
		return false
	}

	ready := filterRecentAttempts(jobs, w.minRetryAge, time.Now())
	if len(ready) == 0 {
		return false
	}

	w.logger.Info("processing queued imports", "count", len(ready))

	for i := range ready {
		if w.ctx.Err() != nil {
			break
		}
		w.processJob(&ready[i])
	}

	return true
}

// processJob claims a job, parses its document and stores the resulting week.
// Losing the claim to another goroutine is not an error.
func (w *Worker) processJob(job *models.ImportJob) {
	claimed, err := w.repo.MarkImportProcessing(job.ID)
	if err != nil {
		w.logger.Error("failed to claim import", "job_id", job.ID, "error", err)
		return
	}
	if !claimed {
		return
	}

	log := w.logger.With("job_id", job.ID, "class_id", job.ClassID, "filename", job.Filename)

	weekID, err := w.importDocument(job)
	if err != nil && w.ctx.Err() != nil {
		log.Info("import interrupted by shutdown, releasing job", "error", err)
		if relErr := w.repo.ReleaseImport(job.ID); relErr != nil {
			log.Error("failed to release import", "error", relErr)
		}
		return
	}
	if err != nil {
		log.Warn("import failed", "attempt", job.RetryCount+1, "error", err)
		if markErr := w.repo.MarkImportFailed(job.ID, err.Error()); markErr != nil {
			log.Error("failed to record import failure", "error", markErr)
		}
		return
	}

	log.Info("import completed", "week_id", weekID)
}

func (w *Worker) importDocument(job *models.ImportJob) (string, error) {
	if len(job.Payload) == 0 {
		return "", fmt.Errorf("document payload is missing")
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.jobTimeout)
	defer cancel()

	parsed, err := w.processor.Parse(ctx, job.Filename, job.ContentType, job.Payload)
	if err != nil {
		return "", err
	}

	if w.validator != nil {
		if err := w.validator.Validate(parsed); err != nil {
			return "", fmt.Errorf("invalid timetable: %w", err)
		}
	}

	week, lessons := buildWeek(job.ClassID, parsed, time.Now())
	if err := w.repo.CompleteImport(job.ID, week, lessons); err != nil {
		return "", fmt.Errorf("store timetable: %w", err)
	}

	return week.ID, nil
}

// buildWeek converts a parsed document into rows. Lessons without partition tags
// are shared by everyone and are tagged with groups.All.
func buildWeek(classID string, parsed *models.ParsedTimetable, now time.Time) (*models.Week, []models.Lesson) {
	week := &models.Week{
		ID:        uuid.New().String(),
		ClassID:   classID,
		Label:     parsed.Week.Label,
		StartsOn:  parsed.Week.StartsOn,
		CreatedAt: now,
	}

	lessons := make([]models.Lesson, 0, len(parsed.Lessons))
	for _, pl := range parsed.Lessons {
		lessons = append(lessons, models.Lesson{
			ID:              uuid.New().String(),
			WeekID:          week.ID,
			Day:             pl.Day,
			Period:          pl.Period,
			StartsAt:        pl.StartsAt,
			EndsAt:          pl.EndsAt,
			Subject:         pl.Subject,
			Teacher:         pl.Teacher,
			Room:            pl.Room,
			Notes:           pl.Notes,
			Groups:          partitionsOrShared(pl.Groups),
			Specializations: partitionsOrShared(pl.Specializations),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}

	return week, lessons
}

func partitionsOrShared(ids []int) []int {
	if len(ids) == 0 {
		return []int{groups.All}
	}
	return ids
}
