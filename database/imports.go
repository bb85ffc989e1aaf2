package database

import (
	"class-timetable/models"
	"database/sql"
	"time"
)

// ==================== IMPORT JOB OPERATIONS ====================

// CreateImportJob stores a new pending import job with its document payload
func (r *Repository) CreateImportJob(job *models.ImportJob) error {
	_, err := r.db.Exec(`
		INSERT INTO import_jobs (id, class_id, user_id, filename, content_type, source, payload,
			status, retry_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`,
		job.ID, job.ClassID, job.UserID, job.Filename, job.ContentType, job.Source, job.Payload,
		string(models.ImportStatusPending), job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// GetImportJob retrieves a job by ID without its payload
func (r *Repository) GetImportJob(jobID string) (*models.ImportJob, error) {
	var job models.ImportJob
	var status string
	var contentType, errMsg, weekID sql.NullString
	var lastAttemptAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT id, class_id, user_id, filename, content_type, source, status, retry_count,
		       error, week_id, last_attempt_at, created_at, updated_at
		FROM import_jobs
		WHERE id = ?
	`, jobID).Scan(
		&job.ID, &job.ClassID, &job.UserID, &job.Filename, &contentType, &job.Source,
		&status, &job.RetryCount, &errMsg, &weekID, &lastAttemptAt,
		&job.CreatedAt, &job.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job.Status = models.ImportStatus(status)
	job.ContentType = contentType.String
	job.Error = errMsg.String
	job.WeekID = weekID.String
	if lastAttemptAt.Valid {
		job.LastAttemptAt = &lastAttemptAt.Time
	}
	return &job, nil
}

// GetPendingImportJobs retrieves jobs waiting for (re)processing, oldest first
func (r *Repository) GetPendingImportJobs(limit int) ([]models.ImportJob, error) {
	rows, err := r.db.Query(`
		SELECT id, class_id, user_id, filename, content_type, source, payload,
		       status, retry_count, last_attempt_at, created_at, updated_at
		FROM import_jobs
		WHERE status IN (?, ?)
		ORDER BY created_at ASC
		LIMIT ?
	`, string(models.ImportStatusPending), string(models.ImportStatusFailed), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []models.ImportJob
	for rows.Next() {
		var job models.ImportJob
		var status string
		var contentType sql.NullString
		var lastAttemptAt sql.NullTime
		if err := rows.Scan(
			&job.ID, &job.ClassID, &job.UserID, &job.Filename, &contentType, &job.Source, &job.Payload,
			&status, &job.RetryCount, &lastAttemptAt, &job.CreatedAt, &job.UpdatedAt,
		); err != nil {
			return nil, err
		}
		job.Status = models.ImportStatus(status)
		job.ContentType = contentType.String
		if lastAttemptAt.Valid {
			job.LastAttemptAt = &lastAttemptAt.Time
		}
		jobs = append(jobs, job)
	}

	return jobs, rows.Err()
}

// GetImportJobWithPayload retrieves a single job including its document payload
func (r *Repository) GetImportJobWithPayload(jobID string) (*models.ImportJob, error) {
	job, err := r.GetImportJob(jobID)
	if err != nil || job == nil {
		return job, err
	}

	if err := r.db.QueryRow(`SELECT payload FROM import_jobs WHERE id = ?`, jobID).Scan(&job.Payload); err != nil {
		return nil, err
	}
	return job, nil
}

// MarkImportProcessing claims a job for processing. Returns false when another
// worker already claimed it or it is no longer waiting.
func (r *Repository) MarkImportProcessing(jobID string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE import_jobs SET
			status = ?,
			last_attempt_at = ?,
			updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(models.ImportStatusProcessing), time.Now(), time.Now(), jobID,
		string(models.ImportStatusPending), string(models.ImportStatusFailed))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CompleteImport stores the parsed week and marks the job done in one transaction
func (r *Repository) CompleteImport(jobID string, week *models.Week, lessons []models.Lesson) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertWeekWithLessons(tx, week, lessons); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE import_jobs SET
			status = ?,
			week_id = ?,
			error = NULL,
			payload = NULL,
			updated_at = ?
		WHERE id = ?
	`, string(models.ImportStatusDone), week.ID, time.Now(), jobID); err != nil {
		return err
	}

	return tx.Commit()
}

// MarkImportFailed increments the retry count and abandons the job once
// MaxImportRetries is reached
func (r *Repository) MarkImportFailed(jobID, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE import_jobs SET
			status = CASE
				WHEN retry_count + 1 >= ? THEN ?
				ELSE ?
			END,
			retry_count = retry_count + 1,
			error = ?,
			updated_at = ?
		WHERE id = ?
	`, models.MaxImportRetries, string(models.ImportStatusAbandoned),
		string(models.ImportStatusFailed), errorMsg, time.Now(), jobID)
	return err
}

// ReleaseImport puts a job interrupted by shutdown back in the queue without
// counting the attempt
func (r *Repository) ReleaseImport(jobID string) error {
	_, err := r.db.Exec(`
		UPDATE import_jobs SET
			status = ?,
			updated_at = ?
		WHERE id = ? AND status = ?
	`, string(models.ImportStatusPending), time.Now(), jobID, string(models.ImportStatusProcessing))
	return err
}

// RequeueStaleImports returns jobs stuck in processing since before cutoff to the
// queue, e.g. after a crash mid-import
func (r *Repository) RequeueStaleImports(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE import_jobs SET
			status = ?,
			updated_at = ?
		WHERE status = ? AND last_attempt_at < ?
	`, string(models.ImportStatusFailed), time.Now(), string(models.ImportStatusProcessing), cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RetryImportJob resets a failed or abandoned job so the worker picks it up again
func (r *Repository) RetryImportJob(jobID string) error {
	_, err := r.db.Exec(`
		UPDATE import_jobs SET
			status = ?,
			retry_count = 0,
			error = NULL,
			last_attempt_at = NULL,
			updated_at = ?
		WHERE id = ? AND status IN (?, ?)
	`, string(models.ImportStatusPending), time.Now(), jobID,
		string(models.ImportStatusFailed), string(models.ImportStatusAbandoned))
	return err
}
