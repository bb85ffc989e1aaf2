package services

import (
	"class-timetable/models"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// MaxDocumentSize is the largest timetable document accepted for import
const MaxDocumentSize = 10 << 20

// ImportService queues timetable documents for the import worker
type ImportService struct {
	repo         ImportRepository
	trigger      ImportTrigger
	driveFactory DriveFactory
}

// NewImportService creates a new import service. trigger and driveFactory may be nil.
func NewImportService(repo ImportRepository, trigger ImportTrigger, driveFactory DriveFactory) *ImportService {
	return &ImportService{
		repo:         repo,
		trigger:      trigger,
		driveFactory: driveFactory,
	}
}

// Upload queues an uploaded document for a class owned by userID
func (is *ImportService) Upload(userID, classID, filename, contentType string, data []byte) (*models.ImportJob, error) {
	return is.enqueue(userID, classID, filename, contentType, models.ImportSourceUpload, data)
}

// ImportFromDrive downloads a document from the user's Drive and queues it
func (is *ImportService) ImportFromDrive(ctx context.Context, userID, classID, fileID string, token *oauth2.Token) (*models.ImportJob, error) {
	if _, err := requireOwner(is.repo, classID, userID); err != nil {
		return nil, err
	}
	if token == nil || token.AccessToken == "" || is.driveFactory == nil {
		return nil, ErrDriveNotAuthorized
	}

	client, err := is.driveFactory(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("connect to drive: %w", err)
	}

	doc, err := client.Download(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("download drive file: %w", err)
	}

	return is.enqueue(userID, classID, doc.Name, doc.MimeType, models.ImportSourceDrive, doc.Data)
}

func (is *ImportService) enqueue(userID, classID, filename, contentType, source string, data []byte) (*models.ImportJob, error) {
	if _, err := requireOwner(is.repo, classID, userID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return nil, ErrDocumentTooLarge
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now()
	job := &models.ImportJob{
		ID:          uuid.New().String(),
		ClassID:     classID,
		UserID:      userID,
		Filename:    filepath.Base(filename),
		ContentType: contentType,
		Source:      source,
		Payload:     data,
		Status:      models.ImportStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := is.repo.CreateImportJob(job); err != nil {
		return nil, err
	}

	if is.trigger != nil {
		is.trigger.ProcessImmediate(job.ID)
	}

	return job, nil
}

// Get returns a job of a class the user belongs to
func (is *ImportService) Get(userID, jobID string) (*models.ImportJob, error) {
	job, err := is.repo.GetImportJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrImportNotFound
	}

	if _, err := requireMember(is.repo, job.ClassID, userID); err != nil {
		return nil, err
	}
	return job, nil
}

// Retry re-queues a failed or abandoned job
func (is *ImportService) Retry(userID, jobID string) (*models.ImportJob, error) {
	job, err := is.repo.GetImportJob(jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrImportNotFound
	}

	if _, err := requireOwner(is.repo, job.ClassID, userID); err != nil {
		return nil, err
	}

	if job.Status != models.ImportStatusFailed && job.Status != models.ImportStatusAbandoned {
		return nil, ErrImportNotRetryable
	}

	if err := is.repo.RetryImportJob(jobID); err != nil {
		return nil, err
	}

	if is.trigger != nil {
		is.trigger.ProcessImmediate(jobID)
	}

	job.Status = models.ImportStatusPending
	job.RetryCount = 0
	job.Error = ""
	return job, nil
}
