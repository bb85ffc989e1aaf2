package models

import "time"

// ImportStatus represents the processing state of an import job
type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusDone       ImportStatus = "done"
	ImportStatusFailed     ImportStatus = "failed"
	ImportStatusAbandoned  ImportStatus = "abandoned"
)

// Import sources
const (
	ImportSourceUpload = "upload"
	ImportSourceDrive  = "drive"
)

// MaxImportRetries is the number of attempts before a job is abandoned
const MaxImportRetries = 5

type ImportJob struct {
	ID            string       `json:"id"`
	ClassID       string       `json:"class_id"`
	UserID        string       `json:"user_id"`
	Filename      string       `json:"filename"`
	ContentType   string       `json:"content_type"`
	Source        string       `json:"source"`
	Payload       []byte       `json:"-"`
	Status        ImportStatus `json:"status"`
	RetryCount    int          `json:"retry_count"`
	Error         string       `json:"error,omitempty"`
	WeekID        string       `json:"week_id,omitempty"`
	LastAttemptAt *time.Time   `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// ParsedTimetable is what the document-processing service returns for one document
type ParsedTimetable struct {
	Week    ParsedWeek     `json:"week"`
	Lessons []ParsedLesson `json:"lessons" validate:"dive"`
}

type ParsedWeek struct {
	Label    string `json:"label" validate:"required,max=100"`
	StartsOn string `json:"starts_on" validate:"required,dateformat"`
}

type ParsedLesson struct {
	Day             int    `json:"day" validate:"gte=1,lte=7"`
	Period          int    `json:"period" validate:"gte=1,lte=20"`
	StartsAt        string `json:"starts_at"`
	EndsAt          string `json:"ends_at"`
	Subject         string `json:"subject" validate:"required,max=200"`
	Teacher         string `json:"teacher"`
	Room            string `json:"room"`
	Notes           string `json:"notes"`
	Groups          []int  `json:"groups" validate:"dive,gte=1"`
	Specializations []int  `json:"specializations" validate:"dive,gte=1"`
}

type DriveImportRequest struct {
	FileID string `json:"file_id" validate:"required,max=200"`
}
