package services

import (
	"class-timetable/database"
	"class-timetable/drive"
	"class-timetable/mail"
	"class-timetable/models"
	"context"
	"time"

	"golang.org/x/oauth2"
)

// MembershipReader resolves a user's role in a class
type MembershipReader interface {
	GetMembership(classID, userID string) (*models.Membership, error)
}

// ClassRepository defines the interface for class and invitation data access
type ClassRepository interface {
	MembershipReader
	CreateClass(class *models.Class, invitation *models.Invitation) error
	GetClass(classID string) (*models.Class, error)
	GetClassesForUser(userID string) ([]models.Class, error)
	CreateInvitation(inv *models.Invitation) error
	GetInvitation(code string) (*models.Invitation, error)
	RedeemInvitation(code, userID string, now time.Time) (bool, error)
}

// TimetableRepository defines the interface for week and lesson data access
type TimetableRepository interface {
	MembershipReader
	GetWeek(weekID string) (*models.Week, error)
	GetWeeksByClass(classID string) ([]models.Week, error)
	GetLessonsByWeek(weekID string, filter database.LessonFilter) ([]models.Lesson, error)
	GetLessonClassID(lessonID string) (string, error)
	UpdateLessonNotes(lessonID, notes string) error
}

// ImportRepository defines the interface for import job data access
type ImportRepository interface {
	MembershipReader
	CreateImportJob(job *models.ImportJob) error
	GetImportJob(jobID string) (*models.ImportJob, error)
	RetryImportJob(jobID string) error
}

// ImportTrigger starts processing a queued job without waiting for the next poll
type ImportTrigger interface {
	ProcessImmediate(jobID string)
}

// DriveDownloader fetches documents from a user's Google Drive
type DriveDownloader interface {
	Download(ctx context.Context, fileID string) (*drive.Document, error)
}

// DriveFactory creates Drive clients for a user's OAuth token
type DriveFactory func(ctx context.Context, token *oauth2.Token) (DriveDownloader, error)

// Mailer delivers outgoing email
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}

// SessionStore defines the interface for session management
type SessionStore interface {
	Create(user *models.User, accessToken, refreshToken string, tokenExpiry time.Time) (*models.Session, error)
	Get(sessionID string) (*models.Session, error)
	Delete(sessionID string) error
	UpdateUserToken(userID, accessToken, refreshToken string, expiry time.Time) error
}

// AuthRepository defines the interface for auth-related data access
type AuthRepository interface {
	UpsertUser(user *models.User) error
}
