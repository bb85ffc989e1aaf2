package services

import "errors"

// Common service-level errors
var (
	// Auth errors
	ErrInvalidAuthCode    = errors.New("invalid authorization code")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidUserInfo    = errors.New("invalid user information")
	ErrSessionNotFound    = errors.New("session not found")
	ErrNoRefreshToken     = errors.New("no refresh token available")
	ErrTokenRefreshFailed = errors.New("token refresh failed")
	ErrForbidden          = errors.New("forbidden")

	// Class errors
	ErrClassNotFound       = errors.New("class not found")
	ErrInvitationNotFound  = errors.New("invitation not found")
	ErrInvitationExpired   = errors.New("invitation has expired")
	ErrInvitationExhausted = errors.New("invitation has no uses left")

	// Timetable errors
	ErrWeekNotFound   = errors.New("week not found")
	ErrLessonNotFound = errors.New("lesson not found")

	// Import errors
	ErrImportNotFound     = errors.New("import not found")
	ErrImportNotRetryable = errors.New("import is not in a failed state")
	ErrEmptyDocument      = errors.New("document is empty")
	ErrDocumentTooLarge   = errors.New("document is too large")
	ErrDriveNotAuthorized = errors.New("google drive access not authorized")
)
