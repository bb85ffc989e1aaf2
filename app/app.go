package app

import (
	"class-timetable/database"
	"class-timetable/jobs"
	"class-timetable/services"
	"class-timetable/session"
	"class-timetable/validator"
	"log/slog"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Repo         *database.Repository
	ImportWorker *jobs.Worker
	SessionStore *session.Store
	Validator    *validator.Validator
	Logger       *slog.Logger

	Auth      *services.AuthService
	Classes   *services.ClassService
	Timetable *services.TimetableService
	Imports   *services.ImportService
}

// Services groups the business services wired by the setup package
type Services struct {
	Auth      *services.AuthService
	Classes   *services.ClassService
	Timetable *services.TimetableService
	Imports   *services.ImportService
}

// New creates a new App instance with all dependencies
func New(repo *database.Repository, importWorker *jobs.Worker, sessionStore *session.Store, svc Services, logger *slog.Logger) *App {
	return &App{
		Repo:         repo,
		ImportWorker: importWorker,
		SessionStore: sessionStore,
		Validator:    validator.New(),
		Logger:       logger,
		Auth:         svc.Auth,
		Classes:      svc.Classes,
		Timetable:    svc.Timetable,
		Imports:      svc.Imports,
	}
}
