package setup

import (
	"class-timetable/app"
	"class-timetable/config"
	"class-timetable/database"
	"class-timetable/docproc"
	"class-timetable/drive"
	"class-timetable/jobs"
	"class-timetable/mail"
	"class-timetable/services"
	"class-timetable/session"
	"class-timetable/validator"
	"context"
	"log/slog"

	"golang.org/x/oauth2"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// newMailer sends through Resend when an API key is configured and only logs otherwise
func newMailer(cfg *config.Config, logger *slog.Logger) services.Mailer {
	if cfg.ResendAPIKey == "" {
		logger.Info("RESEND_API_KEY not set, invitation emails are logged only")
		return mail.NewLogSender(logger)
	}
	return mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
}

// InitApp initializes the application with all dependencies
func InitApp(db *database.DB, cfg *config.Config, logger *slog.Logger) *app.App {
	repo := database.NewRepository(db)

	sessionStore := session.NewStore(db.DB)
	sessionStore.StartCleanupRoutine()
	logger.Info("session cleanup routine started")

	authCfg := services.AuthConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}

	driveFactory := func(ctx context.Context, token *oauth2.Token) (services.DriveDownloader, error) {
		return drive.NewClient(ctx, authCfg.OAuth2(), token)
	}

	importWorker := jobs.NewWorker(repo, docproc.NewClient(cfg.DocprocURL, cfg.DocprocToken), validator.New(), logger)
	importWorker.Start()
	logger.Info("import worker started", "docproc_url", cfg.DocprocURL)

	svc := app.Services{
		Auth:      services.NewAuthService(repo, sessionStore, authCfg),
		Classes:   services.NewClassService(repo, newMailer(cfg, logger), cfg.PublicURL),
		Timetable: services.NewTimetableService(repo),
		Imports:   services.NewImportService(repo, importWorker, driveFactory),
	}

	application := app.New(repo, importWorker, sessionStore, svc, logger)
	logger.Info("application initialized with dependency injection")

	return application
}

// Shutdown performs graceful shutdown of all services
func Shutdown(application *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		if application.ImportWorker != nil {
			application.ImportWorker.Stop()
			logger.Info("import worker stopped")
		}
		if application.SessionStore != nil {
			application.SessionStore.StopCleanupRoutine()
		}
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
