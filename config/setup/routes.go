package setup

import (
	"class-timetable/app"
	"class-timetable/groups"
	"class-timetable/handlers"
	"class-timetable/middleware"
	"class-timetable/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App, clientID string, assets utils.Assets) {

	// Static assets with aggressive caching
	fiberApp.Static("/static", "./static", fiber.Static{
		Compress:      true,
		CacheDuration: 365 * 24 * time.Hour, // 1 year for versioned assets
		MaxAge:        31536000,             // 1 year in seconds
	})

	// Public routes
	fiberApp.Get("/", handlers.HomePage(clientID, assets))
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	fiberApp.Get("/api/time", handlers.ServerTime)

	// Auth routes
	fiberApp.Post("/api/auth/login", handlers.Login(application))
	fiberApp.Get("/auth/google", handlers.GoogleLogin(application))
	fiberApp.Get("/auth/google/callback", handlers.GoogleCallback(application))
	fiberApp.Post("/api/auth/logout", handlers.Logout(application))
	fiberApp.Get("/api/auth/me", handlers.Me(application))

	// Protected API routes
	api := fiberApp.Group("/api", middleware.AuthRequired(application.SessionStore, application.Repo, clientID), userLimiter())

	RegisterAPIRoutes(api, application)
}

// RegisterAPIRoutes mounts the authenticated API on router
func RegisterAPIRoutes(api fiber.Router, application *app.App) {
	// Notes by week: one handler, two validation policies
	api.Get("/notes", handlers.WeekNotes(application, groups.Strict))
	api.Get("/get-notes", handlers.WeekNotes(application, groups.Legacy))

	api.Get("/weeks/:id/lessons", handlers.WeekLessons(application))
	api.Put("/lessons/:id/notes", handlers.UpdateLessonNotes(application))

	api.Get("/classes", handlers.ListClasses(application))
	api.Post("/classes", handlers.CreateClass(application))
	api.Post("/classes/join", handlers.JoinClass(application))
	api.Get("/classes/:id/weeks", handlers.ListWeeks(application))
	api.Post("/classes/:id/invitations", handlers.CreateInvitation(application))
	api.Post("/classes/:id/imports", handlers.UploadTimetable(application))
	api.Post("/classes/:id/imports/drive", handlers.ImportFromDrive(application))

	api.Get("/imports/:id", handlers.GetImport(application))
	api.Post("/imports/:id/retry", handlers.RetryImport(application))

	api.Get("/preferences", handlers.GetPreferences(application))
	api.Put("/preferences", handlers.UpdatePreferences(application))
	api.Delete("/preferences", handlers.ResetPreferences(application))
}
