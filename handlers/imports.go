package handlers

import (
	"class-timetable/app"
	"class-timetable/middleware"
	"class-timetable/models"
	"class-timetable/services"
	"io"

	"github.com/gofiber/fiber/v2"
)

// UploadTimetable queues an uploaded timetable document for import
func UploadTimetable(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return badRequest(c, "file is required")
		}
		if fileHeader.Size > services.MaxDocumentSize {
			return respondError(c, "", services.ErrDocumentTooLarge)
		}

		file, err := fileHeader.Open()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to read upload", err)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, services.MaxDocumentSize+1))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to read upload", err)
		}

		job, err := a.Imports.Upload(userID, c.Params("id"), fileHeader.Filename, fileHeader.Header.Get(fiber.HeaderContentType), data)
		if err != nil {
			return respondError(c, "Failed to queue import", err)
		}

		return accepted(c, fiber.Map{
			"import": job,
		})
	}
}

// ImportFromDrive queues a timetable document from the caller's Google Drive
func ImportFromDrive(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		var req models.DriveImportRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		token, err := a.Auth.Token(c.UserContext(), middleware.GetSession(c))
		if err != nil {
			return respondError(c, "Failed to access Google Drive", err)
		}

		job, err := a.Imports.ImportFromDrive(c.UserContext(), userID, c.Params("id"), req.FileID, token)
		if err != nil {
			return respondError(c, "Failed to import from Google Drive", err)
		}

		return accepted(c, fiber.Map{
			"import": job,
		})
	}
}

// GetImport reports the status of an import job
func GetImport(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		job, err := a.Imports.Get(userID, c.Params("id"))
		if err != nil {
			return respondError(c, "Failed to load import", err)
		}

		return success(c, fiber.Map{
			"import": job,
		})
	}
}

// RetryImport re-queues a failed or abandoned import
func RetryImport(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		job, err := a.Imports.Retry(userID, c.Params("id"))
		if err != nil {
			return respondError(c, "Failed to retry import", err)
		}

		return accepted(c, fiber.Map{
			"import": job,
		})
	}
}
