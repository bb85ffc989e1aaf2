package handlers

import (
	"class-timetable/groups"
	"class-timetable/middleware"
	"class-timetable/services"
	"class-timetable/validator"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func accepted(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusAccepted).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
}

func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verrs.Error(),
			"fields": verrs,
		})
	}
	return badRequest(c, err.Error())
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	id := middleware.RequestID(c)

	slog.Error("server error",
		"request_id", id,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      message,
		"request_id": id,
	})
}

// errorStatuses maps service errors to HTTP status codes
var errorStatuses = []struct {
	err    error
	status int
}{
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrDriveNotAuthorized, fiber.StatusForbidden},
	{services.ErrClassNotFound, fiber.StatusNotFound},
	{services.ErrWeekNotFound, fiber.StatusNotFound},
	{services.ErrLessonNotFound, fiber.StatusNotFound},
	{services.ErrImportNotFound, fiber.StatusNotFound},
	{services.ErrInvitationNotFound, fiber.StatusNotFound},
	{services.ErrInvitationExpired, fiber.StatusGone},
	{services.ErrInvitationExhausted, fiber.StatusGone},
	{services.ErrImportNotRetryable, fiber.StatusConflict},
	{services.ErrEmptyDocument, fiber.StatusBadRequest},
	{services.ErrDocumentTooLarge, fiber.StatusRequestEntityTooLarge},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{services.ErrInvalidAuthCode, fiber.StatusUnauthorized},
	{services.ErrInvalidUserInfo, fiber.StatusUnauthorized},
	{services.ErrSessionNotFound, fiber.StatusUnauthorized},
	{services.ErrNoRefreshToken, fiber.StatusUnauthorized},
	{services.ErrTokenRefreshFailed, fiber.StatusUnauthorized},
	{groups.ErrMissing, fiber.StatusBadRequest},
	{groups.ErrTypeMismatch, fiber.StatusBadRequest},
	{groups.ErrNotPositive, fiber.StatusBadRequest},
	{groups.ErrUnknownScheme, fiber.StatusBadRequest},
}

// respondError writes the status for a known error, or a generic 500 that is
// logged with the request id
func respondError(c *fiber.Ctx, message string, err error) error {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return c.Status(e.status).JSON(fiber.Map{"error": e.err.Error()})
		}
	}
	return serverErrorWithDetails(c, message, err)
}
