package handlers

import (
	"class-timetable/app"
	"class-timetable/middleware"
	"class-timetable/models"

	"github.com/gofiber/fiber/v2"
)

// CreateClass creates a class owned by the caller
func CreateClass(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		var req models.CreateClassRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		class, inv, err := a.Classes.Create(userID, req.Name)
		if err != nil {
			return respondError(c, "Failed to create class", err)
		}

		return created(c, fiber.Map{
			"class":      class,
			"invitation": inv,
		})
	}
}

// ListClasses lists the caller's classes with their role in each
func ListClasses(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		classes, err := a.Classes.List(userID)
		if err != nil {
			return respondError(c, "Failed to load classes", err)
		}

		return success(c, fiber.Map{
			"classes": classes,
		})
	}
}

// CreateInvitation issues a new invitation code for a class
func CreateInvitation(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		var req models.CreateInvitationRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		inv, emailed, err := a.Classes.CreateInvitation(c.UserContext(), userID, c.Params("id"), req)
		if err != nil {
			return respondError(c, "Failed to create invitation", err)
		}

		return created(c, fiber.Map{
			"invitation": inv,
			"emailed":    emailed,
		})
	}
}

// JoinClass redeems an invitation code
func JoinClass(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		var req models.JoinClassRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		class, joined, err := a.Classes.Join(userID, req.Code)
		if err != nil {
			return respondError(c, "Failed to join class", err)
		}

		return success(c, fiber.Map{
			"class":  class,
			"joined": joined,
		})
	}
}
