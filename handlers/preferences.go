package handlers

import (
	"class-timetable/app"
	"class-timetable/middleware"
	"class-timetable/models"
	"class-timetable/preferences"

	"github.com/gofiber/fiber/v2"
)

func loadPreferences(c *fiber.Ctx, a *app.App) (*preferences.Store, error) {
	store := preferences.New(a.Repo.PreferenceAdapter(middleware.GetUserID(c)), preferences.StorageKey)
	if err := store.Load(c.UserContext()); err != nil {
		return nil, err
	}
	return store, nil
}

// GetPreferences returns the caller's timetable view selection
func GetPreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store, err := loadPreferences(c, a)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to load preferences", err)
		}

		return success(c, fiber.Map{
			"preferences": store.Selection(),
		})
	}
}

// UpdatePreferences applies the fields present in the request
func UpdatePreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdatePreferencesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		store, err := loadPreferences(c, a)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to load preferences", err)
		}

		patch := preferences.Patch{
			Group:          req.Group,
			Specialization: req.Specialization,
			WeekID:         req.WeekID,
		}
		if req.Mode != nil {
			mode := preferences.Mode(*req.Mode)
			patch.Mode = &mode
		}

		if err := store.Apply(c.UserContext(), patch); err != nil {
			return serverErrorWithDetails(c, "Failed to save preferences", err)
		}

		return success(c, fiber.Map{
			"success":     true,
			"preferences": store.Selection(),
		})
	}
}

// ResetPreferences restores the default view selection
func ResetPreferences(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		store := preferences.New(a.Repo.PreferenceAdapter(middleware.GetUserID(c)), preferences.StorageKey)
		if err := store.Reset(c.UserContext()); err != nil {
			return serverErrorWithDetails(c, "Failed to reset preferences", err)
		}

		return success(c, fiber.Map{
			"success":     true,
			"preferences": store.Selection(),
		})
	}
}
