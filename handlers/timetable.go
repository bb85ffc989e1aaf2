package handlers

import (
	"class-timetable/app"
	"class-timetable/groups"
	"class-timetable/middleware"
	"class-timetable/models"
	"class-timetable/services"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// WeekNotes returns the lessons of a week that carry notes and are visible to the
// requested group. The same handler serves the strict and the legacy endpoint;
// policy only changes how the group parameter is validated.
func WeekNotes(a *app.App, policy groups.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		weekID := strings.TrimSpace(c.Query("week_id"))
		if weekID == "" {
			return badRequest(c, "week_id is required")
		}

		group, err := groups.Parse(c.Query("group"), policy)
		if err != nil {
			return badRequest(c, err.Error())
		}

		scheme, err := groups.ParseScheme(c.Query("scheme"))
		if err != nil {
			return badRequest(c, err.Error())
		}

		result, err := a.Timetable.NotesByWeek(userID, weekID, group, scheme)
		if err != nil {
			return respondError(c, "Failed to load notes", err)
		}

		return success(c, fiber.Map{
			"week_id":    result.Week.ID,
			"group":      group,
			"scheme":     scheme,
			"partitions": result.Partitions,
			"notes":      result.Lessons,
		})
	}
}

// WeekLessons returns a week's timetable, optionally filtered by group
func WeekLessons(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		scheme, err := groups.ParseScheme(c.Query("scheme"))
		if err != nil {
			return badRequest(c, err.Error())
		}

		query := services.WeekQuery{
			WeekID: c.Params("id"),
			Scheme: scheme,
		}
		if raw := c.Query("group"); raw != "" {
			group, err := groups.Parse(raw, groups.Strict)
			if err != nil {
				return badRequest(c, err.Error())
			}
			query.Group = &group
		}

		result, err := a.Timetable.WeekLessons(userID, query)
		if err != nil {
			return respondError(c, "Failed to load timetable", err)
		}

		partitions := result.Partitions
		if partitions == nil {
			partitions = []int{}
		}

		return success(c, fiber.Map{
			"week":       result.Week,
			"scheme":     scheme,
			"partitions": partitions,
			"lessons":    result.Lessons,
		})
	}
}

// UpdateLessonNotes annotates a lesson
func UpdateLessonNotes(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		var req models.UpdateNotesRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		lessonID := c.Params("id")
		if err := a.Timetable.UpdateNotes(userID, lessonID, req.Notes); err != nil {
			return respondError(c, "Failed to save notes", err)
		}

		if strings.TrimSpace(req.Notes) == "" {
			req.Notes = ""
		}

		return success(c, fiber.Map{
			"success":    true,
			"lesson_id":  lessonID,
			"notes":      req.Notes,
			"notes_html": services.RenderNotes(req.Notes),
		})
	}
}

// ListWeeks lists the imported weeks of a class
func ListWeeks(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.GetUserID(c)

		weeks, err := a.Timetable.ListWeeks(userID, c.Params("id"))
		if err != nil {
			return respondError(c, "Failed to load weeks", err)
		}

		return success(c, fiber.Map{
			"weeks": weeks,
		})
	}
}
