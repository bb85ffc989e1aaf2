package handlers

import (
	"class-timetable/templates/pages"
	"class-timetable/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HomePage serves the application shell
func HomePage(clientID string, assets utils.Assets) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return pages.Index(clientID, assets).Render(c.UserContext(), c.Response().BodyWriter())
	}
}

func ServerTime(c *fiber.Ctx) error {
	timezone := c.Query("timezone", "UTC")

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)

	return c.JSON(fiber.Map{
		"timestamp": now.Unix(),
		"timezone":  loc.String(),
		"iso":       now.Format(time.RFC3339),
		"weekday":   int(now.Weekday()),
	})
}
