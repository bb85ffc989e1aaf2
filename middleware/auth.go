package middleware

import (
	"class-timetable/models"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/api/idtoken"
)

// SessionReader is the part of the session store the middleware needs
type SessionReader interface {
	Get(sessionID string) (*models.Session, error)
	Touch(sessionID string) error
}

// UserStore lets Bearer-token callers, who never went through login, get a users row
type UserStore interface {
	GetUser(userID string) (*models.User, error)
	UpsertUser(user *models.User) error
}

// TokenValidator verifies a Google ID token for the given audience
type TokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// touchInterval limits how often a session's last-used time is written
const touchInterval = time.Hour

// AuthRequired creates an authentication middleware that requires a valid session
// cookie or a Bearer Google ID token issued for clientID
func AuthRequired(sessionStore SessionReader, users UserStore, clientID string) fiber.Handler {
	return NewAuth(sessionStore, users, clientID, idtoken.Validate)
}

// NewAuth is AuthRequired with a custom ID token verifier
func NewAuth(sessionStore SessionReader, users UserStore, clientID string, validate TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID != "" {
			sess, err := sessionStore.Get(sessionID)
			if err == nil && sess != nil {
				if time.Since(sess.LastUsedAt) > touchInterval {
					if err := sessionStore.Touch(sess.ID); err != nil {
						slog.Warn("failed to touch session", "error", err)
					}
				}

				c.Locals("userID", sess.UserID)
				c.Locals("userEmail", sess.Email)
				c.Locals("session", sess)
				return c.Next()
			}
			c.ClearCookie("session_id")
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		payload, err := validate(c.UserContext(), parts[1], clientID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		email, _ := payload.Claims["email"].(string)
		if payload.Subject == "" || email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		if err := ensureUser(users, payload); err != nil {
			slog.Error("failed to register bearer user", "user_id", payload.Subject, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load user",
			})
		}

		c.Locals("userID", payload.Subject)
		c.Locals("userEmail", email)

		return c.Next()
	}
}

// ensureUser creates the users row for a token subject seen for the first time
func ensureUser(users UserStore, payload *idtoken.Payload) error {
	existing, err := users.GetUser(payload.Subject)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	now := time.Now()
	return users.UpsertUser(&models.User{
		ID:          payload.Subject,
		GoogleID:    payload.Subject,
		Email:       email,
		Name:        name,
		Picture:     picture,
		CreatedAt:   now,
		LastLoginAt: now,
	})
}

func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

func GetUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals("userEmail").(string)
	if !ok {
		return ""
	}
	return email
}

// GetSession returns the cookie session, or nil for Bearer-token requests
func GetSession(c *fiber.Ctx) *models.Session {
	sess, ok := c.Locals("session").(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
