package handlers

import (
	"class-timetable/app"
	"class-timetable/config"
	"class-timetable/models"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

func secureCookies() bool {
	return config.AppConfig != nil && config.AppConfig.IsProduction()
}

func setSessionCookie(c *fiber.Ctx, sess *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     "session_id",
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   secureCookies(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func userJSON(sess *models.Session) fiber.Map {
	return fiber.Map{
		"id":      sess.UserID,
		"email":   sess.Email,
		"name":    sess.Name,
		"picture": sess.Picture,
	}
}

// Login handles Google Sign-In with an ID token
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		sess, err := a.Auth.LoginWithIDToken(c.UserContext(), req.IDToken)
		if err != nil {
			slog.Warn("login failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication failed",
			})
		}

		setSessionCookie(c, sess)
		slog.Info("login successful", "user_id", sess.UserID)

		return success(c, fiber.Map{
			"success": true,
			"user":    userJSON(sess),
		})
	}
}

// Logout handles user logout
func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionID := c.Cookies("session_id"); sessionID != "" {
			if err := a.Auth.Logout(sessionID); err != nil {
				slog.Warn("failed to delete session", "error", err)
			}
		}

		c.ClearCookie("session_id")

		return success(c, fiber.Map{
			"success": true,
		})
	}
}

// Me returns the current user's session information
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session_id")
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated": false,
			})
		}

		sess, err := a.Auth.GetSessionInfo(sessionID)
		if err != nil {
			c.ClearCookie("session_id")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated": false,
			})
		}

		return success(c, fiber.Map{
			"authenticated": true,
			"drive_access":  sess.AccessToken != "",
			"user":          userJSON(sess),
		})
	}
}

// GoogleLogin redirects to the Google OAuth consent screen
func GoogleLogin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := generateStateToken()
		if err != nil {
			return serverErrorWithDetails(c, "Failed to start login", err)
		}

		c.Cookie(&fiber.Cookie{
			Name:     "oauth_state",
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HTTPOnly: true,
			Secure:   secureCookies(),
			SameSite: "Lax",
			Path:     "/",
		})

		return c.Redirect(a.Auth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
	}
}

// GoogleCallback handles the OAuth callback from Google
func GoogleCallback(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stateCookie := c.Cookies("oauth_state")
		if stateCookie == "" {
			slog.Warn("oauth callback without state cookie")
			return c.Redirect("/?error=invalid_state", fiber.StatusTemporaryRedirect)
		}

		c.ClearCookie("oauth_state")

		if c.Query("state") != stateCookie {
			slog.Warn("oauth state mismatch")
			return c.Redirect("/?error=invalid_state", fiber.StatusTemporaryRedirect)
		}

		if errParam := c.Query("error"); errParam != "" {
			slog.Warn("oauth error from Google", "error", errParam)
			return c.Redirect("/?error="+url.QueryEscape(errParam), fiber.StatusTemporaryRedirect)
		}

		code := c.Query("code")
		if code == "" {
			return c.Redirect("/?error=missing_code", fiber.StatusTemporaryRedirect)
		}

		sess, err := a.Auth.LoginWithCode(c.UserContext(), code)
		if err != nil {
			slog.Warn("oauth login failed", "error", err)
			return c.Redirect("/?error=login_failed", fiber.StatusTemporaryRedirect)
		}

		setSessionCookie(c, sess)
		slog.Info("login successful", "user_id", sess.UserID, "drive_access", sess.AccessToken != "")

		return c.Redirect("/", fiber.StatusTemporaryRedirect)
	}
}

// generateStateToken returns a random token for CSRF protection of the OAuth flow
func generateStateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
