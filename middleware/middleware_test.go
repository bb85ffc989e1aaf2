package middleware

import (
	"bytes"
	"class-timetable/models"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Get(sessionID string) (*models.Session, error) {
	args := m.Called(sessionID)
	sess, _ := args.Get(0).(*models.Session)
	return sess, args.Error(1)
}

func (m *mockSessions) Touch(sessionID string) error {
	return m.Called(sessionID).Error(0)
}

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUser(userID string) (*models.User, error) {
	args := m.Called(userID)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUsers) UpsertUser(user *models.User) error {
	return m.Called(user).Error(0)
}

func whoAmI(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user_id":     GetUserID(c),
		"email":       GetUserEmail(c),
		"has_session": GetSession(c) != nil,
	})
}

func rejectAll(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
	return nil, errors.New("invalid token")
}

func TestAuthRequired_SessionCookie(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Get", "sess-1").Return(&models.Session{
		ID: "sess-1", UserID: "user-1", Email: "u@example.com", LastUsedAt: time.Now().Add(-2 * time.Hour),
	}, nil)
	sessions.On("Touch", "sess-1").Return(nil)

	app := fiber.New()
	app.Get("/me", NewAuth(sessions, new(mockUsers), "client", rejectAll), whoAmI)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "session_id=sess-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"user_id":"user-1","email":"u@example.com","has_session":true}`, string(body))
	sessions.AssertExpectations(t)
}

func TestAuthRequired_RecentSessionIsNotTouched(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Get", "sess-1").Return(&models.Session{ID: "sess-1", UserID: "user-1", LastUsedAt: time.Now()}, nil)

	app := fiber.New()
	app.Get("/me", NewAuth(sessions, new(mockUsers), "client", rejectAll), whoAmI)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Cookie", "session_id=sess-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	sessions.AssertNotCalled(t, "Touch", mock.Anything)
}

func TestAuthRequired_BearerToken(t *testing.T) {
	sessions := new(mockSessions)
	validate := func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		if token != "good" || audience != "client" {
			return nil, errors.New("bad token")
		}
		return &idtoken.Payload{Subject: "user-2", Claims: map[string]interface{}{"email": "b@example.com"}}, nil
	}

	users := new(mockUsers)
	users.On("GetUser", "user-2").Return(nil, nil)
	users.On("UpsertUser", mock.MatchedBy(func(u *models.User) bool {
		return u.ID == "user-2" && u.GoogleID == "user-2" && u.Email == "b@example.com"
	})).Return(nil)

	app := fiber.New()
	app.Get("/me", NewAuth(sessions, users, "client", validate), whoAmI)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"user_id":"user-2","email":"b@example.com","has_session":false}`, string(body))
	users.AssertExpectations(t)
}

func TestAuthRequired_BearerKnownUser(t *testing.T) {
	validate := func(ctx context.Context, token, audience string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Subject: "user-2", Claims: map[string]interface{}{"email": "b@example.com"}}, nil
	}

	t.Run("Existing user is not rewritten", func(t *testing.T) {
		users := new(mockUsers)
		users.On("GetUser", "user-2").Return(&models.User{ID: "user-2"}, nil)

		app := fiber.New()
		app.Get("/me", NewAuth(new(mockSessions), users, "client", validate), whoAmI)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		users.AssertNotCalled(t, "UpsertUser", mock.Anything)
	})

	t.Run("User lookup failure", func(t *testing.T) {
		users := new(mockUsers)
		users.On("GetUser", "user-2").Return(nil, errors.New("database is locked"))

		app := fiber.New()
		app.Get("/me", NewAuth(new(mockSessions), users, "client", validate), whoAmI)

		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer good")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	})
}

func TestAuthRequired_Rejections(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Get", "expired").Return(nil, nil)

	app := fiber.New()
	app.Get("/me", NewAuth(sessions, new(mockUsers), "client", rejectAll), whoAmI)

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{name: "No credentials"},
		{name: "Malformed header", header: "Authorization", value: "Token abc"},
		{name: "Invalid token", header: "Authorization", value: "Bearer nope"},
		{name: "Expired session without token", header: "Cookie", value: "session_id=expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestStructuredLogger_SetsRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger))
	app.Get("/", func(c *fiber.Ctx) error {
		id, _ := c.Locals("requestID").(string)
		return c.SendString(id)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))
	assert.Equal(t, resp.Header.Get(HeaderRequestID), string(body))
}

func TestStructuredLogger_IncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger))
	app.Get("/weeks/:id", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	const incoming = "3f0c1a56-2d4b-4e8f-9a61-0b7c5d2e4f10"

	req := httptest.NewRequest("GET", "/weeks/w1", nil)
	req.Header.Set(HeaderRequestID, incoming)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, incoming, resp.Header.Get(HeaderRequestID))

	req = httptest.NewRequest("GET", "/weeks/w1", nil)
	req.Header.Set(HeaderRequestID, "not a uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not a uuid", resp.Header.Get(HeaderRequestID))

	assert.Contains(t, buf.String(), "request_id="+incoming)
	assert.Contains(t, buf.String(), "resource_id=w1")
}

func TestStructuredLogger_HealthChecksAreQuiet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	app := fiber.New()
	app.Use(StructuredLogger(logger))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(Security())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "default-src 'self'")
}
