package handlers_test

import (
	"bytes"
	"class-timetable/app"
	"class-timetable/database"
	"class-timetable/mail"
	"class-timetable/models"
	"class-timetable/services"
	"class-timetable/session"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "test-user-id"
	otherUserID = "other-user-id"
	testClassID = "class-1"
	testWeekID  = "week-1"
)

// setupTestDB creates a temporary test database and returns app with all dependencies
func setupTestDB(t *testing.T) (*app.App, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "class-timetable-test-*")
	require.NoError(t, err, "Failed to create temp directory")

	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err, "Failed to initialize test database")
	require.NoError(t, db.Migrate(), "Failed to run migrations")

	repo := database.NewRepository(db)
	sessionStore := session.NewStore(db.DB)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// No import worker: queued jobs stay pending
	svc := app.Services{
		Auth:      services.NewAuthService(repo, sessionStore, services.AuthConfig{ClientID: "test-client"}),
		Classes:   services.NewClassService(repo, mail.NewLogSender(logger), "http://localhost:3000"),
		Timetable: services.NewTimetableService(repo),
		Imports:   services.NewImportService(repo, nil, nil),
	}
	application := app.New(repo, nil, sessionStore, svc, logger)

	for _, id := range []string{testUserID, otherUserID} {
		err := repo.UpsertUser(&models.User{
			ID:        id,
			GoogleID:  "google-" + id,
			Email:     id + "@example.com",
			Name:      "User " + id,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err, "Failed to create test user")
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return application, cleanup
}

// seedTimetable creates a class owned by the test user with week W1:
// a shared lecture, group 2 and group 3 labs with notes, and a group 2 seminar without
func seedTimetable(t *testing.T, a *app.App) {
	t.Helper()

	now := time.Now()
	require.NoError(t, a.Repo.CreateClass(&models.Class{
		ID: testClassID, Name: "Physics", OwnerID: testUserID, CreatedAt: now,
	}, &models.Invitation{
		Code: "ABCD2345", ClassID: testClassID, CreatedBy: testUserID, CreatedAt: now,
	}))

	week := &models.Week{ID: testWeekID, ClassID: testClassID, Label: "W1", StartsOn: "2025-09-01", CreatedAt: now}
	lessons := []models.Lesson{
		{ID: "lecture", Day: 1, Period: 1, Subject: "Lecture", Notes: "Bring **calculators**", Groups: []int{1}, Specializations: []int{1}, CreatedAt: now, UpdatedAt: now},
		{ID: "lab-2", Day: 1, Period: 2, Subject: "Lab A", Notes: "Lab A notes", Groups: []int{2}, Specializations: []int{2}, CreatedAt: now, UpdatedAt: now},
		{ID: "lab-3", Day: 1, Period: 3, Subject: "Lab B", Notes: "Lab B notes", Groups: []int{3}, Specializations: []int{3}, CreatedAt: now, UpdatedAt: now},
		{ID: "seminar-2", Day: 2, Period: 1, Subject: "Seminar", Groups: []int{2}, Specializations: []int{1}, CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, a.Repo.CreateWeekWithLessons(week, lessons))
}

// setupTestApp creates a test Fiber app that authenticates every request as userID
func setupTestApp(userID string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session", &models.Session{
			ID:     "test-session-id",
			UserID: userID,
			Email:  userID + "@example.com",
		})
		c.Locals("userID", userID)
		c.Locals("userEmail", userID+"@example.com")
		return c.Next()
	})

	return app
}

// doJSON performs a request and decodes the JSON response body
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}

	return resp.StatusCode, decoded
}

func subjectsOf(t *testing.T, items interface{}) []string {
	t.Helper()

	list, ok := items.([]interface{})
	require.True(t, ok, "expected a JSON array")

	subjects := make([]string, 0, len(list))
	for _, item := range list {
		subjects = append(subjects, item.(map[string]interface{})["subject"].(string))
	}
	return subjects
}
