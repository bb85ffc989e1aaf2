package docproc

import (
	"class-timetable/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a single parse request
const DefaultTimeout = 2 * time.Minute

var ErrNotConfigured = errors.New("document processing service is not configured")

// Client talks to the document-processing service that turns timetable documents
// into structured weeks
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

// NewClient creates a client for the service at baseURL. token is optional.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: DefaultTimeout,
	}
}

// Parse sends a document to the service and returns the parsed timetable
func (c *Client) Parse(ctx context.Context, filename, contentType string, data []byte) (*models.ParsedTimetable, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(c.baseURL + "/v1/timetables")
	agent.ContentType(contentType)
	agent.Set("X-Filename", filename)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	agent.Body(data)
	agent.Timeout(timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("call document service: %w", errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return nil, &StatusError{Code: code, Body: truncate(string(body), 200)}
	}

	var parsed models.ParsedTimetable
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode document service response: %w", err)
	}

	return &parsed, nil
}

// StatusError is returned when the service answers with a non-200 status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("document service returned %d: %s", e.Code, e.Body)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
