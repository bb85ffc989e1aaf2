package docproc

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Parse(t *testing.T) {
	var gotPath, gotFilename, gotAuth, gotType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFilename = r.Header.Get("X-Filename")
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"week": {"label": "W1", "starts_on": "2025-09-01"},
			"lessons": [
				{"day": 1, "period": 1, "subject": "Math", "groups": [1]},
				{"day": 1, "period": 2, "subject": "Lab", "groups": [2], "specializations": [3]}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", "secret")
	parsed, err := client.Parse(context.Background(), "week1.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)

	assert.Equal(t, "/v1/timetables", gotPath)
	assert.Equal(t, "week1.pdf", gotFilename)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, []byte("%PDF-1.7"), gotBody)

	assert.Equal(t, "W1", parsed.Week.Label)
	assert.Equal(t, "2025-09-01", parsed.Week.StartsOn)
	require.Len(t, parsed.Lessons, 2)
	assert.Equal(t, []int{2}, parsed.Lessons[1].Groups)
	assert.Equal(t, []int{3}, parsed.Lessons[1].Specializations)
}

func TestClient_NoTokenOmitsAuthorization(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"week": {"label": "W", "starts_on": "2025-09-01"}, "lessons": []}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Parse(context.Background(), "a.xlsx", "application/octet-stream", []byte("x"))
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("unsupported document"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Parse(context.Background(), "a.doc", "application/msword", []byte("x"))
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	assert.Contains(t, statusErr.Body, "unsupported document")
}

func TestClient_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Parse(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode document service response")
}

func TestClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", "").Parse(context.Background(), "a.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient("http://127.0.0.1:1", "").Parse(ctx, "a.pdf", "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))

	// "é" is two bytes; cutting inside it backs off to the previous rune
	cut := truncate("aé", 2)
	assert.Equal(t, "a...", cut)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "aé...", truncate("aébc", 3))
	assert.True(t, utf8.ValidString(truncate(strings.Repeat("ж", 150), 200)))
}
