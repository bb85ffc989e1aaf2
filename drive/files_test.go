package drive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return &Client{service: service}
}

func TestDownload_RegularFile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/files/f1", r.URL.Path)
		if r.URL.Query().Get("alt") == "media" {
			fmt.Fprint(w, "%PDF-1.4")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"f1","name":"week.pdf","mimeType":"application/pdf","size":"8"}`)
	})

	doc, err := client.Download(context.Background(), "f1")
	require.NoError(t, err)
	assert.Equal(t, "week.pdf", doc.Name)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Data)
}

func TestDownload_ExportsSpreadsheets(t *testing.T) {
	xlsx := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/sheet":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"sheet","name":"Week 1","mimeType":"application/vnd.google-apps.spreadsheet"}`)
		case "/files/sheet/export":
			assert.Equal(t, xlsx, r.URL.Query().Get("mimeType"))
			fmt.Fprint(w, "PK")
		default:
			http.NotFound(w, r)
		}
	})

	doc, err := client.Download(context.Background(), "sheet")
	require.NoError(t, err)
	assert.Equal(t, "Week 1.xlsx", doc.Name)
	assert.Equal(t, xlsx, doc.MimeType)
	assert.Equal(t, []byte("PK"), doc.Data)
}

func TestDownload_TooLarge(t *testing.T) {
	t.Run("Declared size", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"id":"big","name":"big.pdf","mimeType":"application/pdf","size":"%d"}`, MaxDownloadSize+1)
		})

		_, err := client.Download(context.Background(), "big")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("Exported content", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/export") {
				fmt.Fprint(w, strings.Repeat("x", MaxDownloadSize+1))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id":"doc","name":"Notes","mimeType":"application/vnd.google-apps.document"}`)
		})

		_, err := client.Download(context.Background(), "doc")
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestDownload_MetadataError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"File not found"}}`, http.StatusNotFound)
	})

	_, err := client.Download(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get file metadata")
}
