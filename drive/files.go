package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxDownloadSize caps how much of a Drive file is read into memory
const MaxDownloadSize = 10 << 20

var ErrFileTooLarge = errors.New("drive file is too large")

// Native Google formats cannot be downloaded directly and are exported instead
var exportFormats = map[string]struct {
	mimeType  string
	extension string
}{
	"application/vnd.google-apps.spreadsheet":  {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	"application/vnd.google-apps.document":     {"application/pdf", ".pdf"},
	"application/vnd.google-apps.presentation": {"application/pdf", ".pdf"},
}

// Document is a file fetched from Drive
type Document struct {
	ID       string
	Name     string
	MimeType string
	Data     []byte
}

// Download fetches a file's content, exporting native Google formats
func (c *Client) Download(ctx context.Context, fileID string) (*Document, error) {
	meta, err := c.service.Files.Get(fileID).
		Fields("id, name, mimeType, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get file metadata: %w", err)
	}
	if meta.Size > MaxDownloadSize {
		return nil, ErrFileTooLarge
	}

	doc := &Document{ID: meta.Id, Name: meta.Name, MimeType: meta.MimeType}

	var body io.ReadCloser
	if format, ok := exportFormats[meta.MimeType]; ok {
		resp, err := c.service.Files.Export(fileID, format.mimeType).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("export file: %w", err)
		}
		body = resp.Body
		doc.MimeType = format.mimeType
		if !strings.HasSuffix(doc.Name, format.extension) {
			doc.Name += format.extension
		}
	} else {
		resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return nil, fmt.Errorf("download file: %w", err)
		}
		body = resp.Body
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, MaxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxDownloadSize {
		return nil, ErrFileTooLarge
	}

	doc.Data = data
	return doc, nil
}
