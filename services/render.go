package services

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// notesRenderer converts lesson notes from markdown. Raw HTML in the input is
// omitted since WithUnsafe is not set.
var notesRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderNotes returns the HTML form of a lesson's notes, or "" for blank notes
func RenderNotes(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(notes), &buf); err != nil {
		slog.Warn("failed to render notes", "error", err)
		return ""
	}
	return buf.String()
}
