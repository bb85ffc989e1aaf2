package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderNotes(t *testing.T) {
	assert.Empty(t, RenderNotes(""))
	assert.Empty(t, RenderNotes(" \n\t"))

	html := RenderNotes("Bring **calculators**\nand a ruler")
	assert.Contains(t, html, "<strong>calculators</strong>")
	assert.Contains(t, html, "<br>")

	assert.NotContains(t, RenderNotes("<script>alert(1)</script>"), "<script>")
}
