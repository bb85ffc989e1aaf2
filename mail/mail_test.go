package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	err := sender.Send(context.Background(), Message{
		To:      []string{"student@example.com"},
		Subject: "Invitation to CS-101",
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "Invitation to CS-101")
	assert.Contains(t, buf.String(), "student@example.com")
}

func TestResendSender_RejectsEmptyRecipients(t *testing.T) {
	sender := NewResendSender("re_test", "timetable@example.com")

	err := sender.Send(context.Background(), Message{Subject: "No one"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no recipients")
}
