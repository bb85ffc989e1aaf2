// Package mail delivers outgoing email such as class invitations.
package mail

import (
	"context"
	"log/slog"
)

// Message is a single outgoing email
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// LogSender writes messages to the log instead of sending them; used when no
// mail provider is configured
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("email not sent (no provider configured)",
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
