package notifications

import (
	"context"
	"log/slog"
)

// Sender delivers a rendered message to its recipient.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no mail transport is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. A nil logger means slog.Default().
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs msg and never fails.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification not delivered, no transport configured",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
	)
	return nil
}
