// Package mail delivers transactional email through a configurable provider.
package mail

import (
	"context"
	"fmt"

	"github.com/taskflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Message is a single outgoing email
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender builds the Sender selected by cfg.Provider
func NewSender(cfg config.MailConfig, logger *zap.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.MailProviderLog, "":
		return NewLogSender(logger), nil
	case config.MailProviderResend:
		return NewResendSender(cfg, logger), nil
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// LogSender writes messages to the log instead of sending them.
// It is the development default.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("Email (log provider)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
	)
	return nil
}
