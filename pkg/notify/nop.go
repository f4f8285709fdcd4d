package notify

import (
	"context"

	"go.uber.org/zap"
)

// NopMailer stands in for a real mailer in development. It records the
// recipient only, never the message, since the message carries the code.
type NopMailer struct {
	log *zap.Logger
}

func NewNopMailer(log *zap.Logger) *NopMailer {
	return &NopMailer{log: log.With(zap.String("component", "nop_mailer"))}
}

func (m *NopMailer) Send(ctx context.Context, to, subject, message string) error {
	m.log.Info("Mail delivery skipped", zap.String("to", to), zap.String("subject", subject))
	return nil
}
