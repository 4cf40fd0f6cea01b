// Package notify delivers verification codes to account owners.
package notify

import (
	"context"

	"github.com/dmitrijs2005/resumehub/internal/logging"
)

// Notifier sends the email verification code to a freshly registered address.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
}

// LogNotifier logs issued codes instead of mailing them. It is used when no
// SMTP host is configured. The code itself is written at debug level only.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(logger logging.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notify")}
}

func (n *LogNotifier) SendVerificationEmail(ctx context.Context, email, code string) error {
	n.logger.Info(ctx, "email verification code issued", "email", email)
	n.logger.Debug(ctx, "email verification code", "email", email, "code", code)
	return nil
}
