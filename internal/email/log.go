package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gitshopapp/boxshop/internal/logging"
)

// LogProvider writes e-mails to the log instead of sending them. Used in development.
type LogProvider struct {
	logger *slog.Logger
}

func NewLogProvider(logger *slog.Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) SendEmail(ctx context.Context, email *Email) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}
	logging.FromContext(ctx, p.logger).Info("email not sent, log provider active",
		"to", email.To,
		"subject", email.Subject,
		"body", email.Text,
	)
	return nil
}

func (p *LogProvider) ValidateAPIKey(context.Context) error {
	return nil
}
