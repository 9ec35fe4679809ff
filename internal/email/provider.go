// Package email sends order request notifications.
package email

import (
	"context"
	"fmt"
	"log/slog"
)

type Provider interface {
	SendEmail(ctx context.Context, email *Email) error
	ValidateAPIKey(ctx context.Context) error
}

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
	ReplyTo string
}

type Config struct {
	Provider string
	APIKey   string
	From     string
}

func NewProvider(config Config, logger *slog.Logger) (Provider, error) {
	switch config.Provider {
	case "log", "":
		return NewLogProvider(logger), nil
	case "resend":
		if config.APIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required for the resend provider")
		}
		return NewResendProvider(config.APIKey, config.From), nil
	default:
		return nil, fmt.Errorf("EMAIL_PROVIDER must be either 'log' or 'resend'")
	}
}
