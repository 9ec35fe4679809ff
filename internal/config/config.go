package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env string `env:"ENV" envDefault:"development" validate:"omitempty,oneof=development production test"`

	ProductSource   string `env:"PRODUCT_SOURCE" envDefault:"memory" validate:"omitempty,oneof=memory postgres"`
	DatabaseURL     string `env:"DATABASE_URL" validate:"required_if=ProductSource postgres"`
	CatalogSeedPath string `env:"CATALOG_SEED_PATH"`

	CacheProvider         string        `env:"CACHE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	CartStoreProvider     string        `env:"CART_STORE_PROVIDER" envDefault:"memory" validate:"omitempty,oneof=memory redis"`
	RedisConnectionString string        `env:"REDIS_CONNECTION_STRING" envDefault:"redis://localhost:6379/0" validate:"required_if=CacheProvider redis,required_if=CartStoreProvider redis"`
	CatalogCacheTTL       time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m" validate:"gte=0"`
	PageSize              int           `env:"PAGE_SIZE" envDefault:"9" validate:"gte=1,lte=100"`

	AdminTokenSecret string `env:"ADMIN_TOKEN_SECRET,required" validate:"required,min=32"`

	EmailProvider    string `env:"EMAIL_PROVIDER" envDefault:"log" validate:"omitempty,oneof=log resend"`
	ResendAPIKey     string `env:"RESEND_API_KEY" validate:"required_if=EmailProvider resend"`
	EmailFrom        string `env:"EMAIL_FROM" envDefault:"boxshop <orders@localhost>"`
	OrderNotifyEmail string `env:"ORDER_NOTIFY_EMAIL" validate:"omitempty,email"`
	BaseURL          string `env:"BASE_URL" validate:"omitempty,url"`

	SentryDSN              string  `env:"SENTRY_DSN" validate:"omitempty,url"`
	SentryEnvironment      string  `env:"SENTRY_ENVIRONMENT"`
	SentryTracesSampleRate float64 `env:"SENTRY_TRACES_SAMPLE_RATE" envDefault:"0" validate:"gte=0,lte=1"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"text" validate:"omitempty,oneof=text json"`
	LogFile   string     `env:"LOG_FILE"`
	Port      string     `env:"PORT" envDefault:"8080"`
}

var configValidator = validator.New()

func Load() (*Config, error) {
	var cfg Config

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return err
	}

	if c.EmailProvider == "resend" && strings.TrimSpace(c.OrderNotifyEmail) == "" {
		return fmt.Errorf("ORDER_NOTIFY_EMAIL is required when EMAIL_PROVIDER is resend")
	}

	if c.IsProduction() && c.ProductSource == "memory" && strings.TrimSpace(c.CatalogSeedPath) == "" {
		return fmt.Errorf("CATALOG_SEED_PATH is required for the memory product source in production")
	}

	baseURL := strings.TrimSpace(c.BaseURL)
	if baseURL != "" {
		parsed, err := url.Parse(baseURL)
		if err != nil || parsed.Hostname() == "" {
			return fmt.Errorf("BASE_URL must be a valid absolute URL")
		}
		if !isLocalHost(parsed.Hostname()) && !strings.EqualFold(parsed.Scheme, "https") {
			return fmt.Errorf("BASE_URL must use https outside local development")
		}
	}

	return nil
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	if c.IsProduction() {
		return true
	}
	parsed, err := url.Parse(strings.TrimSpace(c.BaseURL))
	return err == nil && strings.EqualFold(parsed.Scheme, "https")
}

func isLocalHost(host string) bool {
	switch strings.ToLower(strings.TrimSpace(host)) {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
