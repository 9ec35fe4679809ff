package main

// admin-token issues bearer tokens for the boxshop admin API.

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/gitshopapp/boxshop/internal/auth"
)

type tokenConfig struct {
	AdminTokenSecret string `env:"ADMIN_TOKEN_SECRET,required"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	subject := flag.String("subject", "", "who the token is issued to, e.g. an e-mail address")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	if strings.TrimSpace(*subject) == "" {
		fmt.Fprintln(os.Stderr, "usage: admin-token -subject ops@example.com [-ttl 24h]")
		os.Exit(2)
	}

	if !strings.EqualFold(os.Getenv("ENV"), "production") {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to load .env file", "error", err)
		}
	}

	var cfg tokenConfig
	if err := env.Parse(&cfg); err != nil {
		logger.Error("failed to read configuration", "error", err)
		os.Exit(1)
	}

	authenticator, err := auth.New(cfg.AdminTokenSecret)
	if err != nil {
		logger.Error("failed to initialize authenticator", "error", err)
		os.Exit(1)
	}

	token, err := authenticator.Issue(strings.TrimSpace(*subject), *ttl)
	if err != nil {
		logger.Error("failed to issue token", "error", err)
		os.Exit(1)
	}

	logger.Info("admin token issued", "subject", *subject, "expires_at", time.Now().Add(*ttl).UTC().Format(time.RFC3339))
	fmt.Println(token)
}
