package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gitshopapp/boxshop/internal/auth"
	"github.com/gitshopapp/boxshop/internal/cache"
	"github.com/gitshopapp/boxshop/internal/catalog"
	"github.com/gitshopapp/boxshop/internal/config"
	"github.com/gitshopapp/boxshop/internal/db"
	"github.com/gitshopapp/boxshop/internal/email"
	"github.com/gitshopapp/boxshop/internal/handlers"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/services"
	"github.com/gitshopapp/boxshop/internal/session"
)

const sentryFlushTimeout = 2 * time.Second

type App struct {
	Config         *config.Config
	Logger         *slog.Logger
	DB             *pgxpool.Pool
	CacheProvider  cache.Provider
	SessionManager *session.Manager
	Handlers       *handlers.Handlers

	logCloser     io.Closer
	sentryEnabled bool
}

// productBackend is a product store that can also feed the storefront catalog.
type productBackend interface {
	services.ProductSource
	services.ProductStore
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, logCloser, err := logging.New(os.Stdout, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		logCloser: logCloser,
	}

	if err := a.initSentry(); err != nil {
		a.Close()
		return nil, err
	}
	logger = a.Logger

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	products, inventory, err := a.openProductSource(startupCtx)
	if err != nil {
		a.Close()
		return nil, err
	}

	cacheProvider, err := cache.NewProvider(cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}
	a.CacheProvider = cacheProvider

	cartStore, err := session.NewStore(startupCtx, session.Config{
		Provider:              cfg.CartStoreProvider,
		RedisConnectionString: cfg.RedisConnectionString,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize cart store: %w", err)
	}
	a.SessionManager = session.NewManager(cartStore, cfg.SecureCookies(), 0)

	authenticator, err := auth.New(cfg.AdminTokenSecret)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize admin authenticator: %w", err)
	}

	emailProvider, err := email.NewProvider(email.Config{
		Provider: cfg.EmailProvider,
		APIKey:   cfg.ResendAPIKey,
		From:     cfg.EmailFrom,
	}, logger.With("component", "email"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize email provider: %w", err)
	}

	catalogService := services.NewCatalogService(
		products,
		cacheProvider,
		cfg.CatalogCacheTTL,
		cfg.PageSize,
		logger.With("component", "catalog_service"),
	)
	cartService := services.NewCartService(catalogService)
	orderService, err := services.NewOrderRequestService(
		emailProvider,
		cfg.OrderNotifyEmail,
		cfg.BaseURL,
		logger.With("component", "order_request_service"),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize order request service: %w", err)
	}
	adminService := services.NewAdminService(
		products,
		inventory,
		catalog.NewValidator(),
		catalogService,
		logger.With("component", "admin_service"),
	)

	h, err := handlers.New(handlers.Dependencies{
		Config:         cfg,
		Catalog:        catalogService,
		Carts:          cartService,
		Orders:         orderService,
		AdminService:   adminService,
		SessionManager: a.SessionManager,
		Authenticator:  authenticator,
		Logger:         logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.Handlers = h

	logger.Info("application initialized",
		"env", cfg.Env,
		"product_source", cfg.ProductSource,
		"cache_provider", cfg.CacheProvider,
		"cart_store_provider", cfg.CartStoreProvider,
		"email_provider", cfg.EmailProvider,
	)

	return a, nil
}

func (a *App) initSentry() error {
	cfg := a.Config
	if strings.TrimSpace(cfg.SentryDSN) == "" {
		return nil
	}

	environment := cfg.SentryEnvironment
	if environment == "" {
		environment = cfg.Env
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      environment,
		EnableTracing:    cfg.SentryTracesSampleRate > 0,
		TracesSampleRate: cfg.SentryTracesSampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}
	a.sentryEnabled = true

	// error records also become sentry events
	sentryHandler := sentryslog.Option{EventLevel: []slog.Level{slog.LevelError}}.NewSentryHandler(context.Background())
	a.Logger = slog.New(logging.MultiHandler(a.Logger.Handler(), sentryHandler))
	return nil
}

// openProductSource returns the product and inventory stores for the configured source.
func (a *App) openProductSource(ctx context.Context) (productBackend, services.InventoryStore, error) {
	cfg := a.Config

	switch cfg.ProductSource {
	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseURL, a.Logger.With("component", "db"))
		if err != nil {
			return nil, nil, err
		}
		a.DB = pool
		if err := db.Migrate(pool); err != nil {
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db.NewProductStore(pool), db.NewInventoryStore(pool), nil

	case "memory", "":
		store, err := loadMemoryStore(cfg.CatalogSeedPath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil

	default:
		return nil, nil, fmt.Errorf("unsupported product source: %s", cfg.ProductSource)
	}
}

func loadMemoryStore(seedPath string) (*db.MemoryStore, error) {
	if strings.TrimSpace(seedPath) == "" {
		return db.NewMemoryStore(), nil
	}

	seed, err := catalog.NewParser().ParseFile(seedPath)
	if err != nil {
		return nil, err
	}
	if err := catalog.NewValidator().ValidateSeed(seed); err != nil {
		return nil, fmt.Errorf("invalid catalog seed %s: %w", seedPath, err)
	}
	return db.NewMemoryStoreFromSeed(seed), nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.SessionManager != nil {
		closeSessionManager(a.Logger, a.SessionManager)
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.DB != nil {
		a.DB.Close()
	}
	if a.sentryEnabled {
		sentry.Flush(sentryFlushTimeout)
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}

func closeSessionManager(logger *slog.Logger, manager *session.Manager) {
	if manager == nil {
		return
	}
	if err := manager.Close(); err != nil && logger != nil {
		logger.Warn("failed to close session manager", "error", err)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}
