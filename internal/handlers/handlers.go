package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gitshopapp/boxshop/internal/auth"
	"github.com/gitshopapp/boxshop/internal/config"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/services"
	"github.com/gitshopapp/boxshop/internal/session"
)

// Handlers provides the storefront and admin JSON API.
type Handlers struct {
	config         *config.Config
	catalog        *services.CatalogService
	carts          *services.CartService
	orders         *services.OrderRequestService
	adminService   *services.AdminService
	sessionManager *session.Manager
	authenticator  *auth.Authenticator
	logger         *slog.Logger
}

type Dependencies struct {
	Config         *config.Config
	Catalog        *services.CatalogService
	Carts          *services.CartService
	Orders         *services.OrderRequestService
	AdminService   *services.AdminService
	SessionManager *session.Manager
	Authenticator  *auth.Authenticator
	Logger         *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("handlers dependencies: catalog is required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("handlers dependencies: carts is required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("handlers dependencies: orders is required")
	}
	if deps.AdminService == nil {
		return nil, fmt.Errorf("handlers dependencies: adminService is required")
	}
	if deps.SessionManager == nil {
		return nil, fmt.Errorf("handlers dependencies: sessionManager is required")
	}
	if deps.Authenticator == nil {
		return nil, fmt.Errorf("handlers dependencies: authenticator is required")
	}

	return &Handlers{
		config:         deps.Config,
		catalog:        deps.Catalog,
		carts:          deps.Carts,
		orders:         deps.Orders,
		adminService:   deps.AdminService,
		sessionManager: deps.SessionManager,
		authenticator:  deps.Authenticator,
		logger:         logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.loggerFromContext(ctx)

	if err := h.catalog.Ping(ctx); err != nil {
		logger.Error("product source health check failed", "error", err)
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "healthy"})
}

// SessionMiddleware loads the visitor's cart session into the request context.
func (h *Handlers) SessionMiddleware(next http.Handler) http.Handler {
	return h.sessionManager.Middleware(next)
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
