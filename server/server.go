package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"

	"github.com/gitshopapp/boxshop/internal/config"
	"github.com/gitshopapp/boxshop/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	router := s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	r.Use(h.RequestLogger)
	r.Use(h.MetricsContext)
	r.Use(h.SecurityHeaders)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}` + "\n"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusMethodNotAllowed)
		_, _ = w.Write([]byte(`{"error":"Method not allowed"}` + "\n"))
	})

	// Storefront catalog
	r.HandleFunc("/api/catalog", h.Catalog).Methods("GET").Name("catalog")
	r.HandleFunc("/api/products/{id}", h.Product).Methods("GET").Name("catalog.product")

	// Cart routes carry the visitor's session cookie
	cartRouter := r.PathPrefix("/api/cart").Subrouter()
	cartRouter.Use(h.SessionMiddleware)
	cartRouter.Use(h.RequireSameOrigin)
	cartRouter.HandleFunc("", h.GetCart).Methods("GET").Name("cart")
	cartRouter.HandleFunc("", h.ClearCart).Methods("DELETE").Name("cart.clear")
	cartRouter.HandleFunc("/items", h.AddCartItem).Methods("POST").Name("cart.items.add")
	cartRouter.HandleFunc("/items/{productId}", h.UpdateCartItem).Methods("PUT").Name("cart.items.update")
	cartRouter.HandleFunc("/items/{productId}", h.RemoveCartItem).Methods("DELETE").Name("cart.items.remove")
	cartRouter.HandleFunc("/checkout", h.Checkout).Methods("POST").Name("cart.checkout")

	// Protected admin routes - require a bearer token
	adminRouter := r.PathPrefix("/admin/api").Subrouter()
	adminRouter.Use(h.RequireAdmin)
	adminRouter.HandleFunc("/products", h.AdminListProducts).Methods("GET").Name("admin.products")
	adminRouter.HandleFunc("/products", h.AdminCreateProduct).Methods("POST").Name("admin.products.create")
	adminRouter.HandleFunc("/products/{id}", h.AdminGetProduct).Methods("GET").Name("admin.products.get")
	adminRouter.HandleFunc("/products/{id}", h.AdminUpdateProduct).Methods("PUT").Name("admin.products.update")
	adminRouter.HandleFunc("/products/{id}", h.AdminDeleteProduct).Methods("DELETE").Name("admin.products.delete")
	adminRouter.HandleFunc("/inventory", h.AdminListInventory).Methods("GET").Name("admin.inventory")
	adminRouter.HandleFunc("/inventory", h.AdminCreateInventoryItem).Methods("POST").Name("admin.inventory.create")
	adminRouter.HandleFunc("/inventory/{id}", h.AdminUpdateInventoryItem).Methods("PUT").Name("admin.inventory.update")
	adminRouter.HandleFunc("/inventory/{id}", h.AdminDeleteInventoryItem).Methods("DELETE").Name("admin.inventory.delete")

	return r
}
