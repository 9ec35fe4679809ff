package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"golang.org/x/sync/singleflight"

	"github.com/gitshopapp/boxshop/internal/cache"
	"github.com/gitshopapp/boxshop/internal/catalog"
	"github.com/gitshopapp/boxshop/internal/db"
	"github.com/gitshopapp/boxshop/internal/logging"
	"github.com/gitshopapp/boxshop/internal/observability"
)

// ProductSource is where catalog records come from.
type ProductSource interface {
	ListProducts(ctx context.Context) ([]db.Product, error)
	Ping(ctx context.Context) error
}

// CatalogService builds catalog snapshots from the product source and answers
// storefront queries against them.
type CatalogService struct {
	source   ProductSource
	cache    cache.Provider
	ttl      time.Duration
	pageSize int
	loads    singleflight.Group
	logger   *slog.Logger

	// generation is bumped by Invalidate; loads that straddle a bump do not cache.
	generation atomic.Uint64
}

const (
	snapshotLoadKey = "catalog"

	// snapshotLoadTimeout bounds a shared load, which outlives the request that started it.
	snapshotLoadTimeout = 30 * time.Second
)

func NewCatalogService(source ProductSource, cacheProvider cache.Provider, ttl time.Duration, pageSize int, logger *slog.Logger) *CatalogService {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &CatalogService{
		source:   source,
		cache:    cacheProvider,
		ttl:      ttl,
		pageSize: pageSize,
		logger:   logger,
	}
}

func (s *CatalogService) PageSize() int {
	return s.pageSize
}

// Query runs the view state against the current snapshot.
func (s *CatalogService) Query(ctx context.Context, state catalog.ViewState) (catalog.Result, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return catalog.Result{}, err
	}
	return snap.Run(state, s.pageSize), nil
}

// Product returns one catalog product by ID.
func (s *CatalogService) Product(ctx context.Context, id string) (catalog.Product, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return catalog.Product{}, err
	}
	p, ok := snap.Product(id)
	if !ok {
		return catalog.Product{}, ErrProductNotFound
	}
	return p, nil
}

// Snapshot returns the catalog snapshot, reading through the cache. Concurrent
// misses share a single source load.
func (s *CatalogService) Snapshot(ctx context.Context) (*catalog.Snapshot, error) {
	meter := observability.MeterFromContext(ctx)

	if products, ok := s.cached(ctx); ok {
		meter.Count("catalog.cache.hit", 1)
		return catalog.NewSnapshot(products), nil
	}
	meter.Count("catalog.cache.miss", 1)

	result, err, _ := s.loads.Do(snapshotLoadKey, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
		defer cancel()
		return s.load(loadCtx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*catalog.Snapshot), nil
}

// Invalidate drops the cached snapshot so the next query reloads from the source.
func (s *CatalogService) Invalidate(ctx context.Context) error {
	s.generation.Add(1)
	s.loads.Forget(snapshotLoadKey)
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, cache.CatalogSnapshotKey()); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *CatalogService) Ping(ctx context.Context) error {
	return s.source.Ping(ctx)
}

func (s *CatalogService) cached(ctx context.Context) ([]catalog.Product, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}

	payload, err := s.cache.Get(ctx, cache.CatalogSnapshotKey())
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logging.FromContext(ctx, s.logger).Warn("catalog cache read failed", "error", err)
		}
		return nil, false
	}

	var products []catalog.Product
	if err := json.Unmarshal(payload, &products); err != nil {
		logging.FromContext(ctx, s.logger).Warn("discarding undecodable catalog cache entry", "error", err)
		return nil, false
	}
	return products, true
}

func (s *CatalogService) load(ctx context.Context) (*catalog.Snapshot, error) {
	span := sentry.StartSpan(
		ctx,
		"service.catalog.load",
		sentry.WithOpName("service.catalog"),
		sentry.WithDescription("LoadSnapshot"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := logging.FromContext(ctx, s.logger)
	meter := observability.MeterFromContext(ctx)

	generation := s.generation.Load()
	rows, err := s.source.ListProducts(ctx)
	if err != nil {
		meter.Count("catalog.load.failed", 1)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	products := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		p, err := catalog.FromRecord(RecordFromProduct(row))
		if err != nil {
			observability.CountRejected(ctx, "catalog.record.rejected", "malformed_size")
			logger.Warn("skipping catalog record", "product_id", row.ID, "size", row.Size, "error", err)
			continue
		}
		products = append(products, p)
	}

	s.store(ctx, generation, products)

	meter.Distribution("catalog.snapshot.size", float64(len(products)))
	logger.Debug("catalog snapshot loaded", "products", len(products), "rejected", len(rows)-len(products))

	return catalog.NewSnapshot(products), nil
}

// store caches products read at generation. A snapshot that an Invalidate
// overtook is never left in the cache.
func (s *CatalogService) store(ctx context.Context, generation uint64, products []catalog.Product) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	logger := logging.FromContext(ctx, s.logger)
	if s.generation.Load() != generation {
		logger.Debug("catalog invalidated during load, not caching snapshot")
		return
	}

	payload, err := json.Marshal(products)
	if err == nil {
		err = s.cache.Set(ctx, cache.CatalogSnapshotKey(), payload, s.ttl)
	}
	if err != nil {
		logger.Warn("failed to cache catalog snapshot", "error", err)
		return
	}

	// an Invalidate that ran between the check and the write has already deleted the key
	if s.generation.Load() != generation {
		if err := s.cache.Delete(ctx, cache.CatalogSnapshotKey()); err != nil {
			logger.Warn("failed to drop stale catalog snapshot", "error", err)
		}
	}
}

// RecordFromProduct converts a stored product into the raw record shape parsed by the catalog.
func RecordFromProduct(p db.Product) catalog.Record {
	return catalog.Record{
		ID:            p.ID.String(),
		Name:          p.Name,
		Size:          p.Size,
		Price:         p.Price,
		Colors:        p.Colors,
		CardboardType: p.CardboardType,
		Brand:         p.Brand,
		Category:      p.Category,
		Availability:  p.Availability,
		ImageURL:      p.ImageURL,
		PackageSize:   p.PackageSize,
	}
}
