package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"yogyatha-workers/internal/common/logger"
	"yogyatha-workers/internal/common/metrics"
	"yogyatha-workers/internal/models"
	"yogyatha-workers/internal/storage"
)

const snapshotKey = "catalog:snapshot"

// Lister loads the full scheme catalog.
type Lister interface {
	List(ctx context.Context) ([]models.Scheme, error)
}

// CachedCatalog serves catalog snapshots from the key/value store, falling back to
// the repository on a miss. Cache failures never fail a read.
type CachedCatalog struct {
	source Lister
	store  storage.Store
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedCatalog returns a catalog that reads through store. A nil store or a
// zero ttl disables caching.
func NewCachedCatalog(source Lister, store storage.Store, ttl time.Duration, log logger.Logger) *CachedCatalog {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedCatalog{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-cache"}),
	}
}

func (c *CachedCatalog) enabled() bool {
	return c.store != nil && c.ttl > 0
}

// Schemes returns the current catalog snapshot.
func (c *CachedCatalog) Schemes(ctx context.Context) ([]models.Scheme, error) {
	if !c.enabled() {
		return c.source.List(ctx)
	}

	raw, err := c.store.Get(ctx, snapshotKey)
	switch {
	case err == nil:
		var schemes []models.Scheme
		if jsonErr := json.Unmarshal(raw, &schemes); jsonErr == nil {
			metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
			return schemes, nil
		}
		c.logger.Warn("discarding unreadable catalog snapshot", nil)
	case errors.Is(err, storage.ErrNotFound):
	default:
		c.logger.Warn("catalog cache read failed", map[string]interface{}{"error": err})
	}
	metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()

	schemes, err := c.source.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(schemes); err == nil {
		if err := c.store.Put(ctx, snapshotKey, raw, c.ttl); err != nil {
			c.logger.Warn("catalog cache write failed", map[string]interface{}{"error": err})
		}
	}
	return schemes, nil
}

// Invalidate drops the cached snapshot after a catalog write.
func (c *CachedCatalog) Invalidate(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.store.Delete(ctx, snapshotKey)
}
