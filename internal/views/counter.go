// Package views records product views and keeps the most-viewed ranking
// cache consistent with the counters behind it.
package views

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abgdnv/productview/internal/store"
)

// RankingKey is the single cache key holding the current most-viewed ranking.
const RankingKey = "most_viewed"

// Evictor removes entries from the ranking cache.
type Evictor interface {
	Evict(key string)
}

// ViewCounter records a single product view.
type ViewCounter interface {
	// RecordView increments the product's view counter by exactly one,
	// persists it and invalidates the ranking cache. It returns the new
	// counter value.
	RecordView(ctx context.Context, id int64) (int64, error)
}

// Counter implements ViewCounter against the product store and the ranking cache.
type Counter struct {
	store  store.ProductStore
	cache  Evictor
	logger *slog.Logger
}

var _ ViewCounter = (*Counter)(nil)

// NewCounter creates a Counter.
func NewCounter(pStore store.ProductStore, cache Evictor, logger *slog.Logger) *Counter {
	return &Counter{
		store:  pStore,
		cache:  cache,
		logger: logger.With("component", "views"),
	}
}

// RecordView evicts the ranking key and then increments-and-persists the
// view counter. Between the eviction and the commit of the write, a
// concurrent ranking read may repopulate the cache with a ranking that does
// not yet include this view; that staleness window is accepted and bounded
// by the cache TTL.
func (c *Counter) RecordView(ctx context.Context, id int64) (int64, error) {
	c.cache.Evict(RankingKey)
	viewCount, err := c.store.IncrementViewCount(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to record view for product %d: %w", id, err)
	}
	c.logger.DebugContext(ctx, "Recorded product view", "ID", id, "viewCount", viewCount)
	return viewCount, nil
}
