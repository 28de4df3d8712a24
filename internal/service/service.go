// Package service contains the entity services orchestrating storage, cache,
// upload and event publishing for each CRUD operation.  Handlers stay thin:
// they bind and validate input, call one service method and map the result.
//
// List operations return the serialized response envelope so a cache hit is
// replayed byte-for-byte.  Mutations invalidate cache namespaces through the
// declarative graph in the cache package and emit a best-effort catalog
// event; neither step can fail the write that already happened.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/queue"
)

// ListResult is the envelope returned by every paginated listing.
type ListResult struct {
	Data  any   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// PosterStore is the slice of the upload store the movie service needs.
// Deletion is best-effort and therefore returns nothing.
type PosterStore interface {
	StorePoster(ctx context.Context, data []byte, mimeType, originalName string) (string, error)
	DeletePoster(ctx context.Context, posterURL string)
}

// normalizePage clamps pagination to page >= 1 and 1 <= limit <= 100,
// defaulting to 1/10.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// emitEvent publishes a catalog event, ignoring failures.  The publisher is
// nil-safe; a broker outage only costs the audit line.
func emitEvent(ctx context.Context, pub *queue.Publisher, logger *zap.Logger, entity, action string, id uint64, name string) {
	ev := queue.CatalogEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		Name:       name,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := pub.Publish(ctx, ev); err != nil {
		logger.Debug("catalog event dropped",
			zap.String("entity", entity), zap.String("action", action), zap.Error(err))
	}
}
