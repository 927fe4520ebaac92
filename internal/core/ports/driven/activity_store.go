package driven

import (
	"context"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

// ActivityStore caches fetched activities locally.
type ActivityStore interface {
	// Upsert inserts or replaces activities by provider ID.
	Upsert(ctx context.Context, activities []domain.Activity) error
	// ListRange returns cached activities started within (after, before),
	// ordered by start time ascending.
	ListRange(ctx context.Context, after, before time.Time) ([]domain.Activity, error)
	// Close releases the underlying storage.
	Close() error
}
