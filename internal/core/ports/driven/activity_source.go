package driven

import (
	"context"
	"time"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

// ActivitySource fetches activities from the fitness provider.
type ActivitySource interface {
	// ListActivities returns all activities started within (after, before),
	// in the order the provider returned them. A provider-reported error
	// discards any partial results.
	ListActivities(ctx context.Context, after, before time.Time) ([]domain.Activity, error)
}
