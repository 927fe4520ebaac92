package driven

import (
	"context"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

// TokenExchanger exchanges a one-time authorization code for tokens.
// A single attempt per invocation: authorization codes are consumed
// provider-side on first use, so retrying would itself fail.
type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (*domain.TokenExchange, error)
}
