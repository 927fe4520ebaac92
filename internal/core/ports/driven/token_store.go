package driven

import "github.com/cadence-labs/cadence-cli/internal/core/domain"

// TokenStore persists the token-exchange payload.
type TokenStore interface {
	// Save writes the raw provider payload, overwriting any prior token.
	Save(raw []byte) error
	// Load reads the persisted token. Returns domain.ErrNotFound if no
	// token has been persisted yet.
	Load() (*domain.OAuthToken, error)
	// Path returns the location tokens are persisted to, for operator output.
	Path() string
}
