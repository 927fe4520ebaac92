// Package tokenfile persists OAuth tokens as a JSON file on disk.
package tokenfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.TokenStore = (*Store)(nil)

// Store writes the raw provider token response to a single JSON file.
// Keeping the provider's exact payload means fields we do not model
// (athlete profile, granted scopes) survive a round-trip.
type Store struct {
	filePath string
}

// NewStore creates a token store rooted at dir.
// If dir is empty, defaults to ~/.cadence/strava_tokens.json.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cadence")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &Store{filePath: filepath.Join(dir, "strava_tokens.json")}, nil
}

// Save pretty-prints and persists a raw token response.
func (s *Store) Save(raw []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return fmt.Errorf("formatting token response: %w", err)
	}

	// Tokens are secrets; restrict to the owner
	if err := os.WriteFile(s.filePath, pretty.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Load reads the persisted token file.
// Returns domain.ErrNotFound if no authorization has been performed yet.
func (s *Store) Load() (*domain.OAuthToken, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no tokens at %s, run 'cadence authorize' first", domain.ErrNotFound, s.filePath)
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var token domain.OAuthToken
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", s.filePath, err)
	}

	return &token, nil
}

// Path returns the token file path.
func (s *Store) Path() string {
	return s.filePath
}
