package file

import (
	"fmt"
	"os"

	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/ports/driven"
)

// Configuration keys for the Strava application registration.
const (
	KeyClientID     = "strava.client_id"
	KeyClientSecret = "strava.client_secret"
)

// Environment variables that override the config file. Useful for CI and
// for keeping the client secret out of the filesystem entirely.
const (
	EnvClientID     = "CADENCE_CLIENT_ID"
	EnvClientSecret = "CADENCE_CLIENT_SECRET"
	EnvAccessToken  = "CADENCE_ACCESS_TOKEN"
)

// Credentials holds the Strava API credentials resolved from the config
// file and the environment.
type Credentials struct {
	ClientID     string
	ClientSecret string

	// AccessToken is only set when overridden via the environment;
	// the usual source is the persisted token file.
	AccessToken string
}

// LoadCredentials resolves credentials from the config store, with
// environment variables taking precedence.
func LoadCredentials(cfg driven.ConfigStore) Credentials {
	creds := Credentials{
		ClientID:     cfg.GetString(KeyClientID),
		ClientSecret: cfg.GetString(KeyClientSecret),
	}

	if v := os.Getenv(EnvClientID); v != "" {
		creds.ClientID = v
	}
	if v := os.Getenv(EnvClientSecret); v != "" {
		creds.ClientSecret = v
	}
	if v := os.Getenv(EnvAccessToken); v != "" {
		creds.AccessToken = v
	}

	return creds
}

// RequireApp verifies that the application registration is complete enough
// to start an authorization flow.
func (c Credentials) RequireApp() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("%w: set %s and %s with 'cadence config init', or export %s and %s",
			domain.ErrMissingCredentials,
			KeyClientID, KeyClientSecret,
			EnvClientID, EnvClientSecret)
	}
	return nil
}
