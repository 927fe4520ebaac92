// Package cli wires the cobra command tree for the cadence binary.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/config/file"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/tokenfile"
	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

// version is set by goreleaser infra at build time.
var version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Strava training volume from your terminal",
	Long: `Cadence fetches your Strava activities and summarises weekly
training volume as a chart and table.

Getting started:
  cadence config init    # store your Strava API application credentials
  cadence authorize      # run the browser OAuth flow once
  cadence weekly 12      # weekly moving time for the last 12 weeks`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openConfig opens the default config store.
func openConfig() (*file.ConfigStore, error) {
	cfg, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return cfg, nil
}

// resolveAccessToken returns the access token to use for API calls.
// The environment override wins; otherwise the persisted token file is used.
func resolveAccessToken(creds file.Credentials) (string, error) {
	if creds.AccessToken != "" {
		return creds.AccessToken, nil
	}

	tokens, err := tokenfile.NewStore("")
	if err != nil {
		return "", err
	}

	token, err := tokens.Load()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("loading tokens: %w", err)
	}

	if token.IsExpired() {
		logger.Warn("access token expired at %s, run 'cadence authorize' to refresh", token.Expiry())
	}

	return token.AccessToken, nil
}
