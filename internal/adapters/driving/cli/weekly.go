package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/config/file"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/storage/sqlite"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/strava"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driving/report"
	"github.com/cadence-labs/cadence-cli/internal/core/domain"
	"github.com/cadence-labs/cadence-cli/internal/core/services"
	"github.com/cadence-labs/cadence-cli/internal/logger"
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly <weeks>",
	Short: "Summarise weekly moving time",
	Long: `Fetch activities for the trailing number of weeks and print a chart
and table of hours per ISO week. Strength sessions (WeightTraining,
Workout) are excluded from the totals.`,
	Args: cobra.ExactArgs(1),
	RunE: runWeekly,
}

func init() {
	rootCmd.AddCommand(weeklyCmd)
}

func runWeekly(cmd *cobra.Command, args []string) error {
	weeks, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: weeks must be a number, got %q", domain.ErrInvalidInput, args[0])
	}

	service, cleanup, err := buildStatsService(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	buckets, err := service.WeeklySummary(cmd.Context(), weeks)
	if err != nil {
		return err
	}

	return report.NewRenderer(cmd.OutOrStdout()).RenderWeekly(buckets)
}

// buildStatsService assembles the fetch pipeline: credentials, API client
// and the local activity cache. The returned cleanup closes the cache.
func buildStatsService(ctx context.Context) (*services.StatsService, func(), error) {
	cfg, err := openConfig()
	if err != nil {
		return nil, nil, err
	}

	accessToken, err := resolveAccessToken(file.LoadCredentials(cfg))
	if err != nil {
		return nil, nil, err
	}

	client := strava.NewClient(ctx, accessToken)

	// The cache is an optimisation; run without it if it cannot open
	cleanup := func() {}
	var cache *sqlite.Store
	if cache, err = sqlite.NewStore(""); err != nil {
		logger.Warn("activity cache unavailable: %v", err)
		return services.NewStatsService(client, nil), cleanup, nil
	}
	cleanup = func() { _ = cache.Close() }

	return services.NewStatsService(client, cache), cleanup, nil
}
