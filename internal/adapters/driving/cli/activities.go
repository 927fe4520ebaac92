package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/storage/sqlite"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driving/report"
	"github.com/cadence-labs/cadence-cli/internal/core/domain"
)

var (
	activitiesWeeks   int
	activitiesRefresh bool
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List recent activities from the local cache",
	Long: `List individual activities for the trailing number of weeks.

Reads from the local cache populated by 'cadence weekly', so it works
offline. Pass --refresh to fetch from Strava first. Unlike
'cadence weekly', nothing is excluded or aggregated.`,
	Args: cobra.NoArgs,
	RunE: runActivities,
}

func init() {
	activitiesCmd.Flags().IntVar(&activitiesWeeks, "weeks", 4, "How many trailing weeks to list")
	activitiesCmd.Flags().BoolVar(&activitiesRefresh, "refresh", false, "Fetch from Strava before listing")

	rootCmd.AddCommand(activitiesCmd)
}

func runActivities(cmd *cobra.Command, _ []string) error {
	if activitiesWeeks <= 0 {
		return fmt.Errorf("%w: weeks must be positive, got %d", domain.ErrInvalidInput, activitiesWeeks)
	}

	end := time.Now()
	start := end.AddDate(0, 0, -7*activitiesWeeks)

	if activitiesRefresh {
		service, cleanup, err := buildStatsService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		// FetchRange writes through to the cache for later offline runs
		activities, err := service.FetchRange(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		return report.NewRenderer(cmd.OutOrStdout()).RenderActivities(activities)
	}

	cache, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening activity cache: %w (run with --refresh to fetch from Strava)", err)
	}
	defer cache.Close()

	activities, err := cache.ListRange(cmd.Context(), start, end)
	if err != nil {
		return err
	}

	return report.NewRenderer(cmd.OutOrStdout()).RenderActivities(activities)
}
