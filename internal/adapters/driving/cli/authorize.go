package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/config/file"
	drivenoauth "github.com/cadence-labs/cadence-cli/internal/adapters/driven/oauth"
	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/tokenfile"
	drivingoauth "github.com/cadence-labs/cadence-cli/internal/adapters/driving/oauth"
	"github.com/cadence-labs/cadence-cli/internal/core/services"
)

var (
	authorizeTimeout   time.Duration
	authorizePort      int
	authorizeNoBrowser bool
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Authorize cadence with your Strava account",
	Long: `Run the interactive OAuth flow against Strava.

A local callback server is started, the consent page is opened in your
browser, and the resulting tokens are saved for later commands. Requires
application credentials, see 'cadence config init'.`,
	Args: cobra.NoArgs,
	RunE: runAuthorize,
}

func init() {
	authorizeCmd.Flags().DurationVar(
		&authorizeTimeout, "timeout", services.DefaultAuthorizeTimeout, "How long to wait for the browser round-trip")
	authorizeCmd.Flags().IntVar(
		&authorizePort, "port", drivingoauth.DefaultPort, "Local callback port (must match the app's redirect URI)")
	authorizeCmd.Flags().BoolVar(
		&authorizeNoBrowser, "no-browser", false, "Print the consent URL instead of opening a browser")

	rootCmd.AddCommand(authorizeCmd)
}

func runAuthorize(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfig()
	if err != nil {
		return err
	}

	creds := file.LoadCredentials(cfg)
	if err := creds.RequireApp(); err != nil {
		return err
	}

	tokens, err := tokenfile.NewStore("")
	if err != nil {
		return err
	}

	openBrowser := drivingoauth.OpenBrowser
	if authorizeNoBrowser {
		openBrowser = nil
	}

	authorizer := services.NewAuthorizer(
		creds.ClientID,
		drivingoauth.NewCallbackServer(authorizePort),
		drivenoauth.NewExchanger(creds.ClientID, creds.ClientSecret),
		tokens,
		openBrowser,
	)

	return authorizer.Run(cmd.Context(), cmd.OutOrStdout(), authorizeTimeout)
}
