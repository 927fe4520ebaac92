package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cadence configuration",
	Long: `Manage the Strava application credentials used for authorization.

Create an API application at https://www.strava.com/settings/api and set
its "Authorization Callback Domain" to localhost. The client ID and
secret shown there are what 'cadence config init' asks for.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Store Strava application credentials",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfig()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprint(cmd.OutOrStdout(), "Strava client ID: ")
	clientID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading client ID: %w", err)
	}
	clientID = strings.TrimSpace(clientID)

	clientSecret, err := readSecret(cmd, reader, "Strava client secret: ")
	if err != nil {
		return fmt.Errorf("reading client secret: %w", err)
	}

	if clientID == "" || clientSecret == "" {
		return fmt.Errorf("client ID and secret must not be empty")
	}

	if err := cfg.Set(file.KeyClientID, clientID); err != nil {
		return err
	}
	if err := cfg.Set(file.KeyClientSecret, clientSecret); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Credentials saved to %s\n", cfg.Path())
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'cadence authorize' to connect your Strava account.")
	return nil
}

// readSecret reads without echo when stdin is a terminal, falling back to
// a plain line read otherwise (pipes, tests).
func readSecret(cmd *cobra.Command, reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfig()
	if err != nil {
		return err
	}

	creds := file.LoadCredentials(cfg)

	fmt.Fprintf(cmd.OutOrStdout(), "Config file:   %s\n", cfg.Path())
	fmt.Fprintf(cmd.OutOrStdout(), "Client ID:     %s\n", valueOrUnset(creds.ClientID))
	fmt.Fprintf(cmd.OutOrStdout(), "Client secret: %s\n", maskSecret(creds.ClientSecret))
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	cfg, err := openConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfg.Path())
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

// maskSecret keeps the last four characters visible for recognition.
func maskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
