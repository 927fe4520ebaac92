// main is the entry point for the cadence CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cadence-labs/cadence-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
