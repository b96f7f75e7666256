// Instrument Core - component tree runtime for digital musical instruments.
//
// This is the host entry point. It builds the default instrument on
// simulated hardware, exposes its endpoints on the console, MQTT and HTTP,
// and ticks it until interrupted.
//
//	instrument run --config configs/instrument.yaml
//	instrument addresses --sorted
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/instrument.yaml"

func main() {
	// Cancel on Ctrl+C or SIGTERM so the tick loop and transports shut down cleanly.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "instrument",
		Short: "Component tree runtime for digital musical instruments",
		Long: `instrument runs a tree of components in a fixed-rate tick loop and
exposes every endpoint by address on a command console, over MQTT and over
an HTTP/WebSocket API.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", getConfigPath(),
		"path to the YAML configuration file (env INSTRUMENT_CONFIG)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the instrument until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	var sorted bool
	addressesCmd := &cobra.Command{
		Use:   "addresses",
		Short: "Print the endpoint address table and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printAddresses(configPath, sorted, cmd.OutOrStdout())
		},
	}
	addressesCmd.Flags().BoolVar(&sorted, "sorted", false, "sort by address instead of declaration order")

	root.AddCommand(runCmd, addressesCmd)
	return root
}

// getConfigPath returns the config file path from environment or default.
func getConfigPath() string {
	if path := os.Getenv("INSTRUMENT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
