// Satip-discover finds SAT>IP servers on the local network.
//
// It multicasts an SSDP M-SEARCH for the SAT>IP server device type, collects
// the replies for a fixed wait time, fetches each server's UPnP description
// and prints manufacturer, model and tuner capabilities.
//
// Usage:
//
//	satip-discover [command] [flags]
//
// Running without arguments performs a scan with the configured defaults.
// See 'satip-discover --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/satip/internal/version"
)

// reportedError marks an error that has already been shown to the user
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "satip-discover",
	Short: "SAT>IP Server Discovery",
	Long: `Discover SAT>IP servers on the local network.

Sends an SSDP search for urn:ses-com:device:SatIPServer:1, waits for
replies and reads each server's device description.

If no command is specified, a scan is run with the configured defaults.`,
	Version:       version.Version,
	SilenceErrors: true,
	RunE:          runScan,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "satip-discover %s\n", version.Full())
	},
}
