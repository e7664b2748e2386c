package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/satip/internal/config"
	"github.com/muurk/satip/internal/logging"
	"github.com/muurk/satip/internal/satip"
	"github.com/muurk/satip/internal/ui"
)

// Global flags
var (
	configPath string
	logLevel   string
)

// Scan flags
var (
	bindAddress   string
	targetAddress string
	waitTime      time.Duration
	userAgent     string
	preferSource  bool
	maxResponses  int
	ifaceName     string
	outputFormat  string
)

var forceInit bool

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default from "+logging.LogLevelEnvVar)

	addScanFlags(rootCmd)
	addScanFlags(scanCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing settings file")
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&bindAddress, "bind", satip.DefaultBindAddress, "Local address to bind (numeric host:port)")
	cmd.Flags().StringVar(&targetAddress, "target", satip.DefaultMulticastAddress, "Address the search is sent to")
	cmd.Flags().DurationVar(&waitTime, "wait", satip.DefaultWaitTime, "How long to collect replies")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "USER-AGENT header value")
	cmd.Flags().BoolVar(&preferSource, "prefer-source-addr", false, "Use the reply's source address instead of the advertised LOCATION host")
	cmd.Flags().IntVar(&maxResponses, "max-responses", satip.DefaultMaxResponses, "Stop after this many replies (0 = no limit)")
	cmd.Flags().StringVar(&ifaceName, "interface", "", "Network interface for multicast")
	cmd.Flags().StringVar(&outputFormat, "format", config.FormatDetailed, "Output format (detailed, compact, json)")
}

// scanCmd discovers SAT>IP servers
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for SAT>IP servers on the network",
	Long: `Scan for SAT>IP servers using SSDP.

Sends a single M-SEARCH request, waits for replies, then fetches each
advertised device description. Replies that cannot be parsed and
descriptions that cannot be fetched are skipped.`,
	Example: `  # Scan with defaults (3 second wait)
  satip-discover scan

  # Longer wait on a busy network
  satip-discover scan --wait 10s

  # Servers that advertise a wrong LOCATION host
  satip-discover scan --prefer-source-addr

  # JSON output for scripting
  satip-discover scan --format json`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(logLevel); err != nil {
		return err
	}
	defer logging.Sync()

	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	cfg, err := settings.DiscoveryConfig()
	if err != nil {
		return err
	}
	format := settings.OutputFormat()
	applyScanFlags(cmd, &cfg, &format)

	if !config.ValidFormat(format) {
		return fmt.Errorf("unknown output format %q (expected detailed, compact or json)", format)
	}
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	printer := ui.NewPrinter(cmd.OutOrStdout())
	discoverer := satip.NewDiscoverer(cfg, logging.GetLogger())

	if format == config.FormatDetailed {
		printer.PrintHeader(cmd.CommandPath(), cfg)
	}

	start := time.Now()
	var servers []*satip.Server
	if format != config.FormatJSON && ui.IsTerminal() {
		servers, err = ui.RunScan(ctx, discoverer, cmd.OutOrStdout())
	} else {
		servers, err = discoverer.Discover(ctx)
	}
	elapsed := time.Since(start)

	if err != nil {
		if format == config.FormatJSON {
			return err
		}
		printer.PrintDiscoveryError(err)
		return &reportedError{err: err}
	}

	return printer.PrintServers(servers, format, elapsed)
}

// applyScanFlags overrides settings with flags the user actually set
func applyScanFlags(cmd *cobra.Command, cfg *satip.Config, format *string) {
	flags := cmd.Flags()
	if flags.Changed("bind") {
		cfg.BindAddress = bindAddress
	}
	if flags.Changed("target") {
		cfg.MulticastAddress = targetAddress
	}
	if flags.Changed("wait") {
		cfg.WaitTime = waitTime
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = userAgent
	}
	if flags.Changed("prefer-source-addr") {
		cfg.PreferSourceAddr = preferSource
	}
	if flags.Changed("max-responses") {
		cfg.MaxResponses = maxResponses
	}
	if flags.Changed("interface") {
		cfg.Interface = ifaceName
	}
	if flags.Changed("format") {
		*format = outputFormat
	}
}

func settingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadSettings() (*config.Settings, string, error) {
	path, err := settingsPath()
	if err != nil {
		return nil, "", err
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return settings, path, nil
}

// configCmd manages the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long: `Manage the YAML settings file holding scan defaults.

Values in the file are used whenever the matching scan flag is not given.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file with the default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("settings file %s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to check settings file: %w", err)
		}

		if err := config.NewSettings().Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective scan settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, path, err := loadSettings()
		if err != nil {
			return err
		}
		cfg, err := settings.DiscoveryConfig()
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).PrintSettings(path, cfg, settings.OutputFormat())
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
