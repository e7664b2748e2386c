// Package config provides the user settings file for satip-discover.
//
// The settings are stored as YAML and hold defaults for the scan command:
// discovery addresses, timing, and the output format. Command line flags
// always take precedence over the file.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/satip/config.yaml or $HOME/.config/satip/config.yaml
//   - macOS: $HOME/.config/satip/config.yaml
//   - Windows: %LOCALAPPDATA%\satip\config.yaml
//
// # Usage Example
//
//	path, err := config.GetConfigPath()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings, err := config.Load(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	cfg, err := settings.DiscoveryConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	servers, err := satip.Discover(ctx, cfg, logger)
//
// A missing file is not an error: Load returns the built-in defaults.
// Save writes to a temporary file and renames it into place.
package config
