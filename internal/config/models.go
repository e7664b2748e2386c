package config

import (
	"fmt"
	"time"

	"github.com/muurk/satip/internal/satip"
)

// CurrentVersion is the settings file format version
const CurrentVersion = 1

// Output formats understood by the scan command
const (
	FormatDetailed = "detailed"
	FormatCompact  = "compact"
	FormatJSON     = "json"
)

// Settings represents the entire user configuration file.
type Settings struct {
	Version   int               `yaml:"version"`
	Discovery DiscoverySettings `yaml:"discovery"`
	Output    OutputSettings    `yaml:"output"`
}

// DiscoverySettings mirrors satip.Config. Durations are kept as strings
// (e.g. "3s") so the file stays readable.
type DiscoverySettings struct {
	BindAddress         string `yaml:"bind_address,omitempty"`
	MulticastAddress    string `yaml:"multicast_address,omitempty"`
	WaitTime            string `yaml:"wait_time,omitempty"`
	UserAgent           string `yaml:"user_agent,omitempty"` // Empty = built-in default
	PreferSourceAddress bool   `yaml:"prefer_source_address"`
	MaxResponses        *int   `yaml:"max_responses,omitempty"` // 0 = unlimited
	DescriptionTimeout  string `yaml:"description_timeout,omitempty"`
	FetchConcurrency    int    `yaml:"fetch_concurrency,omitempty"`
	MulticastTTL        *int   `yaml:"multicast_ttl,omitempty"`
	Interface           string `yaml:"interface,omitempty"`
}

// OutputSettings controls how results are printed.
type OutputSettings struct {
	Format string `yaml:"format,omitempty"` // detailed, compact or json
}

// NewSettings creates Settings holding the built-in defaults.
func NewSettings() *Settings {
	maxResponses := satip.DefaultMaxResponses
	ttl := satip.DefaultMulticastTTL
	return &Settings{
		Version: CurrentVersion,
		Discovery: DiscoverySettings{
			BindAddress:        satip.DefaultBindAddress,
			MulticastAddress:   satip.DefaultMulticastAddress,
			WaitTime:           satip.DefaultWaitTime.String(),
			MaxResponses:       &maxResponses,
			DescriptionTimeout: satip.DefaultDescriptionTimeout.String(),
			FetchConcurrency:   satip.DefaultFetchConcurrency,
			MulticastTTL:       &ttl,
		},
		Output: OutputSettings{Format: FormatDetailed},
	}
}

// DiscoveryConfig converts the discovery block into a satip.Config.
// Fields left empty in the file keep their defaults.
func (s *Settings) DiscoveryConfig() (satip.Config, error) {
	cfg := satip.DefaultConfig()
	d := s.Discovery

	if d.BindAddress != "" {
		cfg.BindAddress = d.BindAddress
	}
	if d.MulticastAddress != "" {
		cfg.MulticastAddress = d.MulticastAddress
	}
	if d.UserAgent != "" {
		cfg.UserAgent = d.UserAgent
	}
	cfg.PreferSourceAddr = d.PreferSourceAddress
	if d.MaxResponses != nil {
		cfg.MaxResponses = *d.MaxResponses
	}
	if d.FetchConcurrency != 0 {
		cfg.FetchConcurrency = d.FetchConcurrency
	}
	if d.MulticastTTL != nil {
		cfg.MulticastTTL = *d.MulticastTTL
	}
	cfg.Interface = d.Interface

	var err error
	if cfg.WaitTime, err = parseDuration("wait_time", d.WaitTime, cfg.WaitTime); err != nil {
		return cfg, err
	}
	if cfg.DescriptionTimeout, err = parseDuration("description_timeout", d.DescriptionTimeout, cfg.DescriptionTimeout); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// OutputFormat returns the configured format, defaulting to detailed.
func (s *Settings) OutputFormat() string {
	if s.Output.Format == "" {
		return FormatDetailed
	}
	return s.Output.Format
}

// ValidFormat reports whether format is a known output format.
func ValidFormat(format string) bool {
	switch format {
	case FormatDetailed, FormatCompact, FormatJSON:
		return true
	}
	return false
}

func parseDuration(field, text string, fallback time.Duration) (time.Duration, error) {
	if text == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(text)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, text, err)
	}
	return d, nil
}
