package satip

import (
	"fmt"
	"time"

	"github.com/muurk/satip/internal/version"
)

const (
	// DefaultBindAddress binds any local address on an ephemeral port
	DefaultBindAddress = "0.0.0.0:0"

	// DefaultMulticastAddress is the SSDP multicast group and port
	DefaultMulticastAddress = "239.255.255.250:1900"

	// DefaultWaitTime is how long replies are collected after the search is sent
	DefaultWaitTime = 3 * time.Second

	// DefaultMaxResponses bounds the number of replies accepted per run
	DefaultMaxResponses = 64

	// DefaultDescriptionTimeout is the HTTP timeout for one description fetch
	DefaultDescriptionTimeout = 5 * time.Second

	// DefaultFetchConcurrency is the number of description fetches run at once
	DefaultFetchConcurrency = 8

	// DefaultMulticastTTL follows the UPnP recommendation for SSDP
	DefaultMulticastTTL = 2
)

// DefaultUserAgent returns the client identifier sent in USER-AGENT
func DefaultUserAgent() string {
	return fmt.Sprintf("Linux/1.0 UPnP/1.1 satip-discover/%s", version.Version)
}

// Config holds the settings for one discovery run. It is treated as
// read-only once a Discoverer has been created from it.
type Config struct {
	// BindAddress is the local host:port the UDP socket binds to
	BindAddress string

	// MulticastAddress is the host:port the M-SEARCH request is sent to
	MulticastAddress string

	// WaitTime is how long replies are collected
	WaitTime time.Duration

	// UserAgent is sent as the USER-AGENT header and on description fetches
	UserAgent string

	// PreferSourceAddr replaces the host of each advertised LOCATION with
	// the address the reply actually came from
	PreferSourceAddr bool

	// MaxResponses ends collection early once this many replies have been
	// accepted (0 = no limit)
	MaxResponses int

	// DescriptionTimeout bounds each description fetch
	DescriptionTimeout time.Duration

	// FetchConcurrency is the maximum number of concurrent description fetches
	FetchConcurrency int

	// MulticastTTL is applied to IPv4 multicast targets
	MulticastTTL int

	// Interface names the network interface multicast is sent on (empty = OS default)
	Interface string
}

// DefaultConfig returns a Config with all defaults applied
func DefaultConfig() Config {
	return Config{
		BindAddress:        DefaultBindAddress,
		MulticastAddress:   DefaultMulticastAddress,
		WaitTime:           DefaultWaitTime,
		UserAgent:          DefaultUserAgent(),
		MaxResponses:       DefaultMaxResponses,
		DescriptionTimeout: DefaultDescriptionTimeout,
		FetchConcurrency:   DefaultFetchConcurrency,
		MulticastTTL:       DefaultMulticastTTL,
	}
}

// Validate checks value ranges. Address syntax is checked when the run
// starts so that it is reported as ErrTypeInvalidAddress.
func (c Config) Validate() error {
	if c.WaitTime <= 0 {
		return NewConfigError(fmt.Sprintf("wait time must be positive, got %s", c.WaitTime))
	}
	if c.MaxResponses < 0 {
		return NewConfigError(fmt.Sprintf("max responses must not be negative, got %d", c.MaxResponses))
	}
	if c.DescriptionTimeout <= 0 {
		return NewConfigError(fmt.Sprintf("description timeout must be positive, got %s", c.DescriptionTimeout))
	}
	if c.FetchConcurrency < 1 {
		return NewConfigError(fmt.Sprintf("fetch concurrency must be at least 1, got %d", c.FetchConcurrency))
	}
	if c.MulticastTTL < 0 || c.MulticastTTL > 255 {
		return NewConfigError(fmt.Sprintf("multicast TTL must be between 0 and 255, got %d", c.MulticastTTL))
	}
	return nil
}
