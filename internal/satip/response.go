package satip

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
)

// RawDiscoveryResponse is one datagram received while collecting replies
type RawDiscoveryResponse struct {
	// Payload holds exactly Size bytes copied out of the receive buffer
	Payload []byte

	// Size is the number of bytes received
	Size int

	// Sender is the address the datagram came from
	Sender *net.UDPAddr
}

// DiscoveryResponse is a parsed SSDP search reply
type DiscoveryResponse struct {
	// USN is the unique service name (empty when the header is absent)
	USN string

	// Location is the absolute URL of the description document
	Location *url.URL

	// SearchTarget is the ST header echoed by the server
	SearchTarget string

	// Server is the SERVER header (OS, UPnP and product tokens)
	Server string

	// CacheControl is the CACHE-CONTROL header, e.g. "max-age=1800"
	CacheControl string

	// Sender is the address the reply came from (nil until attached)
	Sender *net.UDPAddr
}

// ParseResponse decodes payload as a header-only HTTP status response.
// Header names are matched case-insensitively.
func ParseResponse(payload []byte) (*DiscoveryResponse, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(payload)), nil)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, NewResponseError(ErrTypeIncompleteResponse, "header block is not terminated", err)
		}
		return nil, NewResponseError(ErrTypeMalformedResponse, "not an HTTP status response", err)
	}
	// The body is never read; SSDP replies carry none.
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, NewResponseError(ErrTypeMalformedResponse, fmt.Sprintf("unexpected status %q", resp.Status), nil)
	}

	rawLocation := resp.Header.Get("Location")
	if rawLocation == "" {
		return nil, NewResponseError(ErrTypeMissingLocation, "LOCATION header is missing", nil)
	}

	location, err := parseLocation(rawLocation)
	if err != nil {
		return nil, err
	}

	return &DiscoveryResponse{
		USN:          resp.Header.Get("Usn"),
		Location:     location,
		SearchTarget: resp.Header.Get("St"),
		Server:       resp.Header.Get("Server"),
		CacheControl: resp.Header.Get("Cache-Control"),
	}, nil
}

func parseLocation(raw string) (*url.URL, error) {
	location, err := url.Parse(raw)
	if err != nil {
		return nil, NewResponseError(ErrTypeInvalidLocation, fmt.Sprintf("LOCATION %q is not a URL", raw), err)
	}
	if !location.IsAbs() || location.Host == "" {
		return nil, NewResponseError(ErrTypeInvalidLocation, fmt.Sprintf("LOCATION %q is not an absolute URL", raw), nil)
	}
	return location, nil
}

// WithSender returns a copy of r attached to the datagram sender. When
// preferSource is set the location host is replaced with the sender IP;
// the advertised scheme, port, path and query are kept.
func (r *DiscoveryResponse) WithSender(sender *net.UDPAddr, preferSource bool) *DiscoveryResponse {
	out := *r
	out.Sender = sender

	location := *r.Location
	if preferSource && sender != nil && sender.IP != nil {
		host := sender.IP.String()
		if sender.Zone != "" {
			host += "%" + sender.Zone
		}
		if port := r.Location.Port(); port != "" {
			location.Host = net.JoinHostPort(host, port)
		} else if sender.IP.To4() == nil {
			location.Host = "[" + host + "]"
		} else {
			location.Host = host
		}
	}
	out.Location = &location

	return &out
}

// key identifies a responding service for duplicate suppression
func (r *DiscoveryResponse) key() string {
	return r.USN + "|" + r.Location.String()
}
