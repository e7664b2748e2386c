package satip

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
)

// maxDescriptionSize caps how much of a description body is read
const maxDescriptionSize = 1 << 20

// DescriptionFetcher retrieves device description documents over HTTP
type DescriptionFetcher struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// UserAgent is sent with every request (empty = Go default)
	UserAgent string
}

// NewDescriptionFetcher creates a fetcher with the given per-request timeout.
// A non-positive timeout falls back to DefaultDescriptionTimeout.
func NewDescriptionFetcher(timeout time.Duration, userAgent string) *DescriptionFetcher {
	if timeout <= 0 {
		timeout = DefaultDescriptionTimeout
	}
	return &DescriptionFetcher{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
	}
}

// Fetch performs a single GET for location and returns the body. There is
// no retry: the server may simply have gone away since it replied.
func (f *DescriptionFetcher) Fetch(ctx context.Context, location *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location.String(), nil)
	if err != nil {
		return nil, NewFetchError(location.String(), 0, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, NewFetchError(location.String(), 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, NewFetchError(location.String(), resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDescriptionSize))
	if err != nil {
		return nil, NewFetchError(location.String(), 0, fmt.Errorf("failed to read response body: %w", err))
	}

	return body, nil
}

// deviceElement mirrors the fields read from <device>. Pointer fields stay
// nil when the element is absent.
type deviceElement struct {
	Manufacturer *string `xml:"manufacturer"`
	ModelName    *string `xml:"modelName"`
	FriendlyName *string `xml:"friendlyName"`
	UDN          *string `xml:"UDN"`
	Capabilities *string `xml:"X_SATIPCAP"`
}

// ParseDescription extracts device metadata from a description document.
// It always returns a Server. On malformed XML, or when no <device>
// element exists, every field is absent and the error says why.
func ParseDescription(data []byte, resp *DiscoveryResponse) (*Server, error) {
	server := &Server{Response: resp}

	device, err := findDevice(data)
	if err != nil {
		return server, err
	}

	server.Manufacturer = trimmed(device.Manufacturer)
	server.ModelName = trimmed(device.ModelName)
	server.FriendlyName = trimmed(device.FriendlyName)
	server.UDN = trimmed(device.UDN)
	server.Capabilities = trimmed(device.Capabilities)

	return server, nil
}

// findDevice decodes the first <device> element at any depth. The rest of
// the document must still be well formed.
func findDevice(data []byte) (*deviceElement, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return nil, NewDescriptionParseError("no device element in description", nil)
		}
		if err != nil {
			return nil, NewDescriptionParseError("malformed description XML", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "device" {
			continue
		}

		var device deviceElement
		if err := decoder.DecodeElement(&device, &start); err != nil {
			return nil, NewDescriptionParseError("malformed device element", err)
		}
		if err := drain(decoder); err != nil {
			return nil, err
		}
		return &device, nil
	}
}

// drain reads the remaining tokens up to the end of the document
func drain(decoder *xml.Decoder) error {
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return NewDescriptionParseError("malformed description XML", err)
		}
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
