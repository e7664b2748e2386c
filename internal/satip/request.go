package satip

import (
	"bytes"
	"net"
)

const (
	// SearchMethod is the SSDP request method
	SearchMethod = "M-SEARCH"

	// DiscoverMAN is the MAN header value for an SSDP search
	DiscoverMAN = `"ssdp:discover"`

	// SearchMX is the maximum response delay hint in seconds
	SearchMX = "2"

	// ServiceType is the search target SAT>IP servers answer to
	ServiceType = "urn:ses-com:device:SatIPServer:1"
)

// BuildSearchRequest renders the M-SEARCH datagram for target. Header order
// and spelling are fixed; some servers compare them byte for byte.
func BuildSearchRequest(target *net.UDPAddr, userAgent string) []byte {
	var b bytes.Buffer
	b.WriteString(SearchMethod + " * HTTP/1.1\r\n")
	b.WriteString("HOST: " + target.String() + "\r\n")
	b.WriteString("MAN: " + DiscoverMAN + "\r\n")
	b.WriteString("MX: " + SearchMX + "\r\n")
	b.WriteString("ST: " + ServiceType + "\r\n")
	b.WriteString("USER-AGENT: " + userAgent + "\r\n")
	b.WriteString("\r\n")
	return b.Bytes()
}
