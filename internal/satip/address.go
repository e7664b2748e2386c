package satip

import (
	"net"
	"net/netip"
)

// ParseEndpoint parses a literal "host:port" endpoint. Host names are
// rejected; no DNS lookup is ever performed.
func ParseEndpoint(text string) (*net.UDPAddr, error) {
	addrPort, err := netip.ParseAddrPort(text)
	if err != nil {
		return nil, NewAddressError(text, err)
	}
	return net.UDPAddrFromAddrPort(addrPort), nil
}
