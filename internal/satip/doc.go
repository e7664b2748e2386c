// Package satip discovers SAT>IP servers on the local network.
//
// Discovery uses an SSDP search: an M-SEARCH request for
// "urn:ses-com:device:SatIPServer:1" is sent to the SSDP multicast group,
// replies are collected for a fixed wait time, and the description
// document advertised by each reply is fetched over HTTP and parsed for
// manufacturer and model information.
//
// # Discovery Process
//
//  1. Resolve the bind and multicast addresses (literal host:port only)
//  2. Bind a UDP socket and send the M-SEARCH datagram
//  3. Collect replies until the wait time elapses
//  4. Parse each reply; unusable replies are logged and skipped
//  5. Fetch and parse each description concurrently
//  6. Return the servers in the order their replies arrived
//
// # Usage Example
//
//	cfg := satip.DefaultConfig()
//	cfg.WaitTime = 5 * time.Second
//
//	servers, err := satip.Discover(ctx, cfg, logger)
//	if err != nil {
//	    log.Fatal(err) // bind, send or socket failure
//	}
//	for _, s := range servers {
//	    fmt.Printf("%s %s at %s\n", s.ManufacturerName(), s.Model(), s.Host())
//	}
//
// # Errors
//
// Only fatal problems are returned from Discover: invalid configuration,
// unparseable addresses, bind, send and receive failures. An empty result
// simply means no server replied in time. Every error is a *Error whose
// Err field carries the underlying cause.
//
// A description that was fetched but could not be parsed still produces a
// Server; its metadata fields are nil and DescriptionErr says why.
//
// # Thread Safety
//
// A Discoverer holds no state between runs; concurrent Discover calls are
// safe as long as their bind addresses do not collide.
package satip
