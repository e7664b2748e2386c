package satip

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"
)

// maxDatagramSize is large enough for any UDP payload
const maxDatagramSize = 65536

// Transport owns the UDP socket of one discovery run
type Transport struct {
	conn   *net.UDPConn
	logger *zap.Logger
}

// Bind opens a UDP socket on local. The socket family follows the address
// family of local so that IPv4 multicast options can be applied.
func Bind(local *net.UDPAddr, logger *zap.Logger) (*Transport, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	network := "udp6"
	if local.IP == nil || local.IP.To4() != nil {
		network = "udp4"
	}

	logger.Debug("Binding UDP socket", zap.String("network", network), zap.Stringer("addr", local))

	conn, err := net.ListenUDP(network, local)
	if err != nil {
		return nil, NewBindError(local.String(), err)
	}

	return &Transport{conn: conn, logger: logger}, nil
}

// LocalAddr returns the address the socket is bound to
func (t *Transport) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}

// ConfigureMulticast applies TTL, loopback and outgoing interface for an
// IPv4 multicast target. It is a no-op for unicast or IPv6 targets.
func (t *Transport) ConfigureMulticast(target *net.UDPAddr, ttl int, ifaceName string) error {
	if target.IP.To4() == nil || !target.IP.IsMulticast() {
		return nil
	}

	pc := ipv4.NewPacketConn(t.conn)
	if err := pc.SetMulticastTTL(ttl); err != nil {
		return fmt.Errorf("failed to set multicast TTL: %w", err)
	}
	if err := pc.SetMulticastLoopback(true); err != nil {
		return fmt.Errorf("failed to enable multicast loopback: %w", err)
	}

	if ifaceName != "" {
		iface, err := net.InterfaceByName(ifaceName)
		if err != nil {
			return fmt.Errorf("unknown interface %q: %w", ifaceName, err)
		}
		if err := pc.SetMulticastInterface(iface); err != nil {
			return fmt.Errorf("failed to select interface %q: %w", ifaceName, err)
		}
	}

	t.logger.Debug("Configured multicast socket",
		zap.Int("ttl", ttl),
		zap.String("interface", ifaceName),
	)
	return nil
}

// Send transmits payload to target as a single datagram
func (t *Transport) Send(target *net.UDPAddr, payload []byte) error {
	t.logger.Debug("Sending datagram", zap.Stringer("target", target), zap.Int("length", len(payload)))

	n, err := t.conn.WriteToUDP(payload, target)
	if err != nil {
		return NewSendError(target.String(), err)
	}
	if n != len(payload) {
		return NewSendError(target.String(), fmt.Errorf("short write: %d of %d bytes", n, len(payload)))
	}
	return nil
}

// ReceiveWithin yields datagrams until d has elapsed or ctx is done. An
// elapsed deadline ends the sequence without error; any other socket
// failure is yielded once as an ErrTypeReceive error and ends it.
func (t *Transport) ReceiveWithin(ctx context.Context, d time.Duration) iter.Seq2[RawDiscoveryResponse, error] {
	return func(yield func(RawDiscoveryResponse, error) bool) {
		deadline := time.Now().Add(d)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
		if err := t.conn.SetReadDeadline(deadline); err != nil {
			yield(RawDiscoveryResponse{}, NewReceiveError(t.LocalAddr().String(), err))
			return
		}
		defer func() { _ = t.conn.SetReadDeadline(time.Time{}) }()

		// Cancelling ctx pulls the read deadline in so the blocked read returns.
		stop := context.AfterFunc(ctx, func() {
			_ = t.conn.SetReadDeadline(time.Now())
		})
		defer stop()

		buffer := make([]byte, maxDatagramSize)
		for {
			n, sender, err := t.conn.ReadFromUDP(buffer)
			if err != nil {
				if errors.Is(err, os.ErrDeadlineExceeded) {
					t.logger.Debug("Receive window closed")
					return
				}
				yield(RawDiscoveryResponse{}, NewReceiveError(t.LocalAddr().String(), err))
				return
			}

			payload := make([]byte, n)
			copy(payload, buffer[:n])

			if !yield(RawDiscoveryResponse{Payload: payload, Size: n, Sender: sender}, nil) {
				return
			}
		}
	}
}

// Close releases the socket
func (t *Transport) Close() error {
	return t.conn.Close()
}
