package satip

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/muurk/satip/internal/logging"
)

// State is the lifecycle state of one discovery run
type State int

const (
	StateIdle        State = iota // Nothing acquired yet
	StateBound                    // UDP socket bound
	StateRequestSent              // M-SEARCH sent
	StateCollecting               // Receiving replies and fetching descriptions
	StateCompleted                // Finished, result available
	StateFailed                   // Aborted by a fatal error
)

// String returns a human-readable name for the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBound:
		return "bound"
	case StateRequestSent:
		return "request sent"
	case StateCollecting:
		return "collecting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Discoverer runs SAT>IP server discoveries
type Discoverer struct {
	// Config is the discovery configuration
	Config Config

	// Logger receives diagnostic output (nil = silent)
	Logger *zap.Logger

	// Fetcher retrieves description documents (nil = built from Config)
	Fetcher *DescriptionFetcher

	// OnStateChange, if set, is called on every state transition
	OnStateChange func(State)
}

// NewDiscoverer creates a Discoverer for config using logger
func NewDiscoverer(config Config, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{
		Config:  config,
		Logger:  logger,
		Fetcher: NewDescriptionFetcher(config.DescriptionTimeout, config.UserAgent),
	}
}

// Discover searches for SAT>IP servers and returns every server whose
// description could be fetched, in reply order. An empty result means no
// server answered in time. Only setup and socket failures are returned as
// errors; unusable replies and unreachable descriptions are logged and
// skipped.
func (d *Discoverer) Discover(ctx context.Context) ([]*Server, error) {
	r := &run{
		config:        d.Config,
		logger:        d.Logger,
		fetcher:       d.Fetcher,
		onStateChange: d.OnStateChange,
		state:         StateIdle,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.fetcher == nil {
		r.fetcher = NewDescriptionFetcher(r.config.DescriptionTimeout, r.config.UserAgent)
	}

	r.logger.Info("Discovering SAT>IP servers",
		zap.String("target", r.config.MulticastAddress),
		zap.Duration("wait_time", r.config.WaitTime),
	)

	servers, err := r.execute(ctx)
	if err != nil {
		r.transition(StateFailed)
		r.logger.Error("SAT>IP discovery failed", zap.Error(err))
		return nil, err
	}
	r.transition(StateCompleted)

	if len(servers) == 0 {
		r.logger.Info("SAT>IP server discovery finished but found no servers")
	} else {
		r.logger.Info("SAT>IP server discovery finished", zap.Int("servers", len(servers)))
	}
	return servers, nil
}

// Discover is a convenience function running a single discovery with config
func Discover(ctx context.Context, config Config, logger *zap.Logger) ([]*Server, error) {
	return NewDiscoverer(config, logger).Discover(ctx)
}

// run is the state of a single Discover call
type run struct {
	config        Config
	logger        *zap.Logger
	fetcher       *DescriptionFetcher
	onStateChange func(State)
	state         State
}

type indexedServer struct {
	index  int
	server *Server
}

func (r *run) transition(to State) {
	r.logger.Debug("Discovery state change",
		zap.Stringer("from", r.state),
		zap.Stringer("to", to),
	)
	r.state = to
	if r.onStateChange != nil {
		r.onStateChange(to)
	}
}

func (r *run) execute(ctx context.Context) ([]*Server, error) {
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	target, err := ParseEndpoint(r.config.MulticastAddress)
	if err != nil {
		return nil, err
	}
	local, err := ParseEndpoint(r.config.BindAddress)
	if err != nil {
		return nil, err
	}

	transport, err := Bind(local, r.logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := transport.Close(); err != nil {
			r.logger.Warn("Failed to close discovery socket", zap.Error(err))
		}
	}()
	r.transition(StateBound)

	if err := transport.ConfigureMulticast(target, r.config.MulticastTTL, r.config.Interface); err != nil {
		return nil, NewSendError(target.String(), err)
	}

	request := BuildSearchRequest(target, r.config.UserAgent)
	r.logger.Debug("Generated discovery request", logging.PayloadFields(request)...)

	if err := transport.Send(target, request); err != nil {
		return nil, err
	}
	r.transition(StateRequestSent)

	return r.collect(ctx, transport)
}

// collect receives replies until the wait time elapses and resolves each
// accepted reply concurrently. A failed resolution never cancels another.
// Fetch tasks wait for a slot inside the task so the receive loop never
// blocks on the fetch pool. Fetches run detached from ctx cancellation:
// cancelling ends collection, and replies already accepted are still
// resolved within DescriptionTimeout.
func (r *run) collect(ctx context.Context, transport *Transport) ([]*Server, error) {
	r.transition(StateCollecting)

	var (
		g        errgroup.Group
		mu       sync.Mutex
		resolved []indexedServer
		seen     = make(map[string]struct{})
		accepted int
		slots    = semaphore.NewWeighted(int64(r.config.FetchConcurrency))
		fetchCtx = context.WithoutCancel(ctx)
	)

	for raw, err := range transport.ReceiveWithin(ctx, r.config.WaitTime) {
		if err != nil {
			_ = g.Wait()
			return nil, err
		}

		r.logger.Debug("Received discovery message",
			zap.Int("size", raw.Size),
			zap.Stringer("sender", raw.Sender),
		)

		resp, err := ParseResponse(raw.Payload)
		if err != nil {
			fields := append([]zap.Field{zap.Stringer("sender", raw.Sender), zap.Error(err)}, logging.PayloadFields(raw.Payload)...)
			r.logger.Warn("Discarding discovery reply", fields...)
			continue
		}
		resp = resp.WithSender(raw.Sender, r.config.PreferSourceAddr)

		if _, dup := seen[resp.key()]; dup {
			r.logger.Debug("Ignoring duplicate reply", zap.String("usn", resp.USN))
			continue
		}
		seen[resp.key()] = struct{}{}

		index := accepted
		accepted++
		g.Go(func() error {
			// fetchCtx is never cancelled, so Acquire cannot fail
			_ = slots.Acquire(fetchCtx, 1)
			defer slots.Release(1)

			if server := r.resolve(fetchCtx, resp); server != nil {
				mu.Lock()
				resolved = append(resolved, indexedServer{index: index, server: server})
				mu.Unlock()
			}
			return nil
		})

		if r.config.MaxResponses > 0 && accepted >= r.config.MaxResponses {
			r.logger.Debug("Reply limit reached", zap.Int("max_responses", r.config.MaxResponses))
			break
		}
	}

	_ = g.Wait()

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].index < resolved[j].index })
	servers := make([]*Server, 0, len(resolved))
	for _, rs := range resolved {
		servers = append(servers, rs.server)
	}
	return servers, nil
}

// resolve fetches and parses the description for resp. It returns nil when
// the description could not be fetched.
func (r *run) resolve(ctx context.Context, resp *DiscoveryResponse) *Server {
	start := time.Now()
	body, err := r.fetcher.Fetch(ctx, resp.Location)
	if err != nil {
		r.logger.Warn("Skipping server, description unavailable",
			zap.String("usn", resp.USN),
			zap.Stringer("location", resp.Location),
			zap.Error(err),
		)
		return nil
	}

	server, err := ParseDescription(body, resp)
	if err != nil {
		r.logger.Warn("Description could not be parsed",
			zap.Stringer("location", resp.Location),
			zap.Error(err),
		)
		server.DescriptionErr = err
	}

	r.logger.Debug("Resolved SAT>IP server",
		zap.String("usn", resp.USN),
		zap.String("manufacturer", server.ManufacturerName()),
		zap.String("model", server.Model()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return server
}
