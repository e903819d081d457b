package services

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/movieplex/internal/models"
	"github.com/desertthunder/movieplex/internal/shared"
	"golang.org/x/sync/singleflight"
)

const (
	defaultProbeTimeout  = 3 * time.Second
	defaultProbeInterval = 30 * time.Second
)

// Gate tracks whether the upstream API is configured and reachable.
//
// Probe results are reused for the probe interval. Concurrent checks after the interval share one probe.
type Gate struct {
	prober   Prober
	clock    shared.Clock
	timeout  time.Duration
	interval time.Duration
	logger   *log.Logger

	mu    sync.Mutex
	state models.ConnectivityState
	group singleflight.Group
}

// GateOption configures a [Gate].
type GateOption func(*Gate)

// WithGateClock sets the clock used for the probe interval.
func WithGateClock(c shared.Clock) GateOption {
	return func(g *Gate) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithProbeTimeout bounds each probe.
func WithProbeTimeout(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithProbeInterval sets how long a probe result is reused.
func WithProbeInterval(d time.Duration) GateOption {
	return func(g *Gate) {
		if d > 0 {
			g.interval = d
		}
	}
}

// WithGateLogger sets the logger.
func WithGateLogger(l *log.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.logger = l
		}
	}
}

// NewGate creates a [Gate] over prober.
func NewGate(prober Prober, opts ...GateOption) *Gate {
	g := &Gate{
		prober:   prober,
		clock:    shared.SystemClock{},
		timeout:  defaultProbeTimeout,
		interval: defaultProbeInterval,
		logger:   shared.NewLogger(nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = shared.WithLogger(g.logger, "component", "gate")
	return g
}

// IsConfigured reports whether credentials are present. It does no I/O.
func (g *Gate) IsConfigured() bool {
	return g.prober.Configured()
}

// CheckConnectivity returns the last probe result while it is within the probe interval, and probes otherwise.
//
// A probe that fails for any reason, including its timeout, records the API as unavailable.
func (g *Gate) CheckConnectivity(ctx context.Context) bool {
	if available, ok := g.cached(); ok {
		return available
	}

	ch := g.group.DoChan("probe", func() (any, error) {
		if available, ok := g.cached(); ok {
			return available, nil
		}
		return g.probe(ctx), nil
	})

	select {
	case <-ctx.Done():
		if available, ok := g.last(); ok {
			return available
		}
		return false
	case res := <-ch:
		available, _ := res.Val.(bool)
		return available
	}
}

// IsUsable reports whether the API should be called now.
func (g *Gate) IsUsable(ctx context.Context) bool {
	return g.IsConfigured() && g.CheckConnectivity(ctx)
}

// State returns a snapshot of the connectivity state.
func (g *Gate) State() models.ConnectivityState {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.state
	if s.Available != nil {
		v := *s.Available
		s.Available = &v
	}
	return s
}

func (g *Gate) probe(ctx context.Context) bool {
	startedAt := g.clock.Now()

	// The shared probe outlives a cancelled first caller; the timeout still bounds it.
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.timeout)
	defer cancel()

	err := g.prober.Probe(pctx)
	available := err == nil

	g.mu.Lock()
	g.state = models.ConnectivityState{Available: &available, LastCheckedAt: startedAt}
	g.mu.Unlock()

	if available {
		g.logger.Info("upstream API reachable")
	} else {
		g.logger.Info("upstream API unreachable", "error", err)
	}
	return available
}

func (g *Gate) cached() (bool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Available == nil {
		return false, false
	}
	if g.clock.Now().Sub(g.state.LastCheckedAt) >= g.interval {
		return false, false
	}
	return *g.state.Available, true
}

func (g *Gate) last() (bool, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Available == nil {
		return false, false
	}
	return *g.state.Available, true
}
