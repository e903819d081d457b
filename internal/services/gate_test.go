package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/movieplex/internal/shared"
	tu "github.com/desertthunder/movieplex/internal/testing"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeProber struct {
	configured bool
	err        error
	calls      atomic.Int32
	// block, when set, holds every probe until it is closed or the probe context ends.
	block chan struct{}
}

func (p *fakeProber) Configured() bool { return p.configured }

func (p *fakeProber) Probe(ctx context.Context) error {
	p.calls.Add(1)
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func newTestGate(p Prober, clock shared.Clock, opts ...GateOption) *Gate {
	opts = append([]GateOption{WithGateClock(clock), WithGateLogger(shared.NewLogger(io.Discard))}, opts...)
	return NewGate(p, opts...)
}

func TestGateProbeInterval(t *testing.T) {
	ctx := context.Background()
	clock := tu.NewFakeClock(t0)
	p := &fakeProber{configured: true}
	g := newTestGate(p, clock)

	t.Run("never probed", func(t *testing.T) {
		if s := g.State(); s.Available != nil {
			t.Errorf("expected unknown availability, got %v", *s.Available)
		}
	})

	t.Run("one probe within the interval", func(t *testing.T) {
		for range 5 {
			if !g.CheckConnectivity(ctx) {
				t.Fatal("expected reachable")
			}
		}
		clock.Advance(29 * time.Second)
		g.CheckConnectivity(ctx)
		if n := p.calls.Load(); n != 1 {
			t.Errorf("expected 1 probe, got %d", n)
		}
	})

	t.Run("re-probes after the interval", func(t *testing.T) {
		clock.Advance(time.Second)
		g.CheckConnectivity(ctx)
		if n := p.calls.Load(); n != 2 {
			t.Errorf("expected 2 probes, got %d", n)
		}
		if s := g.State(); !s.LastCheckedAt.Equal(t0.Add(30 * time.Second)) {
			t.Errorf("unexpected last checked time %v", s.LastCheckedAt)
		}
	})

	t.Run("failure is remembered", func(t *testing.T) {
		p.err = errors.New("connection refused")
		clock.Advance(time.Minute)
		if g.CheckConnectivity(ctx) {
			t.Fatal("expected unreachable")
		}
		if g.CheckConnectivity(ctx) {
			t.Fatal("expected cached unreachable")
		}
		if n := p.calls.Load(); n != 3 {
			t.Errorf("expected 3 probes, got %d", n)
		}
		s := g.State()
		if s.Available == nil || *s.Available {
			t.Error("expected state to record unavailable")
		}
	})
}

func TestGateConcurrentChecks(t *testing.T) {
	clock := tu.NewFakeClock(t0)
	p := &fakeProber{configured: true, block: make(chan struct{})}
	g := newTestGate(p, clock)

	var wg sync.WaitGroup
	results := make([]bool, 20)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = g.CheckConnectivity(context.Background())
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(p.block)
	wg.Wait()

	if n := p.calls.Load(); n != 1 {
		t.Errorf("expected 1 shared probe, got %d", n)
	}
	for i, ok := range results {
		if !ok {
			t.Errorf("caller %d saw unreachable", i)
		}
	}
}

func TestGateProbeTimeout(t *testing.T) {
	p := &fakeProber{configured: true, block: make(chan struct{})}
	defer close(p.block)
	g := newTestGate(p, tu.NewFakeClock(t0), WithProbeTimeout(10*time.Millisecond))

	if g.CheckConnectivity(context.Background()) {
		t.Error("a timed out probe should count as unreachable")
	}
	if s := g.State(); s.Available == nil || *s.Available {
		t.Error("expected state to record unavailable")
	}
}

func TestGateCancelledCaller(t *testing.T) {
	p := &fakeProber{configured: true, block: make(chan struct{})}
	g := newTestGate(p, tu.NewFakeClock(t0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if g.CheckConnectivity(ctx) {
		t.Error("cancelled caller with no prior probe should see unreachable")
	}
	close(p.block)
}

func TestGateUsable(t *testing.T) {
	ctx := context.Background()

	t.Run("not configured skips the probe", func(t *testing.T) {
		p := &fakeProber{}
		g := newTestGate(p, tu.NewFakeClock(t0))
		if g.IsConfigured() || g.IsUsable(ctx) {
			t.Error("expected unusable")
		}
		if p.calls.Load() != 0 {
			t.Error("expected no probe")
		}
	})

	t.Run("configured and reachable", func(t *testing.T) {
		g := newTestGate(&fakeProber{configured: true}, tu.NewFakeClock(t0))
		if !g.IsUsable(ctx) {
			t.Error("expected usable")
		}
	})

	t.Run("over the executor", func(t *testing.T) {
		srv := tu.NewCountingServer(t, func(w http.ResponseWriter, r *http.Request) {
			tu.WriteJSON(w, http.StatusOK, `{}`)
		})
		clock := tu.NewFakeClock(t0)
		g := newTestGate(newTestExecutor(ExecutorConfig{BaseURL: srv.URL, APIKey: "k"}), clock)

		for range 3 {
			if !g.IsUsable(ctx) {
				t.Fatal("expected usable")
			}
		}
		if srv.Hits("/configuration") != 1 {
			t.Errorf("expected one probe request, got %d", srv.Hits("/configuration"))
		}

		srv.SetDown(true)
		clock.Advance(defaultProbeInterval)
		if g.IsUsable(ctx) {
			t.Error("expected unusable once the server is down")
		}
	})
}

func TestGateStateIsACopy(t *testing.T) {
	g := newTestGate(&fakeProber{configured: true}, tu.NewFakeClock(t0))
	g.CheckConnectivity(context.Background())

	s := g.State()
	*s.Available = false
	if s2 := g.State(); !*s2.Available {
		t.Error("mutating a snapshot changed the gate state")
	}
}
