package tasks

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last keystroke before a search fires.
const DefaultDebounce = 300 * time.Millisecond

// DebounceState is the search box state.
type DebounceState int

const (
	Idle DebounceState = iota
	Pending
	InFlight
)

func (s DebounceState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case InFlight:
		return "in_flight"
	default:
		return ""
	}
}

// Debouncer sequences search-as-you-type requests.
//
// Every keystroke bumps the sequence number. A timer tagged with an older number is ignored when it fires, and a
// response tagged with an older number is dropped when it arrives. Safe for concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	state DebounceState
	seq   uint64
	query string
}

// NewDebouncer creates a [Debouncer]. A non-positive delay uses [DefaultDebounce].
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Keystroke records a new query and returns its sequence number and the delay to wait before calling [Debouncer.Fire].
//
// A blank query cancels any pending or in-flight search and returns to [Idle] with a zero delay.
func (d *Debouncer) Keystroke(query string) (uint64, time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.query = strings.TrimSpace(query)
	if d.query == "" {
		d.state = Idle
		return d.seq, 0
	}
	d.state = Pending
	return d.seq, d.delay
}

// Fire starts the request for seq when it is still the newest pending keystroke and returns the query to run.
func (d *Debouncer) Fire(seq uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != Pending || seq != d.seq {
		return "", false
	}
	d.state = InFlight
	return d.query, true
}

// Arrive reports whether a response for seq should be shown. Accepting it returns the debouncer to [Idle].
func (d *Debouncer) Arrive(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != InFlight || seq != d.seq {
		return false
	}
	d.state = Idle
	return true
}

// Cancel abandons any pending or in-flight search.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.state = Idle
}

// State returns the current state and sequence number.
func (d *Debouncer) State() (DebounceState, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.seq
}

// Query returns the most recent query, trimmed.
func (d *Debouncer) Query() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.query
}
