// control/trace.go
// Author: momentics <momentics@gmail.com>
//
// Bounded journal of cold-path allocator events: reservations, growth,
// teardown. Oldest entries are evicted first so journal cost stays fixed
// over the allocator lifetime.

package control

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// defaultTraceCapacity is used when NewTrace gets a non-positive capacity.
const defaultTraceCapacity = 64

// Event is one recorded allocator event.
type Event struct {
	Time time.Time
	Kind string // "reserve", "reserve_fail", "grow", "release"
	Size int64  // bytes involved, zero if not applicable
	Node int    // NUMA node
	Err  string // failure text, empty on success
}

// Trace records events into a fixed-capacity ring. A nil *Trace is valid
// and drops everything, so callers can record unconditionally.
type Trace struct {
	mu  sync.Mutex
	cap int
	q   *queue.Queue
}

// NewTrace creates a trace retaining the most recent capacity events.
func NewTrace(capacity int) *Trace {
	if capacity <= 0 {
		capacity = defaultTraceCapacity
	}
	return &Trace{cap: capacity, q: queue.New()}
}

// Record appends ev, stamping the time when unset and evicting the oldest
// entries past capacity.
func (t *Trace) Record(ev Event) {
	if t == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	t.mu.Lock()
	t.q.Add(ev)
	for t.q.Length() > t.cap {
		t.q.Remove()
	}
	t.mu.Unlock()
}

// Snapshot returns the retained events, oldest first.
func (t *Trace) Snapshot() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.q.Length())
	for i := 0; i < t.q.Length(); i++ {
		out = append(out, t.q.Get(i).(Event))
	}
	return out
}

// Len returns the number of retained events.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.q.Length()
}
