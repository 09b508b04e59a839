package usage

import (
	"sync"
	"time"
)

// Interval is one engagement span for a device. End is the zero time while
// the interval is still open.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Open reports whether the interval has not been closed yet.
func (iv Interval) Open() bool {
	return iv.End.IsZero()
}

// Transition describes what a recorded status change actually did to the
// ledger. Duplicate commands produce the zero Transition: nothing opened,
// nothing closed, nothing to count.
type Transition struct {
	// Opened is true when the transition started a new engagement interval.
	Opened bool

	// CountEvent is true when the opening should increment the on-events
	// counter. It is false for devices not yet in the seen set, so the
	// very first transition recorded during bootstrap opens an interval
	// without counting an event.
	CountEvent bool

	// Closed is true when the transition ended an open interval.
	Closed bool

	// Duration is the elapsed engagement time of the closed interval.
	// Only meaningful when Closed is true.
	Duration time.Duration
}

// Tracker is the process-local ledger of engagement intervals plus the
// seen-device set. One mutex guards both so every read-then-write sequence
// (transition recording, bootstrap marking, deletion) is atomic; racing
// duplicate commands cannot open two intervals for one device.
type Tracker struct {
	mu        sync.Mutex
	intervals map[string][]Interval
	seen      map[string]struct{}

	// now is swappable for tests.
	now func() time.Time
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		intervals: make(map[string][]Interval),
		seen:      make(map[string]struct{}),
		now:       time.Now,
	}
}

// RecordTransition applies a status change to the ledger and reports what
// happened.
//
// The decision is made from the ledger's own open-interval state, not from
// any caller-supplied previous status: an engaged transition on a device
// that already has an open interval is a no-op, as is a disengaged
// transition on a device with none. At most one interval per device is open
// at any time.
//
// Parameters:
//   - id: Device identifier
//   - engaged: Whether the new status is an engaged one (on/locked/closed)
//
// Returns:
//   - Transition: What the ledger recorded (possibly nothing)
func (t *Tracker) RecordTransition(id string, engaged bool) Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	open := t.openIndex(id)

	if engaged {
		if open >= 0 {
			// Already engaged, duplicate command
			return Transition{}
		}
		t.intervals[id] = append(t.intervals[id], Interval{Start: t.now()})
		_, alreadySeen := t.seen[id]
		return Transition{Opened: true, CountEvent: alreadySeen}
	}

	if open < 0 {
		// Already disengaged, duplicate command
		return Transition{}
	}
	iv := &t.intervals[id][open]
	iv.End = t.now()
	return Transition{Closed: true, Duration: iv.End.Sub(iv.Start)}
}

// openIndex returns the index of the open interval for id, or -1.
// Caller must hold t.mu. Only the last interval can be open.
func (t *Tracker) openIndex(id string) int {
	ivs := t.intervals[id]
	if n := len(ivs); n > 0 && ivs[n-1].Open() {
		return n - 1
	}
	return -1
}

// MarkSeen adds a device to the seen set. Once marked, subsequent opening
// transitions count on-events.
func (t *Tracker) MarkSeen(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[id] = struct{}{}
}

// Seen reports whether a device is in the seen set.
func (t *Tracker) Seen(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[id]
	return ok
}

// SeenCount returns the size of the seen set.
func (t *Tracker) SeenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// Forget removes a device from the seen set, so a later re-creation with the
// same id goes through first-seen bootstrap again. The interval history is
// kept: analytics windows reaching back past a deletion still need the
// device's final engagement spans. Callers record the closing transition
// first so that final span is closed before the seen-set entry goes.
func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, id)
}

// IntervalAt returns the engagement interval covering the instant at, if
// any. An open interval covers every instant from its start onwards.
//
// Returns:
//   - Interval: The covering interval
//   - bool: Whether one was found
func (t *Tracker) IntervalAt(id string, at time.Time) (Interval, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := len(t.intervals[id]) - 1; i >= 0; i-- {
		iv := t.intervals[id][i]
		if iv.Start.After(at) {
			continue
		}
		if iv.Open() || iv.End.After(at) {
			return iv, true
		}
	}
	return Interval{}, false
}
