package listing

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the debouncer needs
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive the debouncer deterministically
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall clock
func RealClock() Clock { return realClock{} }

// DebouncedValue is a snapshot of the debouncer state
type DebouncedValue struct {
	Raw          string
	Committed    string
	PendingSince time.Time
	Pending      bool
}

// Debouncer turns a stream of keystrokes into committed values once input
// has been quiet for the window.
type Debouncer struct {
	mu     sync.Mutex
	clock  Clock
	window time.Duration
	commit func(string)

	raw          string
	committed    string
	pendingSince time.Time
	timer        Timer
	arm          uint64
}

func NewDebouncer(window time.Duration, commit func(string), clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	if commit == nil {
		commit = func(string) {}
	}
	return &Debouncer{clock: clock, window: window, commit: commit}
}

// Push records a keystroke and restarts the quiescence window
func (d *Debouncer) Push(raw string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.raw = raw
	d.stopLocked()
	d.arm++
	arm := d.arm
	d.pendingSince = d.clock.Now()
	d.timer = d.clock.AfterFunc(d.window, func() { d.fire(arm) })
}

func (d *Debouncer) fire(arm uint64) {
	d.mu.Lock()
	if arm != d.arm || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	v, changed := d.commitLocked()
	d.mu.Unlock()

	if changed {
		d.commit(v)
	}
}

// Flush commits the pending value now instead of waiting for the window
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil
	d.stopLocked()
	d.arm++
	var (
		v       string
		changed bool
	)
	if pending {
		v, changed = d.commitLocked()
	}
	d.mu.Unlock()

	if changed {
		d.commit(v)
	}
}

// Stop drops any pending value without committing it
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.arm++
	d.raw = d.committed
	d.pendingSince = time.Time{}
}

// Reset sets both raw and committed to v without emitting
func (d *Debouncer) Reset(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.arm++
	d.raw = v
	d.committed = v
	d.pendingSince = time.Time{}
}

func (d *Debouncer) Value() DebouncedValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DebouncedValue{
		Raw:          d.raw,
		Committed:    d.committed,
		PendingSince: d.pendingSince,
		Pending:      d.timer != nil,
	}
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) commitLocked() (string, bool) {
	d.pendingSince = time.Time{}
	if d.raw == d.committed {
		return d.committed, false
	}
	d.committed = d.raw
	return d.committed, true
}
