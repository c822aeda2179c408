// Package search collapses keystroke-driven queries into debounced search
// requests.
package search

import (
	"strings"
	"sync"
	"time"
)

// DefaultWindow is the quiet period after the last keystroke before a query
// fires.
const DefaultWindow = 300 * time.Millisecond

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// RealAfterFunc uses the wall clock.
func RealAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// IsBlank reports whether q is empty or whitespace only. Blank queries clear
// results and never reach the network.
func IsBlank(q string) bool {
	return strings.TrimSpace(q) == ""
}

// Debouncer delivers the latest query once no new query has arrived for the
// window. Blank queries cancel anything pending and are delivered to onClear
// immediately.
type Debouncer struct {
	window  time.Duration
	after   AfterFunc
	onQuery func(query string)
	onClear func()

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
}

// Option customizes a Debouncer.
type Option func(*Debouncer)

// WithAfterFunc replaces the clock. Tests use it to fire windows by hand.
func WithAfterFunc(after AfterFunc) Option {
	return func(d *Debouncer) { d.after = after }
}

// NewDebouncer creates a debouncer. A window <= 0 uses DefaultWindow.
func NewDebouncer(window time.Duration, onQuery func(query string), onClear func(), opts ...Option) *Debouncer {
	if window <= 0 {
		window = DefaultWindow
	}
	d := &Debouncer{
		window:  window,
		after:   RealAfterFunc,
		onQuery: onQuery,
		onClear: onClear,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Update records a new query. Each call restarts the window.
func (d *Debouncer) Update(query string) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()

	if IsBlank(query) {
		d.mu.Unlock()
		if d.onClear != nil {
			d.onClear()
		}
		return
	}

	gen := d.gen
	query = strings.TrimSpace(query)
	d.timer = d.after(d.window, func() {
		d.mu.Lock()
		if d.stopped || gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.onQuery(query)
	})
	d.mu.Unlock()
}

// Cancel drops any pending query.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels pending work and ignores later updates.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()
}

func (d *Debouncer) cancelLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
