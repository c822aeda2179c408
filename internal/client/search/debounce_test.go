package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualClock collects scheduled callbacks so tests decide when a window ends.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	d       time.Duration
	stopped bool
}

func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f, d: d}
	c.pending = append(c.pending, t)
	return t
}

// fireAll runs every scheduled callback, including stopped ones, which
// mimics a timer that fired while Stop raced with it.
func (c *manualClock) fireAll() {
	c.mu.Lock()
	timers := c.pending
	c.pending = nil
	c.mu.Unlock()
	for _, t := range timers {
		t.f()
	}
}

type recorder struct {
	queries []string
	clears  int
}

func newTestDebouncer(clock *manualClock, rec *recorder) *Debouncer {
	return NewDebouncer(0,
		func(q string) { rec.queries = append(rec.queries, q) },
		func() { rec.clears++ },
		WithAfterFunc(clock.AfterFunc),
	)
}

func TestDebouncer_CollapsesKeystrokes(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Update("c")
	d.Update("ca")
	d.Update("cat")
	require.Len(t, clock.pending, 3)
	assert.Equal(t, DefaultWindow, clock.pending[2].d)

	clock.fireAll()
	assert.Equal(t, []string{"cat"}, rec.queries)
}

func TestDebouncer_BlankClearsImmediately(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Update("cat")
	d.Update("   ")
	assert.Equal(t, 1, rec.clears)

	clock.fireAll()
	assert.Empty(t, rec.queries, "blank query cancels the pending one")

	d.Update("")
	assert.Equal(t, 2, rec.clears)
	assert.Empty(t, clock.pending)
}

func TestDebouncer_TrimsQuery(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Update("  cathedral ")
	clock.fireAll()
	assert.Equal(t, []string{"cathedral"}, rec.queries)
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Update("cat")
	clock.fireAll()
	d.Update("dog")
	clock.fireAll()
	assert.Equal(t, []string{"cat", "dog"}, rec.queries)
}

func TestDebouncer_StopAndCancel(t *testing.T) {
	clock := &manualClock{}
	rec := &recorder{}
	d := newTestDebouncer(clock, rec)

	d.Update("cat")
	d.Cancel()
	clock.fireAll()
	assert.Empty(t, rec.queries)

	d.Update("dog")
	d.Stop()
	d.Update("bird")
	clock.fireAll()
	assert.Empty(t, rec.queries)
}

func TestDebouncer_RealClock(t *testing.T) {
	got := make(chan string, 4)
	d := NewDebouncer(20*time.Millisecond, func(q string) { got <- q }, nil)
	t.Cleanup(d.Stop)

	d.Update("c")
	d.Update("ca")
	d.Update("cat")

	select {
	case q := <-got:
		assert.Equal(t, "cat", q)
	case <-time.After(2 * time.Second):
		t.Fatal("query never fired")
	}

	select {
	case q := <-got:
		t.Fatalf("unexpected second query %q", q)
	case <-time.After(100 * time.Millisecond):
	}
}
