// Package frametick schedules deferred paint work. Painting is deferred to
// the next rendering opportunity when a frame-tick source exists; without
// one, work runs immediately. Both paths perform the same mutations and emit
// the same reports, only the timing differs.
package frametick

import (
	"sync"
	"time"
)

// Scheduler defers a task to the next rendering opportunity.
type Scheduler interface {
	// Schedule enqueues fn. Tasks scheduled from one goroutine run in
	// scheduling order.
	Schedule(fn func())

	// Stop shuts the scheduler down, running any still-pending tasks.
	Stop()
}

// Immediate runs tasks synchronously. It is the fallback for environments
// without a frame-tick source.
type Immediate struct{}

var _ Scheduler = Immediate{}

// Schedule runs fn inline.
func (Immediate) Schedule(fn func()) { fn() }

// Stop is a no-op; nothing is ever pending.
func (Immediate) Stop() {}

// Ticker drains a task queue on each frame tick.
type Ticker struct {
	mu      sync.Mutex
	pending []func()
	stopped bool

	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
}

var _ Scheduler = (*Ticker)(nil)

// NewTicker starts a scheduler firing at the given interval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	t := &Ticker{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.run()
	return t
}

// Schedule enqueues fn for the next tick. After Stop, fn runs inline so late
// work is never silently lost.
func (t *Ticker) Schedule(fn func()) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		fn()
		return
	}
	t.pending = append(t.pending, fn)
	t.mu.Unlock()
}

// Stop halts the tick loop and drains any pending tasks.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	t.ticker.Stop()
	close(t.done)
	t.wg.Wait()
	t.drain()
}

func (t *Ticker) run() {
	defer t.wg.Done()
	for {
		select {
		case <-t.ticker.C:
			t.drain()
		case <-t.done:
			return
		}
	}
}

func (t *Ticker) drain() {
	t.mu.Lock()
	tasks := t.pending
	t.pending = nil
	t.mu.Unlock()

	for _, fn := range tasks {
		fn()
	}
}
