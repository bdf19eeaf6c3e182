package search

import (
	"sync"
	"time"
)

// DefaultDebounce buffers query changes before rescoring.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid query updates: fn runs once with the latest
// value after delay has elapsed without another update. The scoring
// itself stays in Rank; the Debouncer is owned by the caller.
type Debouncer struct {
	delay time.Duration
	fn    func(query string)

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration, fn func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Update replaces any pending query with q and restarts the delay.
func (d *Debouncer) Update(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(q)
	})
}

// Stop cancels a pending invocation, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
