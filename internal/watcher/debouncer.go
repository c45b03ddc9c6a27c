package watcher

import (
	"sync"
	"time"
)

// defaultDebounce is the window used when New is given no WithDebounceDuration.
const defaultDebounce = 250 * time.Millisecond

// debouncer runs the most recently scheduled callback once schedule calls
// have been quiet for the window.
type debouncer struct {
	window time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

func newDebouncer(window time.Duration) *debouncer {
	if window <= 0 {
		window = defaultDebounce
	}
	return &debouncer{window: window}
}

// schedule (re)arms the timer; a callback still pending from an earlier
// schedule is dropped.
func (d *debouncer) schedule(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, callback)
}

// stop drops any pending callback.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
