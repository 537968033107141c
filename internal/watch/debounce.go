package watch

import (
	"sync"
	"time"
)

// Debouncer batches rapid changes into one callback and never runs two
// callbacks at once. Changes arriving during a callback are delivered in a
// follow-up batch.
type Debouncer struct {
	duration time.Duration
	callback func([]string)

	mu       sync.Mutex
	timer    *time.Timer
	paths    []string
	pending  []string
	inFlight bool
	stopped  bool
}

func NewDebouncer(d time.Duration, cb func(paths []string)) *Debouncer {
	return &Debouncer{duration: d, callback: cb}
}

func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.paths = append(d.paths, path)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped || len(d.paths) == 0 {
		d.mu.Unlock()
		return
	}

	paths := dedupe(d.paths)
	d.paths = nil

	if d.inFlight {
		d.pending = append(d.pending, paths...)
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.mu.Unlock()

	d.callback(paths)

	d.mu.Lock()
	d.inFlight = false
	if len(d.pending) > 0 && !d.stopped {
		d.paths = d.pending
		d.pending = nil
		d.timer = time.AfterFunc(d.duration, d.flush)
	}
	d.mu.Unlock()
}

// Stop drops queued changes and ignores later ones. A running callback is
// not interrupted.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.paths = nil
	d.pending = nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
