package scroll

import (
	"sync"
	"time"
)

// FrameThrottle runs fn at most once per frame no matter how often it is
// triggered. Triggers that arrive while a run is pending are dropped.
type FrameThrottle struct {
	request func(func())
	fn      func()

	mu      sync.Mutex
	pending bool
}

// NewFrameThrottle schedules runs of fn through request, usually a
// requestAnimationFrame binding.
func NewFrameThrottle(request func(func()), fn func()) *FrameThrottle {
	return &FrameThrottle{request: request, fn: fn}
}

// Trigger schedules a run unless one is already pending. It reports
// whether a new run was scheduled.
func (t *FrameThrottle) Trigger() bool {
	t.mu.Lock()
	if t.pending {
		t.mu.Unlock()
		return false
	}
	t.pending = true
	t.mu.Unlock()

	t.request(func() {
		t.fn()
		t.mu.Lock()
		t.pending = false
		t.mu.Unlock()
	})
	return true
}

// Debouncer runs fn once delay has passed without another Trigger. Each
// Trigger cancels the pending run and starts the wait over.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired just as it was replaced must not run.
		current := gen == d.gen && !d.stopped
		d.mu.Unlock()
		if current {
			d.fn()
		}
	})
}

// Stop cancels any pending run; later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
