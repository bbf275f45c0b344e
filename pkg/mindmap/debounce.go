package mindmap

import (
	"sync"
	"time"
)

// DefaultResizeDelay is how long resize events must pause before the view
// is resized.
const DefaultResizeDelay = 500 * time.Millisecond

// ResizeDebouncer coalesces bursts of resize events into one Resize call
// with the last dimensions.
type ResizeDebouncer struct {
	m     *MindMap
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	w, h  float64
}

// NewResizeDebouncer returns a debouncer for m. A non-positive delay means
// DefaultResizeDelay.
func NewResizeDebouncer(m *MindMap, delay time.Duration) *ResizeDebouncer {
	if delay <= 0 {
		delay = DefaultResizeDelay
	}
	return &ResizeDebouncer{m: m, delay: delay}
}

// Resize records new dimensions and restarts the quiet period.
func (d *ResizeDebouncer) Resize(w, h float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.w, d.h = w, h
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *ResizeDebouncer) fire() {
	d.mu.Lock()
	w, h := d.w, d.h
	d.timer = nil
	d.mu.Unlock()
	d.m.Resize(w, h)
}

// Stop drops a pending resize.
func (d *ResizeDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
