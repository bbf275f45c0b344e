package viewport

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultZoomDuration is the length of a programmatic zoom or recentering.
const DefaultZoomDuration = 1500 * time.Millisecond

type transition struct {
	start    time.Time
	duration time.Duration
	at       func(progress float64) Transform
}

// Viewport owns the current transform and the viewport size.
//
// A Viewport is not safe for concurrent use.
type Viewport struct {
	transform Transform
	extent    ScaleExtent
	width     float64
	height    float64

	duration time.Duration
	ease     Easing
	active   *transition

	observer func(Transform)
	logger   *log.Logger
}

// Option configures a Viewport.
type Option func(*Viewport)

// WithScaleExtent sets the zoom range. Callers validate the range first.
func WithScaleExtent(e ScaleExtent) Option {
	return func(v *Viewport) { v.extent = e }
}

// WithDuration sets the length of ZoomTo and CenterView transitions.
func WithDuration(d time.Duration) Option {
	return func(v *Viewport) { v.duration = d }
}

// WithEasing replaces the QuadInOut transition easing.
func WithEasing(e Easing) Option {
	return func(v *Viewport) {
		if e != nil {
			v.ease = e
		}
	}
}

// WithObserver registers a function called with the new transform after
// every change, including the re-application done by Resize.
func WithObserver(fn func(Transform)) Option {
	return func(v *Viewport) { v.observer = fn }
}

// WithLogger sets the debug logger. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(v *Viewport) {
		if l != nil {
			v.logger = l
		}
	}
}

// New returns a viewport at the identity transform.
func New(opts ...Option) *Viewport {
	v := &Viewport{
		transform: Identity,
		extent:    DefaultScaleExtent(),
		duration:  DefaultZoomDuration,
		ease:      QuadInOut,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Transform returns the stored transform.
func (v *Viewport) Transform() Transform { return v.transform }

// ScaleExtent returns the zoom range.
func (v *Viewport) ScaleExtent() ScaleExtent { return v.extent }

// Size returns the last size passed to Resize.
func (v *Viewport) Size() (w, h float64) { return v.width, v.height }

// ToSimulation maps a screen point into simulation space.
func (v *Viewport) ToSimulation(p Point) Point { return v.transform.Invert(p) }

// ToScreen maps a simulation point onto the screen.
func (v *Viewport) ToScreen(p Point) Point { return v.transform.Apply(p) }

// SetTransform stores t as the result of a user gesture. The scale is
// clamped to the extent and any running transition is interrupted.
// Invalid transforms are ignored.
func (v *Viewport) SetTransform(t Transform) {
	if !t.IsValid() {
		v.logger.Debug("ignored invalid transform", "transform", t)
		return
	}
	v.active = nil
	t.K = v.extent.Clamp(t.K)
	v.set(t)
}

// ZoomBy multiplies the scale by factor around a screen anchor.
func (v *Viewport) ZoomBy(factor float64, anchor Point) {
	k := v.extent.Clamp(v.transform.K * factor)
	v.SetTransform(v.transform.ScaleAround(k, anchor))
}

// PanBy shifts the view by (dx, dy) screen units.
func (v *Viewport) PanBy(dx, dy float64) {
	v.SetTransform(v.transform.Translate(dx, dy))
}

// ZoomTo starts a transition to scale level, keeping the screen anchor
// fixed for its whole duration. The level is clamped to the extent.
func (v *Viewport) ZoomTo(level float64, anchor Point, now time.Time) {
	from := v.transform
	to := v.extent.Clamp(level)
	v.logger.Debug("zoom", "from", from.K, "to", to)
	v.begin(now, func(e float64) Transform {
		k := from.K + (to-from.K)*e
		return from.ScaleAround(k, anchor)
	})
}

// CenterView starts a transition of the translation back to zero. The
// scale is preserved.
func (v *Viewport) CenterView(now time.Time) {
	from := v.transform
	v.begin(now, func(e float64) Transform {
		return Transform{K: from.K, X: from.X * (1 - e), Y: from.Y * (1 - e)}
	})
}

// Transitioning reports whether a transition is in progress.
func (v *Viewport) Transitioning() bool { return v.active != nil }

// Advance moves the running transition to now. It reports whether the
// transform changed.
func (v *Viewport) Advance(now time.Time) bool {
	tr := v.active
	if tr == nil {
		return false
	}
	progress := 1.0
	if tr.duration > 0 {
		progress = float64(now.Sub(tr.start)) / float64(tr.duration)
		progress = min(max(progress, 0), 1)
	}
	if progress >= 1 {
		v.active = nil
	}
	v.set(tr.at(v.ease(progress)))
	return true
}

// Resize records the new viewport size and re-applies the stored
// transform, so a rebuilt chart keeps the user's zoom and pan.
func (v *Viewport) Resize(w, h float64) {
	v.width, v.height = w, h
	v.logger.Debug("resize", "width", w, "height", h, "transform", v.transform)
	v.set(v.transform)
}

func (v *Viewport) begin(now time.Time, at func(float64) Transform) {
	v.active = &transition{start: now, duration: v.duration, at: at}
	if v.duration <= 0 {
		v.Advance(now)
	}
}

func (v *Viewport) set(t Transform) {
	v.transform = t
	if v.observer != nil {
		v.observer(t)
	}
}
