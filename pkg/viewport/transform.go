// Package viewport tracks the zoom/pan transform between screen space and
// simulation space.
//
// A [Transform] maps a simulation point p to the screen as p·K + (X, Y).
// The [Viewport] owns the current transform, clamps its scale to a
// [ScaleExtent], and runs eased transitions for programmatic zooms and
// recentering. Transitions advance only when the host calls
// [Viewport.Advance] from its frame loop, so no goroutines are involved.
package viewport

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in either screen or simulation space.
type Point = r2.Vec

// Transform is a uniform scale followed by a translation.
type Transform struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{K: 1}

// Apply maps a simulation point to screen space.
func (t Transform) Apply(p Point) Point {
	return r2.Add(r2.Scale(t.K, p), Point{X: t.X, Y: t.Y})
}

// Invert maps a screen point to simulation space.
func (t Transform) Invert(p Point) Point {
	return r2.Scale(1/t.K, r2.Sub(p, Point{X: t.X, Y: t.Y}))
}

// ScaleAround returns the transform with scale k that keeps screen point
// anchor over the same simulation point.
func (t Transform) ScaleAround(k float64, anchor Point) Transform {
	p := t.Invert(anchor)
	return Transform{K: k, X: anchor.X - p.X*k, Y: anchor.Y - p.Y*k}
}

// Translate returns the transform shifted by (dx, dy) screen units.
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{K: t.K, X: t.X + dx, Y: t.Y + dy}
}

// IsValid reports whether every component is finite and the scale is
// positive.
func (t Transform) IsValid() bool {
	return t.K > 0 && !math.IsInf(t.K, 0) &&
		!math.IsNaN(t.X) && !math.IsInf(t.X, 0) &&
		!math.IsNaN(t.Y) && !math.IsInf(t.Y, 0)
}

// String formats the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

// ScaleExtent bounds the zoom level.
type ScaleExtent struct {
	Min float64 `toml:"min_zoom" mapstructure:"min_zoom" json:"min"`
	Max float64 `toml:"max_zoom" mapstructure:"max_zoom" json:"max"`
}

// DefaultScaleExtent allows zooming out to 1% and in to 8x.
func DefaultScaleExtent() ScaleExtent {
	return ScaleExtent{Min: 0.01, Max: 8}
}

// Clamp limits k to the extent.
func (e ScaleExtent) Clamp(k float64) float64 {
	return math.Min(e.Max, math.Max(e.Min, k))
}
