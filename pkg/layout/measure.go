package layout

import "github.com/peoplesfeelings/mindmap/pkg/item"

// Measurer reports the rendered size of an item laid out at a fixed width.
type Measurer interface {
	Measure(it item.Item, width float64) (w, h float64)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(it item.Item, width float64) (w, h float64)

// Measure calls f.
func (f MeasureFunc) Measure(it item.Item, width float64) (w, h float64) {
	return f(it, width)
}

// FixedSize measures every item as width by Height.
type FixedSize struct {
	Height float64
}

// Measure returns (width, s.Height).
func (s FixedSize) Measure(_ item.Item, width float64) (w, h float64) {
	return width, s.Height
}
