package viewport

import "math"

// Easing maps linear progress in [0, 1] to eased progress.
type Easing func(t float64) float64

// QuadInOut accelerates through the first half and decelerates through the
// second.
func QuadInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t / 2
	}
	t--
	return (t*(2-t) + 1) / 2
}

// Linear is the identity easing.
func Linear(t float64) float64 { return t }

// Easing names accepted by EasingByName.
const (
	EaseQuadInOut = "quad"
	EaseLinear    = "linear"
)

// EasingByName returns the easing called name. The empty name selects
// QuadInOut.
func EasingByName(name string) (Easing, bool) {
	switch name {
	case "", EaseQuadInOut:
		return QuadInOut, true
	case EaseLinear:
		return Linear, true
	}
	return nil, false
}

// WheelFactor converts a pixel-mode wheel delta into a zoom factor.
// Scrolling down (positive delta) zooms out.
func WheelFactor(deltaY float64) float64 {
	return math.Pow(2, -deltaY*0.002)
}
