package layout

import (
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// NodeFrame is a node ready to draw. X and Y are the top-left corner in
// simulation space.
type NodeFrame struct {
	ID     string    `json:"id"`
	Item   item.Item `json:"item"`
	X      float64   `json:"x"`
	Y      float64   `json:"y"`
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Pinned bool      `json:"pinned,omitempty"`
}

// Center returns the centre of the node box.
func (n NodeFrame) Center() (x, y float64) {
	return n.X + n.Width/2, n.Y + n.Height/2
}

// LinkFrame is a link ready to draw, from the reply's centre to its
// parent's centre.
type LinkFrame struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Frame is one renderable state of the layout. Transform is filled in by
// the view that owns the viewport; the engine leaves it at the identity.
type Frame struct {
	Nodes     []NodeFrame        `json:"nodes"`
	Links     []LinkFrame        `json:"links"`
	Transform viewport.Transform `json:"transform"`
	Alpha     float64            `json:"alpha"`
}

// Bounds returns the smallest box containing every node, in simulation
// space. ok is false for an empty frame.
func (f Frame) Bounds() (minX, minY, maxX, maxY float64, ok bool) {
	for i, n := range f.Nodes {
		if i == 0 {
			minX, minY, maxX, maxY = n.X, n.Y, n.X+n.Width, n.Y+n.Height
			continue
		}
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+n.Width)
		maxY = max(maxY, n.Y+n.Height)
	}
	return minX, minY, maxX, maxY, len(f.Nodes) > 0
}
