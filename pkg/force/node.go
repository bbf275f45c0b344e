package force

import "math"

// Node is a simulated body. Positions and velocities are in simulation
// space.
type Node struct {
	ID    string
	Index int // Position in the simulation's node slice, set by SetNodes

	X, Y   float64
	VX, VY float64

	// FX and FY pin the node. A pinned coordinate overrides X/Y after
	// every tick and zeroes the matching velocity.
	FX, FY *float64

	Width  float64
	Height float64
	Radius float64 // Collision radius
}

// NewNode returns a node with no position and zero velocity.
func NewNode(id string) *Node {
	return &Node{ID: id, X: math.NaN(), Y: math.NaN()}
}

// HasPosition reports whether both coordinates are set.
func (n *Node) HasPosition() bool {
	return !math.IsNaN(n.X) && !math.IsNaN(n.Y)
}

// Pin fixes the node at (x, y).
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
}

// Unpin releases both pins.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether either coordinate is pinned.
func (n *Node) Pinned() bool {
	return n.FX != nil || n.FY != nil
}

// Link joins two nodes.
type Link struct {
	Source *Node
	Target *Node
	Index  int
}
