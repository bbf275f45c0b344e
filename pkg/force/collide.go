package force

import (
	"cmp"
	"math"
	"slices"
)

// Collide pushes apart nodes whose circles overlap. Positions are predicted
// one step ahead (x + vx) so the correction lands before nodes move.
type Collide struct {
	Strength   float64
	Iterations int

	// Radius returns the collision radius of a node. Nil uses Node.Radius.
	Radius func(*Node) float64

	nodes  []*Node
	radii  []float64
	order  []int
	random func() float64
}

// NewCollide returns a collide force with strength 1 and one iteration.
func NewCollide() *Collide {
	return &Collide{Strength: 1, Iterations: 1}
}

func (f *Collide) Initialize(nodes []*Node, random func() float64) {
	f.nodes = nodes
	f.random = random
	f.radii = make([]float64, len(nodes))
	f.order = make([]int, len(nodes))
	for i, n := range nodes {
		f.radii[i] = f.radius(n)
		f.order[i] = i
	}
}

func (f *Collide) radius(n *Node) float64 {
	if f.Radius != nil {
		return f.Radius(n)
	}
	return n.Radius
}

// Apply resolves overlaps with a sweep over nodes sorted by predicted x.
func (f *Collide) Apply(_ float64) {
	if len(f.nodes) < 2 {
		return
	}
	maxR := 0.0
	for _, r := range f.radii {
		maxR = math.Max(maxR, r)
	}
	for range max(f.Iterations, 1) {
		slices.SortFunc(f.order, func(a, b int) int {
			na, nb := f.nodes[a], f.nodes[b]
			return cmp.Compare(na.X+na.VX, nb.X+nb.VX)
		})
		for oi, i := range f.order {
			node := f.nodes[i]
			ri := f.radii[i]
			ri2 := ri * ri
			xi, yi := node.X+node.VX, node.Y+node.VY
			for _, j := range f.order[oi+1:] {
				other := f.nodes[j]
				xj, yj := other.X+other.VX, other.Y+other.VY
				if xj-xi > ri+maxR {
					break
				}
				rj := f.radii[j]
				r := ri + rj
				x, y := xi-xj, yi-yj
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = jiggle(f.random)
					l += x * x
				}
				if y == 0 {
					y = jiggle(f.random)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x *= l
				y *= l
				rj2 := rj * rj
				share := rj2 / (ri2 + rj2)
				node.VX += x * share
				node.VY += y * share
				other.VX -= x * (1 - share)
				other.VY -= y * (1 - share)
				xi, yi = node.X+node.VX, node.Y+node.VY
			}
		}
	}
}
