package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/barneshut"
	"gonum.org/v1/gonum/spatial/r2"
)

// ManyBody applies a charge between every pair of nodes. Negative strength
// repels. Far groups of nodes are approximated by their centre of mass
// once the group's width over distance falls below Theta.
type ManyBody struct {
	Strength    float64
	Theta       float64
	DistanceMin float64
	DistanceMax float64

	nodes  []*Node
	random func() float64
}

// NewManyBody returns a many-body force with strength -30, theta 0.9 and no
// maximum distance.
func NewManyBody() *ManyBody {
	return &ManyBody{Strength: -30, Theta: 0.9, DistanceMin: 1, DistanceMax: math.Inf(1)}
}

// body adapts a node to barneshut.Particle2. Every body weighs one unit, so
// a tile's mass counts the nodes it summarizes.
type body struct{ n *Node }

func (b body) Coord2() r2.Vec { return r2.Vec{X: b.n.X, Y: b.n.Y} }
func (b body) Mass() float64 { return 1 }

func (f *ManyBody) Initialize(nodes []*Node, random func() float64) {
	f.nodes = nodes
	f.random = random
}

func (f *ManyBody) Apply(alpha float64) {
	if len(f.nodes) < 2 {
		return
	}
	f.separateCoincident()

	particles := make([]barneshut.Particle2, len(f.nodes))
	for i, n := range f.nodes {
		particles[i] = body{n}
	}
	plane, err := barneshut.NewPlane(particles)
	theta := f.Theta
	if err != nil {
		// The quadtree could not be subdivided far enough; evaluate every
		// pair directly.
		plane = &barneshut.Plane{Particles: particles}
		theta = 0
	}

	dmin2 := f.DistanceMin * f.DistanceMin
	dmax2 := f.DistanceMax * f.DistanceMax
	charge := func(p1, p2 barneshut.Particle2, _, m2 float64, v r2.Vec) r2.Vec {
		if p2 != nil && p2 == p1 {
			return r2.Vec{}
		}
		l2 := r2.Norm2(v)
		if l2 >= dmax2 {
			return r2.Vec{}
		}
		if l2 == 0 {
			v.X = jiggle(f.random)
			l2 = v.X * v.X
		}
		if l2 < dmin2 {
			l2 = math.Sqrt(dmin2 * l2)
		}
		return r2.Scale(f.Strength*m2*alpha/l2, v)
	}

	for i, n := range f.nodes {
		dv := plane.ForceOn(particles[i], theta, charge)
		n.VX += dv.X
		n.VY += dv.Y
	}
}

// separateCoincident nudges nodes sharing an exact position apart so the
// quadtree can always split them.
func (f *ManyBody) separateCoincident() {
	seen := make(map[r2.Vec]struct{}, len(f.nodes))
	for _, n := range f.nodes {
		p := r2.Vec{X: n.X, Y: n.Y}
		for {
			if _, dup := seen[p]; !dup {
				break
			}
			n.X += jiggle(f.random) * 1e3
			n.Y += jiggle(f.random) * 1e3
			p = r2.Vec{X: n.X, Y: n.Y}
		}
		seen[p] = struct{}{}
	}
}
