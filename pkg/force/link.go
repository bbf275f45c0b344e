package force

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// LinkForce pulls linked nodes toward a rest distance. Each link's
// correction is split between its ends by degree, so a leaf moves more than
// the hub it hangs from.
type LinkForce struct {
	Distance   float64
	Strength   float64
	Iterations int

	links  []*Link
	bias   []float64
	random func() float64
}

// NewLink returns a link force over links with distance 30, strength 1 and
// a single iteration.
func NewLink(links []*Link) *LinkForce {
	return &LinkForce{Distance: 30, Strength: 1, Iterations: 1, links: links}
}

// Links returns the links the force acts on.
func (f *LinkForce) Links() []*Link { return f.links }

// SetLinks replaces the links. The simulation reinitializes the force on
// the next SetNodes; call Initialize directly when the nodes are unchanged.
func (f *LinkForce) SetLinks(links []*Link) {
	f.links = links
	f.computeBias()
}

func (f *LinkForce) Initialize(_ []*Node, random func() float64) {
	f.random = random
	f.computeBias()
}

func (f *LinkForce) computeBias() {
	count := make(map[*Node]int, 2*len(f.links))
	for i, l := range f.links {
		l.Index = i
		count[l.Source]++
		count[l.Target]++
	}
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		s, t := float64(count[l.Source]), float64(count[l.Target])
		f.bias[i] = s / (s + t)
	}
}

func (f *LinkForce) Apply(alpha float64) {
	for range max(f.Iterations, 1) {
		for i, lk := range f.links {
			s, t := lk.Source, lk.Target
			d := r2.Sub(r2.Vec{X: t.X + t.VX, Y: t.Y + t.VY}, r2.Vec{X: s.X + s.VX, Y: s.Y + s.VY})
			if d.X == 0 {
				d.X = jiggle(f.random)
			}
			if d.Y == 0 {
				d.Y = jiggle(f.random)
			}
			l := r2.Norm(d)
			k := (l - f.Distance) / l * alpha * f.Strength
			d = r2.Scale(k, d)

			b := f.bias[i]
			t.VX -= d.X * b
			t.VY -= d.Y * b
			s.VX += d.X * (1 - b)
			s.VY += d.Y * (1 - b)
		}
	}
}
