package force

import (
	"math"
	"math/rand/v2"
)

const (
	initialRadius = 10
	defaultSeed   = 0x6d696e646d6170
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Force contributes velocity changes to the nodes of a simulation.
type Force interface {
	// Initialize is called whenever the node set changes. random returns
	// values in [0, 1) and is shared with the simulation.
	Initialize(nodes []*Node, random func() float64)
	// Apply adds this force's contribution at the given alpha.
	Apply(alpha float64)
}

type namedForce struct {
	name  string
	force Force
}

// Simulation advances nodes under a set of forces.
//
// A Simulation is not safe for concurrent use.
type Simulation struct {
	nodes  []*Node
	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	stopped bool
	rng     *rand.Rand
}

// NewSimulation returns a running simulation over nodes with alpha 1 and the
// cooling parameters of [DefaultParams].
func NewSimulation(nodes []*Node) *Simulation {
	p := DefaultParams()
	s := &Simulation{
		alpha:         1,
		alphaMin:      p.AlphaMin,
		alphaDecay:    p.AlphaDecay,
		velocityDecay: p.VelocityDecay,
		rng:           rand.New(rand.NewPCG(defaultSeed, defaultSeed)),
	}
	s.SetNodes(nodes)
	return s
}

// Seed resets the random source used for initial jitter.
func (s *Simulation) Seed(seed uint64) {
	s.rng = rand.New(rand.NewPCG(seed, seed))
}

// Nodes returns the simulated nodes.
func (s *Simulation) Nodes() []*Node { return s.nodes }

// SetNodes replaces the node set, assigns indices and initial positions to
// unpositioned nodes, and reinitializes every force.
func (s *Simulation) SetNodes(nodes []*Node) {
	s.nodes = nodes
	s.initializeNodes()
	for _, f := range s.forces {
		f.force.Initialize(s.nodes, s.rng.Float64)
	}
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force {
	for _, f := range s.forces {
		if f.name == name {
			return f.force
		}
	}
	return nil
}

// SetForce registers f under name, replacing any previous force with that
// name while keeping its position in the application order. A nil f removes
// the force.
func (s *Simulation) SetForce(name string, f Force) {
	for i, nf := range s.forces {
		if nf.name != name {
			continue
		}
		if f == nil {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
		s.forces[i].force = f
		f.Initialize(s.nodes, s.rng.Float64)
		return
	}
	if f == nil {
		return
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
	f.Initialize(s.nodes, s.rng.Float64)
}

func (s *Simulation) Alpha() float64 { return s.alpha }
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }
func (s *Simulation) SetAlphaMin(a float64) { s.alphaMin = a }
func (s *Simulation) AlphaDecay() float64 { return s.alphaDecay }
func (s *Simulation) SetAlphaDecay(a float64) { s.alphaDecay = a }
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha cools toward. A target above alphaMin
// keeps the simulation running indefinitely.
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }

// VelocityDecay returns the fraction of velocity lost per tick.
func (s *Simulation) VelocityDecay() float64 { return s.velocityDecay }

// SetVelocityDecay sets the fraction of velocity lost per tick.
func (s *Simulation) SetVelocityDecay(d float64) { s.velocityDecay = d }

// Restart resumes stepping after Stop or after the simulation cooled down.
func (s *Simulation) Restart() { s.stopped = false }

// Stop halts stepping until Restart.
func (s *Simulation) Stop() { s.stopped = true }

// Running reports whether Step will advance the simulation.
func (s *Simulation) Running() bool { return !s.stopped }

// Step performs one tick if the simulation is running, then stops it once
// alpha has cooled below alphaMin. It reports whether a tick happened.
func (s *Simulation) Step() bool {
	if s.stopped {
		return false
	}
	s.Tick(1)
	if s.alpha < s.alphaMin {
		s.stopped = true
	}
	return true
}

// Tick advances the simulation by n steps regardless of its running state.
func (s *Simulation) Tick(n int) {
	for range n {
		s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

		for _, f := range s.forces {
			f.force.Apply(s.alpha)
		}

		keep := 1 - s.velocityDecay
		for _, node := range s.nodes {
			if node.FX == nil {
				node.VX *= keep
				node.X += node.VX
			} else {
				node.X = *node.FX
				node.VX = 0
			}
			if node.FY == nil {
				node.VY *= keep
				node.Y += node.VY
			} else {
				node.Y = *node.FY
				node.VY = 0
			}
		}
	}
}

func (s *Simulation) initializeNodes() {
	for i, n := range s.nodes {
		n.Index = i
		if n.FX != nil {
			n.X = *n.FX
		}
		if n.FY != nil {
			n.Y = *n.FY
		}
		if !n.HasPosition() {
			r := initialRadius * math.Sqrt(0.5+float64(i))
			a := float64(i) * initialAngle
			n.X = r * math.Cos(a)
			n.Y = r * math.Sin(a)
		}
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) {
			n.VX, n.VY = 0, 0
		}
	}
}

// jiggle returns a tiny non-zero offset used to break exact coincidence.
func jiggle(random func() float64) float64 {
	if random == nil {
		return 1e-7
	}
	if v := (random() - 0.5) * 1e-6; v != 0 {
		return v
	}
	return 1e-7
}
