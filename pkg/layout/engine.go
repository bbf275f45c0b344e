package layout

import (
	"io"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/force"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// Force names registered on the simulation, in application order.
const (
	ForceLink    = "link"
	ForceCharge  = "charge"
	ForceCollide = "collide"
	ForceX       = "x"
	ForceY       = "y"
	ForceCenter  = "center"
)

var positionForces = []string{ForceX, ForceY, ForceCenter}

// Config configures an Engine.
type Config struct {
	ItemWidth float64        // Node width and twice the link distance
	Params    force.Params   // Zero value means force.DefaultParams
	Untangle  UntangleParams // Zero value means DefaultUntangleParams
	Measurer  Measurer       // Required
	Seed      uint64         // Seeds placement jitter
	Logger    *log.Logger    // Optional, discards when nil
}

// Engine owns the simulation and the node/link sets derived from placed
// items.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	itemWidth float64
	params    force.Params
	untangle  UntangleParams
	measurer  Measurer
	logger    *log.Logger
	rng       *rand.Rand

	sim     *force.Simulation
	link    *force.LinkForce
	charge  *force.ManyBody
	collide *force.Collide

	nodes []*force.Node
	links []*force.Link
	byID  map[string]*force.Node
	items map[string]item.Item

	frozen bool
}

// NewEngine validates cfg and returns an engine with an empty simulation.
func NewEngine(cfg Config) (*Engine, error) {
	if err := errors.ValidatePositive("item_width", cfg.ItemWidth); err != nil {
		return nil, err
	}
	if cfg.Measurer == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "layout requires a measurer")
	}
	if cfg.Params == (force.Params{}) {
		cfg.Params = force.DefaultParams()
	}
	if err := cfg.Params.Validate(); err != nil {
		return nil, err
	}
	if cfg.Untangle == (UntangleParams{}) {
		cfg.Untangle = DefaultUntangleParams()
	}
	if err := cfg.Untangle.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		itemWidth: cfg.ItemWidth,
		params:    cfg.Params,
		untangle:  cfg.Untangle,
		measurer:  cfg.Measurer,
		logger:    logger,
		rng:       rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		byID:      make(map[string]*force.Node),
		items:     make(map[string]item.Item),
	}
	e.build()
	return e, nil
}

func (e *Engine) build() {
	p := e.params
	e.sim = force.NewSimulation(nil)
	e.sim.Seed(e.rng.Uint64())
	e.sim.SetAlphaDecay(p.AlphaDecay)
	e.sim.SetAlphaMin(p.AlphaMin)
	e.sim.SetVelocityDecay(p.VelocityDecay)

	e.link = force.NewLink(nil)
	e.link.Distance = e.itemWidth / 2
	e.link.Strength = p.LinkStrength
	e.link.Iterations = p.LinkIterations

	e.charge = force.NewManyBody()
	e.charge.Strength = p.Charge
	e.charge.Theta = p.Theta

	e.collide = force.NewCollide()
	e.collide.Strength = p.CollideStrength
	e.collide.Iterations = p.CollideIterations

	e.sim.SetForce(ForceLink, e.link)
	e.sim.SetForce(ForceCharge, e.charge)
	e.sim.SetForce(ForceCollide, e.collide)
	e.installPositionForces()
	e.sim.Stop()
}

func (e *Engine) installPositionForces() {
	p := e.params
	x := force.NewPositionX(0)
	x.Strength = p.AxisStrength
	y := force.NewPositionY(0)
	y.Strength = p.AxisStrength
	c := force.NewCenter(0, 0)
	c.Strength = p.CenterStrength
	e.sim.SetForce(ForceX, x)
	e.sim.SetForce(ForceY, y)
	e.sim.SetForce(ForceCenter, c)
}

// Update reconciles the simulation with the placed items and their links.
// Existing nodes keep their physical state. New nodes are measured and
// seeded, then the simulation restarts at alpha 1. It returns the number of
// nodes created.
func (e *Engine) Update(items []item.Item, links []item.Link) int {
	e.items = make(map[string]item.Item, len(items))
	for _, it := range items {
		if _, dup := e.items[it.ID]; !dup {
			e.items[it.ID] = it
		}
	}

	nodes := make([]*force.Node, 0, len(e.items))
	byID := make(map[string]*force.Node, len(e.items))
	var fresh []*force.Node
	for _, it := range items {
		if _, dup := byID[it.ID]; dup {
			continue
		}
		n, ok := e.byID[it.ID]
		if !ok {
			n = force.NewNode(it.ID)
			e.measure(n, it)
			fresh = append(fresh, n)
		}
		byID[it.ID] = n
		nodes = append(nodes, n)
	}
	e.byID = byID

	for _, n := range fresh {
		e.seed(n)
	}

	simLinks := make([]*force.Link, 0, len(links))
	for _, l := range links {
		s, t := byID[l.Source], byID[l.Target]
		if s == nil || t == nil {
			e.logger.Debug("skipped link with missing endpoint", "source", l.Source, "target", l.Target)
			continue
		}
		simLinks = append(simLinks, &force.Link{Source: s, Target: t})
	}

	e.nodes = nodes
	e.links = simLinks
	e.link.SetLinks(simLinks)
	e.sim.SetNodes(nodes)
	e.sim.SetAlpha(1)
	e.sim.Restart()
	e.frozen = false

	e.logger.Debug("reconciled", "nodes", len(nodes), "links", len(simLinks), "new", len(fresh))
	return len(fresh)
}

func (e *Engine) measure(n *force.Node, it item.Item) {
	w, h := e.measurer.Measure(it, e.itemWidth)
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		w = e.itemWidth
	}
	if h < 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}
	n.Width, n.Height = w, h
	n.Radius = math.Sqrt(w*w+h*h) / 2
}

// seed places a new node. Roots are pinned at the origin. Other nodes start
// on a circle of twice the nearest positioned ancestor's radius, below it.
// Nodes without such an ancestor are left for the simulation to place.
func (e *Engine) seed(n *force.Node) {
	it := e.items[n.ID]
	if it.IsFirst {
		n.X, n.Y = 0, 0
		n.Pin(0, 0)
		return
	}
	anc := e.positionedAncestor(it)
	if anc == nil {
		return
	}
	r := 2 * anc.Radius
	theta := e.rng.Float64() * 2 * math.Pi
	offset := r * math.Sin(theta)
	yOffset := math.Sqrt(r*r - offset*offset)
	n.X = anc.X + offset
	n.Y = anc.Y + yOffset
}

// positionedAncestor walks reply_to_id links upward and returns the first
// ancestor node that has a position and is not a root. The walk is bounded
// by the number of known items and stops on a repeated id.
func (e *Engine) positionedAncestor(it item.Item) *force.Node {
	visited := make(map[string]bool)
	id := it.ReplyToID
	for range len(e.items) {
		if visited[id] {
			return nil
		}
		visited[id] = true
		parent, ok := e.items[id]
		if !ok || parent.IsFirst {
			return nil
		}
		if n := e.byID[id]; n != nil && n.HasPosition() {
			return n
		}
		id = parent.ReplyToID
	}
	return nil
}

// Place moves the node for id to (x, y) and clears its velocity. Pinned
// nodes stay where they are. It reports whether the node was moved.
func (e *Engine) Place(id string, x, y float64) bool {
	n := e.byID[id]
	if n == nil || n.Pinned() || math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	n.X, n.Y = x, y
	n.VX, n.VY = 0, 0
	return true
}

// Tick advances the simulation one step unless it is frozen or cooled. It
// reports whether a step happened.
func (e *Engine) Tick() bool {
	if e.frozen {
		return false
	}
	return e.sim.Step()
}

// Freeze halts the simulation until the next Update, Untangle or Reheat.
func (e *Engine) Freeze() {
	e.frozen = true
	e.sim.Stop()
	e.logger.Debug("frozen", "alpha", e.sim.Alpha())
}

// Frozen reports whether Freeze is in effect.
func (e *Engine) Frozen() bool { return e.frozen }

// Running reports whether Tick will advance the simulation.
func (e *Engine) Running() bool { return !e.frozen && e.sim.Running() }

// Reheat sets the alpha target and alpha, and resumes stepping.
func (e *Engine) Reheat(alphaTarget, alpha float64) {
	e.sim.SetAlphaTarget(alphaTarget)
	e.sim.SetAlpha(alpha)
	e.frozen = false
	e.sim.Restart()
}

// Cool lets alpha decay back to zero after a Reheat.
func (e *Engine) Cool() {
	e.sim.SetAlphaTarget(0)
}

// Simulation returns the underlying simulation.
func (e *Engine) Simulation() *force.Simulation { return e.sim }

// Nodes returns the simulation nodes in item order.
func (e *Engine) Nodes() []*force.Node { return e.nodes }

// Node returns the node for id, or nil.
func (e *Engine) Node(id string) *force.Node { return e.byID[id] }

// Len returns the number of nodes.
func (e *Engine) Len() int { return len(e.nodes) }

// Alpha returns the current simulation alpha.
func (e *Engine) Alpha() float64 { return e.sim.Alpha() }

// ItemWidth returns the configured node width.
func (e *Engine) ItemWidth() float64 { return e.itemWidth }

// Frame snapshots the current positions for rendering.
func (e *Engine) Frame() Frame {
	f := Frame{
		Nodes:     make([]NodeFrame, len(e.nodes)),
		Links:     make([]LinkFrame, len(e.links)),
		Transform: viewport.Identity,
		Alpha:     e.sim.Alpha(),
	}
	for i, n := range e.nodes {
		f.Nodes[i] = NodeFrame{
			ID:     n.ID,
			Item:   e.items[n.ID],
			X:      n.X - n.Width/2,
			Y:      n.Y - n.Height/2,
			Width:  n.Width,
			Height: n.Height,
			Pinned: n.Pinned(),
		}
	}
	for i, l := range e.links {
		f.Links[i] = LinkFrame{
			Source: l.Source.ID,
			Target: l.Target.ID,
			X1:     l.Source.X,
			Y1:     l.Source.Y,
			X2:     l.Target.X,
			Y2:     l.Target.Y,
		}
	}
	return f
}
