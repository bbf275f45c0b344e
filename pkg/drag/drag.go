// Package drag turns pointer gestures into node pins on a running
// simulation.
//
// The [Controller] resolves the node under the pointer by inverting the
// current viewport transform and testing node boxes from the top of the
// draw order down. A press alone disturbs nothing. Only once the pointer
// leaves a small dead zone does the drag pin the node and reheat the
// simulation, so a click on a node stays a click.
package drag

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/peoplesfeelings/mindmap/pkg/force"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// Reheat values applied on the first genuine move of a drag.
const (
	DragAlphaTarget = 0.5
	DragAlpha       = 0.51
)

// DefaultDeadZone is the screen distance a press must travel before it
// counts as a drag.
const DefaultDeadZone = 3.0

// Simulation is the part of the layout a drag acts on.
type Simulation interface {
	Nodes() []*force.Node
	Reheat(alphaTarget, alpha float64)
	Cool()
}

// Transformer maps screen points into simulation space.
type Transformer interface {
	ToSimulation(p viewport.Point) viewport.Point
}

// Controller tracks at most one active drag.
//
// A Controller is not safe for concurrent use.
type Controller struct {
	sim      Simulation
	view     Transformer
	deadZone float64
	logger   *log.Logger

	subject *force.Node
	origin  viewport.Point
	moved   bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithDeadZone sets the click-versus-drag threshold in screen units.
func WithDeadZone(d float64) Option {
	return func(c *Controller) {
		if d >= 0 && !math.IsNaN(d) {
			c.deadZone = d
		}
	}
}

// WithLogger sets the debug logger. A nil logger discards.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a controller dragging nodes of sim under view's transform.
func New(sim Simulation, view Transformer, opts ...Option) *Controller {
	c := &Controller{
		sim:      sim,
		view:     view,
		deadZone: DefaultDeadZone,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subject returns the draggable node under a screen point, or nil. Nodes
// later in draw order win. A press on a pinned node, such as the root, is
// absorbed by it and drags nothing.
func (c *Controller) Subject(screen viewport.Point) *force.Node {
	p := c.view.ToSimulation(screen)
	return HitTest(c.sim.Nodes(), p)
}

// HitTest returns the topmost node whose box contains p, or nil when that
// node is pinned or nothing is hit.
func HitTest(nodes []*force.Node, p viewport.Point) *force.Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		hw, hh := n.Width/2, n.Height/2
		if p.X < n.X-hw || p.X > n.X+hw || p.Y < n.Y-hh || p.Y > n.Y+hh {
			continue
		}
		if n.Pinned() {
			return nil
		}
		return n
	}
	return nil
}

// Start begins a drag at a screen point. It reports whether a node was
// hit. Nothing in the simulation changes yet.
func (c *Controller) Start(screen viewport.Point) bool {
	c.subject = c.Subject(screen)
	c.origin = screen
	c.moved = false
	return c.subject != nil
}

// Move follows the pointer. The first move beyond the dead zone reheats
// the simulation and pins the subject under the pointer. Later moves only
// update the pin. It reports whether the subject is being dragged.
func (c *Controller) Move(screen viewport.Point) bool {
	if c.subject == nil {
		return false
	}
	if !c.moved {
		if math.Hypot(screen.X-c.origin.X, screen.Y-c.origin.Y) <= c.deadZone {
			return false
		}
		c.moved = true
		c.sim.Reheat(DragAlphaTarget, DragAlpha)
		c.logger.Debug("drag", "id", c.subject.ID)
	}
	p := c.view.ToSimulation(screen)
	c.subject.Pin(p.X, p.Y)
	return true
}

// End releases the subject. If the drag moved, the simulation cools and
// the pins are cleared. It returns the pressed node and whether it was
// actually dragged, so the caller can treat a still press as a click.
func (c *Controller) End() (released *force.Node, dragged bool) {
	n, moved := c.subject, c.moved
	c.subject, c.moved = nil, false
	if n == nil {
		return nil, false
	}
	if moved {
		c.sim.Cool()
		n.Unpin()
	}
	return n, moved
}

// Active reports whether a drag has passed the dead zone.
func (c *Controller) Active() bool { return c.subject != nil && c.moved }
