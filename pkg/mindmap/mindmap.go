package mindmap

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/peoplesfeelings/mindmap/pkg/drag"
	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/observability"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// Element is a host-defined visual for one item.
type Element any

// Container is the host's drawing surface.
//
// Draw is called with the MindMap locked and must not call back into it.
type Container interface {
	// Size returns the visible area in screen units. Screen coordinates are
	// measured from the centre of that area.
	Size() (w, h float64)
	// Measure returns the size of a populated element laid out at width.
	Measure(el Element, width float64) (w, h float64)
	// Draw renders one frame.
	Draw(frame layout.Frame)
}

// MindMap is safe for concurrent use.
type MindMap struct {
	mu sync.Mutex

	opts       Options
	container  Container
	newElement func() Element
	populate   func(Element, item.Item) Element
	logger     *log.Logger
	now        func() time.Time

	store  *item.Store
	engine *layout.Engine
	view   *viewport.Viewport
	drag   *drag.Controller

	elements map[string]Element
	dirty    bool
}

// New validates its arguments and builds a MindMap. Any invalid argument
// fails the whole construction with one coded error.
func New(container Container, newElement func() Element, populate func(Element, item.Item) Element, opts Options) (*MindMap, error) {
	switch {
	case container == nil:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mindmap requires a container")
	case newElement == nil:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mindmap requires an element factory")
	case populate == nil:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mindmap requires a populate callback")
	}
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &MindMap{
		opts:       opts,
		container:  container,
		newElement: newElement,
		populate:   populate,
		logger:     logger,
		now:        time.Now,
		elements:   make(map[string]Element),
	}

	m.store = item.NewStore(item.WithUniqueIDs(*opts.ForceUniqueIDs), item.WithLogger(logger))

	engine, err := layout.NewEngine(layout.Config{
		ItemWidth: opts.ItemWidth,
		Params:    opts.Forces,
		Untangle:  opts.Untangle,
		Measurer:  layout.MeasureFunc(m.measure),
		Seed:      opts.Seed,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	m.engine = engine

	ease, _ := viewport.EasingByName(opts.Easing)
	m.view = viewport.New(
		viewport.WithScaleExtent(viewport.ScaleExtent{Min: opts.MinZoom, Max: opts.MaxZoom}),
		viewport.WithDuration(time.Duration(opts.ZoomDurationMS)*time.Millisecond),
		viewport.WithEasing(ease),
		viewport.WithObserver(func(viewport.Transform) { m.dirty = true }),
		viewport.WithLogger(logger),
	)
	m.view.Resize(container.Size())

	m.drag = drag.New(engine, m.view, drag.WithDeadZone(opts.DragDeadZone), drag.WithLogger(logger))
	return m, nil
}

// measure builds and populates the element of a new node. It runs inside
// engine.Update, so the lock is already held.
func (m *MindMap) measure(it item.Item, width float64) (w, h float64) {
	el := m.populate(m.newElement(), it)
	m.elements[it.ID] = el
	return m.container.Measure(el, width)
}

// Options returns the effective options.
func (m *MindMap) Options() Options {
	return m.opts
}

// AddDataItems queues items for placement. With unique ids enforced,
// items whose id was already seen, including earlier in the same call,
// are dropped.
func (m *MindMap) AddDataItems(items ...item.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store.AddItems(items...)
}

// AddDataItem queues one item and places it right away when its parent is
// already placed. It reports whether the item was placed.
func (m *MindMap) AddDataItem(it item.Item) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.AddItem(it)
}

// UpdateSimulationData places every item whose ancestry resolved and
// pushes the placed set into the layout. When the layout grows past a
// single node for the first time it is untangled. It returns the number
// of new nodes.
func (m *MindMap) UpdateSimulationData() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.update(context.Background())
}

func (m *MindMap) update(ctx context.Context) int {
	before := m.engine.Len()
	placed := m.store.PlaceUnplaced()
	observability.Layout().OnPlace(ctx, placed, len(m.store.Unplaced()))

	fresh := m.engine.Update(m.store.Data(), m.store.Links())
	m.dirty = true
	if before <= 1 && m.engine.Len() > 1 {
		m.untangle(ctx)
	}
	m.logger.Debug("simulation data updated", "placed", placed, "new", fresh, "nodes", m.engine.Len())
	return fresh
}

// ZoomTo animates the scale to level around the centre of the view,
// which is the screen origin. The level is clamped to the zoom range.
func (m *MindMap) ZoomTo(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.ZoomTo(level, viewport.Point{}, m.now())
}

// Freeze stops the physics. Positions hold until the next update,
// untangle or drag.
func (m *MindMap) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine.Freeze()
}

// CenterView animates the translation back to zero, keeping the scale. The
// simulation origin, where the root is pinned, ends at the view centre.
func (m *MindMap) CenterView() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.CenterView(m.now())
}

// Untangle runs the declumping pass synchronously. It returns the number
// of physics steps taken.
func (m *MindMap) Untangle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.untangle(context.Background())
}

func (m *MindMap) untangle(ctx context.Context) int {
	start := time.Now()
	steps := m.engine.Untangle()
	observability.Layout().OnUntangle(ctx, m.engine.Len(), steps, time.Since(start))
	m.dirty = true
	return steps
}

// Resize records new view dimensions. The current zoom and pan survive.
func (m *MindMap) Resize(w, h float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.Resize(w, h)
}

// Wheel zooms by one wheel step around a screen point.
func (m *MindMap) Wheel(deltaY, x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.ZoomBy(viewport.WheelFactor(deltaY), viewport.Point{X: x, Y: y})
}

// Pan shifts the view by screen units.
func (m *MindMap) Pan(dx, dy float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.PanBy(dx, dy)
}

// SetTransform applies a gesture transform directly.
func (m *MindMap) SetTransform(t viewport.Transform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view.SetTransform(t)
}

// Transform returns the current view transform.
func (m *MindMap) Transform() viewport.Transform {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.Transform()
}

// ToSimulation maps a screen point into simulation space.
func (m *MindMap) ToSimulation(x, y float64) viewport.Point {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view.ToSimulation(viewport.Point{X: x, Y: y})
}

// DragStart presses at a screen point. It reports whether a draggable node
// is under it.
func (m *MindMap) DragStart(x, y float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drag.Start(viewport.Point{X: x, Y: y})
}

// DragMove follows the pointer. It reports whether a node is being
// dragged.
func (m *MindMap) DragMove(x, y float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	moved := m.drag.Move(viewport.Point{X: x, Y: y})
	if moved {
		m.dirty = true
	}
	return moved
}

// DragEnd releases the pointer. It returns the id of the pressed node, or
// "" when none, and whether it was dragged rather than clicked.
func (m *MindMap) DragEnd() (id string, dragged bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, dragged := m.drag.End()
	if n == nil {
		return "", false
	}
	return n.ID, dragged
}

// Hover returns the id of the draggable node under a screen point, or "".
func (m *MindMap) Hover(x, y float64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := m.drag.Subject(viewport.Point{X: x, Y: y}); n != nil {
		return n.ID
	}
	return ""
}

// Element returns the element built for id.
func (m *MindMap) Element(id string) (Element, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.elements[id]
	return el, ok
}

// Len returns the number of placed items.
func (m *MindMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Len()
}

// Unplaced returns a copy of the items still waiting for their parents.
func (m *MindMap) Unplaced() []item.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]item.Item(nil), m.store.Unplaced()...)
}

// Info returns the store summary.
func (m *MindMap) Info() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Info()
}

// Running reports whether the physics is still moving.
func (m *MindMap) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Running()
}

// Snapshot captures the current layout, view and unplaced items.
func (m *MindMap) Snapshot() snapshot.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot.FromFrame(m.frame(), m.store.Unplaced())
}

// Restore loads a snapshot's items, positions and view. Items already
// present keep their identity; their positions are overwritten.
func (m *MindMap) Restore(s snapshot.Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.store.AddItems(s.Items()...)
	m.store.AddItems(s.Unplaced...)
	m.store.PlaceUnplaced()
	m.engine.Update(m.store.Data(), m.store.Links())
	for _, n := range s.Nodes {
		m.engine.Place(n.ID, n.X, n.Y)
	}
	m.engine.Reheat(0, s.Alpha)
	m.view.SetTransform(s.Transform)
	m.dirty = true
	m.logger.Debug("restored snapshot", "nodes", len(s.Nodes), "unplaced", len(s.Unplaced))
	return nil
}

// Frame advances the physics by one step and any view transition to now,
// then draws if anything changed. It reports whether a frame was drawn.
func (m *MindMap) Frame(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticked := m.engine.Tick()
	moved := m.view.Advance(now)
	if !ticked && !moved && !m.dirty {
		return false
	}
	m.dirty = false
	m.container.Draw(m.frame())
	return true
}

func (m *MindMap) frame() layout.Frame {
	f := m.engine.Frame()
	f.Transform = m.view.Transform()
	return f
}

// Run draws frames at the configured rate until ctx is cancelled.
func (m *MindMap) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(m.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			m.Frame(now)
		}
	}
}
