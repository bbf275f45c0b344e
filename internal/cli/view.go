package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/peoplesfeelings/mindmap/pkg/feed"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// One terminal cell covers cellWidth x cellHeight screen units.
const (
	cellWidth  = 8.0
	cellHeight = 16.0
)

// Wheel deltas in pixel mode. A key press zooms by about 1.5x.
const (
	wheelStep   = 100.0
	keyZoomStep = 300.0
	panStep     = 4 * cellWidth
)

// Header and footer take one row each.
const chromeRows = 2

var (
	styleLink   = lipgloss.NewStyle().Foreground(colorDim)
	styleBox    = lipgloss.NewStyle().Foreground(colorGray)
	styleRoot   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	stylePinned = lipgloss.NewStyle().Foreground(colorYellow)
	styleText   = lipgloss.NewStyle().Foreground(colorWhite)
)

type cellClass uint8

const (
	classEmpty cellClass = iota
	classLink
	classBox
	classRoot
	classPinned
	classText
)

func (c cellClass) style() lipgloss.Style {
	switch c {
	case classLink:
		return styleLink
	case classBox:
		return styleBox
	case classRoot:
		return styleRoot
	case classPinned:
		return stylePinned
	case classText:
		return styleText
	}
	return lipgloss.NewStyle()
}

// termSurface is a terminal character grid. Screen units map to cells
// through cellWidth and cellHeight, with the screen origin at the centre of
// the grid so a centred view shows the root in the middle.
type termSurface struct {
	measurer render.TextMeasurer

	mu         sync.Mutex
	cols, rows int
	frame      layout.Frame
}

func (s *termSurface) Size() (w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return float64(s.cols) * cellWidth, float64(s.rows) * cellHeight
}

func (s *termSurface) resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = max(cols, 0), max(rows, 0)
}

func (s *termSurface) Measure(el mindmap.Element, width float64) (w, h float64) {
	it, _ := el.(item.Item)
	return s.measurer.Measure(it, width)
}

func (s *termSurface) Draw(f layout.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
}

func (s *termSurface) render() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rasterize(s.frame, s.cols, s.rows, s.measurer.TextKey).String()
}

// grid is a rasterized frame. A zero rune marks the second cell of a
// wide character.
type grid struct {
	cols, rows int
	runes      [][]rune
	classes    [][]cellClass
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, runes: make([][]rune, rows), classes: make([][]cellClass, rows)}
	for r := range rows {
		g.runes[r] = []rune(strings.Repeat(" ", cols))
		g.classes[r] = make([]cellClass, cols)
	}
	return g
}

func (g *grid) in(c, r int) bool {
	return c >= 0 && r >= 0 && c < g.cols && r < g.rows
}

func (g *grid) set(c, r int, ch rune, class cellClass) {
	if g.in(c, r) {
		g.runes[r][c] = ch
		g.classes[r][c] = class
	}
}

// text writes s from (c, r), stopping before limit.
func (g *grid) text(c, r, limit int, s string, class cellClass) {
	for _, ch := range s {
		w := runewidth.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if c+w > limit {
			return
		}
		g.set(c, r, ch, class)
		if w == 2 {
			g.set(c+1, r, 0, class)
		}
		c += w
	}
}

// line plots a link between two cells, leaving occupied cells alone.
func (g *grid) line(c0, r0, c1, r1 int) {
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		c := c0 + int(math.Round(t*float64(c1-c0)))
		r := r0 + int(math.Round(t*float64(r1-r0)))
		if g.in(c, r) && g.classes[r][c] == classEmpty {
			g.set(c, r, '·', classLink)
		}
	}
}

// box draws a node with its wrapped text.
func (g *grid) box(c0, r0, c1, r1 int, lines []string, class cellClass) {
	for c := c0; c <= c1; c++ {
		for r := r0; r <= r1; r++ {
			g.set(c, r, ' ', classText)
		}
	}
	for c := c0 + 1; c < c1; c++ {
		g.set(c, r0, '─', class)
		g.set(c, r1, '─', class)
	}
	for r := r0 + 1; r < r1; r++ {
		g.set(c0, r, '│', class)
		g.set(c1, r, '│', class)
	}
	g.set(c0, r0, '┌', class)
	g.set(c1, r0, '┐', class)
	g.set(c0, r1, '└', class)
	g.set(c1, r1, '┘', class)

	for i, l := range lines {
		r := r0 + 1 + i
		if r >= r1 {
			break
		}
		g.text(c0+1, r, c1, l, classText)
	}
}

// String renders the grid row by row, styling runs of equal class.
func (g *grid) String() string {
	var b strings.Builder
	for r := range g.rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		class := classEmpty
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(class.style().Render(run.String()))
				run.Reset()
			}
		}
		for c := range g.cols {
			ch := g.runes[r][c]
			if ch == 0 {
				continue
			}
			if g.classes[r][c] != class {
				flush()
				class = g.classes[r][c]
			}
			run.WriteRune(ch)
		}
		flush()
	}
	return b.String()
}

func (g *grid) toCell(p viewport.Point) (c, r int) {
	x := p.X + float64(g.cols)*cellWidth/2
	y := p.Y + float64(g.rows)*cellHeight/2
	return int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))
}

// rasterize draws f on a cols x rows grid: links first, then nodes in
// frame order.
func rasterize(f layout.Frame, cols, rows int, textKey string) *grid {
	g := newGrid(cols, rows)
	t := f.Transform
	if !t.IsValid() {
		t = viewport.Identity
	}

	for _, l := range f.Links {
		c0, r0 := g.toCell(t.Apply(viewport.Point{X: l.X1, Y: l.Y1}))
		c1, r1 := g.toCell(t.Apply(viewport.Point{X: l.X2, Y: l.Y2}))
		g.line(c0, r0, c1, r1)
	}

	for _, n := range f.Nodes {
		c0, r0 := g.toCell(t.Apply(viewport.Point{X: n.X, Y: n.Y}))
		c1, r1 := g.toCell(t.Apply(viewport.Point{X: n.X + n.Width, Y: n.Y + n.Height}))
		c1, r1 = max(c1, c0+2), max(r1, r0+2)
		if c1 < 0 || r1 < 0 || c0 >= cols || r0 >= rows {
			continue
		}

		class := classBox
		switch {
		case n.Item.IsRoot():
			class = classRoot
		case n.Pinned:
			class = classPinned
		}
		g.box(c0, r0, c1, r1, render.Wrap(n.Item.Text(textKey), c1-c0-1), class)
	}
	return g
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Messages delivered to the view model.
type (
	frameMsg time.Time
	itemsMsg []item.Item
	feedErr  struct{ err error }
)

func frameTick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// viewModel drives a MindMap from terminal input.
type viewModel struct {
	mm      *mindmap.MindMap
	surface *termSurface
	resizer *mindmap.ResizeDebouncer
	title   string
	fps     int

	width, height int
	panning       bool
	lastX, lastY  float64
	status        string
}

func newViewModel(mm *mindmap.MindMap, surface *termSurface, title string, fps int) *viewModel {
	return &viewModel{
		mm:      mm,
		surface: surface,
		resizer: mindmap.NewResizeDebouncer(mm, 0),
		title:   title,
		fps:     max(fps, 1),
	}
}

func (m *viewModel) Init() tea.Cmd {
	return frameTick(m.fps)
}

// screen maps a terminal cell to the centre of its screen-space box. The
// header row sits above the map.
func (m *viewModel) screen(x, y int) (float64, float64) {
	w, h := m.surface.Size()
	return (float64(x)+0.5)*cellWidth - w/2, (float64(y-1)+0.5)*cellHeight - h/2
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.surface.resize(msg.Width, msg.Height-chromeRows)
		m.resizer.Resize(m.surface.Size())

	case frameMsg:
		m.mm.Frame(time.Time(msg))
		return m, frameTick(m.fps)

	case itemsMsg:
		m.mm.AddDataItems(msg...)
		fresh := m.mm.UpdateSimulationData()
		m.status = fmt.Sprintf("received %d, %d new", len(msg), fresh)

	case feedErr:
		m.status = "feed reload failed: " + msg.err.Error()

	case tea.KeyMsg:
		return m, m.key(msg)

	case tea.MouseMsg:
		m.mouse(msg)
	}
	return m, nil
}

func (m *viewModel) key(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.resizer.Stop()
		return tea.Quit
	case "+", "=":
		m.mm.Wheel(-keyZoomStep, 0, 0)
	case "-", "_":
		m.mm.Wheel(keyZoomStep, 0, 0)
	case "0":
		m.mm.ZoomTo(1)
	case "c":
		m.mm.CenterView()
	case "f":
		m.mm.Freeze()
		m.status = "frozen"
	case "u":
		steps := m.mm.Untangle()
		m.status = fmt.Sprintf("untangled in %d steps", steps)
	case "left", "h":
		m.mm.Pan(panStep, 0)
	case "right", "l":
		m.mm.Pan(-panStep, 0)
	case "up", "k":
		m.mm.Pan(0, panStep)
	case "down", "j":
		m.mm.Pan(0, -panStep)
	}
	return nil
}

// mouse presses on a node to drag it and on empty space to pan.
func (m *viewModel) mouse(msg tea.MouseMsg) {
	x, y := m.screen(msg.X, msg.Y)
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.mm.Wheel(-wheelStep, x, y)
	case msg.Button == tea.MouseButtonWheelDown:
		m.mm.Wheel(wheelStep, x, y)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.panning = !m.mm.DragStart(x, y)
		m.lastX, m.lastY = x, y

	case msg.Action == tea.MouseActionMotion:
		if m.panning {
			m.mm.Pan(x-m.lastX, y-m.lastY)
			m.lastX, m.lastY = x, y
			return
		}
		m.mm.DragMove(x, y)

	case msg.Action == tea.MouseActionRelease:
		if m.panning {
			m.panning = false
			return
		}
		id, dragged := m.mm.DragEnd()
		if id == "" {
			return
		}
		if dragged {
			m.status = "pinned " + id
			return
		}
		if el, ok := m.mm.Element(id); ok {
			it, _ := el.(item.Item)
			m.status = fmt.Sprintf("%s: %s", id, it.Text(m.surface.measurer.TextKey))
		}
	}
}

func (m *viewModel) View() string {
	if m.width == 0 {
		return ""
	}
	info := fmt.Sprintf("%d nodes · %d unplaced · zoom %.2f", m.mm.Len(), len(m.mm.Unplaced()), m.mm.Transform().K)
	header := StyleTitle.Render(m.title) + "  " + StyleDim.Render(info)
	footer := StyleDim.Render("drag: move/pan  wheel,+/-: zoom  0: reset zoom  c: center  f: freeze  u: untangle  q: quit")
	if m.status != "" {
		footer = StyleValue.Render(runewidth.Truncate(m.status, max(m.width-1, 0), "…"))
	}
	return header + "\n" + m.surface.render() + "\n" + footer
}

type viewOpts struct {
	watch bool
	fps   int
}

// viewCommand opens an interactive terminal view of a feed.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view FEED",
		Short: "Explore a mind map in the terminal",
		Long: `Explore a mind map in the terminal. Nodes can be dragged with the mouse,
which pins them in place; dragging empty space pans the view.`,
		Example: `  mindmap view replies.ndjson
  mindmap view replies.ndjson --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the feed when it changes")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second (default from config)")

	return cmd
}

func (c *CLI) runView(ctx context.Context, path string, opts viewOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}
	items, err := feed.ReadFile(path)
	if err != nil {
		return err
	}

	mmOpts := cfg.MindMapOptions()
	// Log lines would corrupt the alternate screen.
	mmOpts.Logger = nil
	if opts.fps > 0 {
		mmOpts.FPS = opts.fps
	}

	surface := &termSurface{measurer: cfg.TextMeasurer()}
	mm, err := mindmap.New(surface, newElement, populate, mmOpts)
	if err != nil {
		return err
	}
	mm.AddDataItems(items...)
	mm.UpdateSimulationData()

	model := newViewModel(mm, surface, path, mm.Options().FPS)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	if opts.watch {
		watcher, err := feed.NewWatcher(path,
			feed.WithOnItems(func(items []item.Item) { p.Send(itemsMsg(items)) }),
			feed.WithOnError(func(err error) { p.Send(feedErr{err}) }),
		)
		if err != nil {
			return err
		}
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := watcher.Run(wctx); err != nil {
				logger.Debug("watcher stopped", "error", err)
			}
		}()
	}

	_, err = p.Run()
	model.resizer.Stop()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	s := mm.Snapshot()
	t := mm.Transform()
	fmt.Println(statsTable([][]string{
		{"nodes", fmt.Sprint(len(s.Nodes))},
		{"unplaced", fmt.Sprint(len(s.Unplaced))},
		{"zoom", fmt.Sprintf("%.2f", t.K)},
	}))
	return nil
}

func newElement() mindmap.Element { return nil }

func populate(_ mindmap.Element, it item.Item) mindmap.Element { return it }
