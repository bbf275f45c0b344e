package cli

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

var errTest = errors.New("boom")

func textItem(id, replyTo, text string) item.Item {
	return item.Item{ID: id, ReplyToID: replyTo, IsFirst: replyTo == "", Payload: map[string]any{"text": text}}
}

func TestRasterize(t *testing.T) {
	// A 40x10 grid puts the screen origin at cell (20, 5).
	f := layout.Frame{
		Nodes: []layout.NodeFrame{
			{ID: "r", Item: textItem("r", "", "hi"), X: -50, Y: -20, Width: 100, Height: 40},
		},
		Links: []layout.LinkFrame{
			{Source: "a", Target: "r", X1: 0, Y1: 0, X2: 150, Y2: 0},
		},
		Transform: viewport.Identity,
	}
	g := rasterize(f, 40, 10, "text")

	tests := []struct {
		c, r int
		want rune
	}{
		{13, 3, '┌'},
		{26, 3, '┐'},
		{13, 6, '└'},
		{26, 6, '┘'},
		{14, 4, 'h'},
		{15, 4, 'i'},
		{30, 5, '·'},
		{20, 5, ' '}, // Inside the box, links stay hidden
	}
	for _, tt := range tests {
		if got := g.runes[tt.r][tt.c]; got != tt.want {
			t.Errorf("cell (%d, %d) = %q, want %q", tt.c, tt.r, got, tt.want)
		}
	}
	if g.classes[3][13] != classRoot {
		t.Errorf("root border class = %d, want %d", g.classes[3][13], classRoot)
	}
}

func TestRasterizeTransform(t *testing.T) {
	f := layout.Frame{
		Nodes:     []layout.NodeFrame{{ID: "a", Item: textItem("a", "r", ""), X: 0, Y: 0, Width: 32, Height: 32, Pinned: true}},
		Transform: viewport.Transform{K: 2, X: -80, Y: -16},
	}
	g := rasterize(f, 40, 10, "text")
	// (0,0) maps to screen (-80,-16), cell (10, 4); (32,32) to (-16,48), cell (18, 8).
	if g.runes[4][10] != '┌' || g.runes[8][18] != '┘' {
		t.Errorf("box corners not at scaled position:\n%s", plain(g))
	}
	if g.classes[4][10] != classPinned {
		t.Errorf("pinned class = %d, want %d", g.classes[4][10], classPinned)
	}
}

func TestRasterizeClipsOffscreen(t *testing.T) {
	f := layout.Frame{
		Nodes: []layout.NodeFrame{
			{ID: "far", Item: textItem("far", "r", "gone"), X: 1e6, Y: 1e6, Width: 200, Height: 60},
			{ID: "edge", Item: textItem("edge", "r", "wide 世界 text"), X: -200, Y: -100, Width: 200, Height: 60},
		},
		Transform: viewport.Identity,
	}
	g := rasterize(f, 20, 6, "text")
	if strings.Contains(plain(g), "gone") {
		t.Error("off-screen node was drawn")
	}
	if len(strings.Split(g.String(), "\n")) != 6 {
		t.Error("rendered grid has the wrong number of rows")
	}
}

func TestGridWideRunes(t *testing.T) {
	g := newGrid(6, 1)
	g.text(0, 0, 4, "a世界", classText)
	if got := plain(g); got != "a世   " {
		t.Errorf("text = %q, want %q", got, "a世   ")
	}
}

// plain returns the grid text without styling.
func plain(g *grid) string {
	var b strings.Builder
	for r, row := range g.runes {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, ch := range row {
			if ch != 0 {
				b.WriteRune(ch)
			}
		}
	}
	return b.String()
}

func newTestView(t *testing.T) (*viewModel, *mindmap.MindMap) {
	t.Helper()
	surface := &termSurface{measurer: render.NewTextMeasurer()}
	mm, err := mindmap.New(surface, newElement, populate, mindmap.Options{})
	if err != nil {
		t.Fatalf("mindmap.New() error = %v", err)
	}
	m := newViewModel(mm, surface, "replies.ndjson", 30)
	t.Cleanup(m.resizer.Stop)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 12})
	return m, mm
}

func TestViewModelItems(t *testing.T) {
	m, mm := newTestView(t)

	m.Update(itemsMsg{textItem("r", "", "root")})
	if m.status != "received 1, 1 new" {
		t.Errorf("status = %q", m.status)
	}

	_, cmd := m.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Error("frame did not schedule the next frame")
	}
	view := m.View()
	if !strings.Contains(view, "replies.ndjson") || !strings.Contains(view, "root") {
		t.Errorf("View() missing title or root text:\n%s", view)
	}

	m.Update(itemsMsg{textItem("a", "r", "reply"), textItem("b", "missing", "orphan")})
	if mm.Len() != 2 {
		t.Errorf("Len() = %d, want 2", mm.Len())
	}
	if m.status != "received 2, 1 new" {
		t.Errorf("status = %q", m.status)
	}

	m.Update(feedErr{errTest})
	if !strings.Contains(m.status, "feed reload failed") {
		t.Errorf("status = %q", m.status)
	}
}

func TestViewModelKeys(t *testing.T) {
	m, mm := newTestView(t)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if k := mm.Transform().K; k <= 1 {
		t.Errorf("zoom in: K = %v, want > 1", k)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if k := mm.Transform().K; k >= 1 {
		t.Errorf("zoom out: K = %v, want < 1", k)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	m.Update(frameMsg(time.Now().Add(2 * time.Second)))
	if k := mm.Transform().K; math.Abs(k-1) > 1e-9 {
		t.Errorf("reset zoom: K = %v, want 1", k)
	}

	before := mm.Transform()
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := mm.Transform().X - before.X; got != panStep {
		t.Errorf("pan left moved X by %v, want %v", got, panStep)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestViewModelMousePan(t *testing.T) {
	m, mm := newTestView(t)

	m.Update(tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.panning {
		t.Fatal("press on empty space did not start a pan")
	}
	m.Update(tea.MouseMsg{X: 7, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	tr := mm.Transform()
	if tr.X != 2*cellWidth || tr.Y != cellHeight {
		t.Errorf("transform after pan = %v, want (%v, %v)", tr, 2*cellWidth, cellHeight)
	}
	m.Update(tea.MouseMsg{X: 7, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if m.panning {
		t.Error("release did not end the pan")
	}

	m.Update(tea.MouseMsg{X: 20, Y: 6, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if k := mm.Transform().K; k <= 1 {
		t.Errorf("wheel up: K = %v, want > 1", k)
	}
}
