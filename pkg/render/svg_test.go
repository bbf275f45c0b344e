package render

import (
	"strings"
	"testing"

	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

func testFrame() layout.Frame {
	return layout.Frame{
		Nodes: []layout.NodeFrame{
			{ID: "r", Item: item.Item{ID: "r", IsFirst: true, Payload: map[string]any{"text": "root <topic>"}},
				X: -100, Y: -30, Width: 200, Height: 60, Pinned: true},
			{ID: "a&b", Item: item.Item{ID: "a&b", ReplyToID: "r", Payload: map[string]any{"body": "reply"}},
				X: 50, Y: 120, Width: 200, Height: 60},
		},
		Links: []layout.LinkFrame{
			{Source: "a&b", Target: "r", X1: 150, Y1: 150, X2: 0, Y2: 0},
		},
		Transform: viewport.Transform{K: 2, X: 40, Y: -30},
	}
}

func TestRenderSVG(t *testing.T) {
	out := string(RenderSVG(testFrame()))

	for _, want := range []string{
		"<svg",
		"</svg>",
		`id="node-a&amp;b"`,
		"root &lt;topic&gt;",
		"<line",
		"translate(140,70) scale(1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(out, "<rect") != 2 {
		t.Errorf("want 2 boxes, got %d", strings.Count(out, "<rect"))
	}
}

func TestRenderSVGOptions(t *testing.T) {
	out := string(RenderSVG(testFrame(),
		WithSize(800, 600),
		WithTextKey("body"),
		WithBackground("#eee"),
	))

	if !strings.Contains(out, `width="800"`) || !strings.Contains(out, `height="600"`) {
		t.Error("canvas size not applied")
	}
	if !strings.Contains(out, "translate(440,270) scale(2)") {
		t.Error("viewport transform not applied around the canvas centre")
	}
	if !strings.Contains(out, ">reply<") {
		t.Error("text key not applied")
	}
	if strings.Contains(out, "root &lt;topic&gt;") {
		t.Error("drew text from the default key")
	}
	if !strings.Contains(out, "fill:#eee") {
		t.Error("background not drawn")
	}
}

func TestRenderSVGEmpty(t *testing.T) {
	out := string(RenderSVG(layout.Frame{Transform: viewport.Identity}))
	if !strings.Contains(out, "<svg") || strings.Contains(out, "<rect") {
		t.Errorf("unexpected empty output:\n%s", out)
	}
}
