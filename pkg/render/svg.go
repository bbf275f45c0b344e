package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

const (
	nodeStyle   = "fill:#ffffff;stroke:#4a5568;stroke-width:1.2"
	rootStyle   = "fill:#fefcbf;stroke:#975a16;stroke-width:2"
	linkStyle   = "stroke:#a0aec0;stroke-width:2"
	textStyle   = "fill:#1a202c;font-family:sans-serif"
	cornerRound = 8
	fitMargin   = 40
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	measurer      TextMeasurer
	width, height int
	background    string
}

// WithTextKey sets the payload key whose text is drawn in each box.
func WithTextKey(key string) SVGOption {
	return func(r *svgRenderer) { r.measurer.TextKey = key }
}

// WithMeasurer sets the text metrics. They should match the measurer used
// for layout so the text fits the boxes.
func WithMeasurer(m TextMeasurer) SVGOption {
	return func(r *svgRenderer) { r.measurer = m }
}

// WithSize draws the frame as the live view shows it: a w×h canvas whose
// centre is the screen origin, with the frame's viewport transform applied.
// Without it the canvas fits the content and the transform is ignored.
func WithSize(w, h int) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = w, h }
}

// WithBackground fills the canvas with a CSS color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG renders a frame and returns the SVG bytes.
func RenderSVG(f layout.Frame, opts ...SVGOption) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, f, opts...)
	return buf.Bytes()
}

// WriteSVG renders a frame to w.
func WriteSVG(w io.Writer, f layout.Frame, opts ...SVGOption) {
	r := svgRenderer{measurer: NewTextMeasurer()}
	for _, opt := range opts {
		opt(&r)
	}

	canvas := svg.New(w)
	transform := r.start(canvas, f)
	if r.background != "" {
		canvas.Rect(0, 0, r.canvasWidth(f), r.canvasHeight(f), "fill:"+r.background)
	}

	canvas.Gtransform(transform)
	canvas.Group(`class="links"`)
	for _, l := range f.Links {
		canvas.Line(px(l.X1), px(l.Y1), px(l.X2), px(l.Y2), linkStyle)
	}
	canvas.Gend()

	canvas.Group(`class="nodes"`)
	for _, n := range f.Nodes {
		r.drawNode(canvas, n)
	}
	canvas.Gend()
	canvas.Gend()
	canvas.End()
}

// start opens the document and returns the transform of the drawing group.
func (r *svgRenderer) start(canvas *svg.SVG, f layout.Frame) string {
	if r.width > 0 && r.height > 0 {
		canvas.Start(r.width, r.height)
		t := f.Transform
		t.X += float64(r.width) / 2
		t.Y += float64(r.height) / 2
		return transformAttr(t)
	}
	minX, minY, maxX, maxY, ok := f.Bounds()
	if !ok {
		canvas.Start(fitMargin*2, fitMargin*2)
		return transformAttr(viewport.Identity)
	}
	w := px(maxX-minX) + 2*fitMargin
	h := px(maxY-minY) + 2*fitMargin
	canvas.Start(w, h)
	return transformAttr(viewport.Transform{K: 1, X: fitMargin - minX, Y: fitMargin - minY})
}

func (r *svgRenderer) canvasWidth(f layout.Frame) int {
	if r.width > 0 {
		return r.width
	}
	minX, _, maxX, _, _ := f.Bounds()
	return px(maxX-minX) + 2*fitMargin
}

func (r *svgRenderer) canvasHeight(f layout.Frame) int {
	if r.height > 0 {
		return r.height
	}
	_, minY, _, maxY, _ := f.Bounds()
	return px(maxY-minY) + 2*fitMargin
}

func (r *svgRenderer) drawNode(canvas *svg.SVG, n layout.NodeFrame) {
	style := nodeStyle
	if n.Item.IsFirst {
		style = rootStyle
	}
	canvas.Group(fmt.Sprintf(`id="node-%s"`, EscapeXML(n.ID)))
	canvas.Title(n.ID)
	canvas.Roundrect(px(n.X), px(n.Y), px(n.Width), px(n.Height), cornerRound, cornerRound, style)

	m := r.measurer
	step := m.FontSize * m.LineHeight
	x := px(n.X + m.Padding)
	for i, line := range m.Lines(n.Item, n.Width) {
		y := px(n.Y + m.Padding + float64(i)*step + m.FontSize)
		canvas.Text(x, y, line, fmt.Sprintf("%s;font-size:%gpx", textStyle, m.FontSize))
	}
	canvas.Gend()
}

func transformAttr(t viewport.Transform) string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", t.X, t.Y, t.K)
}

func px(v float64) int {
	return int(math.Round(v))
}

// EscapeXML escapes s for use in XML text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
