package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/peoplesfeelings/mindmap/pkg/layout"
)

// Graphviz positions and sizes are in inches.
const pointsPerInch = 72.0

// DOTOptions configures DOT output.
type DOTOptions struct {
	// TextKey selects the payload text used as the label. Empty labels
	// nodes with their id.
	TextKey string
	// Columns wraps labels at this many cells. Zero disables wrapping.
	Columns int
}

// ToDOT converts a frame to a Graphviz graph with every node pinned at its
// settled position. Links point from the reply to its parent. The y axis is
// flipped because Graphviz grows upwards.
func ToDOT(f layout.Frame, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph mindmap {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fixedsize=true, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6, color=\"#a0aec0\"];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		cx, cy := n.Center()
		attrs := []string{
			fmt.Sprintf("label=%q", dotLabel(n, opts)),
			fmt.Sprintf("pos=\"%s,%s!\"", inches(cx), inches(-cy)),
			fmt.Sprintf("width=%s", inches(n.Width)),
			fmt.Sprintf("height=%s", inches(n.Height)),
		}
		if n.Item.IsFirst {
			attrs = append(attrs, "fillcolor=\"#fefcbf\"", "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, l := range f.Links {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(n layout.NodeFrame, opts DOTOptions) string {
	text := ""
	if opts.TextKey != "" {
		text = n.Item.Text(opts.TextKey)
	}
	if text == "" {
		return n.ID
	}
	if opts.Columns > 0 {
		return strings.Join(Wrap(text, opts.Columns), "\n")
	}
	return text
}

func inches(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

// RenderDOT renders a DOT graph to SVG using Graphviz's neato engine, which
// honours the pinned positions.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one the
// browser scales cleanly.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
