// Package render turns mind map frames into static outputs and measures
// item text for the layout.
//
// # Measurement
//
// [TextMeasurer] implements [layout.Measurer]. It wraps an item's text to
// the item width using terminal cell widths from go-runewidth, so wide
// runes and emoji take the space they take on screen:
//
//	m := render.NewTextMeasurer()
//	engine, err := layout.NewEngine(layout.Config{ItemWidth: 200, Measurer: m})
//
// # Output Formats
//
//   - [WriteSVG] draws a frame with svgo: links first, then boxes with
//     wrapped text, under the frame's viewport transform.
//   - [ToDOT] and [RenderDOT] emit a Graphviz graph with every node pinned
//     at its settled position and render it with go-graphviz.
//   - [ToPDF] and [ToPNG] convert SVG through rsvg-convert.
//
//	svg := render.RenderSVG(frame, render.WithTextKey("body"))
//	png, err := render.ToPNG(svg, 2.0)
package render
