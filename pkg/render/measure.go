package render

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/peoplesfeelings/mindmap/pkg/item"
)

// Default text metrics, in simulation units.
const (
	DefaultTextKey    = "text"
	DefaultFontSize   = 14.0
	DefaultCharWidth  = 0.55 // Fraction of the font size taken by one cell
	DefaultLineHeight = 1.4
	DefaultPadding    = 12.0
)

// TextMeasurer sizes an item box by wrapping its text to the item width.
// The box is always exactly the item width wide.
type TextMeasurer struct {
	TextKey    string  // Payload key holding the text
	FontSize   float64 // Font size
	CharWidth  float64 // Cell width as a fraction of FontSize
	LineHeight float64 // Line height as a multiple of FontSize
	Padding    float64 // Inner padding on every side
}

// NewTextMeasurer returns a measurer with the default metrics.
func NewTextMeasurer() TextMeasurer {
	return TextMeasurer{
		TextKey:    DefaultTextKey,
		FontSize:   DefaultFontSize,
		CharWidth:  DefaultCharWidth,
		LineHeight: DefaultLineHeight,
		Padding:    DefaultPadding,
	}
}

// Measure implements layout.Measurer.
func (m TextMeasurer) Measure(it item.Item, width float64) (w, h float64) {
	lines := m.Lines(it, width)
	return width, float64(len(lines))*m.lineStep() + 2*m.Padding
}

// Lines returns the wrapped text lines of it for a box of the given width.
// An item without text still takes one line.
func (m TextMeasurer) Lines(it item.Item, width float64) []string {
	lines := Wrap(it.Text(m.TextKey), m.Columns(width))
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}

// Columns returns how many cells fit on one line of a box of the given
// width. It is at least 1.
func (m TextMeasurer) Columns(width float64) int {
	cell := m.FontSize * m.CharWidth
	if cell <= 0 {
		return 1
	}
	return max(1, int(math.Floor((width-2*m.Padding)/cell)))
}

func (m TextMeasurer) lineStep() float64 {
	return m.FontSize * m.LineHeight
}

// Wrap breaks s into lines of at most cols terminal cells. Words are kept
// whole unless a single word is wider than a line. Explicit newlines are
// kept.
func Wrap(s string, cols int) []string {
	cols = max(1, cols)
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		lines = append(lines, wrapParagraph(para, cols)...)
	}
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

func wrapParagraph(para string, cols int) []string {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curW := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}

	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if curW > 0 && curW+1+ww <= cols {
			cur.WriteByte(' ')
			cur.WriteString(w)
			curW += 1 + ww
			continue
		}
		if curW > 0 {
			flush()
		}
		for ww > cols {
			head := runewidth.Truncate(w, cols, "")
			if head == "" {
				// A single rune wider than the line.
				r := []rune(w)
				head = string(r[0])
			}
			lines = append(lines, head)
			w = w[len(head):]
			ww = runewidth.StringWidth(w)
		}
		cur.WriteString(w)
		curW = ww
	}
	if curW > 0 {
		flush()
	}
	return lines
}
