package render

import (
	"math"
	"slices"
	"testing"

	"github.com/peoplesfeelings/mindmap/pkg/item"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		in   string
		cols int
		want []string
	}{
		{"empty", "", 10, nil},
		{"fits", "hello world", 11, []string{"hello world"}},
		{"word break", "hello world", 5, []string{"hello", "world"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"newlines", "a\nb", 10, []string{"a", "b"}},
		{"blank line kept", "a\n\nb", 10, []string{"a", "", "b"}},
		{"collapses spaces", "a   b", 10, []string{"a b"}},
		{"wide runes", "日本語テキスト", 4, []string{"日本", "語テ", "キス", "ト"}},
		{"wide rune wider than line", "日", 1, []string{"日"}},
		{"zero columns", "ab", 0, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Wrap(tt.in, tt.cols); !slices.Equal(got, tt.want) {
				t.Errorf("Wrap(%q, %d) = %q, want %q", tt.in, tt.cols, got, tt.want)
			}
		})
	}
}

func TestTextMeasurer(t *testing.T) {
	m := NewTextMeasurer()
	if got := m.Columns(200); got != 22 {
		t.Fatalf("Columns(200) = %d, want 22", got)
	}

	line := m.FontSize * m.LineHeight
	tests := []struct {
		name  string
		text  string
		lines int
	}{
		{"no text", "", 1},
		{"one line", "short", 1},
		{"two lines", "one two three four five six seven", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := item.Item{ID: "x", Payload: map[string]any{"text": tt.text}}
			w, h := m.Measure(it, 200)
			if w != 200 {
				t.Errorf("width = %v, want 200", w)
			}
			want := float64(tt.lines)*line + 2*m.Padding
			if math.Abs(h-want) > 1e-9 {
				t.Errorf("height = %v, want %v", h, want)
			}
		})
	}
}

func TestTextMeasurerNarrowBox(t *testing.T) {
	m := NewTextMeasurer()
	if got := m.Columns(10); got != 1 {
		t.Errorf("Columns(10) = %d, want 1", got)
	}
	m.FontSize = 0
	if got := m.Columns(200); got != 1 {
		t.Errorf("Columns with zero font = %d, want 1", got)
	}
}
