// Package pipeline settles a feed of items into a finished layout and
// exports it.
//
// The CLI and the HTTP server share this package so a feed renders the
// same way from both entry points.
//
// # Stages
//
//  1. Load: read items from a feed file or stdin ([Load])
//  2. Settle: place the items and run the physics until it cools
//     ([Runner.Settle])
//  3. Render: export the settled snapshot as SVG, JSON, DOT and friends
//     ([Runner.Render])
//
// Settled layouts and rendered artifacts are cached by content hash, so
// running the same feed with the same options twice skips the physics.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, items, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := res.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
)

const (
	// DefaultMaxTicks bounds the number of physics steps spent settling.
	DefaultMaxTicks = 1000

	// DefaultWidth and DefaultHeight size the headless view.
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultLayoutTTL is how long settled layouts stay cached.
	DefaultLayoutTTL = 7 * 24 * time.Hour

	// DefaultArtifactTTL is how long rendered exports stay cached.
	DefaultArtifactTTL = 24 * time.Hour
)

// Output formats.
const (
	FormatSVG   = "svg"
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatNeato = "neato" // Graphviz-rendered SVG of the DOT export
	FormatPNG   = "png"
	FormatPDF   = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:   true,
	FormatJSON:  true,
	FormatDOT:   true,
	FormatNeato: true,
	FormatPNG:   true,
	FormatPDF:   true,
}

// Options configures a pipeline run.
type Options struct {
	// MindMap configures the store, physics and view. Zero values are
	// the mindmap defaults.
	MindMap mindmap.Options

	// Measurer sizes nodes from their text and draws SVG labels. The
	// zero value is render.NewTextMeasurer().
	Measurer render.TextMeasurer

	// MaxTicks bounds settling. The layout is taken as it stands when
	// the bound is hit.
	MaxTicks int

	// Width and Height size the headless view.
	Width  float64
	Height float64

	Formats []string

	// Refresh skips cache reads. Results are still written.
	Refresh bool

	LayoutTTL   time.Duration
	ArtifactTTL time.Duration

	Logger *log.Logger

	validated bool
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Snapshot is the settled layout.
	Snapshot snapshot.Snapshot

	// LayoutHash is the content hash of the encoded snapshot.
	LayoutHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds run statistics.
type Stats struct {
	Items      int
	Nodes      int
	Unplaced   int
	Ticks      int
	SettleTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, json, dot, neato, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatForPath picks the output format from a file extension. Unknown
// extensions select SVG.
func FormatForPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case FormatJSON, FormatDOT, FormatPNG, FormatPDF:
		return ext
	case "gv":
		return FormatDOT
	}
	return FormatSVG
}

// ValidateAndSetDefaults checks the options and fills defaults. Calling
// it again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.MindMap.Logger == nil {
		o.MindMap.Logger = o.Logger
	}
	if o.MindMap.ItemWidth == 0 {
		o.MindMap.ItemWidth = mindmap.DefaultItemWidth
	}
	if o.Measurer == (render.TextMeasurer{}) {
		o.Measurer = render.NewTextMeasurer()
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.MaxTicks < 0 {
		return fmt.Errorf("max ticks must not be negative, got %d", o.MaxTicks)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.LayoutTTL == 0 {
		o.LayoutTTL = DefaultLayoutTTL
	}
	if o.ArtifactTTL == 0 {
		o.ArtifactTTL = DefaultArtifactTTL
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns everything besides the feed that changes a
// settled layout.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	mm := o.MindMap
	unique := mm.ForceUniqueIDs == nil || *mm.ForceUniqueIDs
	return cache.LayoutKeyOpts{
		ItemWidth:      mm.ItemWidth,
		ForceUniqueIDs: unique,
		Params:         mm.Forces,
		Untangle:       mm.Untangle,
		Measure:        o.Measurer,
		MaxTicks:       o.MaxTicks,
		Seed:           mm.Seed,
	}
}

// ArtifactKeyOpts returns what changes an export of format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	m := o.Measurer
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  fmt.Sprintf("%s/%g/%g/%g/%g", m.TextKey, m.FontSize, m.CharWidth, m.LineHeight, m.Padding),
	}
}
