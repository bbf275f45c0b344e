package mindmap

import (
	"github.com/charmbracelet/log"
	"github.com/mitchellh/mapstructure"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/force"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

// Defaults applied by DefaultOptions and to zero-valued fields.
const (
	DefaultItemWidth      = 200.0
	DefaultZoomDurationMS = 1500
	DefaultFPS            = 60
	DefaultDragDeadZone   = 3.0
)

// Options configures a MindMap. Zero values select the defaults.
type Options struct {
	// ItemWidth is the node width. Links rest at half of it.
	ItemWidth float64 `mapstructure:"item_width"`
	// ForceUniqueIDs drops items whose id was seen before. Nil means true.
	ForceUniqueIDs *bool `mapstructure:"force_unique_ids"`

	MinZoom        float64 `mapstructure:"min_zoom"`
	MaxZoom        float64 `mapstructure:"max_zoom"`
	ZoomDurationMS int     `mapstructure:"zoom_duration_ms"`
	FPS            int     `mapstructure:"fps"`
	DragDeadZone   float64 `mapstructure:"drag_dead_zone"`
	Seed           uint64  `mapstructure:"seed"`

	// Easing shapes ZoomTo and CenterView transitions: "quad" (default)
	// or "linear".
	Easing string `mapstructure:"easing"`

	Forces   force.Params          `mapstructure:"forces"`
	Untangle layout.UntangleParams `mapstructure:"untangle"`

	Logger *log.Logger `mapstructure:"-"`
}

// Bool returns a pointer to b, for Options.ForceUniqueIDs.
func Bool(b bool) *bool { return &b }

// DefaultOptions returns the options with every default filled in.
func DefaultOptions() Options {
	ext := viewport.DefaultScaleExtent()
	return Options{
		ItemWidth:      DefaultItemWidth,
		ForceUniqueIDs: Bool(true),
		MinZoom:        ext.Min,
		MaxZoom:        ext.Max,
		ZoomDurationMS: DefaultZoomDurationMS,
		Easing:         viewport.EaseQuadInOut,
		FPS:            DefaultFPS,
		DragDeadZone:   DefaultDragDeadZone,
		Forces:         force.DefaultParams(),
		Untangle:       layout.DefaultUntangleParams(),
	}
}

// OptionsFromMap decodes a loose options object such as
// {"item_width": 240, "force_unique_ids": false}. Unknown keys and values
// of the wrong type are errors, and so is any supplied value New would
// reject or replace, such as an explicit zero item_width. Missing keys keep
// their defaults.
func OptionsFromMap(m map[string]any) (Options, error) {
	opts := DefaultOptions()
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Metadata:    &md,
		Result:      &opts,
	})
	if err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInternal, err, "options decoder")
	}
	if err := dec.Decode(m); err != nil {
		return Options{}, errors.Wrap(errors.ErrCodeInvalidOption, err, "decode options")
	}
	if err := rejectExplicitZeros(opts, md.Keys); err != nil {
		return Options{}, err
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// rejectExplicitZeros fails on supplied keys whose zero value withDefaults
// would silently replace.
func rejectExplicitZeros(o Options, keys []string) error {
	zero := map[string]bool{
		"item_width":       o.ItemWidth == 0,
		"min_zoom":         o.MinZoom == 0,
		"max_zoom":         o.MaxZoom == 0,
		"zoom_duration_ms": o.ZoomDurationMS == 0,
		"fps":              o.FPS == 0,
		"drag_dead_zone":   o.DragDeadZone == 0,
	}
	for _, k := range keys {
		if zero[k] {
			return errors.New(errors.ErrCodeInvalidOption, "%s must be positive, got 0; omit it to use the default", k)
		}
	}
	return nil
}

// withDefaults fills zero values.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ItemWidth == 0 {
		o.ItemWidth = d.ItemWidth
	}
	if o.ForceUniqueIDs == nil {
		o.ForceUniqueIDs = d.ForceUniqueIDs
	}
	if o.MinZoom == 0 {
		o.MinZoom = d.MinZoom
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = d.MaxZoom
	}
	if o.ZoomDurationMS == 0 {
		o.ZoomDurationMS = d.ZoomDurationMS
	}
	if o.FPS == 0 {
		o.FPS = d.FPS
	}
	if o.Easing == "" {
		o.Easing = d.Easing
	}
	if o.DragDeadZone == 0 {
		o.DragDeadZone = d.DragDeadZone
	}
	if o.Forces == (force.Params{}) {
		o.Forces = d.Forces
	}
	if o.Untangle == (layout.UntangleParams{}) {
		o.Untangle = d.Untangle
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	if err := errors.ValidatePositive("item_width", o.ItemWidth); err != nil {
		return err
	}
	if err := errors.ValidateZoomRange(o.MinZoom, o.MaxZoom); err != nil {
		return err
	}
	if err := errors.ValidateCount("zoom_duration_ms", o.ZoomDurationMS, 0); err != nil {
		return err
	}
	if err := errors.ValidateCount("fps", o.FPS, 1); err != nil {
		return err
	}
	if _, ok := viewport.EasingByName(o.Easing); !ok {
		return errors.New(errors.ErrCodeInvalidOption, "easing must be %q or %q, got %q", viewport.EaseQuadInOut, viewport.EaseLinear, o.Easing)
	}
	if o.DragDeadZone < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "drag_dead_zone must not be negative, got %v", o.DragDeadZone)
	}
	if err := o.Forces.Validate(); err != nil {
		return err
	}
	return o.Untangle.Validate()
}
