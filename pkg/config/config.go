// Package config loads the mindmap TOML configuration file.
//
// Every section is optional and missing keys keep their defaults:
//
//	[options]
//	item_width = 200
//	force_unique_ids = true
//
//	[forces]
//	charge = -55000
//	link_strength = 0.4
//
//	[viewport]
//	min_zoom = 0.01
//	max_zoom = 8
//	zoom_duration_ms = 1500
//	easing = "quad"    # quad or linear
//
//	[untangle]
//	steps = 120
//
//	[loop]
//	fps = 60
//
//	[render]
//	text_key = "text"
//
//	[cache]
//	backend = "file"   # file, redis, mongo or none
//	ttl = "24h"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/force"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheMongo = "mongo"
	CacheNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Options  OptionsConfig         `toml:"options"`
	Forces   force.Params          `toml:"forces"`
	Viewport ViewportConfig        `toml:"viewport"`
	Untangle layout.UntangleParams `toml:"untangle"`
	Loop     LoopConfig            `toml:"loop"`
	Render   RenderConfig          `toml:"render"`
	Cache    CacheConfig           `toml:"cache"`
}

// OptionsConfig holds the host options.
type OptionsConfig struct {
	ItemWidth      float64 `toml:"item_width"`
	ForceUniqueIDs bool    `toml:"force_unique_ids"`
	DragDeadZone   float64 `toml:"drag_dead_zone"`
	Seed           uint64  `toml:"seed"`
}

// ViewportConfig holds the zoom range and transition timing.
type ViewportConfig struct {
	MinZoom        float64 `toml:"min_zoom"`
	MaxZoom        float64 `toml:"max_zoom"`
	ZoomDurationMS int     `toml:"zoom_duration_ms"`
	Easing         string  `toml:"easing"`
}

// LoopConfig controls frame pacing and offline settling.
type LoopConfig struct {
	FPS      int `toml:"fps"`
	MaxTicks int `toml:"max_ticks"` // Upper bound for offline settling
}

// RenderConfig holds text metrics shared by measurement and export.
type RenderConfig struct {
	TextKey    string  `toml:"text_key"`
	FontSize   float64 `toml:"font_size"`
	LineHeight float64 `toml:"line_height"`
	Padding    float64 `toml:"padding"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"` // Empty means the user cache dir
	RedisAddr       string        `toml:"redis_addr"`
	Prefix          string        `toml:"prefix"` // Redis key prefix
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
	TTL             time.Duration `toml:"ttl"`
}

// DefaultMaxTicks bounds offline settling.
const DefaultMaxTicks = 1000

// Default returns the default configuration.
func Default() *Config {
	opts := mindmap.DefaultOptions()
	return &Config{
		Options: OptionsConfig{
			ItemWidth:      opts.ItemWidth,
			ForceUniqueIDs: true,
			DragDeadZone:   opts.DragDeadZone,
		},
		Forces: force.DefaultParams(),
		Viewport: ViewportConfig{
			MinZoom:        opts.MinZoom,
			MaxZoom:        opts.MaxZoom,
			ZoomDurationMS: opts.ZoomDurationMS,
			Easing:         opts.Easing,
		},
		Untangle: layout.DefaultUntangleParams(),
		Loop:     LoopConfig{FPS: opts.FPS, MaxTicks: DefaultMaxTicks},
		Render: RenderConfig{
			TextKey:    render.DefaultTextKey,
			FontSize:   render.DefaultFontSize,
			LineHeight: render.DefaultLineHeight,
			Padding:    render.DefaultPadding,
		},
		Cache: CacheConfig{
			Backend:         CacheFile,
			RedisAddr:       "localhost:6379",
			Prefix:          "mindmap:",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "mindmap",
			MongoCollection: "cache",
			TTL:             24 * time.Hour,
		},
	}
}

// Dir returns the mindmap config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mindmap")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. An empty path loads DefaultPath if it
// exists and the defaults otherwise. A named file that does not exist is
// an error.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err != nil {
			return Default(), nil
		}
		path = DefaultPath()
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a TOML document over the defaults.
func Parse(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	slices.Sort(keys)
	return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
}

// Save writes cfg to path, creating the directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.MindMapOptions().Validate(); err != nil {
		return err
	}
	if err := errors.ValidateCount("max_ticks", c.Loop.MaxTicks, 1); err != nil {
		return err
	}
	if err := errors.ValidatePositive("font_size", c.Render.FontSize); err != nil {
		return err
	}
	if err := errors.ValidatePositive("line_height", c.Render.LineHeight); err != nil {
		return err
	}
	if c.Render.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "padding must not be negative, got %v", c.Render.Padding)
	}
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	case CacheMongo:
		if c.Cache.MongoURI == "" || c.Cache.MongoDatabase == "" {
			return errors.New(errors.ErrCodeInvalidOption, "mongo cache requires mongo_uri and mongo_database")
		}
	default:
		return errors.New(errors.ErrCodeInvalidOption, "cache backend must be file, redis, mongo or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "cache ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}

// MindMapOptions converts the configuration into MindMap options.
func (c *Config) MindMapOptions() mindmap.Options {
	return mindmap.Options{
		ItemWidth:      c.Options.ItemWidth,
		ForceUniqueIDs: mindmap.Bool(c.Options.ForceUniqueIDs),
		MinZoom:        c.Viewport.MinZoom,
		MaxZoom:        c.Viewport.MaxZoom,
		ZoomDurationMS: c.Viewport.ZoomDurationMS,
		Easing:         c.Viewport.Easing,
		FPS:            c.Loop.FPS,
		DragDeadZone:   c.Options.DragDeadZone,
		Seed:           c.Options.Seed,
		Forces:         c.Forces,
		Untangle:       c.Untangle,
	}
}

// TextMeasurer returns the measurer described by the render section.
func (c *Config) TextMeasurer() render.TextMeasurer {
	m := render.NewTextMeasurer()
	m.TextKey = c.Render.TextKey
	m.FontSize = c.Render.FontSize
	m.LineHeight = c.Render.LineHeight
	m.Padding = c.Render.Padding
	return m
}
