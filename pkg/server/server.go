package server

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/errors"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/layout"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/render"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
)

// Default view size until a client reports its own.
const (
	DefaultWidth  = 1280.0
	DefaultHeight = 720.0
)

// DefaultName names the map in snapshot cache keys.
const DefaultName = "default"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and lifecycle logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCache stores snapshots in c under keys from keyer. A nil keyer
// selects cache.DefaultKeyer. Without it snapshots live in process memory.
func WithCache(c cache.Cache, keyer cache.Keyer) Option {
	return func(s *Server) {
		s.cache = c
		s.keyer = keyer
	}
}

// WithName sets the map name used for snapshot keys.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithMeasurer sets the text metrics used for node sizes and exports.
func WithMeasurer(m render.TextMeasurer) Option {
	return func(s *Server) { s.measurer = m }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithSize sets the initial view size.
func WithSize(w, h float64) Option {
	return func(s *Server) { s.width, s.height = w, h }
}

// Server serves one live MindMap.
type Server struct {
	mm      *mindmap.MindMap
	surface *surface

	measurer render.TextMeasurer
	cache    cache.Cache
	keyer    cache.Keyer
	name     string
	metrics  http.Handler
	logger   *log.Logger

	width, height float64
}

// New builds the MindMap and the server around it.
func New(opts mindmap.Options, options ...Option) (*Server, error) {
	s := &Server{
		measurer: render.NewTextMeasurer(),
		name:     DefaultName,
		width:    DefaultWidth,
		height:   DefaultHeight,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.cache == nil {
		s.cache = cache.NewMemoryCache()
	}
	if s.keyer == nil {
		s.keyer = cache.NewDefaultKeyer()
	}
	if opts.Logger == nil {
		opts.Logger = s.logger
	}

	s.surface = &surface{measurer: s.measurer, w: s.width, h: s.height}
	mm, err := mindmap.New(s.surface, newElement, populate, opts)
	if err != nil {
		return nil, err
	}
	s.mm = mm
	return s, nil
}

func newElement() mindmap.Element { return nil }

func populate(_ mindmap.Element, it item.Item) mindmap.Element { return it }

// MindMap returns the served map.
func (s *Server) MindMap() *mindmap.MindMap { return s.mm }

// LastFrame returns the most recently drawn frame and the number of
// frames drawn so far.
func (s *Server) LastFrame() (layout.Frame, uint64) { return s.surface.last() }

// Run drives the frame loop until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mm.Run(ctx)
}

// Save stores the current snapshot in the cache. Snapshots never expire.
func (s *Server) Save(ctx context.Context) error {
	data, err := snapshot.Marshal(s.mm.Snapshot())
	if err != nil {
		return err
	}
	key := s.keyer.SnapshotKey(s.name)
	err = cache.RetryWithBackoff(ctx, retryDelay, func() error {
		return s.cache.Set(ctx, key, data, 0)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save snapshot %s", s.name)
	}
	s.logger.Info("saved snapshot", "name", s.name, "bytes", len(data))
	return nil
}

// Load restores the snapshot stored by Save. It reports whether one was
// found.
func (s *Server) Load(ctx context.Context) (bool, error) {
	key := s.keyer.SnapshotKey(s.name)
	var data []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, retryDelay, func() error {
		var err error
		data, hit, err = s.cache.Get(ctx, key)
		return err
	})
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInternal, err, "load snapshot %s", s.name)
	}
	if !hit {
		return false, nil
	}
	snap, err := snapshot.Unmarshal(data)
	if err != nil {
		return false, err
	}
	if err := s.mm.Restore(snap); err != nil {
		return false, err
	}
	s.logger.Info("restored snapshot", "name", s.name, "nodes", len(snap.Nodes))
	return true, nil
}

// Handler returns the HTTP API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/health", s.health)
	r.Get("/info", s.info)

	r.Post("/items", s.addItems)
	r.Post("/refresh", s.refresh)
	r.Get("/unplaced", s.unplaced)

	r.Post("/zoom", s.zoom)
	r.Post("/freeze", s.freeze)
	r.Post("/center", s.center)
	r.Post("/untangle", s.untangle)
	r.Post("/resize", s.resize)
	r.Get("/transform", s.getTransform)
	r.Put("/transform", s.putTransform)

	r.Get("/snapshot", s.getSnapshot)
	r.Put("/snapshot", s.putSnapshot)
	r.Get("/snapshot.svg", s.getSVG)
	r.Get("/snapshot.dot", s.getDOT)
	r.Post("/snapshot/save", s.saveSnapshot)

	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}
