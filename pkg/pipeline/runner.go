package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/item"
	"github.com/peoplesfeelings/mindmap/pkg/observability"
	"github.com/peoplesfeelings/mindmap/pkg/snapshot"
)

// cacheRetryDelay is the first backoff step for retryable cache errors.
const cacheRetryDelay = 50 * time.Millisecond

// Runner runs the pipeline against a cache.
//
// A Runner holds no per-run state, so one Runner may serve many
// goroutines with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner returns a runner. A nil keyer selects DefaultKeyer, a nil
// cache disables caching and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute settles items and renders every requested format.
func (r *Runner) Execute(ctx context.Context, items []item.Item, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res, err := r.Settle(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res.Snapshot, res.LayoutHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(renderStart)
	res.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Settle returns the settled layout of items, from the cache when an
// identical run was stored.
func (r *Runner) Settle(ctx context.Context, items []item.Item, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	key := r.Keyer.LayoutKey(FeedHash(items), opts.LayoutKeyOpts())
	res := &Result{Stats: Stats{Items: len(items)}}

	if !opts.Refresh {
		if data, ok := r.get(ctx, key, "layout"); ok {
			if s, err := snapshot.Unmarshal(data); err == nil {
				res.fill(s, cache.Hash(data))
				res.CacheInfo.LayoutHit = true
				r.Logger.Debug("layout cache hit", "nodes", len(s.Nodes))
				return res, nil
			}
			r.Logger.Warn("discarding unreadable cached layout", "key", key)
		}
	}

	hooks := observability.Layout()
	hooks.OnSettleStart(ctx, len(items))
	start := time.Now()
	s, ticks, err := Settle(ctx, items, opts)
	res.Stats.SettleTime = time.Since(start)
	hooks.OnSettleComplete(ctx, len(s.Nodes), ticks, res.Stats.SettleTime, err)
	if err != nil {
		return nil, err
	}

	data, err := snapshot.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	r.set(ctx, key, "layout", data, opts.LayoutTTL)

	res.fill(s, cache.Hash(data))
	res.Stats.Ticks = ticks
	r.Logger.Info("settled layout",
		"nodes", len(s.Nodes),
		"unplaced", len(s.Unplaced),
		"ticks", ticks,
		"duration", res.Stats.SettleTime)
	return res, nil
}

// RenderWithCacheInfo exports s in each of opts.Formats and reports
// whether every format came from the cache. layoutHash keys the cache;
// an empty hash disables it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s snapshot.Snapshot, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := layoutHash != "" && !opts.Refresh
	hooks := observability.Layout()

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if layoutHash != "" && !opts.Refresh {
			if data, ok := r.get(ctx, key, "artifact"); ok {
				artifacts[format] = data
				continue
			}
		}
		allCached = false

		hooks.OnRenderStart(ctx, format)
		start := time.Now()
		data, err := renderFormat(ctx, s, format, opts)
		hooks.OnRenderComplete(ctx, format, time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
		if layoutHash != "" {
			r.set(ctx, key, "artifact", data, opts.ArtifactTTL)
		}
	}
	return artifacts, allCached, nil
}

// Render is RenderWithCacheInfo without the cache report.
func (r *Runner) Render(ctx context.Context, s snapshot.Snapshot, layoutHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, layoutHash, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key, retrying transient failures. Errors count as misses.
func (r *Runner) get(ctx context.Context, key, keyType string) ([]byte, bool) {
	var data []byte
	var hit bool
	err := cache.RetryWithBackoff(ctx, cacheRetryDelay, func() error {
		var err error
		data, hit, err = r.Cache.Get(ctx, key)
		return err
	})
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// set writes key. Failures are logged; a run never fails on the cache.
func (r *Runner) set(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, cacheRetryDelay, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (res *Result) fill(s snapshot.Snapshot, hash string) {
	res.Snapshot = s
	res.LayoutHash = hash
	res.Stats.Nodes = len(s.Nodes)
	res.Stats.Unplaced = len(s.Unplaced)
}
