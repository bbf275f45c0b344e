package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface on top of Prometheus
// collectors.
type Prometheus struct {
	placed          prometheus.Gauge
	unplaced        prometheus.Gauge
	settles         *prometheus.CounterVec
	settleDuration  prometheus.Histogram
	settleTicks     prometheus.Histogram
	untangles       prometheus.Counter
	renders         *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	cacheOps        *prometheus.CounterVec
	cacheBytes      prometheus.Counter
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var (
	_ LayoutHooks = (*Prometheus)(nil)
	_ CacheHooks  = (*Prometheus)(nil)
	_ ServerHooks = (*Prometheus)(nil)
)

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		placed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_items_placed",
			Help: "Number of placed items after the last placement pass",
		}),
		unplaced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindmap_items_unplaced",
			Help: "Number of items still waiting for an ancestor",
		}),
		settles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_settles_total",
			Help: "Layout settle runs by outcome",
		}, []string{"outcome"}),
		settleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_settle_duration_seconds",
			Help:    "Duration of layout settle runs",
			Buckets: prometheus.DefBuckets,
		}),
		settleTicks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindmap_settle_ticks",
			Help:    "Simulation ticks needed to settle",
			Buckets: prometheus.LinearBuckets(25, 25, 12),
		}),
		untangles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindmap_untangles_total",
			Help: "Untangle passes run",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_renders_total",
			Help: "Exports by format and outcome",
		}, []string{"format", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindmap_render_duration_seconds",
			Help:    "Duration of exports by format",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_cache_operations_total",
			Help: "Cache lookups and writes",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindmap_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindmap_http_requests_total",
			Help: "HTTP API responses by route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindmap_http_request_duration_seconds",
			Help:    "HTTP API latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		p.placed, p.unplaced,
		p.settles, p.settleDuration, p.settleTicks, p.untangles,
		p.renders, p.renderDuration,
		p.cacheOps, p.cacheBytes,
		p.requests, p.requestDuration,
	)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnPlace(_ context.Context, placed, unplaced int) {
	p.placed.Set(float64(placed))
	p.unplaced.Set(float64(unplaced))
}

func (p *Prometheus) OnSettleStart(context.Context, int) {}

func (p *Prometheus) OnSettleComplete(_ context.Context, _, ticks int, d time.Duration, err error) {
	p.settles.WithLabelValues(outcome(err)).Inc()
	p.settleDuration.Observe(d.Seconds())
	p.settleTicks.Observe(float64(ticks))
}

func (p *Prometheus) OnUntangle(context.Context, int, int, time.Duration) {
	p.untangles.Inc()
}

func (p *Prometheus) OnRenderStart(context.Context, string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	p.renders.WithLabelValues(format, outcome(err)).Inc()
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
