package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Layout hooks
	l := NoopLayoutHooks{}
	l.OnPlace(ctx, 10, 2)
	l.OnSettleStart(ctx, 10)
	l.OnSettleComplete(ctx, 10, 135, time.Second, nil)
	l.OnUntangle(ctx, 10, 120, time.Millisecond)
	l.OnRenderStart(ctx, "svg")
	l.OnRenderComplete(ctx, "svg", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "layout", 1024)

	// Server hooks
	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/snapshot")
	s.OnResponse(ctx, "GET", "/snapshot", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should return NoopServerHooks by default")
	}

	// Set custom hooks
	customLayout := &testLayoutHooks{}
	SetLayoutHooks(customLayout)
	if Layout() != customLayout {
		t.Error("SetLayoutHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	if Server() != customServer {
		t.Error("SetServerHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testLayoutHooks{}
	SetLayoutHooks(custom)

	// Setting nil should be ignored
	SetLayoutHooks(nil)

	if Layout() != custom {
		t.Error("SetLayoutHooks(nil) should be ignored")
	}

	Reset()
}

func TestPrometheusRecords(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)

	p.OnPlace(ctx, 7, 3)
	p.OnSettleComplete(ctx, 7, 135, 20*time.Millisecond, nil)
	p.OnSettleComplete(ctx, 7, 10, time.Millisecond, errors.New("canceled"))
	p.OnUntangle(ctx, 7, 120, time.Millisecond)
	p.OnRenderComplete(ctx, "svg", time.Millisecond, nil)
	p.OnCacheHit(ctx, "layout")
	p.OnCacheMiss(ctx, "layout")
	p.OnCacheSet(ctx, "layout", 512)
	p.OnResponse(ctx, "GET", "/snapshot", 200, time.Millisecond)

	if got := testutil.ToFloat64(p.placed); got != 7 {
		t.Errorf("placed gauge = %v, want 7", got)
	}
	if got := testutil.ToFloat64(p.settles.WithLabelValues("error")); got != 1 {
		t.Errorf("failed settles = %v, want 1", got)
	}
	if got := testutil.ToFloat64(p.cacheBytes); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	expected := `
# HELP mindmap_untangles_total Untangle passes run
# TYPE mindmap_untangles_total counter
mindmap_untangles_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "mindmap_untangles_total"); err != nil {
		t.Error(err)
	}
}

// Test implementations
type testLayoutHooks struct{ NoopLayoutHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
