package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"

	"github.com/peoplesfeelings/mindmap/pkg/cache"
	"github.com/peoplesfeelings/mindmap/pkg/mindmap"
	"github.com/peoplesfeelings/mindmap/pkg/observability"
	"github.com/peoplesfeelings/mindmap/pkg/viewport"
)

const treeNDJSON = `{"id":"r","is_first":true,"text":"root"}
{"id":"a","reply_to_id":"r","text":"first reply"}
{"id":"b","reply_to_id":"a","text":"nested"}
`

func newTestServer(t *testing.T, options ...Option) (*Server, http.Handler) {
	t.Helper()
	s, err := New(mindmap.Options{}, options...)
	if err != nil {
		t.Fatal(err)
	}
	return s, s.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(mindmap.Options{ItemWidth: -1}); err == nil {
		t.Error("expected error for negative item width")
	}
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("GET /health = %d %s", w.Code, w.Body)
	}
}

func TestAddItems(t *testing.T) {
	s, h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/items", treeNDJSON+`{"id":"x","reply_to_id":"nobody"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /items = %d %s", w.Code, w.Body)
	}
	var res AddResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res != (AddResult{Received: 4, New: 3, Nodes: 3, Unplaced: 1}) {
		t.Errorf("result = %+v", res)
	}
	if s.MindMap().Len() != 3 {
		t.Errorf("Len() = %d", s.MindMap().Len())
	}

	w = do(t, h, http.MethodGet, "/unplaced", "")
	if !strings.Contains(w.Body.String(), `"id":"x"`) {
		t.Errorf("GET /unplaced = %s", w.Body)
	}
}

func TestAddItemsQueued(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/items?refresh=false", `[{"id":"r","is_first":true}]`)
	var res AddResult
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.New != 0 || res.Nodes != 0 || res.Unplaced != 1 {
		t.Errorf("queued result = %+v", res)
	}

	w = do(t, h, http.MethodPost, "/refresh", "")
	json.Unmarshal(w.Body.Bytes(), &res)
	if res.New != 1 || res.Nodes != 1 || res.Unplaced != 0 {
		t.Errorf("refresh result = %+v", res)
	}
}

func TestBadRequests(t *testing.T) {
	_, h := newTestServer(t)
	tests := []struct {
		name, method, path, body string
	}{
		{"bad feed", http.MethodPost, "/items", `{"id": `},
		{"zoom without level", http.MethodPost, "/zoom", `{}`},
		{"negative zoom", http.MethodPost, "/zoom", `{"level": -2}`},
		{"zoom garbage", http.MethodPost, "/zoom", `level=2`},
		{"bad resize", http.MethodPost, "/resize", `{"width": 0, "height": 10}`},
		{"bad transform", http.MethodPut, "/transform", `{"k": 0, "x": 0, "y": 0}`},
		{"bad snapshot", http.MethodPut, "/snapshot", `{"version": 9}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s %s = %d %s, want 400", tt.method, tt.path, w.Code, w.Body)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Errorf("body %s has no error field", w.Body)
			}
		})
	}
}

func TestViewControls(t *testing.T) {
	s, h := newTestServer(t)
	do(t, h, http.MethodPost, "/items", treeNDJSON)

	w := do(t, h, http.MethodPut, "/transform", `{"k": 2, "x": 10, "y": -5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /transform = %d %s", w.Code, w.Body)
	}
	if got := s.MindMap().Transform(); got != (viewport.Transform{K: 2, X: 10, Y: -5}) {
		t.Errorf("transform = %+v", got)
	}

	if w := do(t, h, http.MethodPost, "/resize", `{"width": 640, "height": 480}`); w.Code != http.StatusNoContent {
		t.Errorf("POST /resize = %d", w.Code)
	}
	if got := s.MindMap().Transform(); got != (viewport.Transform{K: 2, X: 10, Y: -5}) {
		t.Errorf("resize changed the transform to %+v", got)
	}

	if w := do(t, h, http.MethodPost, "/zoom", `{"level": 4}`); w.Code != http.StatusAccepted {
		t.Errorf("POST /zoom = %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/center", ""); w.Code != http.StatusAccepted {
		t.Errorf("POST /center = %d", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/freeze", ""); w.Code != http.StatusNoContent {
		t.Errorf("POST /freeze = %d", w.Code)
	}
	if s.MindMap().Running() {
		t.Error("still running after freeze")
	}

	w = do(t, h, http.MethodPost, "/untangle", "")
	if !strings.Contains(w.Body.String(), `"steps":120`) {
		t.Errorf("POST /untangle = %s", w.Body)
	}
	if !s.MindMap().Running() {
		t.Error("untangle should restart the physics")
	}
}

func TestExports(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/items", treeNDJSON)

	w := do(t, h, http.MethodGet, "/snapshot", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"placed": 3`) {
		t.Errorf("GET /snapshot = %d %.120s", w.Code, w.Body)
	}

	w = do(t, h, http.MethodGet, "/snapshot.svg", "")
	if ct := w.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("svg content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), `id="node-r"`) {
		t.Errorf("svg misses the root node")
	}

	w = do(t, h, http.MethodGet, "/snapshot.svg?view=true", "")
	if !strings.Contains(w.Body.String(), `width="1280"`) {
		t.Errorf("view svg should use the view size")
	}

	w = do(t, h, http.MethodGet, "/snapshot.dot", "")
	if !strings.Contains(w.Body.String(), `"a" -> "r";`) {
		t.Errorf("GET /snapshot.dot = %s", w.Body)
	}
}

func TestSnapshotRoundTripOverHTTP(t *testing.T) {
	_, src := newTestServer(t)
	do(t, src, http.MethodPost, "/items", treeNDJSON)
	body := do(t, src, http.MethodGet, "/snapshot", "").Body.String()

	dst, h := newTestServer(t)
	w := do(t, h, http.MethodPut, "/snapshot", body)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /snapshot = %d %s", w.Code, w.Body)
	}
	if dst.MindMap().Len() != 3 {
		t.Errorf("restored Len() = %d", dst.MindMap().Len())
	}
}

func TestSaveLoadRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisCache(ctx, mr.Addr(), "mm:")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	s, h := newTestServer(t, WithCache(c, nil), WithName("demo"))
	do(t, h, http.MethodPost, "/items", treeNDJSON)
	if w := do(t, h, http.MethodPost, "/snapshot/save", ""); w.Code != http.StatusOK {
		t.Fatalf("POST /snapshot/save = %d %s", w.Code, w.Body)
	}
	if !mr.Exists("mm:snapshot:demo") {
		t.Errorf("keys = %v", mr.Keys())
	}

	fresh, _ := newTestServer(t, WithCache(c, nil), WithName("demo"))
	found, err := fresh.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if fresh.MindMap().Len() != s.MindMap().Len() {
		t.Errorf("loaded %d nodes, want %d", fresh.MindMap().Len(), s.MindMap().Len())
	}

	other, _ := newTestServer(t, WithCache(c, nil), WithName("other"))
	if found, err := other.Load(ctx); err != nil || found {
		t.Errorf("Load() of a missing snapshot = %v, %v", found, err)
	}
}

func TestSaveLoadInProcess(t *testing.T) {
	ctx := context.Background()
	s, h := newTestServer(t)
	do(t, h, http.MethodPost, "/items", treeNDJSON)

	if found, err := s.Load(ctx); err != nil || found {
		t.Fatalf("Load() before Save = %v, %v", found, err)
	}
	saved := s.MindMap().Transform()
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	s.MindMap().Pan(40, 40)
	found, err := s.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if s.MindMap().Len() != 3 {
		t.Errorf("Len() = %d", s.MindMap().Len())
	}
	if got := s.MindMap().Transform(); got != saved {
		t.Errorf("Transform() = %+v, want %+v", got, saved)
	}
}

func TestRunDrawsFrames(t *testing.T) {
	s, h := newTestServer(t)
	do(t, h, http.MethodPost, "/items", treeNDJSON)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, frames := s.LastFrame(); frames > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no frame drawn")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() = %v", err)
	}
	if f, _ := s.LastFrame(); len(f.Nodes) != 3 {
		t.Errorf("last frame has %d nodes", len(f.Nodes))
	}
}

type routeRecorder struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
	status []int
}

func (r *routeRecorder) OnResponse(_ context.Context, method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, method+" "+route)
	r.status = append(r.status, status)
}

func TestObserveMiddleware(t *testing.T) {
	rec := &routeRecorder{}
	observability.SetServerHooks(rec)
	t.Cleanup(observability.Reset)

	_, h := newTestServer(t, WithMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("# metrics\n"))
	})))
	do(t, h, http.MethodGet, "/health", "")
	do(t, h, http.MethodPost, "/zoom", `{}`)
	if w := do(t, h, http.MethodGet, "/metrics", ""); w.Body.String() != "# metrics\n" {
		t.Errorf("GET /metrics = %q", w.Body)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	want := []string{"GET /health", "POST /zoom", "GET /metrics"}
	if len(rec.routes) != len(want) {
		t.Fatalf("routes = %v, want %v", rec.routes, want)
	}
	for i := range want {
		if rec.routes[i] != want[i] {
			t.Errorf("route %d = %q, want %q", i, rec.routes[i], want[i])
		}
	}
	if rec.status[0] != http.StatusOK || rec.status[1] != http.StatusBadRequest {
		t.Errorf("status = %v", rec.status)
	}
}
