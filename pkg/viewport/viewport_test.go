package viewport

import (
	"math"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := Transform{
			K: rapid.Float64Range(0.01, 8).Draw(t, "k"),
			X: rapid.Float64Range(-1e4, 1e4).Draw(t, "x"),
			Y: rapid.Float64Range(-1e4, 1e4).Draw(t, "y"),
		}
		p := Point{
			X: rapid.Float64Range(-1e4, 1e4).Draw(t, "px"),
			Y: rapid.Float64Range(-1e4, 1e4).Draw(t, "py"),
		}
		back := tr.Apply(tr.Invert(p))
		tol := 1e-6 * (1 + math.Abs(p.X) + math.Abs(p.Y))
		if math.Abs(back.X-p.X) > tol || math.Abs(back.Y-p.Y) > tol {
			t.Fatalf("Apply(Invert(%v)) = %v under %v", p, back, tr)
		}
	})
}

func TestToSimulation(t *testing.T) {
	v := New()
	v.SetTransform(Transform{K: 2, X: 100, Y: 50})
	got := v.ToSimulation(Point{X: 120, Y: 70})
	if !near(got.X, 10) || !near(got.Y, 10) {
		t.Errorf("ToSimulation = %v, want (10, 10)", got)
	}
	back := v.ToScreen(got)
	if !near(back.X, 120) || !near(back.Y, 70) {
		t.Errorf("ToScreen = %v, want (120, 70)", back)
	}
}

func TestSetTransformClamps(t *testing.T) {
	tests := []struct {
		name  string
		in    Transform
		wantK float64
	}{
		{"within", Transform{K: 2}, 2},
		{"too far in", Transform{K: 100}, 8},
		{"too far out", Transform{K: 0.0001}, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.SetTransform(tt.in)
			if got := v.Transform().K; !near(got, tt.wantK) {
				t.Errorf("K = %v, want %v", got, tt.wantK)
			}
		})
	}
}

func TestSetTransformIgnoresInvalid(t *testing.T) {
	v := New()
	v.SetTransform(Transform{K: math.NaN()})
	v.SetTransform(Transform{K: 0})
	v.SetTransform(Transform{K: 1, X: math.Inf(1)})
	if v.Transform() != Identity {
		t.Errorf("Transform() = %v, want identity", v.Transform())
	}
}

func TestZoomToTransition(t *testing.T) {
	start := time.Unix(0, 0)
	v := New()
	v.SetTransform(Transform{K: 1, X: 40, Y: -20})
	anchor := Point{}
	fixed := v.ToSimulation(anchor)

	v.ZoomTo(4, anchor, start)
	if !v.Transitioning() {
		t.Fatal("no transition started")
	}

	v.Advance(start.Add(750 * time.Millisecond))
	mid := v.Transform()
	if !near(mid.K, 2.5) {
		t.Errorf("midpoint K = %v, want 2.5", mid.K)
	}
	if p := v.ToSimulation(anchor); !near(p.X, fixed.X) || !near(p.Y, fixed.Y) {
		t.Errorf("anchor drifted to %v, want %v", p, fixed)
	}

	if !v.Advance(start.Add(2 * time.Second)) {
		t.Error("final Advance reported no change")
	}
	if v.Transitioning() {
		t.Error("transition still active after its duration")
	}
	if got := v.Transform().K; !near(got, 4) {
		t.Errorf("final K = %v, want 4", got)
	}
	if v.Advance(start.Add(3 * time.Second)) {
		t.Error("Advance without transition reported a change")
	}
}

func TestZoomToClampsLevel(t *testing.T) {
	v := New(WithDuration(0))
	v.ZoomTo(50, Point{}, time.Now())
	if got := v.Transform().K; got != 8 {
		t.Errorf("K = %v, want 8", got)
	}
	if v.Transitioning() {
		t.Error("zero-duration zoom left a transition running")
	}
}

func TestCenterViewKeepsScale(t *testing.T) {
	start := time.Unix(0, 0)
	v := New()
	v.SetTransform(Transform{K: 3, X: 300, Y: -90})
	v.CenterView(start)
	v.Advance(start.Add(DefaultZoomDuration))
	if got := v.Transform(); got != (Transform{K: 3}) {
		t.Errorf("Transform() = %v, want k=3 at origin", got)
	}
}

func TestGestureInterruptsTransition(t *testing.T) {
	start := time.Unix(0, 0)
	v := New()
	v.ZoomTo(4, Point{}, start)
	v.PanBy(10, 0)
	if v.Transitioning() {
		t.Error("pan did not interrupt the transition")
	}
	v.Advance(start.Add(time.Second))
	if got := v.Transform(); got != (Transform{K: 1, X: 10}) {
		t.Errorf("Transform() = %v", got)
	}
}

func TestZoomByAnchor(t *testing.T) {
	v := New()
	anchor := Point{X: 200, Y: 100}
	before := v.ToSimulation(anchor)
	v.ZoomBy(2, anchor)
	after := v.ToSimulation(anchor)
	if !near(before.X, after.X) || !near(before.Y, after.Y) {
		t.Errorf("anchor moved from %v to %v", before, after)
	}
	if v.Transform().K != 2 {
		t.Errorf("K = %v, want 2", v.Transform().K)
	}
}

func TestResizeReappliesStoredTransform(t *testing.T) {
	var seen []Transform
	v := New(WithObserver(func(tr Transform) { seen = append(seen, tr) }))
	stored := Transform{K: 0.5, X: 12, Y: 34}
	v.SetTransform(stored)
	v.Resize(800, 600)

	if v.Transform() != stored {
		t.Errorf("Transform() = %v, want %v", v.Transform(), stored)
	}
	if len(seen) != 2 || seen[1] != stored {
		t.Errorf("observer saw %v, want stored transform re-applied", seen)
	}
	if w, h := v.Size(); w != 800 || h != 600 {
		t.Errorf("Size() = %v x %v", w, h)
	}
}

func TestQuadInOut(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{0.25, 0.125},
		{0.5, 0.5},
		{0.75, 0.875},
		{1, 1},
	}
	for _, tt := range tests {
		if got := QuadInOut(tt.in); !near(got, tt.want) {
			t.Errorf("QuadInOut(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWheelFactor(t *testing.T) {
	if f := WheelFactor(-500); !near(f, 2) {
		t.Errorf("WheelFactor(-500) = %v, want 2", f)
	}
	if f := WheelFactor(500); !near(f, 0.5) {
		t.Errorf("WheelFactor(500) = %v, want 0.5", f)
	}
}

func TestTransformString(t *testing.T) {
	got := Transform{K: 2, X: 10, Y: -5}.String()
	if got != "translate(10,-5) scale(2)" {
		t.Errorf("String() = %q", got)
	}
}
