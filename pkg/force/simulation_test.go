package force

import (
	"math"
	"testing"
)

func TestSimulationCoolsToStop(t *testing.T) {
	s := NewSimulation([]*Node{NewNode("a")})
	steps := 0
	for s.Step() {
		steps++
		if steps > 1000 {
			t.Fatal("simulation never stopped")
		}
	}
	if steps != 135 {
		t.Errorf("steps = %d, want 135", steps)
	}
	if s.Running() {
		t.Error("Running() = true after cooling")
	}
	if s.Step() {
		t.Error("Step() advanced a stopped simulation")
	}

	s.SetAlpha(1)
	s.Restart()
	if !s.Step() {
		t.Error("Step() did not advance after Restart")
	}
}

func TestSimulationAlphaTargetKeepsRunning(t *testing.T) {
	s := NewSimulation(nil)
	s.SetAlphaTarget(0.5)
	for range 500 {
		if !s.Step() {
			t.Fatal("simulation stopped with alphaTarget above alphaMin")
		}
	}
	if math.Abs(s.Alpha()-0.5) > 1e-6 {
		t.Errorf("Alpha() = %v, want ~0.5", s.Alpha())
	}
}

func TestInitialPositions(t *testing.T) {
	a, b := NewNode("a"), NewNode("b")
	c := NewNode("c")
	c.X, c.Y = 42, -7

	NewSimulation([]*Node{a, b, c})

	if got, want := a.X, 10*math.Sqrt(0.5); math.Abs(got-want) > 1e-9 || a.Y != 0 {
		t.Errorf("a = (%v, %v), want (%v, 0)", a.X, a.Y, want)
	}
	if !b.HasPosition() {
		t.Error("b has no position")
	}
	if c.X != 42 || c.Y != -7 {
		t.Errorf("positioned node moved to (%v, %v)", c.X, c.Y)
	}
	for i, n := range []*Node{a, b, c} {
		if n.Index != i {
			t.Errorf("%s.Index = %d, want %d", n.ID, n.Index, i)
		}
	}
}

func TestPinnedNodeHoldsPosition(t *testing.T) {
	root := NewNode("root")
	root.Pin(0, 0)
	leaf := NewNode("leaf")
	s := NewSimulation([]*Node{root, leaf})
	s.SetForce("charge", NewManyBody())

	s.Tick(50)
	if root.X != 0 || root.Y != 0 || root.VX != 0 || root.VY != 0 {
		t.Errorf("pinned root drifted to (%v, %v) v=(%v, %v)", root.X, root.Y, root.VX, root.VY)
	}
	if leaf.X == 0 && leaf.Y == 0 {
		t.Error("free node did not move")
	}
}

func TestSetForceReplaceAndRemove(t *testing.T) {
	s := NewSimulation(nil)
	first := NewPositionX(0)
	s.SetForce("x", first)
	s.SetForce("y", NewPositionY(0))
	second := NewPositionX(5)
	s.SetForce("x", second)

	if s.Force("x") != Force(second) {
		t.Error("Force(x) was not replaced")
	}
	if len(s.forces) != 2 || s.forces[0].name != "x" {
		t.Errorf("forces = %v, want x kept in first position", s.forces)
	}
	s.SetForce("x", nil)
	if s.Force("x") != nil {
		t.Error("Force(x) not removed")
	}
	s.SetForce("missing", nil)
	if len(s.forces) != 1 {
		t.Errorf("len(forces) = %d, want 1", len(s.forces))
	}
}

func TestDefaultForcesSettleTree(t *testing.T) {
	p := DefaultParams()
	root := NewNode("root")
	root.Pin(0, 0)
	nodes := []*Node{root}
	var links []*Link
	for i := range 20 {
		n := NewNode(string(rune('a' + i)))
		n.Width, n.Height = 200, 80
		n.Radius = math.Hypot(n.Width, n.Height) / 2
		nodes = append(nodes, n)
		links = append(links, &Link{Source: n, Target: nodes[i/3]})
	}

	s := NewSimulation(nodes)
	link := NewLink(links)
	link.Distance, link.Strength, link.Iterations = 100, p.LinkStrength, p.LinkIterations
	charge := NewManyBody()
	charge.Strength = p.Charge
	collide := NewCollide()
	collide.Iterations = p.CollideIterations
	s.SetForce("link", link)
	s.SetForce("charge", charge)
	s.SetForce("collide", collide)

	for s.Step() {
	}
	for _, n := range nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsInf(n.X, 0) || math.IsInf(n.Y, 0) {
			t.Fatalf("node %s has invalid position (%v, %v)", n.ID, n.X, n.Y)
		}
	}
	if root.X != 0 || root.Y != 0 {
		t.Errorf("root moved to (%v, %v)", root.X, root.Y)
	}
}
