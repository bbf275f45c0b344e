// Package mindmap is the host-facing view of a reply-tree force layout.
//
// A [MindMap] owns an item store, a layout engine, a viewport and a drag
// controller, and serializes every operation on them behind one mutex. The
// host supplies a [Container] that measures and draws, plus two callbacks
// that build the per-item elements the container measures:
//
//	m, err := mindmap.New(container, newElement, populate, mindmap.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	m.AddDataItems(items...)
//	m.UpdateSimulationData()
//	go m.Run(ctx)
//
// Items may arrive in any order. Replies whose parents are unknown wait in
// the store until the parent arrives and a later UpdateSimulationData picks
// them up.
//
// # Frames
//
// Each frame advances the physics one step, advances any running zoom or
// recentre transition, and hands the resulting [layout.Frame] to
// [Container.Draw]. [MindMap.Run] drives frames from a ticker until its
// context is cancelled; hosts with their own render loop call
// [MindMap.Frame] instead.
//
// # Screen space
//
// Screen coordinates (pointer positions, pan deltas, transform
// translations) are measured from the centre of the container. The root
// is pinned at the simulation origin, so with a zero translation it sits
// in the middle of the view, and [MindMap.ZoomTo] keeps it there.
package mindmap
