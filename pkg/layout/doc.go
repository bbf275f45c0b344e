// Package layout positions placed reply-tree items with a force simulation.
//
// An [Engine] reconciles the placed item set into simulation nodes and
// links. Nodes that survive a reconciliation keep their position, velocity
// and pins. New nodes are measured once through a [Measurer] and seeded
// next to their nearest positioned ancestor, so a late-arriving reply
// appears beside its thread instead of at the origin.
//
// The force model is the one described by [force.DefaultParams]:
//
//	link      distance item_width/2, strength 0.4, 5 iterations
//	charge    -55000, Barnes–Hut theta 0.9
//	collide   half the node diagonal, 4 iterations
//	x, y      strength 0.3 toward the origin
//	center    strength 0.4 toward the origin
//
// [Engine.Untangle] temporarily swaps in a stronger, wider model for a fixed
// number of synchronous steps, then restores the normal one.
//
// After every step [Engine.Frame] reports link endpoints and node top-left
// corners for the render collaborator.
package layout
