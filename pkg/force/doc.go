// Package force implements a velocity-Verlet style force simulation for
// two-dimensional node-link diagrams.
//
// A [Simulation] owns a slice of [Node] values and a named, ordered set of
// [Force] implementations. Each [Simulation.Tick] cools alpha toward its
// target, lets every force add to node velocities, then moves each free node
// by its damped velocity. Pinned nodes (FX/FY set) snap to their pin.
//
// Provided forces:
//
//   - [LinkForce]: spring between linked nodes, degree-biased
//   - [ManyBody]: pairwise charge, Barnes–Hut approximated via gonum's
//     spatial/barneshut
//   - [Collide]: circle separation by node radius
//   - [PositionX], [PositionY]: pull toward a coordinate
//   - [Center]: translate the mean position onto a point
//
// Vector math uses gonum.org/v1/gonum/spatial/r2.
//
// Nodes created with [NewNode] have no position. The simulation assigns
// unpositioned nodes a phyllotaxis arrangement around the origin when they
// are installed with [Simulation.SetNodes].
package force
