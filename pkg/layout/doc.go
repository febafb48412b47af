// Package layout runs a force-directed layout over a [graph.Graph].
//
// The simulation follows the classic d3 (v3) force model:
//
//   - Links act as springs with a rest length, weighted by endpoint degree
//   - Every node pair repels with an inverse-square charge, approximated with
//     a Barnes-Hut tree from gonum's spatial/barneshut package
//   - A weak gravity pulls nodes toward the centre of the canvas
//   - Positions are integrated with position Verlet and a friction factor
//
// The temperature ("alpha") starts at [Config.Alpha] and is multiplied by
// [Config.AlphaDecay] every tick. The simulation settles once alpha falls
// below [Config.AlphaMin] or after [Config.MaxTicks] ticks, so every tick
// stream is finite.
//
// # Determinism
//
// Initial positions come from a PRNG seeded with [Config.Seed]. Laying out
// the same graph twice with the same config yields identical positions.
//
// # Ticks
//
// [Simulation.Run] invokes a [TickFunc] after every step. Callbacks may
// overwrite node positions and mark nodes [graph.Node.Fixed]; fixed nodes
// keep the position written to them for the rest of the run.
package layout
