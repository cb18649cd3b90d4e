// Package dynamo provides the shared primitives of the slit simulator.
//
// The package defines the value types every other layer passes around:
//
//   - [SimulationConfig]: the per-tick experiment parameters
//   - [Scale]: geometry and unit constants shared by the field and the particles
//   - [Vec3]: world-space positions and per-tick displacements
//
// # Example
//
//	cfg := dynamo.DefaultSimulationConfig()
//	sc := dynamo.DefaultScale()
//	i := optics.Intensity(0, cfg, sc) // central maximum, 1.0
//
// # Thread Safety
//
// All types are plain values. A [SimulationConfig] copied into a tick is a
// consistent snapshot for that tick.
package dynamo
