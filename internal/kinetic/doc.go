// Package kinetic implements the swarm engine: N nodes in the plane that drift
// toward their common centroid while being kicked by Gaussian noise.
//
// The package exposes:
//
//   - [Params]: immutable engine configuration
//   - [Engine]: node positions plus the mean-velocity history
//   - [StepResult]: the value object returned by every [Engine.Step]
//   - [Ensemble]: independently seeded engines run concurrently
//
// # Example
//
//	eng, _ := kinetic.New(kinetic.DefaultParams())
//	for i := 0; i < 500; i++ {
//		res := eng.Step()
//		fmt.Println(res.Tick, res.MeanVelocity)
//	}
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. The live monitor drives a single
// engine from one goroutine; [Ensemble] gives every run its own engine.
package kinetic
