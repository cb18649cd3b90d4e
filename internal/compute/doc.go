// Package compute provides execution backends for per-particle updates.
//
// Particles never read each other's state, so a tick can be split into
// contiguous chunks and run on any number of goroutines:
//
//   - CPU: chunks across runtime.NumCPU workers
//   - Serial: the whole arena on the calling goroutine
//
// # Usage
//
//	backend := compute.ByName(cfg.Run.Backend)
//	backend.ForEach(len(particles), func(start, end int) {
//	    for i := start; i < end; i++ { ... }
//	})
package compute
