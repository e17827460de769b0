// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: wobble of a sampled series
//   - [Area] and [Perimeter]: ring shape, for checking volume preservation
//   - [CentroidPhase]: centroid height against its vertical speed
//
// # Wobble
//
// A body dropped onto the floor oscillates while it settles. The dominant
// frequency of its centroid height shows how stiff the ring feels:
//
//	ys := result.Series(sim.CentroidY)
//	hz := analysis.DominantFrequency(ys, dt)
package analysis
