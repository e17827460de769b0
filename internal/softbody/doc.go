// Package softbody implements a pressure-inflated ring of point masses.
//
// A [Body] holds N points connected in a closed cycle. Each call to
// [Body.Update] advances one frame:
//
//   - gravity, damping and semi-implicit Euler integration
//   - viewport boundary clamping with a lossy bounce
//   - Hookean perimeter springs between neighbours i and (i+1) mod N
//   - a constant outward pressure from the centroid
//   - pairwise repulsion for points closer than half the rest radius
//
// The position-dependent passes run after integration, so their forces act
// on the following frame. That one-frame lag is part of the model's
// stability behaviour and must not be reordered.
//
// # Example
//
//	b := softbody.New(cp.Vector{X: 800, Y: 450}, 20, softbody.DefaultParams())
//	for frame := 0; frame < 120; frame++ {
//	    b.Update(1.0/60, softbody.Bounds{Width: 1600, Height: 900})
//	}
//
// # Thread Safety
//
// A Body is NOT safe for concurrent use. Renderers on another goroutine
// should consume [Body.Snapshot] copies.
package softbody
