package softbody

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// Point is one mass on the ring.
type Point struct {
	Position cp.Vector
	Velocity cp.Vector
	Force    cp.Vector
	// PreviousForce is a low-pass filtered copy of Force kept for drawing.
	// It never feeds back into integration.
	PreviousForce cp.Vector
	Mass          float64
}

// Bounds is the viewport the body collides with: [0,Width] × [0,Height].
type Bounds struct {
	Width, Height float64
}

// Contains reports whether p lies inside the closed bounds.
func (b Bounds) Contains(p cp.Vector) bool {
	return p.X >= 0 && p.X <= b.Width && p.Y >= 0 && p.Y <= b.Height
}

// Body is a closed ring of point masses. Point i is joined by a spring to
// point (i+1) mod N; that ordering never changes.
type Body struct {
	points []Point
	params Params
	center cp.Vector

	dragging bool
	dragIdx  int
	// held is the force the dragged point accumulated last frame. It is
	// handed back on release so the point feels its neighbours' pull.
	held cp.Vector
}

// New places n points evenly on a circle of radius p.RestRadius around
// center, at rest. n must be at least 3 and p.Mass positive; neither is
// checked.
func New(center cp.Vector, n int, p Params) *Body {
	b := &Body{
		points:  make([]Point, n),
		params:  p,
		center:  center,
		dragIdx: -1,
	}
	b.Reset()
	return b
}

// Reset returns every point to its initial placement and drops any drag.
func (b *Body) Reset() {
	n := len(b.points)
	step := 2 * math.Pi / float64(n)
	for i := range b.points {
		b.points[i] = Point{
			Position: b.center.Add(cp.ForAngle(float64(i) * step).Mult(b.params.RestRadius)),
			Mass:     b.params.Mass,
		}
	}
	b.dragging = false
	b.dragIdx = -1
	b.held = cp.Vector{}
}

func (b *Body) Len() int { return len(b.points) }

func (b *Body) Params() Params { return b.params }

// SetParams swaps the tuning in place. Point masses keep their value.
func (b *Body) SetParams(p Params) { b.params = p }

// Point returns a copy of point i.
func (b *Body) Point(i int) Point { return b.points[i] }

// Snapshot copies every point in ring order.
func (b *Body) Snapshot() []Point {
	out := make([]Point, len(b.points))
	copy(out, b.points)
	return out
}

// Positions copies every position in ring order.
func (b *Body) Positions() []cp.Vector {
	out := make([]cp.Vector, len(b.points))
	for i := range b.points {
		out[i] = b.points[i].Position
	}
	return out
}

// Centroid is the mean of all positions.
func (b *Body) Centroid() cp.Vector {
	var c cp.Vector
	for i := range b.points {
		c = c.Add(b.points[i].Position)
	}
	return c.Mult(1 / float64(len(b.points)))
}

// KineticEnergy sums ½·m·|v|² over all points.
func (b *Body) KineticEnergy() float64 {
	ke := 0.0
	for i := range b.points {
		p := &b.points[i]
		ke += 0.5 * p.Mass * p.Velocity.LengthSq()
	}
	return ke
}

// IsValid reports whether every position and velocity is finite.
func (b *Body) IsValid() bool {
	for i := range b.points {
		p := &b.points[i]
		for _, v := range [...]float64{p.Position.X, p.Position.Y, p.Velocity.X, p.Velocity.Y} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// BeginDrag grabs the first point, in ring order, within RestRadius of pos.
// It reports whether a point was grabbed; a miss leaves the drag state as is.
func (b *Body) BeginDrag(pos cp.Vector) bool {
	for i := range b.points {
		if b.points[i].Position.Distance(pos) < b.params.RestRadius {
			b.EndDrag()
			b.dragging = true
			b.dragIdx = i
			return true
		}
	}
	return false
}

// SetDragTarget teleports the dragged point to pos. No-op when idle.
func (b *Body) SetDragTarget(pos cp.Vector) {
	if !b.dragging {
		return
	}
	b.points[b.dragIdx].Position = pos
}

// EndDrag releases the dragged point.
func (b *Body) EndDrag() {
	if idx, ok := b.Dragged(); ok {
		b.points[idx].Force = b.held
	}
	b.held = cp.Vector{}
	b.dragging = false
	b.dragIdx = -1
}

// Dragged returns the index of the dragged point.
func (b *Body) Dragged() (int, bool) {
	if !b.dragging || b.dragIdx < 0 || b.dragIdx >= len(b.points) {
		return -1, false
	}
	return b.dragIdx, true
}
