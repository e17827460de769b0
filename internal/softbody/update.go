package softbody

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// Update advances the body by one frame of at most MaxDt seconds.
//
// Pass order is fixed: integrate, springs, pressure, repulsion, smoothing.
func (b *Body) Update(dt float64, bounds Bounds) {
	dt = math.Min(dt, b.params.MaxDt)
	drag, dragging := b.Dragged()

	b.integrate(dt, bounds, drag)
	b.applySprings()
	b.applyPressure()
	b.applyRepulsion()
	b.smoothForces()

	if dragging {
		p := &b.points[drag]
		b.held = p.Force
		p.Velocity = cp.Vector{}
		p.Force = cp.Vector{}
	}
}

func (b *Body) integrate(dt float64, bounds Bounds, drag int) {
	damp := math.Max(0, 1-b.params.Damping*dt)

	for i := range b.points {
		p := &b.points[i]
		if i == drag {
			p.Velocity = cp.Vector{}
			p.Force = cp.Vector{}
			continue
		}

		p.Force = p.Force.Add(cp.Vector{Y: b.params.Gravity * p.Mass})
		p.Velocity = p.Velocity.Add(p.Force.Mult(dt / p.Mass))
		p.Velocity = p.Velocity.Mult(damp)
		p.Position = p.Position.Add(p.Velocity.Mult(dt))

		b.collide(p, bounds)

		p.Force = cp.Vector{}
	}
}

// collide clamps p into bounds, reflecting the crossing velocity component
// scaled by Damping. Axes are handled independently.
func (b *Body) collide(p *Point, bounds Bounds) {
	if p.Position.X < 0 {
		p.Position.X = 0
		p.Velocity.X = -p.Velocity.X * b.params.Damping
	} else if p.Position.X > bounds.Width {
		p.Position.X = bounds.Width
		p.Velocity.X = -p.Velocity.X * b.params.Damping
	}
	if p.Position.Y < 0 {
		p.Position.Y = 0
		p.Velocity.Y = -p.Velocity.Y * b.params.Damping
	} else if p.Position.Y > bounds.Height {
		p.Position.Y = bounds.Height
		p.Velocity.Y = -p.Velocity.Y * b.params.Damping
	}
}

// springForce is the Hookean force on point i from its ring neighbour.
// ok is false when the pair is closer than Epsilon.
func (b *Body) springForce(i int) (f cp.Vector, next int, ok bool) {
	next = (i + 1) % len(b.points)
	dir := b.points[next].Position.Sub(b.points[i].Position)
	d := dir.Length()
	if d <= Epsilon {
		return cp.Vector{}, next, false
	}
	stretch := d - b.params.RestRadius
	return dir.Mult(stretch * b.params.Stiffness / d), next, true
}

func (b *Body) applySprings() {
	for i := range b.points {
		b.applySpring(i)
	}
}

// applySpring adds the spring force to i and its negation to i's neighbour.
func (b *Body) applySpring(i int) {
	f, next, ok := b.springForce(i)
	if !ok {
		return
	}
	b.points[i].Force = b.points[i].Force.Add(f)
	b.points[next].Force = b.points[next].Force.Sub(f)
}

func (b *Body) applyPressure() {
	c := b.Centroid()
	for i := range b.points {
		p := &b.points[i]
		dir := p.Position.Sub(c)
		d := dir.Length()
		if d <= Epsilon {
			continue
		}
		p.Force = p.Force.Add(dir.Mult(b.params.Pressure / d))
	}
}

// applyRepulsion pushes apart every pair closer than RestRadius/2. O(N²).
func (b *Body) applyRepulsion() {
	limit := b.params.RestRadius * 0.5
	for i := 0; i < len(b.points); i++ {
		for j := i + 1; j < len(b.points); j++ {
			dir := b.points[j].Position.Sub(b.points[i].Position)
			d := dir.Length()
			if d >= limit || d <= Epsilon {
				continue
			}
			f := dir.Mult((limit - d) * b.params.Stiffness / d)
			b.points[i].Force = b.points[i].Force.Sub(f)
			b.points[j].Force = b.points[j].Force.Add(f)
		}
	}
}

func (b *Body) smoothForces() {
	for i := range b.points {
		p := &b.points[i]
		p.PreviousForce = p.PreviousForce.Mult(ForceSmoothing).Add(p.Force.Mult(1 - ForceSmoothing))
	}
}
