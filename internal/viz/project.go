package viz

import (
	"math"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

// Projection maps simulation space onto a Braille canvas, and terminal
// cells back onto simulation space.
type Projection struct {
	Bounds     softbody.Bounds
	Cols, Rows int
	// OffsetX and OffsetY are where the canvas starts on screen, in cells.
	OffsetX, OffsetY int
}

// ToPixel returns the Braille sub-pixel under v. Points on the far edge of
// the bounds land on the last pixel.
func (p Projection) ToPixel(v cp.Vector) (int, int) {
	pw, ph := p.Cols*2, p.Rows*4
	x := int(math.Floor(v.X * float64(pw) / p.Bounds.Width))
	y := int(math.Floor(v.Y * float64(ph) / p.Bounds.Height))
	if x == pw {
		x--
	}
	if y == ph {
		y--
	}
	// keep far-off segments short enough to rasterise
	return clampInt(x, -pw, 2*pw), clampInt(y, -ph, 2*ph)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToWorld returns the simulation-space centre of the terminal cell at
// (cellX, cellY). ok is false outside the canvas.
func (p Projection) ToWorld(cellX, cellY int) (cp.Vector, bool) {
	col, row := cellX-p.OffsetX, cellY-p.OffsetY
	if col < 0 || row < 0 || col >= p.Cols || row >= p.Rows {
		return cp.Vector{}, false
	}
	return cp.Vector{
		X: (float64(col) + 0.5) * p.Bounds.Width / float64(p.Cols),
		Y: (float64(row) + 0.5) * p.Bounds.Height / float64(p.Rows),
	}, true
}

// DrawBody strokes the closed ring onto ring and, when forces is non-nil,
// one segment per point from its position along its smoothed force.
func DrawBody(ring, forces *Canvas, proj Projection, pts []softbody.Point) {
	n := len(pts)
	for i := range pts {
		x0, y0 := proj.ToPixel(pts[i].Position)
		x1, y1 := proj.ToPixel(pts[(i+1)%n].Position)
		ring.DrawLine(x0, y0, x1, y1)
	}

	if forces == nil {
		return
	}
	for _, p := range pts {
		tip := p.Position.Add(p.PreviousForce.Mult(softbody.ForceIndicatorScale))
		x0, y0 := proj.ToPixel(p.Position)
		x1, y1 := proj.ToPixel(tip)
		forces.DrawLine(x0, y0, x1, y1)
	}
}
