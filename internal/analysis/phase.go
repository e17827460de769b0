package analysis

import (
	"strings"
)

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	Points []struct{ X, Y float64 }
}

// CentroidPhase pairs each centroid height with its vertical speed, taken
// as a central difference over the sample times. ys and times must be the
// same length.
func CentroidPhase(times, ys []float64) *PhasePortrait2D {
	portrait := &PhasePortrait2D{}
	if len(ys) < 3 || len(times) != len(ys) {
		return portrait
	}

	portrait.Points = make([]struct{ X, Y float64 }, 0, len(ys)-2)
	for i := 1; i < len(ys)-1; i++ {
		span := times[i+1] - times[i-1]
		if span <= 0 {
			continue
		}
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: ys[i],
			Y: (ys[i+1] - ys[i-1]) / span,
		})
	}
	return portrait
}

// PhasePortraitToASCII plots the portrait as dots on a width x height grid,
// padded by a tenth of the data range, with axes drawn where zero is visible.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	xs := make([]float64, len(portrait.Points))
	ys := make([]float64, len(portrait.Points))
	for i, p := range portrait.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	x0, x1 := paddedRange(xs)
	y0, y1 := paddedRange(ys)
	col := func(x float64) int { return int((x - x0) / (x1 - x0) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-y0)/(y1-y0)*float64(height-1)) }

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	for i := range xs {
		r, c := row(ys[i]), col(xs[i])
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	if x0 <= 0 && x1 >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == ' ' {
				grid[r][c] = '│'
			}
		}
	}
	if y0 <= 0 && y1 >= 0 {
		r := row(0)
		for c := range grid[r] {
			if grid[r][c] == ' ' {
				grid[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func paddedRange(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 0.1
	}
	return lo - pad, hi + pad
}
