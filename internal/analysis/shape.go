package analysis

import (
	"math"

	"github.com/jakecoffman/cp/v2"
)

// Area is the unsigned area of the closed polygon through points.
func Area(points []cp.Vector) float64 {
	if len(points) < 3 {
		return 0
	}
	sum := 0.0
	for i := range points {
		sum += points[i].Cross(points[(i+1)%len(points)])
	}
	return math.Abs(sum) / 2
}

// Perimeter is the length of the closed polygon through points.
func Perimeter(points []cp.Vector) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := range points {
		total += points[i].Distance(points[(i+1)%len(points)])
	}
	return total
}

// AreaRatio compares the polygon area of each frame against the first.
// Frames without points are skipped.
func AreaRatio(frames [][]cp.Vector) []float64 {
	out := make([]float64, 0, len(frames))
	base := 0.0
	for _, pts := range frames {
		if len(pts) < 3 {
			continue
		}
		a := Area(pts)
		if base == 0 {
			base = a
		}
		if base == 0 {
			continue
		}
		out = append(out, a/base)
	}
	return out
}
