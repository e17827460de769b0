package export

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

type SVGOptions struct {
	Background  string
	BodyColor   string
	ForceColor  string
	StrokeWidth float64
	// ForceScale multiplies each force before it is drawn; zero hides forces.
	ForceScale float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Background:  "#000000",
		BodyColor:   "#ff0000",
		ForceColor:  "#ffffff",
		StrokeWidth: 1.5,
		ForceScale:  softbody.ForceIndicatorScale,
	}
}

// FrameSVG draws one frame the way the window does: the closed ring, then a
// segment from every point along its force. forces may be nil.
func FrameSVG(points, forces []cp.Vector, bounds softbody.Bounds, opts SVGOptions) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, bounds.Width, bounds.Height, bounds.Width, bounds.Height, opts.Background))

	if len(points) > 1 {
		sb.WriteString(fmt.Sprintf(`<polygon fill="none" stroke="%s" stroke-width="%.1f" points="`, opts.BodyColor, opts.StrokeWidth))
		for i, p := range points {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(fmt.Sprintf("%.2f,%.2f", p.X, p.Y))
		}
		sb.WriteString("\"/>\n")
	}

	if opts.ForceScale != 0 && len(forces) == len(points) {
		sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="1">`+"\n", opts.ForceColor))
		for i, p := range points {
			tip := p.Add(forces[i].Mult(opts.ForceScale))
			sb.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", p.X, p.Y, tip.X, tip.Y))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws a path through points scaled to fill width by
// height, with a tenth of padding on every side.
func TrajectoryToSVG(points []cp.Vector, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	// screen y grows downward like simulation y
	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := (p.Y - minY) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
