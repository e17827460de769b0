package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each cell is one Braille glyph holding a 2x4 block of dots. Dot bits
// within the glyph, by sub-row then sub-column:
//
//	0x01 0x08
//	0x02 0x10
//	0x04 0x20
//	0x40 0x80
const blank rune = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Width x Height grid of Braille cells, addressed in dots:
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for row := range c.Grid {
		c.Grid[row] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y). Dots off the canvas are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= 2*c.Width || y >= 4*c.Height {
		return
	}
	c.Grid[y/4][x/2] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for col := range row {
			row[col] = blank
		}
	}
}

// DrawLine lights every dot on the segment between the two end points,
// both included.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := absInt(x1-x0), sign(x1-x0)
	dy, sy := -absInt(y1-y0), sign(y1-y0)
	acc := dx + dy

	x, y := x0, y0
	for {
		c.Set(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * acc
		if e2 >= dy {
			acc += dy
			x += sx
		}
		if e2 <= dx {
			acc += dx
			y += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width*3 + 1))
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Layered renders c with overlay beneath it: cells with any dot from c use
// baseStyle, cells with only overlay dots use overlayStyle.
func (c *Canvas) Layered(overlay *Canvas, baseStyle, overlayStyle lipgloss.Style) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		var run []rune
		layer := -1
		flush := func() {
			switch layer {
			case 1:
				b.WriteString(baseStyle.Render(string(run)))
			case 2:
				b.WriteString(overlayStyle.Render(string(run)))
			default:
				b.WriteString(string(run))
			}
			run = run[:0]
		}

		for col := 0; col < c.Width; col++ {
			r := c.Grid[row][col]
			l := 0
			if r != blank {
				l = 1
			}
			if overlay != nil && row < overlay.Height && col < overlay.Width && overlay.Grid[row][col] != blank {
				if l == 0 {
					l = 2
				}
				r |= overlay.Grid[row][col]
			}
			if l != layer && len(run) > 0 {
				flush()
			}
			layer = l
			run = append(run, r)
		}
		if len(run) > 0 {
			flush()
		}
		b.WriteByte('\n')
	}
	return b.String()
}
