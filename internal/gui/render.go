package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/softbody"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawBody()
	a.DrawHUD()

	rl.EndDrawing()
}

// drawBody strokes the ring and, when enabled, one force segment per point.
func (a *App) drawBody() {
	pts := a.Body.Snapshot()
	n := len(pts)
	for i := range pts {
		rl.DrawLineV(vec(pts[i].Position), vec(pts[(i+1)%n].Position), ColBody)
	}

	if a.ShowVectors {
		for _, p := range pts {
			tip := p.Position.Add(p.PreviousForce.Mult(softbody.ForceIndicatorScale))
			rl.DrawLineV(vec(p.Position), vec(tip), ColForce)
		}
	}

	if idx, ok := a.Body.Dragged(); ok {
		rl.DrawCircleV(vec(pts[idx].Position), 4, ColSelect)
	}
}

func (a *App) DrawHUD() {
	rl.DrawText("softbody", 30, 30, 24, ColSelect)
	rl.DrawText(fmt.Sprintf(":: %s", a.Name), 150, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	w := int32(a.Bounds.Width)
	h := int32(a.Bounds.Height)
	rl.DrawText(status, w-130, 30, 16, col)
	rl.DrawText(fmt.Sprintf("t = %.2fs", a.Time), w-130, 52, 14, ColText)

	p := a.Body.Params()
	values := p.GetParams()
	for i, k := range a.ParamKeys {
		c := ColText
		prefix := "  "
		if i == a.ParamSel {
			c, prefix = ColSelect, "> "
		}
		rl.DrawText(fmt.Sprintf("%s%-12s %9.2f", prefix, k, values[k]), 30, 80+int32(i)*20, 14, c)
	}

	a.DrawTelemetry()

	rl.DrawText("[SPACE] PAUSE  [R] RESET  [G] GRAVITY  [V] VECTORS  [TAB/UP/DOWN] TUNE  [Q] QUIT", w-760, h-40, 14, ColTextDim)
	rl.DrawFPS(30, h-40)
}

func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, int(a.Bounds.Height)-140
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	rl.DrawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), int32(rectX+width+10), int32(rectY+height-10), 14, ColText)
}

func vec(v cp.Vector) rl.Vector2 {
	return rl.NewVector2(float32(v.X), float32(v.Y))
}
