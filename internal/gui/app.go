package gui

import (
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jakecoffman/cp/v2"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/softbody"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColBody    = rl.Red
	ColForce   = rl.White
)

type App struct {
	Body        *softbody.Body
	Bounds      softbody.Bounds
	Name        string
	Time        float64
	Running     bool
	ShowVectors bool
	Quit        bool

	Params    softbody.Params
	ParamKeys []string
	ParamSel  int

	Telemetry  []float64
	MaxHistory int

	pointer input.Pointer
	queue   input.Queue
	gravity float64
}

func initWindow(bounds softbody.Bounds) {
	rl.InitWindow(int32(bounds.Width), int32(bounds.Height), "softbody")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp wraps a body for interactive use. It does not open a window.
func NewApp(b *softbody.Body, bounds softbody.Bounds, name string) *App {
	params := b.Params()
	keys := make([]string, 0)
	for k := range params.GetParams() {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	gravity := params.Gravity
	if gravity == 0 {
		gravity = softbody.DefaultGravity
	}

	return &App{
		Body:        b,
		Bounds:      bounds,
		Name:        name,
		Running:     true,
		ShowVectors: true,
		Params:      params,
		ParamKeys:   keys,
		MaxHistory:  300,
		Telemetry:   make([]float64, 0, 300),
		gravity:     gravity,
	}
}

// Run opens a window the size of bounds and blocks until it is closed.
func Run(b *softbody.Body, bounds softbody.Bounds, name string) {
	initWindow(bounds)
	defer rl.CloseWindow()

	logger.L().Info("window opened", "width", bounds.Width, "height", bounds.Height, "preset", name)
	app := NewApp(b, bounds, name)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	a.handleKeys()

	mouse := rl.GetMousePosition()
	pos := cp.Vector{X: float64(mouse.X), Y: float64(mouse.Y)}
	for _, ev := range a.pointer.Sample(rl.IsMouseButtonDown(rl.MouseLeftButton), pos) {
		a.queue.Push(ev)
	}

	if !a.Running {
		return
	}

	dt := float64(rl.GetFrameTime())
	input.Drain(a.Body, &a.queue, 0)
	a.Body.Update(dt, a.Bounds)
	a.Time += math.Min(dt, a.Body.Params().MaxDt)

	a.Telemetry = append(a.Telemetry, a.Body.KineticEnergy())
	if len(a.Telemetry) > a.MaxHistory {
		a.Telemetry = a.Telemetry[1:]
	}

	if !a.Body.IsValid() {
		logger.L().Warn("body state diverged, resetting", "time", a.Time)
		a.reset()
	}
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		a.Quit = true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyV):
		a.ShowVectors = !a.ShowVectors
	case rl.IsKeyPressed(rl.KeyG):
		a.toggleGravity()
	case rl.IsKeyPressed(rl.KeyTab):
		if len(a.ParamKeys) > 0 {
			a.ParamSel = (a.ParamSel + 1) % len(a.ParamKeys)
		}
	case rl.IsKeyPressed(rl.KeyUp):
		a.adjustParam(1.05)
	case rl.IsKeyPressed(rl.KeyDown):
		a.adjustParam(0.95)
	}
}

func (a *App) toggleGravity() {
	p := a.Body.Params()
	if p.Gravity != 0 {
		p.Gravity = 0
	} else {
		p.Gravity = a.gravity
	}
	a.Body.SetParams(p)
}

func (a *App) adjustParam(factor float64) {
	if len(a.ParamKeys) == 0 {
		return
	}
	key := a.ParamKeys[a.ParamSel]
	p := a.Body.Params()
	if err := p.SetParam(key, p.GetParams()[key]*factor); err != nil {
		logger.L().Warn("parameter rejected", "param", key, "error", err)
		return
	}
	a.Body.SetParams(p)
}

func (a *App) reset() {
	a.Body.SetParams(a.Params)
	a.Body.Reset()
	a.Time = 0
	a.Telemetry = a.Telemetry[:0]
}
