package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/softbody/internal/input"
	"github.com/san-kum/softbody/internal/logger"
	"github.com/san-kum/softbody/internal/softbody"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type TickMsg time.Time

// Model steps a body on every tick and draws it as Braille. Mouse events
// on the canvas drag points of the ring.
type Model struct {
	body    *softbody.Body
	initial softbody.Params
	gravity float64
	bounds  softbody.Bounds
	t, dt   float64
	frame   int
	name    string

	proj   Projection
	ring   *Canvas
	forces *Canvas

	queue     input.Queue
	mouseDown bool

	running     bool
	showVectors bool
	showHelp    bool
	paramKeys   []string
	selected    int

	energyHistory []float64
	heightHistory []float64
}

// NewModel wraps b for live display. dt is the step fed to every Update;
// the body clamps it to its own MaxDt.
func NewModel(b *softbody.Body, bounds softbody.Bounds, dt float64, name string) Model {
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

	return Model{
		body:    b,
		initial: params,
		gravity: gravity,
		bounds:  bounds,
		dt:      dt,
		name:    name,
		proj: Projection{
			Bounds:  bounds,
			Cols:    width,
			Rows:    height,
			OffsetX: canvasOffsetX,
			OffsetY: canvasOffsetY,
		},
		ring:          NewCanvas(width, height),
		forces:        NewCanvas(width, height),
		running:       true,
		showVectors:   true,
		paramKeys:     keys,
		energyHistory: make([]float64, 0, historyCapacity),
		heightHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Body() *softbody.Body { return m.body }
func (m Model) Time() float64        { return m.t }
func (m Model) Running() bool        { return m.running }

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "g":
			m.toggleGravity()
		case "v":
			m.showVectors = !m.showVectors
		case "t":
			NextTheme()
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// handleMouse queues drag events for the next step. The help overlay shifts
// the canvas, so the mouse is ignored while it is shown.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.showHelp {
		return
	}
	pos, inside := m.proj.ToWorld(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !inside {
			return
		}
		m.mouseDown = true
		m.queue.Push(input.PressAt(pos))
	case tea.MouseActionMotion:
		if m.mouseDown && inside {
			m.queue.Push(input.MoveTo(pos))
		}
	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.queue.Push(input.ReleaseEvent())
		}
	}
}

// step advances the body by one frame.
func (m *Model) step() {
	input.Drain(m.body, &m.queue, m.frame)
	m.body.Update(m.dt, m.bounds)
	m.t += math.Min(m.dt, m.body.Params().MaxDt)
	m.frame++

	if !m.body.IsValid() {
		logger.L().Warn("body state diverged, resetting", "time", m.t, "preset", m.name)
		m.reset()
		return
	}

	m.energyHistory = appendCapped(m.energyHistory, m.body.KineticEnergy())
	m.heightHistory = appendCapped(m.heightHistory, m.bounds.Height-m.body.Centroid().Y)
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	p := m.body.Params()
	if err := p.SetParam(key, p.GetParams()[key]*factor); err != nil {
		logger.L().Warn("parameter rejected", "param", key, "error", err)
		return
	}
	m.body.SetParams(p)
}

func (m *Model) toggleGravity() {
	p := m.body.Params()
	if p.Gravity != 0 {
		p.Gravity = 0
	} else {
		p.Gravity = m.gravity
	}
	m.body.SetParams(p)
}

// reset restores the initial placement and parameters.
func (m *Model) reset() {
	m.body.SetParams(m.initial)
	m.body.Reset()
	m.t = 0
	m.frame = 0
	m.mouseDown = false
	m.queue.Poll(0)
	m.energyHistory = m.energyHistory[:0]
	m.heightHistory = m.heightHistory[:0]
}

func (m *Model) draw() {
	m.ring.Clear()
	m.forces.Clear()

	var forces *Canvas
	if m.showVectors {
		forces = m.forces
	}
	DrawBody(m.ring, forces, m.proj, m.body.Snapshot())
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	bodyStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Body)
	forceStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Force)
	canvasView := canvasStyle.Render(m.ring.Layered(m.forces, bodyStyle, forceStyle))

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper("softbody :: "+m.name)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(statusStyle(m.running).Render(status) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Foreground(CurrentTheme.Accent).Render(chart) + "\n")
	}

	energy := 0.0
	if len(m.energyHistory) > 0 {
		energy = m.energyHistory[len(m.energyHistory)-1]
	}
	c := m.body.Centroid()
	drag := "-"
	if idx, ok := m.body.Dragged(); ok {
		drag = fmt.Sprintf("point %d", idx)
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle().Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle().Render(fmt.Sprintf("%.3g", energy)) + "\n")
	s.WriteString(labelStyle.Render("Centroid") + valueStyle().Render(fmt.Sprintf("%.0f, %.0f", c.X, c.Y)) + "\n")
	s.WriteString(labelStyle.Render("Points") + valueStyle().Render(fmt.Sprintf("%d", m.body.Len())) + "\n")
	s.WriteString(labelStyle.Render("Dragging") + valueStyle().Render(drag) + "\n")
	s.WriteString(labelStyle.Render("Height") + SparklineChart(m.heightHistory, 24) + "\n")

	s.WriteString("\nPARAMETERS\n")
	values := m.body.Params().GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-12s %9.2f", k, values[k])
		if i == m.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Width(0).Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nG:Gravity V:Vectors T:Theme\nTab ↑↓:Tune ?:Help  Mouse:Drag"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset body and params    ║
║  G        - Toggle gravity           ║
║  V        - Toggle force vectors     ║
║  T        - Cycle themes             ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  Mouse    - Drag a point             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts a full-screen program with mouse tracking.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
