package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Build returns a ready live model for the named preset.
type Build func(preset string) (Model, error)

// Menu lists presets and opens the chosen one live. Esc returns to the list.
type Menu struct {
	presets []string
	cursor  int
	build   Build
	live    *Model
	err     error
}

func NewMenu(presets []string, build Build) Menu {
	return Menu{presets: presets, build: build}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.presets) == 0 {
			return m, nil
		}
		live, err := m.build(m.presets[m.cursor])
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = &live
		return m, live.Init()
	}
	return m, nil
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var s strings.Builder
	s.WriteString(headerStyle().Render("SOFTBODY") + "\n")
	for i, name := range m.presets {
		if i == m.cursor {
			s.WriteString(activeStyle().Render("> "+name) + "\n")
		} else {
			s.WriteString("  " + lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Render(name) + "\n")
		}
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(fmt.Sprintf("error: %v", m.err)) + "\n")
	}
	s.WriteString(helpStyle.Render("↑↓:Select Enter:Open Esc:Back Q:Quit"))
	return canvasStyle.Render(s.String())
}
