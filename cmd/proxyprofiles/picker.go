package main

import (
	"fmt"
	"strings"

	catppuccin "github.com/catppuccin/go"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/massamany/proxyprofiles/internal/commands"
)

var flavor = catppuccin.Mocha

var (
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(flavor.Blue().Hex)).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(flavor.Mauve().Hex)).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(flavor.Overlay0().Hex))
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(flavor.Subtext0().Hex)).Italic(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(flavor.Overlay0().Hex))
)

// picker is the status menu: Enter runs the entry under the cursor.
// Disabled entries are skipped by the cursor.
type picker struct {
	state  commands.MenuState
	cursor int
	chosen int
}

func newPicker(state commands.MenuState) picker {
	p := picker{state: state, cursor: -1, chosen: -1}
	p.cursor = p.next(-1, 1)
	return p
}

// next returns the first enabled entry after from in direction dir, or
// from itself when there is none.
func (p picker) next(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(p.state.Actions); i += dir {
		if !p.state.Actions[i].Disabled {
			return i
		}
	}
	return from
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			p.chosen = -1
			return p, tea.Quit
		case "up", "k":
			p.cursor = p.next(p.cursor, -1)
		case "down", "j":
			p.cursor = p.next(p.cursor, 1)
		case "enter":
			if p.cursor >= 0 {
				p.chosen = p.cursor
				return p, tea.Quit
			}
		}
	}
	return p, nil
}

func (p picker) View() string {
	var b strings.Builder

	if p.state.Status != "" {
		b.WriteString(fmt.Sprintf("  %s\n\n", statusStyle.Render(p.state.Status)))
	}

	section := 0
	for i, action := range p.state.Actions {
		if action.Section != section {
			section = action.Section
			b.WriteString("\n")
			if action.Kind == commands.ActionApplyProfile && p.state.ProfilesTitle != "" {
				b.WriteString(fmt.Sprintf("  %s\n", headerStyle.Render(p.state.ProfilesTitle)))
			}
		}

		indent := ""
		if action.Kind == commands.ActionApplyProfile && p.state.ProfilesTitle != "" {
			indent = "  "
		}
		label := action.Label
		switch {
		case action.Disabled:
			label = disabledStyle.Render(label)
		case i == p.cursor:
			label = cursorStyle.Render(label)
		}
		cursor := "  "
		if i == p.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("  %s%s%s\n", indent, cursor, label))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/↓ move · enter select · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Selected returns the chosen entry, or false if the menu was left.
func (p picker) Selected() (commands.MenuAction, bool) {
	if p.chosen < 0 {
		return commands.MenuAction{}, false
	}
	return p.state.Actions[p.chosen], true
}

// runPicker shows the menu and returns the chosen entry.
func runPicker(state commands.MenuState) (commands.MenuAction, bool, error) {
	model, err := tea.NewProgram(newPicker(state)).Run()
	if err != nil {
		return commands.MenuAction{}, false, err
	}
	action, ok := model.(picker).Selected()
	return action, ok, nil
}
