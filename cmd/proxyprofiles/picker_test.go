package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/massamany/proxyprofiles/internal/commands"
	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(key tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: key}
}

func menuState() commands.MenuState {
	return commands.MenuState{
		Status: "Proxy: Deactivated",
		Actions: []commands.MenuAction{
			{Kind: commands.ActionSetMode, Label: "Deactivate Proxy", Mode: proxy.ModeNone, Disabled: true},
			{Kind: commands.ActionSetMode, Label: "Activate Manual Proxy", Mode: proxy.ModeManual},
			{Kind: commands.ActionSetMode, Label: "Activate Automatic Proxy", Mode: proxy.ModeAuto},
			{Kind: commands.ActionApplyProfile, Label: "Work", Profile: "Work", Section: 1},
		},
		ProfilesTitle: "Proxy Profiles",
	}
}

func TestPickerStartsOnFirstEnabled(t *testing.T) {
	p := newPicker(menuState())
	assert.Equal(t, 1, p.cursor)
}

func TestPickerCancel(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		keyMsg(tea.KeyEsc),
		keyMsg(tea.KeyCtrlC),
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		model, cmd := newPicker(menuState()).Update(msg)
		_, ok := model.(picker).Selected()
		assert.False(t, ok)
		assert.NotNil(t, cmd)
	}
}

func TestPickerSkipsDisabled(t *testing.T) {
	p := newPicker(menuState())

	model, _ := p.Update(keyMsg(tea.KeyUp))
	p = model.(picker)
	assert.Equal(t, 1, p.cursor, "disabled first entry is skipped")

	for i := 0; i < 5; i++ {
		model, _ = p.Update(keyMsg(tea.KeyDown))
		p = model.(picker)
	}
	assert.Equal(t, 3, p.cursor, "cursor stops at the last entry")
}

func TestPickerSelect(t *testing.T) {
	p := newPicker(menuState())

	model, _ := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	p = model.(picker)
	model, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	p = model.(picker)
	model, cmd := p.Update(keyMsg(tea.KeyEnter))

	action, ok := model.(picker).Selected()
	require.True(t, ok)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Work", action.Profile)
	assert.Equal(t, commands.ActionApplyProfile, action.Kind)
}

func TestPickerAllDisabled(t *testing.T) {
	state := commands.MenuState{Actions: []commands.MenuAction{{Label: "x", Disabled: true}}}
	p := newPicker(state)
	assert.Equal(t, -1, p.cursor)

	model, cmd := p.Update(keyMsg(tea.KeyEnter))
	_, ok := model.(picker).Selected()
	assert.False(t, ok)
	assert.Nil(t, cmd)
}

func TestPickerView(t *testing.T) {
	view := newPicker(menuState()).View()
	assert.Contains(t, view, "Proxy: Deactivated")
	assert.Contains(t, view, "Activate Manual Proxy")
	assert.Contains(t, view, "Proxy Profiles")
	assert.Contains(t, view, "Work")
}
