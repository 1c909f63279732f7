package commands

import (
	"github.com/massamany/proxyprofiles/internal/engine"
	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/massamany/proxyprofiles/internal/proxy"
)

// ActionKind identifies what a menu entry does.
type ActionKind int

const (
	ActionSetMode ActionKind = iota
	ActionApplyProfile
	ActionOpenSettingsFile
	ActionOpenNetworkSettings
)

// MenuAction is one selectable entry of the status menu.
type MenuAction struct {
	Kind    ActionKind
	Label   string
	Mode    proxy.Mode // ActionSetMode
	Profile string     // ActionApplyProfile
	// Disabled entries are shown but cannot be chosen.
	Disabled bool
	// Section groups entries; the menu draws a separator between sections.
	Section int
}

// MenuState holds the detected state used to build the status menu.
type MenuState struct {
	Info engine.CurrentInfo
	// Status is the status line, or "" when the showStatus preference is off.
	Status  string
	Icon    string
	Actions []MenuAction
	// ProfilesTitle is set when profiles are grouped under a submenu.
	ProfilesTitle string
}

// StatusLabel renders the live state the way the status line shows it.
func StatusLabel(info engine.CurrentInfo) string {
	switch {
	case info.Mode.IsNone():
		return "Proxy: Deactivated"
	case info.Profile != nil:
		return "Profile: " + info.Profile.Name
	case info.Mode.IsManual():
		return "Proxy: Manual"
	case info.Mode.IsAuto():
		return "Proxy: Automatic"
	}
	return "Proxy: " + info.Mode.String()
}

// ModeIcon returns the icon preference shown for mode.
func ModeIcon(mode proxy.Mode) profiles.IconKind {
	switch mode {
	case proxy.ModeManual:
		return profiles.IconProxyManual
	case proxy.ModeAuto:
		return profiles.IconProxyAuto
	}
	return profiles.IconNoProxy
}

// DetectMenuState computes the status menu. It never errors: state that
// cannot be read is reported as deactivated.
func DetectMenuState(eng *engine.Engine) MenuState {
	store := eng.Profiles()
	showStatus := store.ShowStatus()

	var state MenuState
	state.Info = eng.CurrentInfo(showStatus)
	if showStatus {
		state.Status = StatusLabel(state.Info)
	}
	state.Icon = store.Icon(ModeIcon(state.Info.Mode))

	mode := state.Info.Mode
	state.Actions = []MenuAction{
		{Kind: ActionSetMode, Label: "Deactivate Proxy", Mode: proxy.ModeNone, Disabled: mode.IsNone()},
		{Kind: ActionSetMode, Label: "Activate Manual Proxy", Mode: proxy.ModeManual, Disabled: mode.IsManual()},
		{Kind: ActionSetMode, Label: "Activate Automatic Proxy", Mode: proxy.ModeAuto, Disabled: mode.IsAuto()},
	}

	list := store.List()
	if len(list) > 0 && store.ShowProfilesAsSubMenu() {
		state.ProfilesTitle = "Proxy Profiles"
	}
	for _, p := range list {
		state.Actions = append(state.Actions, MenuAction{
			Kind:    ActionApplyProfile,
			Label:   p.Name,
			Profile: p.Name,
			Section: 1,
		})
	}

	if store.ShowOpenSettingsFile() {
		state.Actions = append(state.Actions, MenuAction{Kind: ActionOpenSettingsFile, Label: "Open Settings File", Section: 2})
	}
	if store.ShowOpenNetworkSettings() {
		state.Actions = append(state.Actions, MenuAction{Kind: ActionOpenNetworkSettings, Label: "Open Network Settings", Section: 2})
	}
	return state
}

// Run performs action against the session.
func (s *Session) Run(action MenuAction) error {
	switch action.Kind {
	case ActionSetMode:
		return s.Engine.SetMode(action.Mode)
	case ActionApplyProfile:
		return s.Engine.ApplyProfile(action.Profile)
	case ActionOpenSettingsFile:
		return OpenSettingsFile(s.Profiles.Path())
	case ActionOpenNetworkSettings:
		return OpenNetworkSettings()
	}
	return nil
}
