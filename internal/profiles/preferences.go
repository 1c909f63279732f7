package profiles

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/massamany/proxyprofiles/internal/paths"
)

// Preferences holds the display and behavior settings stored next to the
// profiles. A nil flag or empty icon means the default applies.
type Preferences struct {
	IconProxyAuto   string `json:"iconProxyAuto,omitempty"`
	IconProxyManual string `json:"iconProxyManual,omitempty"`
	IconNoProxy     string `json:"iconNoProxy,omitempty"`

	ShowStatus                     *bool `json:"showStatus,omitempty"`
	ShowOpenSettingsFile           *bool `json:"showOpenSettingsFile,omitempty"`
	ShowOpenNetworkSettings        *bool `json:"showOpenNetworkSettings,omitempty"`
	ShowProfilesAsSubMenu          *bool `json:"showProfilesAsSubMenu,omitempty"`
	AutoActivateModeOnApplyProfile *bool `json:"autoActivateModeOnApplyProfile,omitempty"`
	ActivateDebugLogs              *bool `json:"activateDebugLogs,omitempty"`
}

// Preference names as they appear in the profiles file.
const (
	PrefShowStatus                     = "showStatus"
	PrefShowOpenSettingsFile           = "showOpenSettingsFile"
	PrefShowOpenNetworkSettings        = "showOpenNetworkSettings"
	PrefShowProfilesAsSubMenu          = "showProfilesAsSubMenu"
	PrefAutoActivateModeOnApplyProfile = "autoActivateModeOnApplyProfile"
	PrefActivateDebugLogs              = "activateDebugLogs"
)

// IconKind selects one of the three status icons.
type IconKind string

const (
	IconProxyAuto   IconKind = "iconProxyAuto"
	IconProxyManual IconKind = "iconProxyManual"
	IconNoProxy     IconKind = "iconNoProxy"
)

// IconKinds lists every icon preference.
var IconKinds = []IconKind{IconProxyAuto, IconProxyManual, IconNoProxy}

var defaultIconFiles = map[IconKind]string{
	IconProxyAuto:   "proxy_auto.png",
	IconProxyManual: "proxy_manual.png",
	IconNoProxy:     "no_proxy.png",
}

// DefaultIcon returns the packaged icon for kind.
func DefaultIcon(kind IconKind) string {
	return filepath.Join(paths.IconDir(), defaultIconFiles[kind])
}

type boolPref struct {
	name  string
	def   bool
	field func(*Preferences) **bool
}

var boolPrefs = []boolPref{
	{PrefShowStatus, true, func(p *Preferences) **bool { return &p.ShowStatus }},
	{PrefShowOpenSettingsFile, false, func(p *Preferences) **bool { return &p.ShowOpenSettingsFile }},
	{PrefShowOpenNetworkSettings, false, func(p *Preferences) **bool { return &p.ShowOpenNetworkSettings }},
	{PrefShowProfilesAsSubMenu, true, func(p *Preferences) **bool { return &p.ShowProfilesAsSubMenu }},
	{PrefAutoActivateModeOnApplyProfile, true, func(p *Preferences) **bool { return &p.AutoActivateModeOnApplyProfile }},
	{PrefActivateDebugLogs, false, func(p *Preferences) **bool { return &p.ActivateDebugLogs }},
}

func lookupBool(name string) (boolPref, bool) {
	for _, bp := range boolPrefs {
		if bp.name == name {
			return bp, true
		}
	}
	return boolPref{}, false
}

// PreferenceNames returns every preference name: boolean flags first, then
// icons.
func PreferenceNames() []string {
	names := make([]string, 0, len(boolPrefs)+len(IconKinds))
	for _, bp := range boolPrefs {
		names = append(names, bp.name)
	}
	for _, k := range IconKinds {
		names = append(names, string(k))
	}
	return names
}

// Bool returns the named flag, falling back to its default.
func (p Preferences) Bool(name string) (bool, error) {
	bp, ok := lookupBool(name)
	if !ok {
		return false, fmt.Errorf("unknown boolean preference %q", name)
	}
	if v := *bp.field(&p); v != nil {
		return *v, nil
	}
	return bp.def, nil
}

// SetBool stores the named flag. Writing the default removes the key.
func (p *Preferences) SetBool(name string, value bool) error {
	bp, ok := lookupBool(name)
	if !ok {
		return fmt.Errorf("unknown boolean preference %q", name)
	}
	f := bp.field(p)
	if value == bp.def {
		*f = nil
		return nil
	}
	*f = &value
	return nil
}

func (p Preferences) flag(name string) bool {
	v, _ := p.Bool(name)
	return v
}

// Icon returns the configured icon path or the packaged default.
func (p Preferences) Icon(kind IconKind) string {
	if v := p.IconOrEmpty(kind); v != "" {
		return v
	}
	return DefaultIcon(kind)
}

// IconOrEmpty returns the configured icon path, or "" when unset.
func (p Preferences) IconOrEmpty(kind IconKind) string {
	switch kind {
	case IconProxyAuto:
		return p.IconProxyAuto
	case IconProxyManual:
		return p.IconProxyManual
	case IconNoProxy:
		return p.IconNoProxy
	}
	return ""
}

// SetIcon stores an icon path. An empty path or the packaged default
// clears it.
func (p *Preferences) SetIcon(kind IconKind, path string) error {
	if path == DefaultIcon(kind) {
		path = ""
	}
	switch kind {
	case IconProxyAuto:
		p.IconProxyAuto = path
	case IconProxyManual:
		p.IconProxyManual = path
	case IconNoProxy:
		p.IconNoProxy = path
	default:
		return fmt.Errorf("unknown icon %q", kind)
	}
	return nil
}

// Set assigns a preference from its textual form, as given on the command
// line.
func (p *Preferences) Set(name, value string) error {
	if _, ok := lookupBool(name); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("preference %s: %w", name, err)
		}
		return p.SetBool(name, b)
	}
	return p.SetIcon(IconKind(name), value)
}

// Get returns a preference in textual form.
func (p Preferences) Get(name string) (string, error) {
	if _, ok := lookupBool(name); ok {
		b, err := p.Bool(name)
		return strconv.FormatBool(b), err
	}
	if _, ok := defaultIconFiles[IconKind(name)]; ok {
		return p.Icon(IconKind(name)), nil
	}
	return "", fmt.Errorf("unknown preference %q", name)
}

func (p Preferences) clone() Preferences {
	c := p
	for _, bp := range boolPrefs {
		if v := *bp.field(&p); v != nil {
			b := *v
			*bp.field(&c) = &b
		}
	}
	return c
}
