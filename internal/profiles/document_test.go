package profiles_test

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/massamany/proxyprofiles/internal/profiles"
	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
  "profiles": [
    {
      "name": "Work",
      "mode": "manual",
      "httpHost": "proxy.local",
      "httpPort": 8080,
      "ignored": "localhost, 127.0.0.1"
    },
    {
      "name": "Home",
      "mode": "auto",
      "autoConfigUrl": "http://wpad/wpad.dat"
    }
  ],
  "showStatus": false,
  "activateDebugLogs": true,
  "iconNoProxy": "/tmp/off.png",
  "windowWidth": 640
}
`

func TestParseDocument(t *testing.T) {
	doc, err := profiles.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	require.Len(t, doc.Profiles, 2)
	assert.Equal(t, "Work", doc.Profiles[0].Name)
	assert.Equal(t, proxy.ModeManual, doc.Profiles[0].Mode())
	assert.Equal(t, proxy.ModeAuto, doc.Profiles[1].Mode())
	assert.Equal(t, 1, doc.Index("Home"))
	assert.Equal(t, -1, doc.Index("Nope"))

	show, err := doc.Bool(profiles.PrefShowStatus)
	require.NoError(t, err)
	assert.False(t, show)
	debug, err := doc.Bool(profiles.PrefActivateDebugLogs)
	require.NoError(t, err)
	assert.True(t, debug)
	assert.Equal(t, "/tmp/off.png", doc.Icon(profiles.IconNoProxy))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc, err := profiles.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	data, err := profiles.MarshalDocument(doc)
	require.NoError(t, err)
	assert.JSONEq(t, sampleDocument, string(data))
	assert.Equal(t, byte('\n'), data[len(data)-1])

	again, err := profiles.ParseDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestMarshalEmptyDocument(t *testing.T) {
	data, err := profiles.MarshalDocument(profiles.Document{})
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestParseDocumentEdgeCases(t *testing.T) {
	t.Run("blank input", func(t *testing.T) {
		doc, err := profiles.ParseDocument([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, doc.Profiles)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := profiles.ParseDocument([]byte(`{"profiles": [`))
		assert.Error(t, err)
	})

	t.Run("invalid mode", func(t *testing.T) {
		_, err := profiles.ParseDocument([]byte(`{"profiles": [{"name": "x", "mode": "direct"}]}`))
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
	})
}

func TestDocumentClone(t *testing.T) {
	doc, err := profiles.ParseDocument([]byte(sampleDocument))
	require.NoError(t, err)

	c := doc.Clone()
	c.Profiles[0].Name = "Changed"
	require.NoError(t, c.SetBool(profiles.PrefShowStatus, true))

	assert.Equal(t, "Work", doc.Profiles[0].Name)
	show, _ := doc.Bool(profiles.PrefShowStatus)
	assert.False(t, show)
}

func TestPreferenceDefaults(t *testing.T) {
	var p profiles.Preferences
	for name, want := range map[string]bool{
		profiles.PrefShowStatus:                     true,
		profiles.PrefShowOpenSettingsFile:           false,
		profiles.PrefShowOpenNetworkSettings:        false,
		profiles.PrefShowProfilesAsSubMenu:          true,
		profiles.PrefAutoActivateModeOnApplyProfile: true,
		profiles.PrefActivateDebugLogs:              false,
	} {
		got, err := p.Bool(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)

		// Writing the default leaves nothing stored; the opposite is kept.
		require.NoError(t, p.SetBool(name, want))
		assert.Equal(t, profiles.Preferences{}, p, name)
		require.NoError(t, p.SetBool(name, !want))
		got, _ = p.Bool(name)
		assert.Equal(t, !want, got, name)
		require.NoError(t, p.SetBool(name, want))
		assert.Equal(t, profiles.Preferences{}, p, name)
	}

	_, err := p.Bool("nope")
	assert.Error(t, err)
}

func TestPreferenceIcons(t *testing.T) {
	var p profiles.Preferences

	assert.Equal(t, "", p.IconOrEmpty(profiles.IconProxyAuto))
	assert.Equal(t, profiles.DefaultIcon(profiles.IconProxyAuto), p.Icon(profiles.IconProxyAuto))
	assert.Contains(t, p.Icon(profiles.IconProxyManual), "proxy_manual.png")

	require.NoError(t, p.SetIcon(profiles.IconProxyAuto, "/icons/auto.svg"))
	assert.Equal(t, "/icons/auto.svg", p.IconOrEmpty(profiles.IconProxyAuto))

	require.NoError(t, p.SetIcon(profiles.IconProxyAuto, profiles.DefaultIcon(profiles.IconProxyAuto)))
	assert.Equal(t, "", p.IconProxyAuto)

	assert.Error(t, p.SetIcon("iconBogus", "/x.png"))
}

func TestPreferenceText(t *testing.T) {
	var p profiles.Preferences

	require.NoError(t, p.Set(profiles.PrefShowOpenSettingsFile, "true"))
	v, err := p.Get(profiles.PrefShowOpenSettingsFile)
	require.NoError(t, err)
	assert.Equal(t, "true", v)

	require.NoError(t, p.Set(string(profiles.IconNoProxy), "/x.png"))
	v, err = p.Get(string(profiles.IconNoProxy))
	require.NoError(t, err)
	assert.Equal(t, "/x.png", v)

	assert.Error(t, p.Set(profiles.PrefShowStatus, "sometimes"))
	_, err = p.Get("nope")
	assert.Error(t, err)

	assert.Len(t, profiles.PreferenceNames(), 9)
}

func TestInstallIcons(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "icons")
	custom := filepath.Join(dir, "no_proxy.png")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(custom, []byte("mine"), 0644))

	require.NoError(t, profiles.InstallIcons(dir))

	for _, name := range []string{"proxy_auto.png", "proxy_manual.png"} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, 16, cfg.Width)
	}

	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data), "existing icons are kept")

	require.NoError(t, profiles.InstallIcons(dir), "second install is a no-op")
}
