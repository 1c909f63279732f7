package proxy_test

import (
	"encoding/json"
	"testing"

	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, label := range []string{"none", "manual", "auto"} {
		m, err := proxy.ParseMode(label)
		require.NoError(t, err)
		assert.Equal(t, label, m.String())
	}

	_, err := proxy.ParseMode("direct")
	assert.ErrorIs(t, err, proxy.ErrInvalidMode)

	_, err = proxy.ParseMode("")
	assert.ErrorIs(t, err, proxy.ErrInvalidMode)
}

func TestModePredicates(t *testing.T) {
	assert.True(t, proxy.ModeNone.IsNone())
	assert.True(t, proxy.ModeManual.IsManual())
	assert.True(t, proxy.ModeAuto.IsAuto())
	assert.False(t, proxy.ModeAuto.IsManual())
	assert.Equal(t, []proxy.Mode{proxy.ModeNone, proxy.ModeManual, proxy.ModeAuto}, proxy.Modes())
}

func TestHosts(t *testing.T) {
	t.Run("parse strips whitespace and empties", func(t *testing.T) {
		assert.Equal(t, []string{"localhost", "127.0.0.1", "*.corp"}, proxy.ParseHosts(" localhost, 127.0.0.1 ,, *.corp "))
		assert.Nil(t, proxy.ParseHosts(""))
		assert.Nil(t, proxy.ParseHosts(" , "))
	})

	t.Run("join uses comma space", func(t *testing.T) {
		assert.Equal(t, "localhost, 127.0.0.1", proxy.JoinHosts([]string{"localhost", "127.0.0.1"}))
	})

	t.Run("equality ignores whitespace", func(t *testing.T) {
		assert.True(t, proxy.HostsEqual([]string{"localhost", " 127.0.0.1"}, []string{"localhost ", "127.0.0.1"}))
		assert.False(t, proxy.HostsEqual([]string{"localhost"}, []string{"localhost", "::1"}))
		assert.True(t, proxy.HostsEqual(nil, []string{}))
		assert.Equal(t, "a,b", proxy.HostsKey([]string{" a ", "", "b"}))
	})
}

func TestProfileWithMode(t *testing.T) {
	manual := proxy.NewManual("Work", proxy.Manual{
		HTTP:    proxy.Endpoint{Host: "proxy.local", Port: 8080},
		Ignored: []string{"localhost"},
		Auth:    proxy.Auth{Enabled: true, User: "bob"},
	})

	t.Run("manual to auto clears manual fields", func(t *testing.T) {
		auto, err := manual.WithMode(proxy.ModeAuto)
		require.NoError(t, err)
		assert.Equal(t, proxy.ModeAuto, auto.Mode())
		_, isManual := auto.Manual()
		assert.False(t, isManual)

		data, err := json.Marshal(auto)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Work","mode":"auto"}`, string(data))
	})

	t.Run("auto to manual clears url", func(t *testing.T) {
		auto := proxy.NewAuto("Pac", "http://wpad/proxy.pac")
		back, err := auto.WithMode(proxy.ModeManual)
		require.NoError(t, err)
		data, err := json.Marshal(back)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "autoConfigUrl")
	})

	t.Run("same mode keeps payload as a copy", func(t *testing.T) {
		same, err := manual.WithMode(proxy.ModeManual)
		require.NoError(t, err)
		m, ok := same.Manual()
		require.True(t, ok)
		m.HTTP.Host = "changed"
		orig, _ := manual.Manual()
		assert.Equal(t, "proxy.local", orig.HTTP.Host)
	})

	t.Run("none is rejected", func(t *testing.T) {
		_, err := manual.WithMode(proxy.ModeNone)
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
	})
}

func TestProfileZero(t *testing.T) {
	var p proxy.Profile
	assert.True(t, p.IsZero())
	assert.Equal(t, proxy.ModeNone, p.Mode())
	assert.False(t, proxy.NewAuto("x", "").IsZero())
}

func TestManualEndpoints(t *testing.T) {
	var m proxy.Manual
	for i, p := range proxy.Protocols {
		m.SetEndpoint(p, proxy.Endpoint{Host: string(p) + ".proxy", Port: 1000 + i})
	}
	assert.Equal(t, proxy.Endpoint{Host: "socks.proxy", Port: 1003}, m.SOCKS)
	assert.Equal(t, proxy.Endpoint{Host: "https.proxy", Port: 1001}, m.Endpoint(proxy.HTTPS))
	assert.True(t, proxy.Endpoint{}.IsZero())
}

func TestProfileJSON(t *testing.T) {
	t.Run("manual profile", func(t *testing.T) {
		input := `{
  "name": "Work",
  "mode": "manual",
  "httpHost": "proxy.local",
  "httpPort": 8080,
  "socksHost": "socks.local",
  "socksPort": "1080",
  "ftpPort": "",
  "ignored": "localhost, 127.0.0.1",
  "httpUseAuthentication": true,
  "httpAuthenticationUser": "bob"
}`
		var p proxy.Profile
		require.NoError(t, json.Unmarshal([]byte(input), &p))
		assert.Equal(t, "Work", p.Name)
		m, ok := p.Manual()
		require.True(t, ok)
		assert.Equal(t, proxy.Endpoint{Host: "proxy.local", Port: 8080}, m.HTTP)
		assert.Equal(t, proxy.Endpoint{Host: "socks.local", Port: 1080}, m.SOCKS)
		assert.True(t, m.FTP.IsZero())
		assert.Equal(t, []string{"localhost", "127.0.0.1"}, m.Ignored)
		assert.Equal(t, proxy.Auth{Enabled: true, User: "bob"}, m.Auth)

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{
  "name": "Work",
  "mode": "manual",
  "httpHost": "proxy.local",
  "httpPort": 8080,
  "socksHost": "socks.local",
  "socksPort": 1080,
  "ignored": "localhost, 127.0.0.1",
  "httpUseAuthentication": true,
  "httpAuthenticationUser": "bob"
}`, string(data))
	})

	t.Run("auto profile ignores stray manual keys", func(t *testing.T) {
		var p proxy.Profile
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Pac","mode":"auto","autoConfigUrl":"http://wpad/wpad.dat","httpHost":"stale"}`), &p))
		a, ok := p.Auto()
		require.True(t, ok)
		assert.Equal(t, "http://wpad/wpad.dat", a.ConfigURL)

		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Pac","mode":"auto","autoConfigUrl":"http://wpad/wpad.dat"}`, string(data))
	})

	t.Run("unknown keys survive", func(t *testing.T) {
		var p proxy.Profile
		require.NoError(t, json.Unmarshal([]byte(`{"name":"Pac","mode":"auto","color":"blue"}`), &p))
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Pac","mode":"auto","color":"blue"}`, string(data))
	})

	t.Run("unknown mode", func(t *testing.T) {
		var p proxy.Profile
		err := json.Unmarshal([]byte(`{"name":"X","mode":"direct"}`), &p)
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
	})

	t.Run("none mode is not a profile mode", func(t *testing.T) {
		var p proxy.Profile
		err := json.Unmarshal([]byte(`{"name":"X","mode":"none"}`), &p)
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
	})

	t.Run("bad port", func(t *testing.T) {
		var p proxy.Profile
		assert.Error(t, json.Unmarshal([]byte(`{"name":"X","mode":"manual","httpPort":"eighty"}`), &p))
	})
}
