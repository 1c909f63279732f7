package commands

import (
	"os"
	"testing"

	"github.com/massamany/proxyprofiles/internal/proxy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func TestProfileInput(t *testing.T) {
	t.Run("manual", func(t *testing.T) {
		in := ProfileInput{
			Name:    " Work ",
			Mode:    "manual",
			Hosts:   map[proxy.Protocol]string{proxy.HTTP: "proxy.local", proxy.SOCKS: "socks.local"},
			Ports:   map[proxy.Protocol]string{proxy.HTTP: "8080", proxy.SOCKS: " 1080 "},
			Ignored: "localhost, 127.0.0.1",
		}
		p, err := in.Profile()
		require.NoError(t, err)
		assert.Equal(t, "Work", p.Name)
		m, ok := p.Manual()
		require.True(t, ok)
		assert.Equal(t, proxy.Endpoint{Host: "proxy.local", Port: 8080}, m.HTTP)
		assert.Equal(t, proxy.Endpoint{Host: "socks.local", Port: 1080}, m.SOCKS)
		assert.Equal(t, []string{"localhost", "127.0.0.1"}, m.Ignored)

		back := NewProfileInput(p)
		assert.Equal(t, "8080", back.Ports[proxy.HTTP])
		assert.Equal(t, "", back.Ports[proxy.FTP])
		assert.Equal(t, "localhost, 127.0.0.1", back.Ignored)
	})

	t.Run("auto", func(t *testing.T) {
		p, err := ProfileInput{Name: "Pac", Mode: "auto", ConfigURL: "http://wpad/wpad.dat"}.Profile()
		require.NoError(t, err)
		a, ok := p.Auto()
		require.True(t, ok)
		assert.Equal(t, "http://wpad/wpad.dat", a.ConfigURL)
		assert.Equal(t, "http://wpad/wpad.dat", NewProfileInput(p).ConfigURL)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := ProfileInput{Mode: "auto"}.Profile()
		assert.Error(t, err)
		_, err = ProfileInput{Name: "x", Mode: "none"}.Profile()
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
		_, err = ProfileInput{Name: "x", Mode: "bogus"}.Profile()
		assert.ErrorIs(t, err, proxy.ErrInvalidMode)
		_, err = ProfileInput{Name: "x", Mode: "manual", Ports: map[proxy.Protocol]string{proxy.FTP: "70000"}}.Profile()
		assert.ErrorContains(t, err, "ftp port")
	})
}

func TestParsePort(t *testing.T) {
	for in, want := range map[string]int{"": 0, " ": 0, "3128": 3128, "0": 0} {
		got, err := ParsePort(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"abc", "-1", "65536"} {
		_, err := ParsePort(in)
		assert.Error(t, err, in)
	}
}

func TestParseEndpoint(t *testing.T) {
	for in, want := range map[string]proxy.Endpoint{
		"":                 {},
		"proxy.local":      {Host: "proxy.local"},
		"proxy.local:3128": {Host: "proxy.local", Port: 3128},
		"[::1]:8080":       {Host: "::1", Port: 8080},
		"[::1]":            {Host: "::1"},
	} {
		got, err := ParseEndpoint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEndpoint("proxy.local:http")
	assert.Error(t, err)
}

func TestProfileSummary(t *testing.T) {
	assert.Equal(t, "automatic, http://pac", ProfileSummary(proxy.NewAuto("a", "http://pac")))
	assert.Equal(t, "automatic", ProfileSummary(proxy.NewAuto("a", "")))
	assert.Equal(t, "manual", ProfileSummary(proxy.NewManual("m", proxy.Manual{})))
	assert.Equal(t, "manual, http proxy.local:8080, socks socks.local, 1 ignored host, auth",
		ProfileSummary(proxy.NewManual("m", proxy.Manual{
			HTTP:    proxy.Endpoint{Host: "proxy.local", Port: 8080},
			SOCKS:   proxy.Endpoint{Host: "socks.local"},
			Ignored: []string{"localhost"},
			Auth:    proxy.Auth{Enabled: true},
		})))
	assert.Equal(t, "no mode", ProfileSummary(proxy.Profile{}))
}
