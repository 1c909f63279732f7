package settings_test

import (
	"path/filepath"
	"testing"

	"github.com/massamany/proxyprofiles/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the behavior every backend shares.
func storeContract(t *testing.T, store settings.Store) {
	t.Helper()

	t.Run("unset key reads default", func(t *testing.T) {
		v, err := store.Get(settings.PortKey("http"))
		require.NoError(t, err)
		assert.Equal(t, int32(8080), v)
	})

	t.Run("set then reset", func(t *testing.T) {
		require.NoError(t, store.Set(settings.HostKey("https"), "secure.local"))
		v, err := store.Get(settings.HostKey("https"))
		require.NoError(t, err)
		assert.Equal(t, "secure.local", v)

		require.NoError(t, store.Reset(settings.HostKey("https")))
		v, err = store.Get(settings.HostKey("https"))
		require.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("string list", func(t *testing.T) {
		require.NoError(t, store.Set(settings.IgnoreHosts, []string{"a", "b"}))
		v, err := store.Get(settings.IgnoreHosts)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, v)
	})

	t.Run("wrong type", func(t *testing.T) {
		err := store.Set(settings.PortKey("ftp"), 21)
		assert.ErrorIs(t, err, settings.ErrTypeMismatch)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, settings.ErrUnknownKey)
		assert.ErrorIs(t, store.Reset("nope"), settings.ErrUnknownKey)
		_, err = store.Subscribe("nope", func() {})
		assert.ErrorIs(t, err, settings.ErrUnknownKey)
	})

	t.Run("subscription fires on change and stops after cancel", func(t *testing.T) {
		fired := 0
		cancel, err := store.Subscribe(settings.Mode, func() { fired++ })
		require.NoError(t, err)

		require.NoError(t, store.Set(settings.Mode, "manual"))
		assert.Equal(t, 1, fired)
		require.NoError(t, store.Reset(settings.Mode))
		assert.Equal(t, 2, fired)

		cancel()
		require.NoError(t, store.Set(settings.Mode, "auto"))
		assert.Equal(t, 2, fired)
	})

	t.Run("listener may write to the store", func(t *testing.T) {
		cancel, err := store.Subscribe(settings.Mode, func() {
			_ = store.Set(settings.AutoconfigURL, "http://wpad/wpad.dat")
		})
		require.NoError(t, err)
		defer cancel()

		require.NoError(t, store.Set(settings.Mode, "auto"))
		v, err := store.Get(settings.AutoconfigURL)
		require.NoError(t, err)
		assert.Equal(t, "http://wpad/wpad.dat", v)
	})
}

func TestMemoryStore(t *testing.T) {
	store := settings.NewMemoryStore()
	defer store.Close()
	storeContract(t, store)
}

func TestMemoryStoreCopiesSlices(t *testing.T) {
	store := settings.NewMemoryStore()
	hosts := []string{"a"}
	require.NoError(t, store.Set(settings.IgnoreHosts, hosts))
	hosts[0] = "mutated"

	v, err := store.Get(settings.IgnoreHosts)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "settings.db")
	store, err := settings.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	storeContract(t, store)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.db")

	store, err := settings.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(settings.PortKey("socks"), int32(1080)))
	require.NoError(t, store.Set(settings.HTTPUseAuthentication, true))
	require.NoError(t, store.Close())

	store, err = settings.OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	v, err := store.Get(settings.PortKey("socks"))
	require.NoError(t, err)
	assert.Equal(t, int32(1080), v)

	keys, err := store.Overrides()
	require.NoError(t, err)
	assert.Equal(t, []settings.Key{settings.HTTPUseAuthentication, settings.PortKey("socks")}, keys)

	require.NoError(t, store.Reset(settings.PortKey("socks")))
	keys, err = store.Overrides()
	require.NoError(t, err)
	assert.Equal(t, []settings.Key{settings.HTTPUseAuthentication}, keys)
}

func TestDefaults(t *testing.T) {
	v, err := settings.DefaultValue(settings.IgnoreHosts)
	require.NoError(t, err)
	assert.Equal(t, []string{"localhost", "127.0.0.0/8", "::1"}, v)

	v, err = settings.DefaultValue(settings.Mode)
	require.NoError(t, err)
	assert.Equal(t, "none", v)

	assert.Len(t, settings.Keys(), 14)
}
