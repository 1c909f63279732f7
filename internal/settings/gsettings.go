package settings

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/massamany/proxyprofiles/internal/logger"
)

const baseSchema = "org.gnome.system.proxy"

// Runner executes the gsettings tool and returns trimmed stdout.
type Runner func(args ...string) (string, error)

// RunGSettings executes gsettings with args.
func RunGSettings(args ...string) (string, error) {
	cmd := exec.Command("gsettings", args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return strings.TrimSpace(string(out)), fmt.Errorf("gsettings %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return strings.TrimSpace(string(out)), nil
}

// Watcher delivers dconf paths that changed. It returns a stop function.
type Watcher func(onChange func(path string)) (stop func(), err error)

// GSettingsStore reads and writes the org.gnome.system.proxy schemas
// through the gsettings tool. Changes made by any process are observed via
// the dconf writer's D-Bus Notify signal.
type GSettingsStore struct {
	run   Runner
	watch Watcher

	mu   sync.Mutex
	stop func()
	notifier
}

// GSettingsOption configures a GSettingsStore.
type GSettingsOption func(*GSettingsStore)

// WithRunner replaces the gsettings executor.
func WithRunner(r Runner) GSettingsOption {
	return func(g *GSettingsStore) { g.run = r }
}

// WithWatcher replaces the dconf change watcher.
func WithWatcher(w Watcher) GSettingsOption {
	return func(g *GSettingsStore) { g.watch = w }
}

// NewGSettingsStore returns a store backed by gsettings and dconf.
func NewGSettingsStore(opts ...GSettingsOption) *GSettingsStore {
	g := &GSettingsStore{run: RunGSettings, watch: WatchDconf}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// schemaKey maps "http.port" to ("org.gnome.system.proxy.http", "port").
func schemaKey(key Key) (string, string) {
	s := string(key)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return baseSchema + "." + s[:i], s[i+1:]
	}
	return baseSchema, s
}

// DconfPath returns the dconf path backing key, e.g. /system/proxy/http/port.
func DconfPath(key Key) string {
	return "/system/proxy/" + strings.ReplaceAll(string(key), ".", "/")
}

func (g *GSettingsStore) Get(key Key) (any, error) {
	kind, err := key.Kind()
	if err != nil {
		return nil, err
	}
	schema, name := schemaKey(key)
	out, err := g.run("get", schema, name)
	if err != nil {
		return nil, err
	}
	return parseGVariant(kind, out)
}

func (g *GSettingsStore) Set(key Key, value any) error {
	if err := CheckValue(key, value); err != nil {
		return err
	}
	text, err := formatGVariant(value)
	if err != nil {
		return err
	}
	schema, name := schemaKey(key)
	_, err = g.run("set", schema, name, text)
	return err
}

func (g *GSettingsStore) Reset(key Key) error {
	if _, err := key.Kind(); err != nil {
		return err
	}
	schema, name := schemaKey(key)
	_, err := g.run("reset", schema, name)
	return err
}

// Default returns the schema default. gsettings has no command that reads
// a default without resetting the key, so the values shipped by
// gsettings-desktop-schemas are used.
func (g *GSettingsStore) Default(key Key) (any, error) {
	return DefaultValue(key)
}

// Subscribe registers fn for changes of key. The dconf watch starts with
// the first subscription.
func (g *GSettingsStore) Subscribe(key Key, fn func()) (func(), error) {
	if _, err := key.Kind(); err != nil {
		return nil, err
	}
	if err := g.startWatch(); err != nil {
		return nil, err
	}
	return g.subscribe(key, fn), nil
}

func (g *GSettingsStore) startWatch() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stop != nil {
		return nil
	}
	paths := make(map[string]Key, len(specs))
	for k := range specs {
		paths[DconfPath(k)] = k
	}
	stop, err := g.watch(func(path string) {
		for p, k := range paths {
			if p == path || (strings.HasSuffix(path, "/") && strings.HasPrefix(p, path)) {
				g.notify(k)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("watching dconf: %w", err)
	}
	g.stop = stop
	return nil
}

func (g *GSettingsStore) Close() error {
	g.clear()
	g.mu.Lock()
	stop := g.stop
	g.stop = nil
	g.mu.Unlock()
	if stop != nil {
		stop()
	}
	return nil
}

const (
	dconfInterface = "ca.desrt.dconf.Writer"
	dconfNotify    = dconfInterface + ".Notify"
)

// WatchDconf subscribes to ca.desrt.dconf.Writer.Notify on the session bus
// and reports every changed path.
func WatchDconf(onChange func(path string)) (func(), error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(dconfInterface),
		dbus.WithMatchMember("Notify"),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribing to dconf notifications: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				for _, path := range notifyPaths(sig) {
					onChange(path)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			conn.RemoveSignal(signals)
			if err := conn.Close(); err != nil {
				logger.Log.Debugf("closing session bus: %v", err)
			}
		})
	}, nil
}

// notifyPaths expands a dconf Notify signal (prefix, changes, tag) into
// full paths. A change list of [""] means the prefix itself changed.
func notifyPaths(sig *dbus.Signal) []string {
	if sig == nil || sig.Name != dconfNotify || len(sig.Body) < 2 {
		return nil
	}
	prefix, ok := sig.Body[0].(string)
	if !ok {
		return nil
	}
	changes, ok := sig.Body[1].([]string)
	if !ok || len(changes) == 0 {
		return []string{prefix}
	}
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, prefix+c)
	}
	return paths
}
