package settings

import (
	"errors"
	"fmt"
	"slices"

	"github.com/massamany/proxyprofiles/internal/proxy"
)

// Kind is the value type of a settings key.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindStrings
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int32"
	case KindBool:
		return "bool"
	case KindStrings:
		return "string list"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Key names a live proxy setting, e.g. "mode" or "http.port".
type Key string

const (
	Mode                       Key = "mode"
	AutoconfigURL              Key = "autoconfig-url"
	IgnoreHosts                Key = "ignore-hosts"
	HTTPUseAuthentication      Key = "http.use-authentication"
	HTTPAuthenticationUser     Key = "http.authentication-user"
	HTTPAuthenticationPassword Key = "http.authentication-password"
)

// HostKey returns the host key of protocol p.
func HostKey(p proxy.Protocol) Key { return Key(string(p) + ".host") }

// PortKey returns the port key of protocol p.
func PortKey(p proxy.Protocol) Key { return Key(string(p) + ".port") }

var (
	ErrUnknownKey   = errors.New("unknown settings key")
	ErrTypeMismatch = errors.New("settings value has wrong type")
)

type keySpec struct {
	kind Kind
	def  any
}

// specs holds every key with the defaults of the org.gnome.system.proxy
// schemas.
var specs = map[Key]keySpec{
	Mode:                       {KindString, string(proxy.ModeNone)},
	AutoconfigURL:              {KindString, ""},
	IgnoreHosts:                {KindStrings, []string{"localhost", "127.0.0.0/8", "::1"}},
	HTTPUseAuthentication:      {KindBool, false},
	HTTPAuthenticationUser:     {KindString, ""},
	HTTPAuthenticationPassword: {KindString, ""},
	HostKey(proxy.HTTP):        {KindString, ""},
	PortKey(proxy.HTTP):        {KindInt, int32(8080)},
	HostKey(proxy.HTTPS):       {KindString, ""},
	PortKey(proxy.HTTPS):       {KindInt, int32(0)},
	HostKey(proxy.FTP):         {KindString, ""},
	PortKey(proxy.FTP):         {KindInt, int32(0)},
	HostKey(proxy.SOCKS):       {KindString, ""},
	PortKey(proxy.SOCKS):       {KindInt, int32(0)},
}

// Keys returns all known keys in a stable order.
func Keys() []Key {
	keys := make([]Key, 0, len(specs))
	for k := range specs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Kind returns the value type of k.
func (k Key) Kind() (Kind, error) {
	spec, ok := specs[k]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKey, string(k))
	}
	return spec.kind, nil
}

// DefaultValue returns the schema default of k. Slices are copied.
func DefaultValue(k Key) (any, error) {
	spec, ok := specs[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, string(k))
	}
	return copyValue(spec.def), nil
}

// CheckValue verifies that v has the Go type expected for k:
// string, int32, bool or []string.
func CheckValue(k Key, v any) error {
	kind, err := k.Kind()
	if err != nil {
		return err
	}
	ok := false
	switch kind {
	case KindString:
		_, ok = v.(string)
	case KindInt:
		_, ok = v.(int32)
	case KindBool:
		_, ok = v.(bool)
	case KindStrings:
		_, ok = v.([]string)
	}
	if !ok {
		return fmt.Errorf("%w: %s expects %s, got %T", ErrTypeMismatch, k, kind, v)
	}
	return nil
}

func copyValue(v any) any {
	if s, ok := v.([]string); ok {
		return slices.Clone(s)
	}
	return v
}

func valuesEqual(a, b any) bool {
	as, aok := a.([]string)
	bs, bok := b.([]string)
	if aok || bok {
		return aok && bok && slices.Equal(as, bs)
	}
	return a == b
}
