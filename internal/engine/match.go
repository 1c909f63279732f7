package engine

import (
	"github.com/massamany/proxyprofiles/internal/proxy"
)

// normalizer puts profiles into a canonical form before comparison.
// Values the settings backend cannot tell apart compare equal: a port
// equal to its default is the same as no port, and an ignore list equal
// to the default list is the same as no list. Ignored hosts are compared
// with whitespace removed.
type normalizer struct {
	defaultPorts   map[proxy.Protocol]int
	defaultIgnored string
}

func (e *Engine) normalizer() (normalizer, error) {
	n := normalizer{defaultPorts: map[proxy.Protocol]int{}}
	for _, p := range proxy.Protocols {
		port, err := e.settings.DefaultPort(p)
		if err != nil {
			return normalizer{}, err
		}
		n.defaultPorts[p] = port
	}
	hosts, err := e.settings.DefaultIgnoredHosts()
	if err != nil {
		return normalizer{}, err
	}
	n.defaultIgnored = proxy.HostsKey(hosts)
	return n, nil
}

type canonicalManual struct {
	endpoints [4]proxy.Endpoint
	ignored   string
	auth      proxy.Auth
}

func (n normalizer) manual(m *proxy.Manual) canonicalManual {
	var c canonicalManual
	for i, p := range proxy.Protocols {
		ep := m.Endpoint(p)
		if ep.Port == n.defaultPorts[p] {
			ep.Port = 0
		}
		c.endpoints[i] = ep
	}
	c.ignored = proxy.HostsKey(m.Ignored)
	if c.ignored == n.defaultIgnored {
		c.ignored = ""
	}
	c.auth = m.Auth
	return c
}

// equal compares every field of the candidate's mode. Live credentials
// only count when the candidate sets some.
func (n normalizer) equal(candidate, live proxy.Profile) bool {
	if candidate.Mode() != live.Mode() {
		return false
	}
	switch c := candidate.Config.(type) {
	case *proxy.Manual:
		l, _ := live.Manual()
		want, got := n.manual(c), n.manual(l)
		if c.Auth == (proxy.Auth{}) {
			got.auth = proxy.Auth{}
		}
		return want == got
	case *proxy.Auto:
		l, _ := live.Auto()
		return c.ConfigURL == l.ConfigURL
	}
	return false
}
