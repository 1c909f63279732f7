package proxy

import (
	"strings"
	"unicode"
)

// ParseHosts splits a comma separated host list. All whitespace is removed
// from each entry and empty entries are dropped.
func ParseHosts(s string) []string {
	var hosts []string
	for _, part := range strings.Split(s, ",") {
		if h := stripSpace(part); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// JoinHosts renders a host list the way it is stored in the profiles file.
func JoinHosts(hosts []string) string {
	return strings.Join(hosts, ", ")
}

// HostsKey returns the whitespace-free, comma joined form used to compare
// host lists.
func HostsKey(hosts []string) string {
	parts := make([]string, 0, len(hosts))
	for _, h := range hosts {
		if h = stripSpace(h); h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, ",")
}

// HostsEqual reports whether two host lists are equal ignoring whitespace.
func HostsEqual(a, b []string) bool {
	return HostsKey(a) == HostsKey(b)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
