package profiles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/massamany/proxyprofiles/internal/proxy"
)

// Document represents the profiles file: ordered profiles plus display
// and behavior preferences.
type Document struct {
	Profiles []proxy.Profile
	Preferences

	// extra keeps top-level keys this version does not know about.
	extra map[string]json.RawMessage
}

type wireDocument struct {
	Profiles []proxy.Profile `json:"profiles,omitempty"`
	Preferences
}

// documentKeys lists the top-level keys owned by Document.
var documentKeys = []string{
	"profiles",
	"iconProxyAuto", "iconProxyManual", "iconNoProxy",
	"showStatus", "showOpenSettingsFile", "showOpenNetworkSettings",
	"showProfilesAsSubMenu", "autoActivateModeOnApplyProfile", "activateDebugLogs",
}

// ParseDocument parses the profiles file. Empty input is an empty document.
func ParseDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return Document{}, fmt.Errorf("parsing profiles: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("parsing profiles: %w", err)
	}
	for _, k := range documentKeys {
		delete(raw, k)
	}
	doc := Document{Profiles: w.Profiles, Preferences: w.Preferences}
	if len(raw) > 0 {
		doc.extra = raw
	}
	return doc, nil
}

// MarshalDocument serializes a Document as indented JSON with a trailing
// newline. Unset preferences are omitted.
func MarshalDocument(doc Document) ([]byte, error) {
	w := wireDocument{Profiles: doc.Profiles, Preferences: doc.Preferences}
	var (
		data []byte
		err  error
	)
	if len(doc.extra) == 0 {
		data, err = json.MarshalIndent(w, "", "  ")
	} else {
		data, err = marshalMerged(w, doc.extra)
	}
	if err != nil {
		return nil, fmt.Errorf("marshaling profiles: %w", err)
	}
	return append(data, '\n'), nil
}

// marshalMerged writes known fields and unknown keys together. Keys come
// out sorted.
func marshalMerged(w wireDocument, extra map[string]json.RawMessage) ([]byte, error) {
	known, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	merged := maps.Clone(extra)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.MarshalIndent(merged, "", "  ")
}

// Clone returns a deep copy of doc.
func (doc Document) Clone() Document {
	c := Document{
		Preferences: doc.Preferences.clone(),
		extra:       maps.Clone(doc.extra),
	}
	if doc.Profiles != nil {
		c.Profiles = make([]proxy.Profile, len(doc.Profiles))
		for i, p := range doc.Profiles {
			c.Profiles[i] = p.Clone()
		}
	}
	return c
}

// Index returns the position of the profile called name, or -1.
func (doc Document) Index(name string) int {
	for i, p := range doc.Profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}
