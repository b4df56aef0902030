// Package emoji maps :name: shortcodes to unicode glyphs.
//
// The table is an explicit value handed to the markup parser. A nil or empty
// table is valid and means shortcodes pass through untouched.
package emoji

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed emoji.yaml
var builtinData []byte

// Table maps shortcode names (without the surrounding colons) to glyphs.
type Table map[string]string

// Lookup returns the glyph for name and whether it is known.
func (t Table) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	glyph, ok := t[name]
	return glyph, ok
}

// Builtin returns the embedded default table.
func Builtin() Table {
	var t Table
	if err := yaml.Unmarshal(builtinData, &t); err != nil {
		// The embedded file ships with the binary; failing to parse it is a
		// build defect, not a runtime condition.
		panic(fmt.Sprintf("emoji: embedded table is invalid: %v", err))
	}
	return t
}

// Load reads a user table from path and merges it over the builtin table.
// User entries win on name collisions. A missing or unreadable file yields
// the builtin table alone; shortcode support degrades, it never fails.
func Load(path string) Table {
	base := Builtin()
	if path == "" {
		return base
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return base
	}
	var user Table
	if err := yaml.Unmarshal(data, &user); err != nil {
		return base
	}
	for name, glyph := range user {
		base[name] = glyph
	}
	return base
}
