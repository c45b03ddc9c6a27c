// Package icons holds the glyphs used to draw dashboard rows.
package icons

import (
	"os"
	"strings"
)

// Glyphs are the single-cell symbols of a row.
type Glyphs struct {
	BadgeThin  string // badge while a base-coloured range is active
	BadgeThick string // badge while a coloured range is active
	Bar        string // bar cells
	Notch      string // first and last bar cell
}

// Unicode uses block and box drawing characters.
var Unicode = Glyphs{
	BadgeThin:  "▁",
	BadgeThick: "▂",
	Bar:        "─",
	Notch:      "━",
}

// ASCII works on any terminal.
var ASCII = Glyphs{
	BadgeThin:  "_",
	BadgeThick: "=",
	Bar:        "-",
	Notch:      "=",
}

// HasUnicode detects if the terminal supports Unicode
func HasUnicode() bool {
	for _, v := range []string{os.Getenv("LC_ALL"), os.Getenv("LC_CTYPE"), os.Getenv("LANG")} {
		if v == "" {
			continue
		}
		v = strings.ToLower(v)
		return strings.Contains(v, "utf")
	}
	// Most modern terminals support Unicode
	return os.Getenv("TERM") != "linux"
}

// Detect returns the glyph set for the current terminal. MVTIME_GLYPHS
// ("unicode" or "ascii") overrides detection.
func Detect() Glyphs {
	switch strings.ToLower(os.Getenv("MVTIME_GLYPHS")) {
	case "unicode":
		return Unicode
	case "ascii":
		return ASCII
	}
	if HasUnicode() {
		return Unicode
	}
	return ASCII
}
