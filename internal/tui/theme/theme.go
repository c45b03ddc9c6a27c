// Package theme turns config colour names into terminal colours and decides
// how much colour the output can carry.
package theme

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/mvtime/internal/track"
)

// ErrUnknownColor is returned by Parse for unrecognised colour specs.
var ErrUnknownColor = errors.New("unknown color")

// Reset is the terminal default colour.
const Reset track.Color = "reset"

// ansi maps colour names to the 16 base ANSI colours.
var ansi = map[string]lipgloss.Color{
	"black":        "0",
	"red":          "1",
	"green":        "2",
	"yellow":       "3",
	"blue":         "4",
	"magenta":      "5",
	"cyan":         "6",
	"gray":         "7",
	"grey":         "7",
	"darkgray":     "8",
	"darkgrey":     "8",
	"lightred":     "9",
	"lightgreen":   "10",
	"lightyellow":  "11",
	"lightblue":    "12",
	"lightmagenta": "13",
	"lightcyan":    "14",
	"white":        "15",
}

// Names lists the accepted colour names, for help output.
func Names() []string {
	return []string{
		"reset", "black", "red", "green", "yellow", "blue", "magenta", "cyan",
		"gray", "darkgray", "lightred", "lightgreen", "lightyellow", "lightblue",
		"lightmagenta", "lightcyan", "white",
	}
}

// canonical lowercases a name and drops separators, so "DarkGray",
// "dark_gray" and "dark-gray" are the same colour.
func canonical(spec track.Color) string {
	s := strings.ToLower(strings.TrimSpace(string(spec)))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// Parse resolves a colour spec: an ANSI name, "reset", a 256-colour index or
// a #rgb/#rrggbb hex value.
func Parse(spec track.Color) (lipgloss.TerminalColor, error) {
	s := canonical(spec)
	switch {
	case s == "reset" || s == "default":
		return lipgloss.NoColor{}, nil
	case strings.HasPrefix(s, "#"):
		if !isHex(s[1:]) || (len(s) != 4 && len(s) != 7) {
			return nil, fmt.Errorf("%w %q: hex colors are #rgb or #rrggbb", ErrUnknownColor, string(spec))
		}
		return lipgloss.Color(s), nil
	}
	if c, ok := ansi[s]; ok {
		return c, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("%w %q: color index must be within 0..255", ErrUnknownColor, string(spec))
		}
		return lipgloss.Color(s), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownColor, string(spec))
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return s != ""
}

// Resolve is Parse for already validated specs. Invalid specs and NO_COLOR
// both resolve to the terminal default.
func Resolve(spec track.Color) lipgloss.TerminalColor {
	if NoColorEnabled() {
		return lipgloss.NoColor{}
	}
	c, err := Parse(spec)
	if err != nil {
		return lipgloss.NoColor{}
	}
	return c
}

// Same reports whether two specs name the same colour.
func Same(a, b track.Color) bool {
	ca, errA := Parse(a)
	cb, errB := Parse(b)
	if errA != nil || errB != nil {
		return canonical(a) == canonical(b)
	}
	return ca == cb
}

// NoColorEnabled returns true if color output should be disabled.
// Respects the NO_COLOR standard (https://no-color.org/):
// - If NO_COLOR exists in environment (any value), colors are disabled
// - MVTIME_NO_COLOR=1 also disables colors
// - MVTIME_NO_COLOR=0 forces colors ON (overrides NO_COLOR)
func NoColorEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("MVTIME_NO_COLOR"))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	_, noColorSet := os.LookupEnv("NO_COLOR")
	return noColorSet
}

// Profile returns the colour profile to use when writing to w. Anything that
// is not a terminal gets plain text.
func Profile(w io.Writer) termenv.Profile {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return termenv.Ascii
	}
	if NoColorEnabled() {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

// NewRenderer returns a lipgloss renderer bound to w with Profile(w).
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(Profile(w))
	return r
}
