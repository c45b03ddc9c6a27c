// Package render turns dashboard geometry into terminal cells.
//
// Row produces an ordered list of cell directives for one track; Frame paints
// all rows of an engine onto a screen-sized grid and serialises it with
// lipgloss. Nothing here keeps state between frames.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/icons"
	"github.com/theirongolddev/mvtime/internal/tui/layout"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

// Style is the comparable subset of cell styling the dashboard uses.
// A nil colour means the terminal default.
type Style struct {
	FG    lipgloss.TerminalColor
	BG    lipgloss.TerminalColor
	Bold  bool
	Blink bool
}

// Cell is one drawing directive.
type Cell struct {
	X, Y  int
	Glyph string
	Style Style
}

// Row returns the directives for one visible line of track t, in paint order:
// badge, title, clock, bars.
func Row(line layout.Line, t track.Track, colors track.Palette, second int, g icons.Glyphs) []Cell {
	var cells []Cell
	if t.ShowBadge {
		cells = append(cells, badge(line, t, colors, g)...)
	}
	cells = append(cells, title(line, colors)...)
	cells = append(cells, clock(line, t, colors, second)...)
	cells = append(cells, bars(line, t, g)...)
	return cells
}

func badge(line layout.Line, t track.Track, colors track.Palette, g icons.Glyphs) []Cell {
	rc := t.Ranges[line.Range].Color
	symbol := g.BadgeThick
	if theme.Same(rc, colors.Base) {
		symbol = g.BadgeThin
	}
	style := Style{FG: theme.Resolve(rc)}

	cells := make([]Cell, 0, line.Badge.Width)
	for x := line.Badge.Left(); x < line.Badge.Right(); x++ {
		cells = append(cells, Cell{X: x, Y: line.Badge.Y, Glyph: symbol, Style: style})
	}
	return cells
}

func title(line layout.Line, colors track.Palette) []Cell {
	style := Style{FG: theme.Resolve(colors.Title), Bold: true}
	var cells []Cell
	x := line.Title.Left()
	for _, r := range line.Text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > line.Title.Right() {
			break
		}
		cells = append(cells, Cell{X: x, Y: line.Title.Y, Glyph: string(r), Style: style})
		x += w
	}
	return cells
}

// ClockText formats the clock label: " hh:mm " or " hh:mm:ss ".
func ClockText(local track.TimeOfDay, second int, seconds bool) string {
	if seconds {
		return fmt.Sprintf(" %02d:%02d:%02d ", local.Hour, local.Minute, second)
	}
	return fmt.Sprintf(" %02d:%02d ", local.Hour, local.Minute)
}

// ClockStyle applies the active range's flags to the clock colours.
func ClockStyle(rc track.Color, flags track.ClockStyle, colors track.Palette) Style {
	var fg, bg track.Color
	switch {
	case flags.UseRangeColor && flags.Fill:
		fg, bg = colors.FillFG, rc
	case flags.UseRangeColor:
		fg, bg = rc, theme.Reset
	case flags.Fill:
		fg, bg = colors.FillFG, colors.Base
	default:
		fg, bg = colors.Clock, theme.Reset
	}
	return Style{FG: theme.Resolve(fg), BG: theme.Resolve(bg), Bold: true}
}

func clock(line layout.Line, t track.Track, colors track.Palette, second int) []Cell {
	r := t.Ranges[line.Range]
	flags := r.Style(t.Label)
	style := ClockStyle(r.Color, flags, colors)
	text := ClockText(line.Local, second, t.Label.Seconds)

	cells := make([]Cell, 0, len(text))
	for i, ch := range text {
		x := line.Clock.Left() + i
		if x >= line.Clock.Right() {
			break
		}
		s := style
		// only the separators blink
		s.Blink = flags.Blink && ch == ':'
		cells = append(cells, Cell{X: x, Y: line.Clock.Y, Glyph: string(ch), Style: s})
	}
	return cells
}

// bars colours the elapsed and remaining bars as one continuous day axis:
// cell i of the combined bars shows the range active at PointToTime(i).
func bars(line layout.Line, t track.Track, g icons.Glyphs) []Cell {
	total := line.LeftBar.Width + line.RightBar.Width
	if total == 0 {
		return nil
	}

	cells := make([]Cell, 0, total)
	add := func(x, i int) {
		r := t.Ranges[t.ActiveRange(track.PointToTime(i, total))]
		cells = append(cells, Cell{X: x, Y: line.LeftBar.Y, Glyph: g.Bar, Style: Style{FG: theme.Resolve(r.Color)}})
	}
	i := 0
	for x := line.LeftBar.Left(); x < line.LeftBar.Right(); x++ {
		add(x, i)
		i++
	}
	for x := line.RightBar.Left(); x < line.RightBar.Right(); x++ {
		add(x, i)
		i++
	}

	first, last := t.Ranges[0], t.Ranges[len(t.Ranges)-1]
	cells[0].Glyph = g.Notch
	cells[0].Style = Style{FG: theme.Resolve(first.Color)}
	cells[len(cells)-1].Glyph = g.Notch
	cells[len(cells)-1].Style = Style{FG: theme.Resolve(last.Color)}
	return cells
}
