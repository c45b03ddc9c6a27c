package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/theirongolddev/mvtime/internal/tui/icons"
	"github.com/theirongolddev/mvtime/internal/tui/layout"
)

type slot struct {
	glyph string
	style Style
	cont  bool // second half of a wide glyph
}

// grid is a width x height screen of cells, blank by default.
type grid struct {
	width, height int
	slots         [][]slot
}

func newGrid(width, height int) *grid {
	g := &grid{width: width, height: height, slots: make([][]slot, height)}
	for y := range g.slots {
		row := make([]slot, width)
		for x := range row {
			row[x] = slot{glyph: " "}
		}
		g.slots[y] = row
	}
	return g
}

func (g *grid) set(c Cell) {
	if c.Y < 0 || c.Y >= g.height || c.X < 0 || c.X >= g.width {
		return
	}
	row := g.slots[c.Y]
	row[c.X] = slot{glyph: c.Glyph, style: c.Style}
	if runewidth.StringWidth(c.Glyph) == 2 && c.X+1 < g.width {
		row[c.X+1] = slot{style: c.Style, cont: true}
	}
}

// String serialises the grid, one styled run per group of equal styles.
func (g *grid) String(r *lipgloss.Renderer) string {
	lines := make([]string, g.height)
	for y, row := range g.slots {
		var b, run strings.Builder
		var cur Style
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(paint(r, cur, run.String()))
			run.Reset()
		}
		for x, s := range row {
			if s.cont {
				continue
			}
			if x > 0 && s.style != cur {
				flush()
			}
			cur = s.style
			run.WriteString(s.glyph)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func paint(r *lipgloss.Renderer, s Style, text string) string {
	if s == (Style{}) {
		return text
	}
	st := r.NewStyle().Bold(s.Bold).Blink(s.Blink)
	if s.FG != nil {
		st = st.Foreground(s.FG)
	}
	if s.BG != nil {
		st = st.Background(s.BG)
	}
	return st.Render(text)
}

// Frame paints the current state of e. A dashboard that does not fit shows a
// short notice instead, or nothing when even the notice does not fit.
func Frame(e *layout.Engine, g icons.Glyphs, r *lipgloss.Renderer) string {
	width, height := e.Size()
	if !e.Renderable() {
		return TooSmall(width, height, e.Metrics())
	}

	cfg := e.Config()
	screen := newGrid(width, height)
	for i, line := range e.Lines() {
		for _, c := range Row(line, cfg.Tracks[i], cfg.Colors, e.Second(), g) {
			screen.set(c)
		}
	}
	return screen.String(r)
}

// TooSmall returns the notice for a terminal below the minimum size.
func TooSmall(width, height int, m layout.Metrics) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	msg := fmt.Sprintf("terminal too small: need %dx%d, have %dx%d", m.MinWidth, m.MinHeight, width, height)
	wrapped := wordwrap.String(msg, width)
	lines := strings.Split(wrapped, "\n")
	if len(lines) > height {
		return ""
	}
	for i, l := range lines {
		l = strings.TrimRight(l, " ")
		if runewidth.StringWidth(l) > width {
			return ""
		}
		lines[i] = l
	}
	return strings.Join(lines, "\n")
}
