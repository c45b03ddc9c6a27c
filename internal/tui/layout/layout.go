// Package layout computes the dashboard geometry: which tracks fit on screen,
// the badge/title/chart/clock cells of every row, and the elapsed/remaining
// bars around each clock.
//
// The engine is not safe for concurrent use. Callers serialise Resize and
// Tick, and must Resize before the first Tick for a given terminal size.
package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/theirongolddev/mvtime/internal/track"
)

// Clock column widths: " hh:mm " and " hh:mm:ss ".
const (
	ClockWidth        = 7
	SecondsClockWidth = 10
)

// Fixed cells around the title and chart.
const (
	badgeWidth   = 1
	gapWidth     = 1
	marginWidth  = 2 // right side
	marginHeight = 2 // top and bottom
	minRows      = 1
	// wide titles need more than this many title widths of screen
	wideTitleRatio = 4
)

// Metrics is the per-config sizing information, derived once at load.
type Metrics struct {
	MinTitle   int // widest shortname + badge + gap
	MaxTitle   int // widest name + badge + gap
	ClockWidth int // SecondsClockWidth when any track shows seconds
	MinChart   int // narrowest chart keeping a bar cell on both sides of every clock
	MinWidth   int
	MinHeight  int
}

// Measure derives Metrics from normalized tracks.
func Measure(tracks []track.Track) Metrics {
	m := Metrics{ClockWidth: ClockWidth}
	for _, t := range tracks {
		m.MaxTitle = max(m.MaxTitle, runewidth.StringWidth(t.Name)+badgeWidth+gapWidth)
		m.MinTitle = max(m.MinTitle, runewidth.StringWidth(t.Shortname)+badgeWidth+gapWidth)
		if t.Label.Seconds {
			m.ClockWidth = SecondsClockWidth
		}
	}
	// The clock column is centred for ClockWidth cells; a seconds clock
	// spills its extra cells into the right half.
	m.MinChart = ClockWidth + 2*(m.ClockWidth-ClockWidth+1)
	m.MinWidth = badgeWidth + 2*gapWidth + m.MinTitle + m.MinChart + marginWidth
	m.MinHeight = minRows + marginHeight
	return m
}

// Line is the geometry and time state of one visible row. Structural fields
// are set by Resize, the bars and time fields by Tick.
type Line struct {
	Badge    Rect
	Title    Rect
	Chart    Rect
	Clock    Rect
	LeftBar  Rect // elapsed part of the day, ends at Clock.Left()
	RightBar Rect // remaining part of the day, starts at Clock.Right()

	Range int             // index of the active range in the track
	Local track.TimeOfDay // track-local wall clock
	Text  string          // name or shortname, chosen for the whole board
}

// Engine owns the geometry of one configuration.
type Engine struct {
	cfg     track.Config
	metrics Metrics

	width, height int
	renderable    bool
	wide          bool
	lines         []Line
	second        int
}

// New creates an engine for a normalized config. Nothing is renderable until
// the first Resize.
func New(cfg track.Config) *Engine {
	return &Engine{
		cfg:     cfg,
		metrics: Measure(cfg.Tracks),
	}
}

// Resize recomputes all row geometry for a width x height terminal and
// reports whether the dashboard fits. Previous geometry is always discarded.
func (e *Engine) Resize(width, height int) bool {
	e.width, e.height = width, height
	e.lines = nil
	e.wide = false

	if width < e.metrics.MinWidth || height < e.metrics.MinHeight {
		e.renderable = false
		return false
	}
	e.renderable = true

	inner := Rect{X: 0, Y: 1, Width: width - marginWidth, Height: height - marginHeight}

	titleWidth := e.metrics.MinTitle
	if inner.Width > wideTitleRatio*e.metrics.MaxTitle && chartWidth(inner.Width, e.metrics.MaxTitle) >= e.metrics.MinChart {
		e.wide = true
		titleWidth = e.metrics.MaxTitle
	}

	// The chart is split around the odd 7-cell clock column, so it has to be
	// odd as well; borrow one margin column when it is not.
	if chartWidth(inner.Width, titleWidth) != inner.Width-badgeWidth-2*gapWidth-titleWidth {
		inner.Width++
	}

	badges := Rect{X: inner.X, Y: inner.Y, Width: badgeWidth, Height: inner.Height}
	titles := Rect{X: badges.Right() + gapWidth, Y: inner.Y, Width: titleWidth, Height: inner.Height}
	charts := Rect{X: titles.Right() + gapWidth, Y: inner.Y, Height: inner.Height}
	charts.Width = inner.Right() - charts.X

	clocks := charts
	clocks.Width = ClockWidth
	clocks.X += (charts.Width - ClockWidth) / 2

	visible := min(inner.Height, len(e.cfg.Tracks))
	e.lines = make([]Line, visible)
	for i := range e.lines {
		t := e.cfg.Tracks[i]
		row := Rect{X: inner.X, Y: inner.Y + i, Width: inner.Width, Height: 1}

		clock := clocks.Intersect(row)
		if t.Label.Seconds {
			clock.Width = SecondsClockWidth
		}

		text := t.Shortname
		if e.wide {
			text = t.Name
		}

		e.lines[i] = Line{
			Badge:    badges.Intersect(row),
			Title:    titles.Intersect(row),
			Chart:    charts.Intersect(row),
			Clock:    clock,
			LeftBar:  Rect{Y: row.Y, Height: 1},
			RightBar: Rect{X: clock.Right(), Y: row.Y, Height: 1},
			Text:     text,
		}
	}
	return true
}

// chartWidth is the chart width left of an inner width after the badge and
// title columns, including the borrowed parity column.
func chartWidth(innerWidth, titleWidth int) int {
	w := innerWidth - badgeWidth - 2*gapWidth - titleWidth
	if w%2 == 0 {
		w++
	}
	return w
}

// Renderable reports whether the last Resize fit the dashboard.
func (e *Engine) Renderable() bool { return e.renderable }

// Size returns the terminal size of the last Resize.
func (e *Engine) Size() (width, height int) { return e.width, e.height }

// Metrics returns the sizing derived from the config.
func (e *Engine) Metrics() Metrics { return e.metrics }

// Config returns the normalized config the engine was built from.
func (e *Engine) Config() track.Config { return e.cfg }

// Wide reports whether rows show full names instead of shortnames.
func (e *Engine) Wide() bool { return e.wide }

// Lines returns the visible rows; row i belongs to Config().Tracks[i].
func (e *Engine) Lines() []Line { return e.lines }

// Second returns the wall-clock second of the last Tick, shared by all rows.
func (e *Engine) Second() int { return e.second }
