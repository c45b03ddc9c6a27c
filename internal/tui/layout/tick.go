package layout

import (
	"time"

	"github.com/theirongolddev/mvtime/internal/track"
)

// Tick updates local time, active range and bar geometry of every visible row
// for instant now. It is a no-op while the dashboard is not renderable.
func (e *Engine) Tick(now time.Time) {
	if !e.renderable {
		return
	}
	e.second = now.UTC().Second()

	for i := range e.lines {
		line := &e.lines[i]
		t := e.cfg.Tracks[i]

		line.Local = t.LocalTime(now)
		minutes := line.Local.Minutes()
		line.Range = t.ActiveRange(minutes)

		left := line.Clock.Left() - line.Chart.Left()
		width := barWidth(minutes, left)
		line.LeftBar.Width = width
		line.LeftBar.X = line.Clock.Left() - width

		right := line.Chart.Right() - line.Clock.Right()
		line.RightBar.Width = barWidth(track.MinutesPerDay-minutes, right)
		line.RightBar.X = line.Clock.Right()
	}
}

// barWidth scales minutes onto a region of cells, rounding half up. Bars are
// never narrower than one cell so both sides stay visible at midnight.
func barWidth(minutes, region int) int {
	w := (2*minutes*region + track.MinutesPerDay) / (2 * track.MinutesPerDay)
	return max(w, 1)
}
