package track

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxNameLength bounds name and shortname, in display cells.
const MaxNameLength = 65535

// Offset is a fixed UTC offset. Minutes follow the sign of Hours; when Hours
// is zero the sign of Minutes is used as is.
type Offset struct {
	Hours   int
	Minutes int
}

// Duration returns the signed offset.
func (o Offset) Duration() time.Duration {
	minutes := o.Minutes
	switch {
	case o.Hours < 0:
		minutes = -abs(minutes)
	case o.Hours > 0:
		minutes = abs(minutes)
	}
	return time.Duration(o.Hours)*time.Hour + time.Duration(minutes)*time.Minute
}

func (o Offset) String() string {
	d := o.Duration()
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	total := int(d / time.Minute)
	return fmt.Sprintf("%c%02d:%02d", sign, total/60, total%60)
}

// MarshalText implements encoding.TextMarshaler.
func (o Offset) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses "+HH:MM", "-HH:MM", "HH:MM" or "-HH". The sign applies
// to both components. Bounds are checked by Normalize.
func (o *Offset) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		return fmt.Errorf("empty offset")
	}
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	h, m, hasMinutes := strings.Cut(s, ":")
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return fmt.Errorf("invalid offset hours in %q", string(text))
	}
	minutes := 0
	if hasMinutes {
		minutes, err = strconv.Atoi(m)
		if err != nil || minutes < 0 {
			return fmt.Errorf("invalid offset minutes in %q", string(text))
		}
	}
	o.Hours, o.Minutes = sign*hours, sign*minutes
	return nil
}

func (o Offset) inBounds() bool {
	return abs(o.Hours) <= 23 && abs(o.Minutes) <= 59
}

// Label holds a track's clock display defaults. Range flags override them.
type Label struct {
	Seconds       bool `toml:"seconds" yaml:"seconds"`
	Blink         bool `toml:"blink" yaml:"blink"`
	Fill          bool `toml:"fill" yaml:"fill"`
	UseRangeColor bool `toml:"use_range_color" yaml:"use_range_color"`
}

// Track is one timezone row of the dashboard.
type Track struct {
	Name      string  `toml:"name" yaml:"name"`
	Shortname string  `toml:"shortname" yaml:"shortname"`
	Offset    Offset  `toml:"offset" yaml:"offset"`
	ShowBadge bool    `toml:"show_badge" yaml:"show_badge"`
	Label     Label   `toml:"time_label" yaml:"time_label"`
	Ranges    []Range `toml:"ranges" yaml:"ranges"`
}

// Title returns the name used in messages.
func (t Track) Title() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Shortname
}

// LocalTime returns the wall-clock time of the track at instant now.
func (t Track) LocalTime(now time.Time) TimeOfDay {
	local := now.UTC().Add(t.Offset.Duration())
	return TimeOfDay{Hour: local.Hour(), Minute: local.Minute()}
}

// ActiveRange returns the index of the range containing minute.
// On a normalized track this cannot fail; a miss panics.
func (t Track) ActiveRange(minute int) int {
	idx, ok := TimeToRange(minute, t.Ranges)
	if !ok {
		panic(fmt.Sprintf("track %q: no range covers minute %d", t.Title(), minute))
	}
	return idx
}

func (t Track) clone() Track {
	out := t
	out.Ranges = make([]Range, len(t.Ranges))
	for i, r := range t.Ranges {
		out.Ranges[i] = r.clone()
	}
	return out
}

// Config is the dashboard configuration: colours plus the ordered tracks.
type Config struct {
	Colors Palette `toml:"colors" yaml:"colors"`
	Tracks []Track `toml:"tracks" yaml:"tracks"`
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
