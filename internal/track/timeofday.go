// Package track holds the time-of-day model of a tracked timezone: clock
// times, labelled day ranges, and the validation that turns user-declared
// ranges into a total partition of the day.
package track

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the length of the modelled day. It is also the "24:00"
// end-of-day sentinel, which is distinct from 00:00.
const MinutesPerDay = 24 * 60

// TimeOfDay is a raw hour/minute pair. Components are not range checked on
// construction; Normalize rejects out of domain values.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// Clock builds a TimeOfDay.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// FromMinutes converts minutes since midnight back into hour and minute.
// FromMinutes(MinutesPerDay) yields 24:00.
func FromMinutes(minutes int) TimeOfDay {
	return TimeOfDay{Hour: minutes / 60, Minute: minutes % 60}
}

// Minutes returns hour*60 + minute.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// encoded is the HHMM form used for bounds checks, e.g. 24:30 -> 2430.
func (t TimeOfDay) encoded() int {
	return t.Hour*100 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses "HH:MM". Only the syntax is checked here.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 {
		return fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 {
		return fmt.Errorf("invalid minute in %q", s)
	}
	t.Hour, t.Minute = hour, minute
	return nil
}

// PointToTime maps column idx of a width-column axis onto minutes of the day,
// rounding half up. PointToTime(0, w) == 0 and PointToTime(w, w) ==
// MinutesPerDay. A non-positive width is a caller bug and panics.
func PointToTime(idx, width int) int {
	if width <= 0 {
		panic(fmt.Sprintf("track: PointToTime with width %d", width))
	}
	return (2*idx*MinutesPerDay + width) / (2 * width)
}

// TimeToRange returns the index of the range whose half-open interval
// [start, end) contains minute. It reports false when no range does, which
// for a normalized track only happens for minute >= MinutesPerDay.
func TimeToRange(minute int, ranges []Range) (int, bool) {
	for i, r := range ranges {
		if minute >= r.Start.Minutes() && minute < r.End.Minutes() {
			return i, true
		}
	}
	return 0, false
}
