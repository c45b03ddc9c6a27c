package track

import (
	"cmp"
	"slices"

	"github.com/mattn/go-runewidth"
)

// Normalize validates cfg and returns a copy in which every track has a
// backfilled name/shortname and ranges forming a sorted, total partition of
// [00:00, 24:00), and tracks are ordered by UTC offset. cfg itself is never
// modified, so a failed reload leaves the running config untouched.
func Normalize(cfg Config) (Config, error) {
	if len(cfg.Tracks) == 0 {
		return Config{}, &ValidationError{
			Index:  -1,
			Kind:   ErrStructure,
			Detail: "no tracks defined; define at least one [[tracks]] entry",
		}
	}

	out := Config{
		Colors: cfg.Colors.WithDefaults(),
		Tracks: make([]Track, len(cfg.Tracks)),
	}
	for i, t := range cfg.Tracks {
		nt, err := NormalizeTrack(i, t, out.Colors)
		if err != nil {
			return Config{}, err
		}
		out.Tracks[i] = nt
	}

	slices.SortStableFunc(out.Tracks, func(a, b Track) int {
		return cmp.Compare(a.Offset.Duration(), b.Offset.Duration())
	})
	return out, nil
}

// NormalizeTrack validates a single track (idx is its config position, used
// in errors) and returns a normalized copy.
func NormalizeTrack(idx int, t Track, palette Palette) (Track, error) {
	t = t.clone()

	switch {
	case t.Name == "" && t.Shortname == "":
		return Track{}, invalid(idx, t, ErrStructure, "specify at least one of 'name' or 'shortname'")
	case runewidth.StringWidth(t.Name) > MaxNameLength || runewidth.StringWidth(t.Shortname) > MaxNameLength:
		return Track{}, invalid(idx, t, ErrStructure, "name is longer than %d characters", MaxNameLength)
	case t.Name == "":
		t.Name = t.Shortname
	case t.Shortname == "":
		t.Shortname = t.Name
	}

	if !t.Offset.inBounds() {
		return Track{}, invalid(idx, t, ErrOffsetBounds,
			"offset %d:%d, valid values are -23..23 for hours and -59..59 for minutes",
			t.Offset.Hours, t.Offset.Minutes)
	}

	ranges, err := validateRanges(idx, t, t.Ranges)
	if err != nil {
		return Track{}, err
	}
	t.Ranges = FillGaps(ranges, palette.Base)
	return t, nil
}

// validateRanges checks bounds and ordering of every range, then sorts them
// by start and rejects overlaps. Contiguous ranges are allowed.
func validateRanges(idx int, t Track, ranges []Range) ([]Range, error) {
	for _, r := range ranges {
		if msg := checkBounds(r.Start); msg != "" {
			return nil, invalid(idx, t, ErrRangeBounds, "start %s: %s", r.Start, msg)
		}
		if msg := checkBounds(r.End); msg != "" {
			return nil, invalid(idx, t, ErrRangeBounds, "end %s: %s", r.End, msg)
		}
		if r.Start.Minutes() >= r.End.Minutes() {
			return nil, invalid(idx, t, ErrRangeOrdering,
				"range %s-%s: 'start' must be strictly before 'end'", r.Start, r.End)
		}
	}

	slices.SortStableFunc(ranges, func(a, b Range) int {
		return cmp.Compare(a.Start.Minutes(), b.Start.Minutes())
	})

	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if cur.Start.Minutes() < prev.End.Minutes() {
			return nil, invalid(idx, t, ErrRangeOverlap,
				"%s-%s overlaps %s-%s", prev.Start, prev.End, cur.Start, cur.End)
		}
	}
	return ranges, nil
}

func checkBounds(v TimeOfDay) string {
	switch {
	case v.Hour < 0 || v.Hour > 24:
		return "hour must be within 0..24"
	case v.Minute < 0 || v.Minute > 59:
		return "minute must be within 0..59"
	case v.encoded() > 2400:
		return "latest valid time is 24:00"
	}
	return ""
}

// FillGaps inserts base coloured ranges wherever sorted, non-overlapping
// ranges leave part of the day uncovered. An empty input yields a single
// whole-day range. Already total input is returned unchanged.
func FillGaps(ranges []Range, base Color) []Range {
	out := make([]Range, 0, 2*len(ranges)+1)
	covered := 0
	for _, r := range ranges {
		if start := r.Start.Minutes(); start > covered {
			out = append(out, NewRange(FromMinutes(covered), r.Start, base))
		}
		out = append(out, r)
		covered = r.End.Minutes()
	}
	if covered < MinutesPerDay {
		out = append(out, NewRange(FromMinutes(covered), FromMinutes(MinutesPerDay), base))
	}
	return out
}
