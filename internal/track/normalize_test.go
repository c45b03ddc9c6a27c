package track

import (
	"errors"
	"strings"
	"testing"
)

func assertPartition(t *testing.T, ranges []Range) {
	t.Helper()
	if len(ranges) == 0 {
		t.Fatal("no ranges")
	}
	if ranges[0].Start.Minutes() != 0 {
		t.Errorf("first range starts at %v, want 00:00", ranges[0].Start)
	}
	if last := ranges[len(ranges)-1]; last.End.Minutes() != MinutesPerDay {
		t.Errorf("last range ends at %v, want 24:00", last.End)
	}
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Start != ranges[i-1].End {
			t.Errorf("range %d starts at %v, previous ends at %v", i, ranges[i].Start, ranges[i-1].End)
		}
	}
	for i, r := range ranges {
		if r.Span() <= 0 {
			t.Errorf("range %d has non-positive span %v-%v", i, r.Start, r.End)
		}
	}
	for m := 0; m < MinutesPerDay; m++ {
		if _, ok := TimeToRange(m, ranges); !ok {
			t.Fatalf("minute %d not covered", m)
		}
	}
}

func TestFillGaps(t *testing.T) {
	const base Color = "darkgray"
	tests := []struct {
		name  string
		in    []Range
		spans [][2]TimeOfDay
	}{
		{
			name:  "empty",
			in:    nil,
			spans: [][2]TimeOfDay{{Clock(0, 0), Clock(24, 0)}},
		},
		{
			name:  "full day untouched",
			in:    []Range{NewRange(Clock(0, 0), Clock(24, 0), "red")},
			spans: [][2]TimeOfDay{{Clock(0, 0), Clock(24, 0)}},
		},
		{
			name: "leading gap",
			in:   []Range{NewRange(Clock(12, 0), Clock(24, 0), "red")},
			spans: [][2]TimeOfDay{
				{Clock(0, 0), Clock(12, 0)},
				{Clock(12, 0), Clock(24, 0)},
			},
		},
		{
			name: "trailing gap",
			in:   []Range{NewRange(Clock(0, 0), Clock(12, 0), "red")},
			spans: [][2]TimeOfDay{
				{Clock(0, 0), Clock(12, 0)},
				{Clock(12, 0), Clock(24, 0)},
			},
		},
		{
			name: "middle gap",
			in: []Range{
				NewRange(Clock(0, 0), Clock(10, 0), "red"),
				NewRange(Clock(18, 0), Clock(24, 0), "blue"),
			},
			spans: [][2]TimeOfDay{
				{Clock(0, 0), Clock(10, 0)},
				{Clock(10, 0), Clock(18, 0)},
				{Clock(18, 0), Clock(24, 0)},
			},
		},
		{
			name: "contiguous then trailing gap",
			in: []Range{
				NewRange(Clock(0, 0), Clock(12, 0), "red"),
				NewRange(Clock(12, 0), Clock(18, 0), "blue"),
			},
			spans: [][2]TimeOfDay{
				{Clock(0, 0), Clock(12, 0)},
				{Clock(12, 0), Clock(18, 0)},
				{Clock(18, 0), Clock(24, 0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FillGaps(tt.in, base)
			if len(got) != len(tt.spans) {
				t.Fatalf("FillGaps returned %d ranges, want %d: %+v", len(got), len(tt.spans), got)
			}
			for i, span := range tt.spans {
				if got[i].Start != span[0] || got[i].End != span[1] {
					t.Errorf("range %d = %v-%v, want %v-%v", i, got[i].Start, got[i].End, span[0], span[1])
				}
			}
			assertPartition(t, got)
		})
	}
}

func TestFillGapsColors(t *testing.T) {
	got := FillGaps([]Range{NewRange(Clock(12, 0), Clock(24, 0), "red")}, "darkgray")
	if got[0].Color != "darkgray" {
		t.Errorf("synthetic range color = %q, want darkgray", got[0].Color)
	}
	if got[0].Fill != nil || got[0].UseRangeColor != nil || got[0].Blink != nil {
		t.Error("synthetic range should not carry overrides")
	}
	if got[1].Color != "red" {
		t.Errorf("declared range color = %q, want red", got[1].Color)
	}
}

func TestFillGapsIdempotent(t *testing.T) {
	once := FillGaps([]Range{
		NewRange(Clock(3, 15), Clock(9, 0), "red"),
		NewRange(Clock(9, 0), Clock(17, 45), "green"),
		NewRange(Clock(20, 0), Clock(22, 0), "blue"),
	}, "darkgray")
	twice := FillGaps(once, "darkgray")
	if len(once) != len(twice) {
		t.Fatalf("second pass changed length %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Start != twice[i].Start || once[i].End != twice[i].End || once[i].Color != twice[i].Color {
			t.Errorf("range %d changed: %+v -> %+v", i, once[i], twice[i])
		}
	}
}

func TestNormalizeTrackErrors(t *testing.T) {
	tests := []struct {
		name  string
		track Track
		kind  error
	}{
		{
			name:  "no title",
			track: Track{},
			kind:  ErrStructure,
		},
		{
			name:  "name too long",
			track: Track{Name: strings.Repeat("x", MaxNameLength+1)},
			kind:  ErrStructure,
		},
		{
			name:  "offset hours",
			track: Track{Name: "x", Offset: Offset{24, 0}},
			kind:  ErrOffsetBounds,
		},
		{
			name:  "offset minutes",
			track: Track{Name: "x", Offset: Offset{-1, -60}},
			kind:  ErrOffsetBounds,
		},
		{
			name:  "hour above 24",
			track: Track{Name: "x", Ranges: []Range{NewRange(Clock(1, 0), Clock(25, 0), "red")}},
			kind:  ErrRangeBounds,
		},
		{
			name:  "minute above 59",
			track: Track{Name: "x", Ranges: []Range{NewRange(Clock(1, 60), Clock(3, 0), "red")}},
			kind:  ErrRangeBounds,
		},
		{
			name:  "past 24:00",
			track: Track{Name: "x", Ranges: []Range{NewRange(Clock(1, 0), Clock(24, 30), "red")}},
			kind:  ErrRangeBounds,
		},
		{
			name:  "start equals end",
			track: Track{Name: "x", Ranges: []Range{NewRange(Clock(5, 0), Clock(5, 0), "red")}},
			kind:  ErrRangeOrdering,
		},
		{
			name:  "start after end",
			track: Track{Name: "x", Ranges: []Range{NewRange(Clock(6, 0), Clock(5, 0), "red")}},
			kind:  ErrRangeOrdering,
		},
		{
			name: "overlap",
			track: Track{Name: "x", Ranges: []Range{
				NewRange(Clock(0, 0), Clock(12, 0), "red"),
				NewRange(Clock(11, 0), Clock(24, 0), "blue"),
			}},
			kind: ErrRangeOverlap,
		},
		{
			name: "overlap declared out of order",
			track: Track{Name: "x", Ranges: []Range{
				NewRange(Clock(11, 0), Clock(24, 0), "blue"),
				NewRange(Clock(0, 0), Clock(12, 0), "red"),
			}},
			kind: ErrRangeOverlap,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTrack(0, tt.track, DefaultPalette())
			if !errors.Is(err, tt.kind) {
				t.Fatalf("NormalizeTrack error = %v, want %v", err, tt.kind)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error %T is not a *ValidationError", err)
			}
			if verr.Index != 0 {
				t.Errorf("Index = %d, want 0", verr.Index)
			}
		})
	}
}

func TestNormalizeTrackBackfillsTitles(t *testing.T) {
	got, err := NormalizeTrack(0, Track{Shortname: "NYC"}, DefaultPalette())
	if err != nil {
		t.Fatalf("NormalizeTrack: %v", err)
	}
	if got.Name != "NYC" {
		t.Errorf("Name = %q, want NYC", got.Name)
	}

	got, err = NormalizeTrack(0, Track{Name: "London"}, DefaultPalette())
	if err != nil {
		t.Fatalf("NormalizeTrack: %v", err)
	}
	if got.Shortname != "London" {
		t.Errorf("Shortname = %q, want London", got.Shortname)
	}

	// a zero-width name is still a name
	got, err = NormalizeTrack(0, Track{Name: "\u200b", Shortname: "X"}, DefaultPalette())
	if err != nil {
		t.Fatalf("NormalizeTrack: %v", err)
	}
	if got.Name != "\u200b" || got.Shortname != "X" {
		t.Errorf("titles = %q/%q, want zero-width name kept", got.Name, got.Shortname)
	}
}

func TestNormalizeTrackSortsAndFills(t *testing.T) {
	in := Track{Name: "x", Ranges: []Range{
		NewRange(Clock(18, 0), Clock(24, 0), "blue"),
		NewRange(Clock(0, 0), Clock(10, 0), "red"),
	}}
	got, err := NormalizeTrack(0, in, Palette{Base: "gray"})
	if err != nil {
		t.Fatalf("NormalizeTrack: %v", err)
	}
	if len(got.Ranges) != 3 {
		t.Fatalf("got %d ranges, want 3", len(got.Ranges))
	}
	if got.Ranges[1].Start != Clock(10, 0) || got.Ranges[1].End != Clock(18, 0) || got.Ranges[1].Color != "gray" {
		t.Errorf("middle gap = %+v", got.Ranges[1])
	}
	assertPartition(t, got.Ranges)

	// input must not be reordered
	if in.Ranges[0].Start != Clock(18, 0) {
		t.Error("NormalizeTrack modified its input ranges")
	}
}

func TestNormalizeContiguousAllowed(t *testing.T) {
	in := Track{Name: "x", Ranges: []Range{
		NewRange(Clock(0, 0), Clock(8, 0), "red"),
		NewRange(Clock(8, 0), Clock(24, 0), "blue"),
	}}
	got, err := NormalizeTrack(0, in, DefaultPalette())
	if err != nil {
		t.Fatalf("NormalizeTrack: %v", err)
	}
	if len(got.Ranges) != 2 {
		t.Errorf("got %d ranges, want 2", len(got.Ranges))
	}
}

func TestNormalizeEmptyConfig(t *testing.T) {
	_, err := Normalize(Config{})
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("Normalize(empty) error = %v, want ErrStructure", err)
	}
}

func TestNormalizeSortsByOffset(t *testing.T) {
	cfg := Config{Tracks: []Track{
		{Name: "Tokyo", Offset: Offset{9, 0}},
		{Name: "NYC", Offset: Offset{-5, 0}},
		{Name: "UTC"},
		{Name: "Also UTC"},
		{Name: "Delhi", Offset: Offset{5, 30}},
	}}
	got, err := Normalize(cfg)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []string{"NYC", "UTC", "Also UTC", "Delhi", "Tokyo"}
	for i, name := range want {
		if got.Tracks[i].Name != name {
			t.Errorf("track %d = %q, want %q", i, got.Tracks[i].Name, name)
		}
	}
	if got.Colors != DefaultPalette() {
		t.Errorf("Colors = %+v, want defaults", got.Colors)
	}
	if cfg.Tracks[0].Name != "Tokyo" {
		t.Error("Normalize reordered its input")
	}
}

func TestNormalizeAllOrNothing(t *testing.T) {
	cfg := Config{Tracks: []Track{
		{Name: "ok", Ranges: []Range{NewRange(Clock(9, 0), Clock(17, 0), "green")}},
		{Name: "bad", Ranges: []Range{NewRange(Clock(9, 0), Clock(8, 0), "green")}},
	}}
	got, err := Normalize(cfg)
	if !errors.Is(err, ErrRangeOrdering) {
		t.Fatalf("Normalize error = %v, want ErrRangeOrdering", err)
	}
	if len(got.Tracks) != 0 {
		t.Error("failed Normalize should not return tracks")
	}
	if len(cfg.Tracks[0].Ranges) != 1 {
		t.Error("failed Normalize modified input")
	}
	if !strings.Contains(err.Error(), `"bad"`) {
		t.Errorf("error %q should name the failing track", err)
	}
}

// Every normalized track covers each minute exactly once.
func TestNormalizeTotality(t *testing.T) {
	tracks := []Track{
		{Name: "empty"},
		{Name: "one", Ranges: []Range{NewRange(Clock(0, 1), Clock(23, 59), "red")}},
		{Name: "many", Ranges: []Range{
			NewRange(Clock(22, 0), Clock(24, 0), "blue"),
			NewRange(Clock(1, 0), Clock(2, 0), "red"),
			NewRange(Clock(2, 0), Clock(3, 30), "green"),
			NewRange(Clock(12, 0), Clock(13, 0), "yellow"),
		}},
	}
	got, err := Normalize(Config{Tracks: tracks})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	for _, tr := range got.Tracks {
		t.Run(tr.Name, func(t *testing.T) {
			assertPartition(t, tr.Ranges)
			for m := 0; m < MinutesPerDay; m++ {
				hits := 0
				for _, r := range tr.Ranges {
					if m >= r.Start.Minutes() && m < r.End.Minutes() {
						hits++
					}
				}
				if hits != 1 {
					t.Fatalf("minute %d covered %d times", m, hits)
				}
			}
		})
	}
}
