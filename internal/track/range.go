package track

// Color is a colour specification as written in the config ("green",
// "#ff8800", "202", "reset"). Interpretation belongs to the renderer; the
// model only stores and compares it.
type Color string

// Palette holds the dashboard-wide colours. Base also colours the synthetic
// ranges inserted by gap filling.
type Palette struct {
	Base   Color `toml:"base" yaml:"base"`
	FillFG Color `toml:"fill_fg" yaml:"fill_fg"`
	Clock  Color `toml:"clock" yaml:"clock"`
	Title  Color `toml:"title" yaml:"title"`
}

// DefaultPalette returns the colours used when the config omits them.
func DefaultPalette() Palette {
	return Palette{
		Base:   "darkgray",
		FillFG: "black",
		Clock:  "reset",
		Title:  "reset",
	}
}

// WithDefaults fills blank entries from DefaultPalette.
func (p Palette) WithDefaults() Palette {
	d := DefaultPalette()
	if p.Base == "" {
		p.Base = d.Base
	}
	if p.FillFG == "" {
		p.FillFG = d.FillFG
	}
	if p.Clock == "" {
		p.Clock = d.Clock
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	return p
}

// Range is a coloured sub-interval [Start, End) of the day. The optional
// flags override the owning track's Label when set.
type Range struct {
	Start         TimeOfDay `toml:"start" yaml:"start"`
	End           TimeOfDay `toml:"end" yaml:"end"`
	Color         Color     `toml:"color" yaml:"color"`
	Fill          *bool     `toml:"fill" yaml:"fill"`
	UseRangeColor *bool     `toml:"use_range_color" yaml:"use_range_color"`
	Blink         *bool     `toml:"blink" yaml:"blink"`
}

// NewRange builds a range with no overrides.
func NewRange(start, end TimeOfDay, color Color) Range {
	return Range{Start: start, End: end, Color: color}
}

// Span returns the range length in minutes.
func (r Range) Span() int {
	return r.End.Minutes() - r.Start.Minutes()
}

// Style resolves the range overrides against the track defaults.
func (r Range) Style(label Label) ClockStyle {
	return ClockStyle{
		Fill:          pick(r.Fill, label.Fill),
		UseRangeColor: pick(r.UseRangeColor, label.UseRangeColor),
		Blink:         pick(r.Blink, label.Blink),
	}
}

// ClockStyle is the effective set of clock display flags for one range.
type ClockStyle struct {
	Fill          bool
	UseRangeColor bool
	Blink         bool
}

func pick(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (r Range) clone() Range {
	out := r
	out.Fill = cloneBool(r.Fill)
	out.UseRangeColor = cloneBool(r.UseRangeColor)
	out.Blink = cloneBool(r.Blink)
	return out
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
