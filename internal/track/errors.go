package track

import (
	"errors"
	"fmt"
)

// Error kinds reported by Normalize. Match them with errors.Is.
var (
	// ErrStructure is returned for an empty track list or a track without
	// any title.
	ErrStructure = errors.New("invalid config structure")

	// ErrRangeBounds is returned when a range time is out of the 00:00-24:00
	// domain.
	ErrRangeBounds = errors.New("time out of range")

	// ErrRangeOrdering is returned when a range does not satisfy start < end.
	ErrRangeOrdering = errors.New("wrong time ordering")

	// ErrRangeOverlap is returned when two ranges of a track overlap.
	ErrRangeOverlap = errors.New("time range overlap")

	// ErrOffsetBounds is returned when a UTC offset exceeds ±23h or ±59m.
	ErrOffsetBounds = errors.New("UTC offset out of range")
)

// ValidationError reports which track failed and why.
type ValidationError struct {
	Track  string // Track title, empty when the failure is not track specific
	Index  int    // Track position in the config, -1 when not applicable
	Kind   error  // One of the Err* kinds
	Detail string // Human readable specifics
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	case e.Track == "":
		return fmt.Sprintf("track #%d: %v: %s", e.Index+1, e.Kind, e.Detail)
	default:
		return fmt.Sprintf("track %q: %v: %s", e.Track, e.Kind, e.Detail)
	}
}

// Unwrap returns the error kind for errors.Is support.
func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalid(idx int, t Track, kind error, format string, args ...any) *ValidationError {
	return &ValidationError{
		Track:  t.Title(),
		Index:  idx,
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}
