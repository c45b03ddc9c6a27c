package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/icons"
	"github.com/theirongolddev/mvtime/internal/tui/layout"
	"github.com/theirongolddev/mvtime/internal/tui/render"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

// DefaultWidth is used when the output is not a terminal.
const DefaultWidth = 80

// outputWidth returns the terminal width of w, or DefaultWidth.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return DefaultWidth
	}
	return width
}

// renderOnce prints one frame, tall enough for every track plus margins.
func renderOnce(w io.Writer, cfg track.Config, at time.Time) error {
	e := layout.New(cfg)
	width := outputWidth(w)
	height := len(cfg.Tracks) + 2
	if !e.Resize(width, height) {
		m := e.Metrics()
		return fmt.Errorf("terminal too small: need %d columns, have %d", m.MinWidth, width)
	}
	e.Tick(at.UTC())

	_, err := fmt.Fprintln(w, render.Frame(e, icons.Detect(), theme.NewRenderer(w)))
	return err
}
