package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/mvtime/internal/config"
	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/icons"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

// Options configure a live dashboard run.
type Options struct {
	// ConfigPath is watched for changes when set.
	ConfigPath string
	Logger     *slog.Logger
	Input      io.Reader
	Output     io.Writer
}

// Run shows the dashboard in the alternate screen until an exit key is
// pressed or ctx is cancelled.
func Run(ctx context.Context, cfg track.Config, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	model := New(cfg,
		WithGlyphs(icons.Detect()),
		WithRenderer(theme.NewRenderer(out)),
		WithLogger(logger),
	)

	progOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(out),
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	p := tea.NewProgram(model, progOpts...)

	if opts.ConfigPath != "" {
		stop, err := config.Watch(opts.ConfigPath,
			func(c track.Config) { p.Send(ConfigReloadedMsg{Config: c}) },
			func(err error) { p.Send(ConfigErrorMsg{Err: err}) },
			logger,
		)
		if err != nil {
			logger.Warn("hot reload disabled", "path", opts.ConfigPath, "error", err)
		} else {
			defer stop()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
