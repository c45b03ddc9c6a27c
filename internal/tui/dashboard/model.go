// Package dashboard runs the live world-clock dashboard as a bubbletea
// program.
package dashboard

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/icons"
	"github.com/theirongolddev/mvtime/internal/tui/layout"
	"github.com/theirongolddev/mvtime/internal/tui/render"
)

// TickMsg is sent once per wall-clock second.
type TickMsg time.Time

// ConfigReloadedMsg carries a config that replaces the running one.
type ConfigReloadedMsg struct {
	Config track.Config
}

// ConfigErrorMsg reports a reload that failed; the running config stays.
type ConfigErrorMsg struct {
	Err error
}

// KeyMap defines dashboard keybindings
type KeyMap struct {
	Quit key.Binding
}

var dashKeys = KeyMap{
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q/esc", "quit")),
}

// Model is the dashboard model. The engine is replaced wholesale on reload,
// never patched.
type Model struct {
	engine   *layout.Engine
	glyphs   icons.Glyphs
	renderer *lipgloss.Renderer
	logger   *slog.Logger
	now      func() time.Time

	width, height int
	sized         bool
}

// Option configures a Model.
type Option func(*Model)

// WithGlyphs sets the glyph set.
func WithGlyphs(g icons.Glyphs) Option {
	return func(m *Model) { m.glyphs = g }
}

// WithRenderer sets the lipgloss renderer used for colours.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(m *Model) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// New creates a dashboard for a normalized config.
func New(cfg track.Config, opts ...Option) Model {
	m := Model{
		engine:   layout.New(cfg),
		glyphs:   icons.Detect(),
		renderer: lipgloss.DefaultRenderer(),
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// tick fires at the start of the next wall-clock second.
func (m Model) tick() tea.Cmd {
	return tea.Tick(untilNextSecond(m.now()), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func untilNextSecond(now time.Time) time.Duration {
	return now.Truncate(time.Second).Add(time.Second).Sub(now)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height, m.sized = msg.Width, msg.Height, true
		if !m.engine.Resize(msg.Width, msg.Height) {
			m.logger.Debug("terminal too small", "width", msg.Width, "height", msg.Height)
		}
		m.engine.Tick(m.now().UTC())
		return m, nil

	case TickMsg:
		m.engine.Tick(time.Time(msg).UTC())
		return m, m.tick()

	case ConfigReloadedMsg:
		m.engine = layout.New(msg.Config)
		if m.sized {
			m.engine.Resize(m.width, m.height)
			m.engine.Tick(m.now().UTC())
		}
		m.logger.Info("dashboard config replaced", "tracks", len(msg.Config.Tracks))
		return m, nil

	case ConfigErrorMsg:
		m.logger.Warn("keeping previous config", "error", msg.Err)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, dashKeys.Quit) {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if !m.sized {
		return ""
	}
	return render.Frame(m.engine, m.glyphs, m.renderer)
}

// Engine returns the current layout engine.
func (m Model) Engine() *layout.Engine { return m.engine }
