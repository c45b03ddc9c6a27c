package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/mvtime/internal/config"
	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/layout"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

func loadArg(args []string) (string, track.Config, error) {
	path, err := config.Find(configArg(args))
	if err != nil {
		return "", track.Config{}, err
	}
	cfg, err := config.Load(path)
	return path, cfg, err
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [config]",
		Short: "Validate a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, cfg, err := loadArg(args)
			if err != nil {
				return err
			}
			m := layout.Measure(cfg.Tracks)
			ranges := 0
			for _, t := range cfg.Tracks {
				ranges += len(t.Ranges)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: ok\n", path)
			fmt.Fprintf(out, "  tracks:    %d\n", len(cfg.Tracks))
			fmt.Fprintf(out, "  ranges:    %d (after gap filling)\n", ranges)
			fmt.Fprintf(out, "  min size:  %dx%d\n", m.MinWidth, m.MinHeight)
			return nil
		},
	}
}

func newTracksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tracks [config]",
		Short: "List tracks and their normalized ranges",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadArg(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			style := glamour.WithAutoStyle()
			if theme.Profile(out) == termenv.Ascii || theme.NoColorEnabled() {
				style = glamour.WithStandardStyle("notty")
			}
			r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(outputWidth(out)))
			if err != nil {
				return fmt.Errorf("creating markdown renderer: %w", err)
			}
			text, err := r.Render(tracksMarkdown(cfg))
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		},
	}
}

// tracksMarkdown lists every track with its ranges, in dashboard order.
func tracksMarkdown(cfg track.Config) string {
	var b strings.Builder
	b.WriteString("# Tracks\n\n")
	b.WriteString("| Name | Short | UTC offset | Badge | Ranges |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, t := range cfg.Tracks {
		parts := make([]string, len(t.Ranges))
		for i, r := range t.Ranges {
			parts[i] = fmt.Sprintf("%s-%s %s", r.Start, r.End, r.Color)
		}
		badge := "no"
		if t.ShowBadge {
			badge = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escapeCell(t.Name), escapeCell(t.Shortname), t.Offset, badge, strings.Join(parts, ", "))
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
