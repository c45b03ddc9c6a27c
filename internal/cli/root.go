package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/mvtime/internal/config"
	"github.com/theirongolddev/mvtime/internal/tui/dashboard"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

var (
	liveMode bool
	logFile  string
	debugLog bool

	// now is the clock used for one-shot rendering.
	now = time.Now

	// Build information - set via ldflags
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mvtime [config]",
	Short: "Multi-timezone world clock for the terminal",
	Long: `mvtime shows the current time of several timezones side by side, each
as a row with a clock riding along a bar that spans the track's day.
Coloured ranges mark working hours, lunch, on-call shifts or anything else
worth seeing at a glance.

The config argument is a path, or a name searched as <name>.toml, .yaml or
.yml in ./ and the user config directory. It defaults to "default".

Examples:
  mvtime                 # print the dashboard once
  mvtime -l              # live dashboard, reloads on config changes
  mvtime team -l         # live dashboard for team.toml
  mvtime config init     # write an example config`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Find(configArg(args))
		if err != nil {
			return err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		if !liveMode {
			return renderOnce(cmd.OutOrStdout(), cfg, now())
		}

		logger, closeLog, err := newLogger(logFile, debugLog)
		if err != nil {
			return err
		}
		defer closeLog()
		logger.Info("starting live dashboard", "config", path, "tracks", len(cfg.Tracks))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return dashboard.Run(ctx, cfg, dashboard.Options{
			ConfigPath: path,
			Logger:     logger,
		})
	},
}

func configArg(args []string) string {
	if len(args) == 0 {
		return config.DefaultName
	}
	return args[0]
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.Flags().BoolVarP(&liveMode, "live", "l", false, "run the live dashboard")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "log debug messages")

	rootCmd.AddCommand(
		newCheckCmd(),
		newTracksCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, Version)
				return
			}
			fmt.Fprintf(out, "mvtime version %s\n", Version)
			fmt.Fprintf(out, "  commit:    %s\n", Commit)
			fmt.Fprintf(out, "  built:     %s\n", Date)
			fmt.Fprintf(out, "  go:        %s\n", runtime.Version())
			fmt.Fprintf(out, "  platform:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path [config]",
		Short: "Print the configuration file path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Find(configArg(args))
			if err != nil {
				if len(args) > 0 {
					return err
				}
				// nothing created yet; show where init would write
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "example",
		Short: "Print an example configuration",
		Long: `Print an example configuration.

Colors are one of ` + strings.Join(theme.Names(), ", ") + `,
a palette index 0-255, or #rgb / #rrggbb hex.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.WriteExample(cmd.OutOrStdout())
		},
	})

	return cmd
}
