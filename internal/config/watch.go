package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/watcher"
)

// ReloadDebounce is how long the file has to stay quiet before a reload.
const ReloadDebounce = 250 * time.Millisecond

// Watch reloads the config at path whenever it changes on disk. onChange
// receives every successfully normalized config; onError receives failed
// reloads, after which the caller should keep the config it already has.
// The returned function stops watching.
func Watch(path string, onChange func(track.Config), onError func(error), logger *slog.Logger) (func(), error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var mu sync.Mutex
	// A missing or unreadable file diffs the first reload against nothing.
	prev, readErr := os.ReadFile(path)
	if readErr != nil {
		logger.Debug("initial config read", "path", path, "error", readErr)
	}

	reload := func(events []watcher.Event) {
		mu.Lock()
		defer mu.Unlock()

		logger.Debug("config changed", "path", path, "events", len(events))
		data, err := os.ReadFile(path)
		if err == nil {
			var cfg track.Config
			if cfg, err = Decode(data, FormatOf(path)); err == nil {
				logger.Info("config reloaded", "path", path, "tracks", len(cfg.Tracks), "changes", DiffSummary(string(prev), string(data)))
				prev = data
				if onChange != nil {
					onChange(cfg)
				}
				return
			}
			err = fmt.Errorf("%s: %w", path, err)
		}
		logger.Warn("config reload failed", "path", path, "error", err)
		if onError != nil {
			onError(err)
		}
	}

	w, err := watcher.New(path, reload,
		watcher.WithDebounceDuration(ReloadDebounce),
		watcher.WithEventFilter(watcher.Content),
		watcher.WithErrorHandler(func(err error) {
			logger.Warn("config watcher", "path", path, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if w.Polling() {
		logger.Info("config watcher polling", "path", path)
	}

	return func() {
		w.Close()
	}, nil
}

// DiffSummary describes a text change as added and removed line counts,
// e.g. "+2 -1 lines".
func DiffSummary(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var added, removed int
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return fmt.Sprintf("+%d -%d lines", added, removed)
}

func countLines(s string) int {
	n := strings.Count(s, "\n")
	if s != "" && !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
