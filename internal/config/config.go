// Package config finds, decodes and watches mvtime configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/mvtime/internal/track"
	"github.com/theirongolddev/mvtime/internal/tui/theme"
)

var (
	// ErrParse wraps decoding failures (syntax, wrong types, bad time strings).
	ErrParse = errors.New("parsing config")

	// ErrInvalidColor is returned for colour specs the dashboard cannot draw.
	ErrInvalidColor = errors.New("invalid color")

	// ErrNotFound is returned by Find when no candidate file exists.
	ErrNotFound = errors.New("config not found")
)

// DefaultName is the config looked up when none is given.
const DefaultName = "default"

// Format is a config file syntax.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// Extensions are tried in this order by Find.
var Extensions = []string{".toml", ".yaml", ".yml"}

// FormatOf picks the syntax from the file extension. Anything unknown is TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

// DefaultDir returns the user config directory for mvtime.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mvtime")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mvtime")
}

// DefaultPath returns the path CreateDefault writes to.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), DefaultName+".toml")
}

// SearchDirs returns the directories Find looks in, in order.
func SearchDirs() []string {
	return []string{".", DefaultDir()}
}

// Find resolves a config name to a file path. A name that is an existing
// file, or that carries a known extension, is returned as is.
func Find(name string) (string, error) {
	if name == "" {
		name = DefaultName
	}
	if isFile(name) || hasKnownExt(name) {
		return name, nil
	}

	var tried []string
	for _, dir := range SearchDirs() {
		for _, ext := range Extensions {
			p := filepath.Join(dir, name+ext)
			if isFile(p) {
				return p, nil
			}
			tried = append(tried, p)
		}
	}
	return "", fmt.Errorf("%w: %q (searched %s)", ErrNotFound, name, strings.Join(tried, ", "))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasKnownExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads, decodes and normalizes the config at path.
func Load(path string) (track.Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return track.Config{}, err
	}

	cfg, err := Decode(data, FormatOf(path))
	if err != nil {
		return track.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in format f and returns the normalized config.
func Decode(data []byte, f Format) (track.Config, error) {
	var cfg track.Config
	switch f {
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return track.Config{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
	default:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return track.Config{}, fmt.Errorf("%w: %w", ErrParse, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return track.Config{}, fmt.Errorf("%w: unknown keys %s", ErrParse, strings.Join(keys, ", "))
		}
	}

	if err := checkColors(cfg); err != nil {
		return track.Config{}, err
	}
	return track.Normalize(cfg)
}

func checkColors(cfg track.Config) error {
	check := func(where string, c track.Color, required bool) error {
		if c == "" {
			if required {
				return fmt.Errorf("%w: %s: missing color", ErrInvalidColor, where)
			}
			return nil
		}
		if _, err := theme.Parse(c); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidColor, where, err)
		}
		return nil
	}

	p := cfg.Colors
	for _, c := range []struct {
		key   string
		color track.Color
	}{
		{"base", p.Base},
		{"fill_fg", p.FillFG},
		{"clock", p.Clock},
		{"title", p.Title},
	} {
		if err := check("colors."+c.key, c.color, false); err != nil {
			return err
		}
	}

	for i, t := range cfg.Tracks {
		for j, r := range t.Ranges {
			where := fmt.Sprintf("tracks[%d] (%s) range %d", i, t.Title(), j)
			if err := check(where, r.Color, true); err != nil {
				return err
			}
		}
	}
	return nil
}
