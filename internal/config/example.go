package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const exampleConfig = `# mvtime configuration
#
# Colors accept ANSI names (red, lightblue, darkgray, ...), "reset" for the
# terminal default, 256-color indexes ("0".."255") or "#rrggbb".

[colors]
base = "darkgray"
fill_fg = "black"
clock = "reset"
title = "reset"

[[tracks]]
name = "San Francisco"
shortname = "SF"
offset = "-08:00"
show_badge = true

[tracks.time_label]
fill = true

[[tracks.ranges]]
start = "09:00"
end = "17:00"
color = "green"

[[tracks]]
name = "UTC"
offset = "+00:00"

[tracks.time_label]
seconds = true

[[tracks]]
name = "Berlin"
shortname = "BER"
offset = "+01:00"
show_badge = true

[tracks.time_label]
use_range_color = true

[[tracks.ranges]]
start = "08:00"
end = "12:00"
color = "lightblue"

[[tracks.ranges]]
start = "13:00"
end = "18:00"
color = "blue"
blink = true

[[tracks]]
name = "Bengaluru"
shortname = "BLR"
offset = "+05:30"

[[tracks.ranges]]
start = "10:00"
end = "19:00"
color = "#d78700"
fill = true
`

// WriteExample writes a commented example config in TOML format.
func WriteExample(w io.Writer) error {
	_, err := io.WriteString(w, exampleConfig)
	return err
}

// CreateDefault writes the example config to DefaultPath. An existing file
// is never overwritten.
func CreateDefault() (string, error) {
	path := DefaultPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("config file already exists: %s", path)
		}
		return "", err
	}
	defer f.Close()

	if err := WriteExample(f); err != nil {
		return "", err
	}
	return path, nil
}
