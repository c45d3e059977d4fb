// Package config loads settings for the exprcalc command from JSON5 files.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flynn/json5"
	"github.com/pkg/errors"
)

// MaxPlaces is the largest number of decimal places a result may be rounded
// to. float64 has about 15 significant decimal digits.
const MaxPlaces = 15

// Config holds the settings of the calculator.
type Config struct {
	// Places is the number of decimal places numeric results are rounded to.
	// If negative, results are shown with the shortest exact representation.
	Places int `json:"places"`
	// MaxDepth limits how deeply expressions may nest. 0 is unlimited.
	MaxDepth int `json:"max_depth"`
	// Prompt is shown before each line of interactive input.
	Prompt string `json:"prompt"`
	// HistoryFile is where interactive input history is kept. Empty disables
	// history. A leading ~ refers to the home directory.
	HistoryFile string `json:"history_file"`
	// Color enables colored error output on terminals.
	Color bool `json:"color"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		Places:      4,
		MaxDepth:    1000,
		Prompt:      "> ",
		HistoryFile: "~/.exprcalc_history",
		Color:       true,
	}
}

// Load reads the config file at path. Fields missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "opening config")
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config at %s", path)
	}
	return cfg, nil
}

// Decode decodes and validates a JSON5 config over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := json5.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoding JSON5")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting in c.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return errors.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.Places > MaxPlaces {
		return errors.Errorf("places must be at most %d, got %d", MaxPlaces, c.Places)
	}
	return nil
}

// History returns the history file path with a leading ~ expanded.
func (c Config) History() (string, error) {
	p := c.HistoryFile
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "finding history file")
	}
	return filepath.Join(home, strings.TrimPrefix(p[1:], "/")), nil
}
