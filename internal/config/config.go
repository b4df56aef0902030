// Package config loads declaim's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds everything tunable about a presentation run. Zero values
// defer to Default.
type Config struct {
	// Title and Author feed the frame header; both may carry markup
	// escapes and :emoji: codes.
	Title  string `toml:"title"`
	Author string `toml:"author"`

	// DateFormat is a Go reference-time layout for the footer date.
	DateFormat  string `toml:"date_format"`
	ShowDate    bool   `toml:"show_date"`
	ShowCounter bool   `toml:"show_counter"`

	// ShowLineNumbers prefixes displayed code lines with a numbered token.
	ShowLineNumbers bool `toml:"show_line_numbers"`

	// ShowProgress draws a deck progress bar under the frame.
	ShowProgress bool `toml:"show_progress"`

	// Border is the glyph framing every row.
	Border string `toml:"border"`

	// Interpreter is the command captured code snippets are piped to.
	// Empty means code execution reports "no interpreter attached".
	Interpreter string `toml:"interpreter"`

	// Converter is the external command that turns an ANSI transcript
	// into HTML on export, e.g. ["aha", "--black"].
	Converter []string `toml:"converter"`

	// EmojiFile extends the builtin shortcode table.
	EmojiFile string `toml:"emoji_file"`

	// Watch reloads the deck when the script changes on disk.
	Watch bool `toml:"watch"`

	// Width and Height override the probed terminal size when positive.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// StatePath overrides where resume positions are stored.
	StatePath string `toml:"state_path"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		DateFormat:      "Jan 2 2006",
		ShowDate:        true,
		ShowCounter:     true,
		ShowLineNumbers: true,
		Border:          "*",
		Converter:       []string{"aha"},
		Watch:           true,
	}
}

// Load reads the TOML file at path over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault reads path when it exists and quietly falls back to the
// defaults when it does not. Malformed files still fail.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath locates the user config, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "declaim", "config.toml")
}

// DefaultStatePath locates the resume-position database, honoring
// XDG_STATE_HOME.
func DefaultStatePath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "declaim.db"
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "declaim", "positions.db")
}
