// Package config handles configuration loading and validation for bitext.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/bitext/internal/core/annotate"
	"github.com/colonyops/bitext/internal/core/styles"
	"github.com/colonyops/bitext/internal/core/validate"
)

// Actions handled by the interactive loop rather than the session.
const (
	ActionRetokenize = "retokenize"
	ActionHelp       = "help"
	ActionDiscard    = "discard"
)

// defaultKeybindings provides built-in keybindings that users can override.
var defaultKeybindings = map[string]Keybinding{
	"q":           {Action: "quit", Help: "save and quit"},
	"ctrl+c":      {Action: ActionDiscard, Help: "quit without saving"},
	"left":        {Action: "step_left", Help: "previous free token"},
	"h":           {Action: "step_left", Help: "previous free token"},
	"right":       {Action: "step_right", Help: "next free token"},
	"l":           {Action: "step_right", Help: "next free token"},
	"shift+left":  {Action: "raw_left", Help: "previous token"},
	"H":           {Action: "raw_left", Help: "previous token"},
	"shift+right": {Action: "raw_right", Help: "next token"},
	"L":           {Action: "raw_right", Help: "next token"},
	"up":          {Action: "up", Help: "row up"},
	"k":           {Action: "up", Help: "row up"},
	"down":        {Action: "down", Help: "row down"},
	"j":           {Action: "down", Help: "row down"},
	"tab":         {Action: "switch_side", Help: "switch sentence"},
	"space":       {Action: "toggle_select", Help: "toggle selection"},
	"c":           {Action: "clear_selection", Help: "clear selection"},
	"enter":       {Action: "commit", Help: "commit selection"},
	"u":           {Action: "undo", Help: "undo last commit"},
	"d":           {Action: "delete_entry", Help: "delete group under cursor"},
	"v":           {Action: "toggle_continuous", Help: "continuous selection"},
	"esc":         {Action: "cancel", Help: "stop continuous selection"},
	"e":           {Action: ActionRetokenize, Help: "edit tokens"},
	"?":           {Action: ActionHelp, Help: "toggle help"},
}

// Config holds the application configuration.
type Config struct {
	Editor      string                `yaml:"editor"`
	Theme       string                `yaml:"theme"`
	SourceLang  string                `yaml:"source_lang"`
	TargetLang  string                `yaml:"target_lang"`
	Database    DatabaseConfig        `yaml:"database"`
	Viewer      ViewerConfig          `yaml:"viewer"`
	Keybindings map[string]Keybinding `yaml:"keybindings"`
	DataDir     string                `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig holds SQLite connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// ViewerConfig holds settings for the read-only HTTP viewer.
type ViewerConfig struct {
	Addr string `yaml:"addr"`
}

// Keybinding maps a key to an action.
type Keybinding struct {
	Action string `yaml:"action"` // session action or one of retokenize, help, discard
	Help   string `yaml:"help"`   // help text shown in the TUI
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme:      styles.DefaultTheme,
		SourceLang: "fr",
		TargetLang: "en",
		Database: DatabaseConfig{
			MaxOpenConns: 4,
			MaxIdleConns: 2,
			BusyTimeout:  5000,
		},
		Viewer: ViewerConfig{
			Addr: "127.0.0.1:7420",
		},
		Keybindings: map[string]Keybinding{},
	}
}

// DefaultKeybindings returns a copy of the built-in keybindings.
func DefaultKeybindings() map[string]Keybinding {
	return maps.Clone(defaultKeybindings)
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Merge user keybindings into defaults (user config overrides defaults)
	cfg.Keybindings = mergeKeybindings(defaultKeybindings, cfg.Keybindings)

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}
	if c.Viewer.Addr == "" {
		c.Viewer.Addr = defaults.Viewer.Addr
	}
}

// mergeKeybindings merges user keybindings into defaults.
// User keybindings override defaults for the same key.
func mergeKeybindings(defaults, user map[string]Keybinding) map[string]Keybinding {
	result := make(map[string]Keybinding, len(defaults)+len(user))
	maps.Copy(result, defaults)
	maps.Copy(result, user)
	return result
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", c.Theme, styles.ThemeNames())
	}

	for field, lang := range map[string]string{"source_lang": c.SourceLang, "target_lang": c.TargetLang} {
		if lang == "" {
			continue
		}
		if err := validate.Lang(lang); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.BusyTimeout < 0 {
		return fmt.Errorf("database.busy_timeout cannot be negative")
	}

	if c.Viewer.Addr == "" {
		return fmt.Errorf("viewer.addr cannot be empty")
	}

	for key, kb := range c.Keybindings {
		if kb.Action == "" {
			return fmt.Errorf("keybinding %q must have an action", key)
		}
		if !IsValidAction(kb.Action) {
			return fmt.Errorf("keybinding %q has invalid action %q", key, kb.Action)
		}
	}

	return nil
}

// IsValidAction reports whether name is a session action or a loop action.
func IsValidAction(name string) bool {
	switch name {
	case ActionRetokenize, ActionHelp, ActionDiscard:
		return true
	}
	_, err := annotate.ParseAction(name)
	return err == nil
}

// LogFile returns the default log file path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "bitext.log")
}
