// Package config loads hackspace settings from defaults, ~/.hackspace/config.yaml,
// HACKSPACE_* environment variables and command-line flags.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

const (
	envPrefix      = "HACKSPACE_"
	configFileName = "config.yaml"

	DefaultFormat   = "json"
	DefaultLogLevel = "warn"
)

// Config holds all settings.
type Config struct {
	// Dir overrides the store directory (.hackspace).
	Dir string `koanf:"dir"`
	// Root is a directory to load the tree from. Empty => seed manifest.
	Root string `koanf:"root"`
	// Seed is a TOML manifest path. Empty => built-in demo project.
	Seed string `koanf:"seed"`

	Format   string `koanf:"format"`
	Pretty   bool   `koanf:"pretty"`
	LogLevel string `koanf:"log_level"`

	TUI  TUIConfig  `koanf:"tui"`
	Tree TreeConfig `koanf:"tree"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

type TUIConfig struct {
	// Theme is light|dark|auto.
	Theme string `koanf:"theme"`
	// Glyphs is unicode|ascii.
	Glyphs  string `koanf:"glyphs"`
	Preview bool   `koanf:"preview"`
}

type TreeConfig struct {
	Ignore         []string `koanf:"ignore"`
	ExpandTopLevel bool     `koanf:"expand_top_level"`
}

// Dir returns the directory holding the global config file.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests away from ~/.hackspace).
	if v := strings.TrimSpace(os.Getenv(envPrefix + "CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".hackspace"), nil
}

// DefaultPath is ~/.hackspace/config.yaml (or the HACKSPACE_CONFIG_DIR equivalent).
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"format":                DefaultFormat,
		"pretty":                false,
		"log_level":             DefaultLogLevel,
		"tui.theme":             "auto",
		"tui.glyphs":            "unicode",
		"tui.preview":           false,
		"tree.expand_top_level": true,
	}
}

// Load builds the configuration. cfgFile may be empty (use the default path when it
// exists); flags may be nil. Only flags the user actually set override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := strings.TrimSpace(cfgFile) != ""
	if !explicit {
		if p, err := DefaultPath(); err == nil {
			cfgFile = p
		}
	}
	fileUsed := ""
	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err == nil {
			if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
			}
			fileUsed = cfgFile
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
	}

	// HACKSPACE_TUI_THEME -> tui.theme, HACKSPACE_LOG_LEVEL -> log_level
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = fileUsed
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"tui_", "tree_"} {
		if strings.HasPrefix(key, section) {
			return strings.TrimSuffix(section, "_") + "." + strings.TrimPrefix(key, section)
		}
	}
	return key
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "", "json", "yaml", "table":
	default:
		errs = append(errs, fmt.Errorf("unknown format %q (want json|yaml|table)", c.Format))
	}
	if strings.TrimSpace(c.LogLevel) != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, fmt.Errorf("log_level: %w", err))
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Theme)) {
	case "", "auto", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("tui.theme: unknown theme %q (want light|dark|auto)", c.TUI.Theme))
	}
	switch strings.ToLower(strings.TrimSpace(c.TUI.Glyphs)) {
	case "", "unicode", "utf8", "ascii":
	default:
		errs = append(errs, fmt.Errorf("tui.glyphs: unknown glyph set %q (want unicode|ascii)", c.TUI.Glyphs))
	}
	if c.Root != "" && c.Seed != "" {
		errs = append(errs, errors.New("root and seed are mutually exclusive"))
	}
	return errors.Join(errs...)
}

// Level parses LogLevel, defaulting to warn.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}
