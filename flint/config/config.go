// Package config loads flintc.yaml, the compiler configuration.
//
// A missing field takes its default; CLI flags override whatever the file
// sets.
package config

import (
	"os"
	"strings"

	"github.com/chzyer/logex"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tos-network/flint/flint/sema"
)

// FileName is the configuration file flintc looks for in the working
// directory when no path is given.
const FileName = "flintc.yaml"

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

const (
	LogError = "error"
	LogDebug = "debug"
	// LogInfo also shows debug output; logex gates both on one level.
	LogInfo = "info"
)

// Config represents the top-level flintc.yaml configuration.
type Config struct {
	// Passes lists the analysis passes to run after the environment
	// builder, in order. Empty means every default pass.
	Passes []string `yaml:"passes,omitempty"`

	// StopOnError stops the pipeline after the first pass that reports an
	// error.
	StopOnError bool `yaml:"stop_on_error,omitempty"`

	// Color is one of auto, always or never.
	Color string `yaml:"color,omitempty"`

	// LogLevel is one of error, debug or info.
	LogLevel string `yaml:"log_level,omitempty"`

	// Prelude registers the standard library declarations (Wei and the
	// global functions) before the module. Defaults to true.
	Prelude *bool `yaml:"prelude,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return Parse(data, path)
}

// LoadOptional is Load, except that a missing file yields Default.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse parses configuration from YAML bytes. path is used only in error
// messages.
func Parse(data []byte, path string) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := c.Validate(path); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) setDefaults() {
	c.Color = strings.ToLower(strings.TrimSpace(c.Color))
	if c.Color == "" {
		c.Color = ColorAuto
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = LogError
	}
	if c.Prelude == nil {
		on := true
		c.Prelude = &on
	}
}

// Validate fills defaults and checks every field. source names where the
// values came from in error messages.
func (c *Config) Validate(source string) error {
	c.setDefaults()
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return errors.Errorf("%s: color: unsupported value %q (expected auto|always|never)", source, c.Color)
	}
	if _, ok := logLevels[c.LogLevel]; !ok {
		return errors.Errorf("%s: log_level: unsupported value %q (expected error|debug|info)", source, c.LogLevel)
	}
	if _, err := sema.PassesByName(c.Passes); err != nil {
		return errors.Wrapf(err, "%s: passes", source)
	}
	return nil
}

// UsePrelude reports whether the prelude is registered.
func (c *Config) UsePrelude() bool {
	return c.Prelude == nil || *c.Prelude
}

// SemaOptions translates the configuration into options for sema.Check.
func (c *Config) SemaOptions() (sema.Options, error) {
	opts := sema.Options{StopOnError: c.StopOnError, NoPrelude: !c.UsePrelude()}
	if len(c.Passes) == 0 {
		return opts, nil
	}
	passes, err := sema.PassesByName(c.Passes)
	if err != nil {
		return opts, errors.Wrap(err, "passes")
	}
	opts.Passes = passes
	return opts, nil
}

var logLevels = map[string]int{
	LogError: 0,
	LogDebug: 1,
	LogInfo:  2,
}

// ApplyLogLevel sets the process-wide logex level.
func (c *Config) ApplyLogLevel() {
	if lvl, ok := logLevels[c.LogLevel]; ok {
		logex.DebugLevel = lvl
	}
}

// UseColor resolves the color mode against whether the output is a
// terminal.
func (c *Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
