// Package config loads toolkit settings from a TOML file and the
// environment and turns them into host options and a logger.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/chrisuehlinger/swell/host"
)

// Config is the complete toolkit configuration.
type Config struct {
	Host     HostConfig     `toml:"host"`
	Selector SelectorConfig `toml:"selector"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// HostConfig selects the host profile. The pointer fields override the
// profile's feature flags when set.
type HostConfig struct {
	Profile          string `toml:"profile"`
	NativeQuery      *bool  `toml:"native_query"`
	NativeClassQuery *bool  `toml:"native_class_query"`
}

// SelectorConfig configures the selector engine.
type SelectorConfig struct {
	Strict         bool `toml:"strict"`
	NativeFastPath bool `toml:"native_fast_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is console or json.
	Format string `toml:"format"`
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Environment variables applied over the file.
const (
	EnvProfile  = "SWELL_PROFILE"
	EnvLogLevel = "SWELL_LOG_LEVEL"
	EnvStrict   = "SWELL_STRICT"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Host:     HostConfig{Profile: string(host.Standard)},
		Selector: SelectorConfig{NativeFastPath: true},
		Log:      LogConfig{Level: "warn", Format: "console"},
	}
}

// ParseError describes a malformed configuration file.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the defaults, then the TOML file at path (skipped when path is
// empty), then the environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
		defer f.Close()
		if err := cfg.decode(path, f); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Decode reads TOML from r over the defaults. Unknown keys are errors.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	if err := cfg.decode("<reader>", r); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(source string, r io.Reader) error {
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var terr toml.ParseError
		if errors.As(err, &terr) {
			pe.Line = terr.Position.Line
			pe.Message = terr.Message
		}
		return pe
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return &ParseError{Path: source, Message: "unknown keys: " + strings.Join(keys, ", ")}
	}
	return nil
}

// ApplyEnv overrides fields from the environment, read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvProfile); ok && v != "" {
		c.Host.Profile = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvStrict); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.Selector.Strict = strict
	}
	return nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	if _, err := host.ParseProfile(c.Host.Profile); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Profile returns the host profile, Standard if it does not parse.
func (c Config) Profile() host.Profile {
	p, err := host.ParseProfile(c.Host.Profile)
	if err != nil {
		return host.Standard
	}
	return p
}

// HostOptions returns the feature overrides for host.New.
func (c Config) HostOptions() []host.Option {
	var opts []host.Option
	if c.Host.NativeQuery != nil {
		opts = append(opts, host.WithNativeQuery(*c.Host.NativeQuery))
	}
	if c.Host.NativeClassQuery != nil {
		opts = append(opts, host.WithNativeClassQuery(*c.Host.NativeClassQuery))
	}
	return opts
}

// NewLogger builds the logger described by c.Log, writing to w.
func (c Config) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if c.Log.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
