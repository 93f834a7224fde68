// Package config loads rsinspect settings from a TOML file, RSINSPECT_*
// environment variables and built-in defaults, in that order of precedence
// after explicit flags.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/dshills/rsinspect/internal/debug/formatter"
	"github.com/dshills/rsinspect/internal/debug/inspect"
	"github.com/dshills/rsinspect/internal/debug/shape"
	"github.com/dshills/rsinspect/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. RSINSPECT_LOG_LEVEL.
const EnvPrefix = "RSINSPECT"

// Config keys.
const (
	KeyLogLevel         = "log_level"
	KeyMaxUnwrap        = "max_unwrap_depth"
	KeyRenderDepth      = "render_depth"
	KeyMaxChildren      = "max_children"
	KeyVectorPattern    = "patterns.vector"
	KeyTextPattern      = "patterns.text"
	KeyTextSlicePattern = "patterns.text_slice"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel       string   `mapstructure:"log_level"`
	MaxUnwrapDepth int      `mapstructure:"max_unwrap_depth"`
	RenderDepth    int      `mapstructure:"render_depth"`
	MaxChildren    int      `mapstructure:"max_children"`
	Patterns       Patterns `mapstructure:"patterns"`
}

// Patterns holds the collection type-name regexes.
type Patterns struct {
	Vector    string `mapstructure:"vector"`
	Text      string `mapstructure:"text"`
	TextSlice string `mapstructure:"text_slice"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:       "warn",
		MaxUnwrapDepth: formatter.DefaultMaxUnwrap,
		RenderDepth:    3,
		MaxChildren:    inspect.DefaultMaxChildren,
		Patterns: Patterns{
			Vector:    shape.DefaultVectorPattern,
			Text:      shape.DefaultTextPattern,
			TextSlice: shape.DefaultTextSlicePattern,
		},
	}
}

// New returns a viper instance primed with defaults and environment
// bindings. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Default()
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyMaxUnwrap, d.MaxUnwrapDepth)
	v.SetDefault(KeyRenderDepth, d.RenderDepth)
	v.SetDefault(KeyMaxChildren, d.MaxChildren)
	v.SetDefault(KeyVectorPattern, d.Patterns.Vector)
	v.SetDefault(KeyTextPattern, d.Patterns.Text)
	v.SetDefault(KeyTextSlicePattern, d.Patterns.TextSlice)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes the
// result. An empty path skips the file.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and that every pattern compiles.
func (c Config) Validate() error {
	var errs []error
	if c.MaxUnwrapDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, KeyMaxUnwrap, c.MaxUnwrapDepth))
	}
	if c.RenderDepth < 0 {
		errs = append(errs, fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, KeyRenderDepth, c.RenderDepth))
	}
	if c.MaxChildren <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, KeyMaxChildren, c.MaxChildren))
	}
	if _, err := c.ShapePatterns(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// ShapePatterns compiles the configured patterns.
func (c Config) ShapePatterns() (shape.Patterns, error) {
	return shape.CompilePatterns(c.Patterns.Vector, c.Patterns.Text, c.Patterns.TextSlice)
}

// Logger builds a logger at the configured level.
func (c Config) Logger(cfg logging.Config) *logging.Logger {
	cfg.Level = logging.ParseLevel(c.LogLevel)
	return logging.New(cfg)
}

// Formatter builds a formatter from the configuration.
func (c Config) Formatter(log *logging.Logger) (*formatter.Formatter, error) {
	patterns, err := c.ShapePatterns()
	if err != nil {
		return nil, err
	}
	return formatter.New(formatter.Options{
		Patterns:  patterns,
		MaxUnwrap: c.MaxUnwrapDepth,
		Logger:    log,
	}), nil
}
