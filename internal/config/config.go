// Package config loads dsa's YAML configuration file. Command-line flags
// override file values; see Merge.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonhuth/dsa/internal/logging"
	"github.com/jonhuth/dsa/internal/playback"
	"github.com/jonhuth/dsa/internal/step"
)

// Config holds every tunable setting.
type Config struct {
	// Addr is the HTTP listen address of "dsa serve".
	Addr string `yaml:"addr" validate:"required"`
	// DB is the SQLite run archive. Empty disables archiving.
	DB string `yaml:"db"`
	// MaxSteps caps the steps a single run may record.
	MaxSteps int `yaml:"max_steps" validate:"gte=1,lte=1000000"`
	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
	// LogFormat is text, json or auto.
	LogFormat string `yaml:"log_format" validate:"oneof=text json auto"`
	// DefaultSpeedMS is the initial auto-play interval of "dsa play".
	DefaultSpeedMS int `yaml:"default_speed_ms" validate:"gte=100,lte=2000"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		MaxSteps:       step.DefaultMaxSteps,
		LogLevel:       "info",
		LogFormat:      logging.FormatText,
		DefaultSpeedMS: int(playback.DefaultSpeed / time.Millisecond),
	}
}

// DefaultSpeed returns DefaultSpeedMS as a duration.
func (c Config) DefaultSpeed() time.Duration {
	return time.Duration(c.DefaultSpeedMS) * time.Millisecond
}

var validate = validator.New()

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads a config file over the defaults. Keys absent from the file
// keep their default; unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Overrides are values set explicitly on the command line. Nil fields leave
// the config value alone.
type Overrides struct {
	Addr      *string
	DB        *string
	MaxSteps  *int
	LogLevel  *string
	LogFormat *string
	SpeedMS   *int
}

// Merge applies overrides and revalidates.
func (c Config) Merge(o Overrides) (Config, error) {
	if o.Addr != nil {
		c.Addr = *o.Addr
	}
	if o.DB != nil {
		c.DB = *o.DB
	}
	if o.MaxSteps != nil {
		c.MaxSteps = *o.MaxSteps
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogFormat != nil {
		c.LogFormat = *o.LogFormat
	}
	if o.SpeedMS != nil {
		c.DefaultSpeedMS = *o.SpeedMS
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
