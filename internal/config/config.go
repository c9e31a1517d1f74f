// Package config loads imagehelper settings from an optional YAML file,
// a .env file and IMAGEHELPER_* environment variables, in increasing order
// of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/duanzhengbing/parseProtobufFile/internal/ir"
	"github.com/duanzhengbing/parseProtobufFile/internal/logging"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvJPEGQuality = "IMAGEHELPER_JPEG_QUALITY"
	EnvColorOrder  = "IMAGEHELPER_COLOR_ORDER"
	EnvLogLevel    = "IMAGEHELPER_LOG_LEVEL"
	EnvLogFile     = "IMAGEHELPER_LOG_FILE"
	EnvStrokeWidth = "IMAGEHELPER_STROKE_WIDTH"
)

// LogConfig configures internal/logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config holds the tool settings.
type Config struct {
	JPEGQuality int       `yaml:"jpeg_quality"`
	ColorOrder  string    `yaml:"color_order"` // bgra, rgba or empty for the platform order
	StrokeWidth int       `yaml:"stroke_width"`
	Log         LogConfig `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		JPEGQuality: 85,
		StrokeWidth: 5,
		Log:         LogConfig{Level: "info"},
	}
}

// Load reads path (skipped when empty), then envFile (skipped when
// missing), then applies environment overrides and validates the result.
// Variables already set in the environment win over envFile.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		c.JPEGQuality = n
	}
	if v := os.Getenv(EnvStrokeWidth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrokeWidth, err)
		}
		c.StrokeWidth = n
	}
	if v := os.Getenv(EnvColorOrder); v != "" {
		c.ColorOrder = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	return nil
}

// Validate rejects settings the tool cannot use.
func (c *Config) Validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", c.JPEGQuality)
	}
	if c.StrokeWidth < 1 {
		return fmt.Errorf("stroke width %d must be positive", c.StrokeWidth)
	}
	if _, err := ir.ParseColorOrder(c.ColorOrder); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Order returns the configured ColorOrder. Validate has already accepted it.
func (c *Config) Order() ir.ColorOrder {
	o, err := ir.ParseColorOrder(c.ColorOrder)
	if err != nil {
		return ir.NativeOrder
	}
	return o
}
