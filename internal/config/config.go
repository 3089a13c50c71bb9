// Package config loads the operator settings of the dashboard.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvRoot overrides the artifact root.
const EnvRoot = "AETHER_ROOT"

// Defaults.
const (
	DefaultRoot        = "outputs"
	DefaultAddr        = ":8501"
	DefaultFrameHeight = 600
)

// Config holds every operator setting.
type Config struct {
	// Root is the artifact directory; branch folders live directly below it.
	Root string `yaml:"root"`
	// Addr is the listen address of the web server.
	Addr string `yaml:"addr"`
	// FrameHeight is the pixel height of embedded HTML documents.
	FrameHeight int `yaml:"frame_height"`
	// RegistryDir replaces the built-in module declaration when set.
	RegistryDir string `yaml:"registry_dir"`

	Log LogConfig `yaml:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root:        DefaultRoot,
		Addr:        DefaultAddr,
		FrameHeight: DefaultFrameHeight,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvRoot)); v != "" {
		c.Root = v
	}
}

// Validate checks the configuration for values no component can use.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.FrameHeight <= 0 {
		errs = append(errs, fmt.Errorf("frame_height must be positive, got %d", c.FrameHeight))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// NewLogger builds a logger writing to w. verbose forces debug level.
func (l LogConfig) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level, err := l.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
