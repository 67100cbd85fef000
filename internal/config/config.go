// Package config loads the settings of the pulldemo program from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/xqrs/pullview/pull"
)

// Duration is a time.Duration written as a string such as "750ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type Config struct {
	Threshold   int           `toml:"threshold"`
	LoadMode    pull.LoadMode `toml:"load_mode"`
	LabelLayout string        `toml:"label_layout"`
	NoMoreData  string        `toml:"no_more_data"`
	ScrollBar   bool          `toml:"scroll_bar"`

	PageSize int      `toml:"page_size"`
	MaxPages int      `toml:"max_pages"`
	Latency  Duration `toml:"latency"`
	// FailEvery makes every n-th fetch fail. Zero disables failures.
	FailEvery int `toml:"fail_every"`

	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		Threshold:   2,
		LoadMode:    pull.LoadModeAuto,
		LabelLayout: "2006-01-02 15:04:05",
		NoMoreData:  "No more data",
		ScrollBar:   true,
		PageSize:    20,
		MaxPages:    5,
		Latency:     Duration{750 * time.Millisecond},
		LogLevel:    "info",
	}
}

// Validate fixes values that are out of range and reports settings that
// cannot be repaired.
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		c.Threshold = 0
	}
	if c.PageSize <= 0 {
		c.PageSize = 20
	}
	if c.MaxPages < 0 {
		c.MaxPages = 0
	}
	if c.Latency.Duration < 0 {
		c.Latency.Duration = 0
	}
	if c.FailEvery < 0 {
		c.FailEvery = 0
	}
	if c.LabelLayout == "" {
		c.LabelLayout = "2006-01-02 15:04:05"
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel. An empty level means info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Load reads the configuration at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Write encodes c to path, replacing the file.
func (c *Config) Write(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
