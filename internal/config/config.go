package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/arnodel/jtlstream/internal/logging"
	"github.com/arnodel/jtlstream/jtl"
)

type Config struct {
	SampleElements      []string `toml:"sample_elements"`
	ResponseDataElement string   `toml:"response_data_element"`
	ResultsElement      string   `toml:"results_element"`
	ExpectedVersion     string   `toml:"expected_version"`
	LogLevel            string   `toml:"log_level"`
	Color               string   `toml:"color"`
	MetricsFile         string   `toml:"metrics_file"`
}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

func Default() *Config {
	return &Config{
		SampleElements:      append([]string(nil), jtl.DefaultSampleElements...),
		ResponseDataElement: jtl.DefaultResponseDataElement,
		ResultsElement:      jtl.DefaultResultsElement,
		ExpectedVersion:     jtl.DefaultExpectedVersion,
		LogLevel:            "info",
		Color:               ColorAuto,
	}
}

// DefaultPath returns ~/.config/jtlstream/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "jtlstream", "config.toml"), nil
}

// Load returns the defaults overlaid with the TOML file at path.  If path is
// empty, the file at DefaultPath is used when it exists.  An explicitly given
// path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		if _, err := os.Stat(defaultPath); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		path = defaultPath
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.SampleElements) == 0 {
		return errors.New("sample_elements must not be empty")
	}
	names := map[string]string{}
	for _, name := range c.SampleElements {
		if name == "" {
			return errors.New("sample_elements must not contain empty names")
		}
		names[name] = "sample_elements"
	}
	for key, name := range map[string]string{
		"response_data_element": c.ResponseDataElement,
		"results_element":       c.ResultsElement,
	} {
		if name == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		if other, ok := names[name]; ok {
			return fmt.Errorf("%s %q is also used by %s", key, name, other)
		}
		names[name] = key
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color %q (use auto, always, or never)", c.Color)
	}
	return nil
}

// Options returns the converter options matching the configuration.
func (c *Config) Options() []jtl.Option {
	return []jtl.Option{
		jtl.WithSampleElements(c.SampleElements...),
		jtl.WithResponseDataElement(c.ResponseDataElement),
		jtl.WithResultsElement(c.ResultsElement),
		jtl.WithExpectedVersion(c.ExpectedVersion),
	}
}
