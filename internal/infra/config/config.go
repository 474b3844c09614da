// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/playerbox/internal/app/playback"
)

// Config represents the application configuration.
type Config struct {
	Logging LoggingConfig  `yaml:"logging"`
	Remote  RemoteConfig   `yaml:"remote"`
	Devices []DeviceConfig `yaml:"devices" validate:"required,min=1,dive"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// LoggingConfig represents logger configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"PLAYERBOX_LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Output string `yaml:"output" env:"PLAYERBOX_LOG_OUTPUT" default:"stdout"`
}

// RemoteConfig represents the interactive remote configuration.
type RemoteConfig struct {
	HideMenu bool              `yaml:"hide_menu" env:"PLAYERBOX_HIDE_MENU"`
	Keymap   map[string]string `yaml:"keymap"`
}

// DeviceConfig represents a single actuator device configuration.
type DeviceConfig struct {
	Type     string         `yaml:"type" validate:"required,oneof=console log shell"`
	Name     string         `yaml:"name"`
	Settings map[string]any `yaml:"settings"`
}

// MetricsConfig represents metrics exposition configuration.
type MetricsConfig struct {
	Addr string `yaml:"addr" env:"PLAYERBOX_METRICS_ADDR" validate:"omitempty,hostname_port"`
	Path string `yaml:"path" default:"/metrics" validate:"omitempty,startswith=/"`
}

// DefaultKeymap maps the classic menu numbers to events.
func DefaultKeymap() map[string]string {
	return map[string]string{
		"1": playback.EventPowerToggle.String(),
		"2": playback.EventPlayPauseToggle.String(),
	}
}

// Default returns the configuration used when no file is given.
func Default() (*Config, error) {
	var cfg Config
	return finish(&cfg)
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to read environment")
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return cfg, nil
}

// applyDefaults fills the values struct tags cannot express.
func (c *Config) applyDefaults() {
	if len(c.Remote.Keymap) == 0 {
		c.Remote.Keymap = DefaultKeymap()
	}
	if len(c.Devices) == 0 {
		c.Devices = []DeviceConfig{{Type: "console", Name: "console"}}
	}
	for i := range c.Devices {
		if c.Devices[i].Name == "" {
			c.Devices[i].Name = c.Devices[i].Type
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if _, err := c.Keymap(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i, d := range c.Devices {
		if d.Name != "" && seen[d.Name] {
			return errors.Newf("duplicate device name %q (device index %d)", d.Name, i)
		}
		seen[d.Name] = true
	}

	return nil
}

// Keymap returns the remote keymap resolved to events.
func (c *Config) Keymap() (map[string]playback.Event, error) {
	keys := make([]string, 0, len(c.Remote.Keymap))
	for k := range c.Remote.Keymap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]playback.Event, len(keys))
	for _, k := range keys {
		if k == "" {
			return nil, errors.New("keymap contains an empty key")
		}
		ev, err := playback.ParseEvent(c.Remote.Keymap[k])
		if err != nil {
			return nil, errors.Wrapf(err, "keymap entry %q", k)
		}
		out[k] = ev
	}
	return out, nil
}
