package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/stigoleg/keep-active/internal/delay"
	"github.com/stigoleg/keep-active/internal/simulator"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Settings tunes timing and movement. Keys missing from the file keep their defaults.
type Settings struct {
	IdlePollDelay         time.Duration `yaml:"idle_poll_delay"`
	MinMoveDelay          time.Duration `yaml:"min_move_delay"`
	MaxMoveDelay          time.Duration `yaml:"max_move_delay"`
	MaxStep               int           `yaml:"max_step"`
	DirectionChangeChance float64       `yaml:"direction_change_chance"`
	LogLevel              string        `yaml:"log_level"`
}

// DefaultSettings returns the stock timing and movement settings.
func DefaultSettings() Settings {
	d := delay.DefaultConfig()
	return Settings{
		IdlePollDelay:         d.IdleDelay,
		MinMoveDelay:          d.MinMoveDelay,
		MaxMoveDelay:          d.MaxMoveDelay,
		MaxStep:               simulator.DefaultMaxStep,
		DirectionChangeChance: simulator.DefaultDirectionChangeChance,
		LogLevel:              "info",
	}
}

// DecodeSettings reads YAML settings over the defaults. Unknown keys are rejected.
func DecodeSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, &ConfigError{Key: KeySettings, Reason: err.Error()}
	}

	if err := s.DelayConfig().Validate(); err != nil {
		return Settings{}, &ConfigError{Key: KeySettings, Reason: err.Error()}
	}
	if err := s.SimulatorConfig(0).Validate(); err != nil {
		return Settings{}, &ConfigError{Key: KeySettings, Reason: err.Error()}
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, &ConfigError{Key: "log_level", Value: s.LogLevel, Reason: "expected debug, info, warn or error"}
	}
	return s, nil
}

// LoadSettings reads SettingsFile, if set, into c.Settings.
func (c *Config) LoadSettings() error {
	if c.SettingsFile == "" {
		return nil
	}

	f, err := os.Open(c.SettingsFile)
	if err != nil {
		return fmt.Errorf("open settings file: %w", err)
	}
	defer f.Close()

	s, err := DecodeSettings(f)
	if err != nil {
		return err
	}
	c.Settings = s
	return nil
}

// DelayConfig returns the delay generator configuration.
func (s Settings) DelayConfig() delay.Config {
	return delay.Config{
		IdleDelay:    s.IdlePollDelay,
		MinMoveDelay: s.MinMoveDelay,
		MaxMoveDelay: s.MaxMoveDelay,
	}
}

// SimulatorConfig returns the simulator configuration for the given idle threshold.
func (s Settings) SimulatorConfig(idle time.Duration) simulator.Config {
	return simulator.Config{
		IdleThreshold:         idle,
		MaxStep:               s.MaxStep,
		DirectionChangeChance: s.DirectionChangeChance,
	}
}

// DelayConfig is Settings.DelayConfig for the loaded settings.
func (c *Config) DelayConfig() delay.Config {
	return c.Settings.DelayConfig()
}

// SimulatorConfig combines the idle argument with the loaded settings.
func (c *Config) SimulatorConfig() simulator.Config {
	return c.Settings.SimulatorConfig(c.IdleThreshold)
}
