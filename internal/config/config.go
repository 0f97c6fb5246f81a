// Package config turns command-line arguments and the optional settings file
// into the explicit configuration handed to every component.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Recognized argument keys.
const (
	KeyIdle     = "idle"
	KeyFile     = "file"
	KeySettings = "settings"
	KeyUI       = "ui"
	KeyLog      = "log"
)

const (
	DefaultIdleMinutes = 5
	DefaultRulesFile   = "rules.txt"
	DefaultLogFile     = "keepactive.log"
)

// Arg documents one key=value argument.
type Arg struct {
	Key     string
	Value   string
	Default string
	Desc    string
}

// Args lists every recognized argument, in help order.
var Args = []Arg{
	{Key: KeyIdle, Value: "<minutes>", Default: strconv.Itoa(DefaultIdleMinutes), Desc: "Idle time in minutes before the pointer is moved"},
	{Key: KeyFile, Value: "<path>", Default: DefaultRulesFile, Desc: "Rules file with one \"Day;HH:mm;HH:mm\" window per line"},
	{Key: KeySettings, Value: "<path>", Default: "", Desc: "Optional YAML file tuning delays, step size and log level"},
	{Key: KeyUI, Value: "<true|false>", Default: "true", Desc: "Show the status screen; false runs headless"},
	{Key: KeyLog, Value: "<path>", Default: DefaultLogFile, Desc: "Log file, or \"-\" for standard error"},
}

// ConfigError reports an unusable argument or settings value.
type ConfigError struct {
	Key    string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid argument %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid value %q for %q: %s", e.Value, e.Key, e.Reason)
}

// Config is the resolved startup configuration.
type Config struct {
	IdleThreshold time.Duration
	RulesFile     string
	SettingsFile  string
	UI            bool
	LogFile       string
	ShowHelp      bool
	ShowVersion   bool
	Settings      Settings
}

// Default returns the configuration used when no arguments are given.
func Default() *Config {
	return &Config{
		IdleThreshold: DefaultIdleMinutes * time.Minute,
		RulesFile:     DefaultRulesFile,
		UI:            true,
		LogFile:       DefaultLogFile,
		Settings:      DefaultSettings(),
	}
}

// ParseArgs parses key=value tokens. Keys are case-insensitive. The bare
// tokens help/-h/--help and version/-v/--version set ShowHelp and ShowVersion.
func ParseArgs(args []string) (*Config, error) {
	cfg := Default()

	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "help", "-h", "--help", "/?":
			cfg.ShowHelp = true
			continue
		case "version", "-v", "--version":
			cfg.ShowVersion = true
			continue
		}

		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, &ConfigError{Key: arg, Reason: "expected key=value"}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case KeyIdle:
			minutes, err := strconv.Atoi(value)
			if err != nil {
				return nil, &ConfigError{Key: key, Value: value, Reason: "cannot convert to an integer number of minutes"}
			}
			if minutes < 0 {
				return nil, &ConfigError{Key: key, Value: value, Reason: "must not be negative"}
			}
			cfg.IdleThreshold = time.Duration(minutes) * time.Minute
		case KeyFile:
			if value == "" {
				return nil, &ConfigError{Key: key, Reason: "path is empty"}
			}
			cfg.RulesFile = value
		case KeySettings:
			cfg.SettingsFile = value
		case KeyUI:
			ui, err := strconv.ParseBool(value)
			if err != nil {
				return nil, &ConfigError{Key: key, Value: value, Reason: "expected true or false"}
			}
			cfg.UI = ui
		case KeyLog:
			if value == "" {
				return nil, &ConfigError{Key: key, Reason: "path is empty"}
			}
			cfg.LogFile = value
		default:
			return nil, &ConfigError{Key: key, Reason: "unknown argument name"}
		}
	}

	return cfg, nil
}
