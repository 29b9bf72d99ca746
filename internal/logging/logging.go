// Package logging builds the process logger. The level comes from the
// --log-level flag, then SAKURAFLOW_LOG_LEVEL, then the config file, then
// info.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel is the environment variable consulted after the flag.
const EnvLevel = "SAKURAFLOW_LOG_LEVEL"

// DefaultLevel applies when no source sets a level.
const DefaultLevel = log.InfoLevel

// Prefix tags every line.
const Prefix = "sakuraflow"

// Source names where a level setting came from.
type Source string

// Level sources, highest precedence first.
const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceDefault Source = "default"
)

// New returns a text logger writing to w at level.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		Prefix:          Prefix,
		ReportTimestamp: level == log.DebugLevel,
	})
}

// ParseLevel accepts debug, info, warn (or warning), error and fatal, in any
// case. An empty string is the default level.
func ParseLevel(raw string) (log.Level, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultLevel, nil
	}
	if value == "warning" {
		value = "warn"
	}
	level, err := log.ParseLevel(value)
	if err != nil {
		return DefaultLevel, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

// Select picks the first non-empty setting in precedence order.
func Select(flagLevel, envLevel, configLevel string) (string, Source) {
	switch {
	case strings.TrimSpace(flagLevel) != "":
		return flagLevel, SourceFlag
	case strings.TrimSpace(envLevel) != "":
		return envLevel, SourceEnv
	case strings.TrimSpace(configLevel) != "":
		return configLevel, SourceConfig
	}
	return "", SourceDefault
}

// Configure builds the stderr logger from the flag and config settings and
// installs it as the package default. An invalid flag is an error; an
// invalid env or config value falls back to the default level and is
// returned as a warning for the caller to show.
func Configure(flagLevel, configLevel string) (*log.Logger, string, error) {
	envLevel := os.Getenv(EnvLevel)
	raw, source := Select(flagLevel, envLevel, configLevel)

	var warning string
	level, err := ParseLevel(raw)
	if err != nil {
		switch source {
		case SourceFlag:
			return nil, "", fmt.Errorf("invalid --log-level %q", flagLevel)
		case SourceEnv:
			warning = fmt.Sprintf("invalid %s=%q; defaulting to %s", EnvLevel, envLevel, DefaultLevel)
		case SourceConfig:
			warning = fmt.Sprintf("invalid log_level=%q; defaulting to %s", configLevel, DefaultLevel)
		}
		level = DefaultLevel
	}

	logger := New(os.Stderr, level)
	log.SetDefault(logger)
	return logger, warning, nil
}
