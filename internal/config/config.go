package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/cellundo/internal/history"
	"github.com/dshills/cellundo/internal/store"
)

// Config holds all cellundo settings.
type Config struct {
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// HistoryConfig configures every history manager the program creates.
type HistoryConfig struct {
	// TrackedCells limits history to these cells. Nil tracks every cell.
	TrackedCells []string `toml:"tracked_cells" yaml:"tracked_cells"`
	// StartWithTrackingEnabled sets the initial recording state.
	StartWithTrackingEnabled bool `toml:"start_with_tracking_enabled" yaml:"start_with_tracking_enabled"`
	// MaxEntries bounds the undo stack. Zero is unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			StartWithTrackingEnabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatConsole,
		},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.History.TrackedCells))
	for i, name := range c.History.TrackedCells {
		path := fmt.Sprintf("history.tracked_cells[%d]", i)
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &ValidationError{Path: path, Message: "cell name is empty", Value: name})
			continue
		}
		if seen[name] {
			errs = append(errs, &ValidationError{Path: path, Message: "duplicate cell name", Value: name})
		}
		seen[name] = true
	}

	if c.History.MaxEntries < 0 {
		errs = append(errs, &ValidationError{
			Path:    "history.max_entries",
			Message: "must not be negative",
			Value:   c.History.MaxEntries,
		})
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "logging.level",
			Message: "unknown level",
			Value:   c.Logging.Level,
		})
	}

	switch c.Logging.Format {
	case FormatConsole, FormatJSON:
	default:
		errs = append(errs, &ValidationError{
			Path:    "logging.format",
			Message: "must be console or json",
			Value:   c.Logging.Format,
		})
	}

	return errors.Join(errs...)
}

// HistoryOptions converts the history section into manager options.
// Extra options are appended and win over the configured ones.
func (c *Config) HistoryOptions(extra ...history.Option) []history.Option {
	opts := []history.Option{
		history.WithTrackingEnabled(c.History.StartWithTrackingEnabled),
		history.WithMaxEntries(c.History.MaxEntries),
	}
	if c.History.TrackedCells != nil {
		ids := make([]store.CellID, len(c.History.TrackedCells))
		for i, name := range c.History.TrackedCells {
			ids[i] = store.CellID(name)
		}
		opts = append(opts, history.WithTrackedCells(ids...))
	}
	return append(opts, extra...)
}

// Build creates a zap logger for these settings.
func (l LoggingConfig) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, &ValidationError{Path: "logging.level", Message: "unknown level", Value: l.Level}
	}

	var zc zap.Config
	switch l.Format {
	case FormatJSON:
		zc = zap.NewProductionConfig()
	case FormatConsole, "":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, &ValidationError{Path: "logging.format", Message: "must be console or json", Value: l.Format}
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
