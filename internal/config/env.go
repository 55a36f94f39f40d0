package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment variables that override file settings.
const (
	EnvLogLevel     = "CELLUNDO_LOG_LEVEL"
	EnvLogFormat    = "CELLUNDO_LOG_FORMAT"
	EnvTracking     = "CELLUNDO_TRACKING"
	EnvTrackedCells = "CELLUNDO_TRACKED_CELLS"
	EnvMaxEntries   = "CELLUNDO_MAX_ENTRIES"
)

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with any CELLUNDO_* variables that are set.
// An empty value is still a value: CELLUNDO_TRACKED_CELLS="" tracks nothing.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvLogFormat); ok {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvTracking); ok {
		b, err := parseBool(v)
		if err != nil {
			return &ParseError{Source: "$" + EnvTracking, Err: err}
		}
		cfg.History.StartWithTrackingEnabled = b
	}
	if v, ok := lookup(EnvTrackedCells); ok {
		cfg.History.TrackedCells = splitList(v)
	}
	if v, ok := lookup(EnvMaxEntries); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &ParseError{Source: "$" + EnvMaxEntries, Err: fmt.Errorf("not an integer: %w", err)}
		}
		cfg.History.MaxEntries = n
	}
	return nil
}

// parseBool accepts the usual strconv forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "on":
		return true, nil
	case "no", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}

// splitList splits a comma separated list, dropping blank entries.
// The result is never nil.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
