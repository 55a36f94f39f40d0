// Package config loads cellundo settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← CELLUNDO_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← .toml, .yaml or .yml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A missing config file is not an error; the defaults are used instead.
// Unknown keys in a config file are rejected as parse errors.
//
// # Basic Usage
//
//	cfg, err := config.Load("cellundo.toml")
//	if err != nil {
//	    return err
//	}
//	logger, err := cfg.Logging.Build()
//	if err != nil {
//	    return err
//	}
//	mgr := history.New(st, cfg.HistoryOptions(history.WithLogger(logger))...)
//
// # File Format
//
//	[history]
//	tracked_cells = ["count"]
//	start_with_tracking_enabled = true
//	max_entries = 0
//
//	[logging]
//	level = "info"
//	format = "console"
package config
