package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/config"
)

// errScenarioFailed is returned when any expectation fails. The report
// has already been printed, so main only sets the exit code.
var errScenarioFailed = errors.New("scenario failed")

// app carries what every subcommand needs once flags are parsed.
type app struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

// setup loads the configuration and builds the logger. A logger set
// before setup (tests) is kept.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if a.logger == nil {
		a.logger, err = cfg.Logging.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}
	a.logger.Debug("configuration loaded",
		zap.String("path", a.configPath),
		zap.Strings("tracked_cells", cfg.History.TrackedCells),
		zap.Bool("tracking", cfg.History.StartWithTrackingEnabled),
		zap.Int("max_entries", cfg.History.MaxEntries))
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cellundo",
		Short: "Undo/redo history for reactive cell stores",
		Long: `cellundo records every mutation of a cell store and replays it on undo
and redo. Scenarios (YAML) and Lua scripts drive a store and its history
from the command line.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(newRunCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newLuaCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}
