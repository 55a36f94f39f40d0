package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/cellundo/internal/scenario"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run scenario.yaml...",
		Short: "Run scenarios and check their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := a.runner()
			failed := false
			for _, path := range args {
				res, err := runner.RunFile(path)
				if !printResult(a.out, path, res, err) {
					failed = true
				}
			}
			if failed {
				return errScenarioFailed
			}
			return nil
		},
	}
}

func (a *app) runner(opts ...scenario.Option) *scenario.Runner {
	opts = append([]scenario.Option{
		scenario.WithLogger(a.logger),
		scenario.WithHistoryConfig(a.cfg.History),
	}, opts...)
	return scenario.NewRunner(opts...)
}

// printResult writes a PASS/FAIL report and returns whether the run passed.
func printResult(w io.Writer, path string, res *scenario.Result, err error) bool {
	if err != nil {
		fmt.Fprintf(w, "ERROR %s: %v\n", path, err)
		return false
	}

	name := res.Name
	if name == "" {
		name = path
	}
	if res.Passed() {
		fmt.Fprintf(w, "PASS  %s (%d steps)\n", name, res.Steps)
		return true
	}
	fmt.Fprintf(w, "FAIL  %s\n", name)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "      %v\n", f)
	}
	return false
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch scenario.yaml",
		Short: "Re-run a scenario every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			a.logger.Info("watching scenario", zap.String("path", path))
			return a.runner().Watch(cmd.Context(), path, func(res *scenario.Result, err error) {
				printResult(a.out, path, res, err)
			})
		},
	}
}
