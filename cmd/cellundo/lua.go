package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/cellundo/internal/script"
)

func newLuaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lua script.lua",
		Short: "Run a Lua script against a fresh store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			host := script.NewHost(
				script.WithLogger(a.logger),
				script.WithOutput(a.out),
				script.WithHistoryOptions(a.cfg.HistoryOptions()...),
			)
			defer host.Close()

			return host.DoFile(cmd.Context(), args[0])
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("cellundo %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
