package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/simsetup"
)

// app holds state shared by all subcommands.
type app struct {
	verbose bool
	strict  bool
	logger  *slog.Logger
}

func (a *app) options() []simsetup.Option {
	return []simsetup.Option{
		simsetup.WithLogger(a.logger),
		simsetup.WithStrict(a.strict),
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "simsetup",
		Short: "Build simulation netlist setups from testbench specs.",
		Long: `simsetup turns DC, PSS and transient testbench specs into normalized ` +
			`netlist setups, checks them, and hands them to simulation backends ` +
			`through a Redis job queue.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "validate specs against the testbench schema and check the setup")

	root.AddCommand(
		newBuildCmd(a),
		newValidateCmd(a),
		newSchemaCmd(),
		newKindsCmd(),
		newSubmitCmd(a),
		newDescribeCmd(a),
		newBackendsCmd(a),
	)
	return root
}
