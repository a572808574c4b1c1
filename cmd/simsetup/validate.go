package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/simsetup/testbench"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a spec file against its testbench schema and the built setup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.strict = true
			f, info, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			types := make([]string, 0, len(info.Analyses))
			for _, t := range info.AnalysisTypes() {
				types = append(types, string(t))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%s, %s, %d corners)\n",
				f.Path, f.Name, strings.Join(types, ","), len(info.SimEnvs))
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <kind>",
		Short: "Print the JSON schema of a testbench kind's spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := testbench.New(args[0], map[string]any{}, nil)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(tb.SpecSchema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered testbench kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, kind := range testbench.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), kind)
			}
		},
	}
}
