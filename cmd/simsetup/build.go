package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/simsetup"
	"github.com/zero-day-ai/simsetup/simdata"
	"github.com/zero-day-ai/simsetup/specfile"
)

func newBuildCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "build [path]",
		Short: "Print the normalized netlist setup of a spec file",
		Long: `Loads the spec file at path (or simsetup.yaml in the directory, searching ` +
			`parent directories when no path is given) and prints the netlist setup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, info, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), info, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml, json or proto")
	return cmd
}

// load builds the netlist setup for the spec file named by args.
func (a *app) load(cmd *cobra.Command, args []string) (*specfile.File, *simdata.NetlistInfo, error) {
	var (
		f   *specfile.File
		err error
	)
	if len(args) == 0 {
		f, err = specfile.LoadFromCurrentDir()
		if err != nil {
			return nil, nil, simsetup.NewNotFoundError("load", err)
		}
		args = []string{f.Path}
	}

	f, tb, err := simsetup.LoadTestbench(args[0], a.options()...)
	if err != nil {
		return nil, nil, err
	}
	info, err := tb.NetlistInfo(cmd.Context())
	if err != nil {
		return nil, nil, simsetup.NewValidationError("build", err).WithContext(map[string]any{"path": f.Path})
	}
	a.logger.Debug("loaded spec file",
		"path", f.Path,
		"kind", f.Kind,
		"analyses", len(info.Analyses))
	return f, info, nil
}

func writeInfo(w io.Writer, info *simdata.NetlistInfo, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "proto":
		data, err := info.MarshalProtoJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return simsetup.NewConfigurationError("build", fmt.Errorf("unknown format %q", format))
	}
}
