package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zero-day-ai/simsetup/simdata"
	"github.com/zero-day-ai/simsetup/specfile"
	"github.com/zero-day-ai/simsetup/units"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [path]",
		Short: "Summarize the netlist setup of a spec file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, info, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			describe(cmd.OutOrStdout(), f, info)
			return nil
		},
	}
}

func describe(w io.Writer, f *specfile.File, info *simdata.NetlistInfo) {
	fmt.Fprintf(w, "%s (%s)", f.Name, f.Kind)
	if f.Description != "" {
		fmt.Fprintf(w, ": %s", f.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "corners: %s\n", strings.Join(info.SimEnvs, ", "))

	if len(info.Params) > 0 {
		fmt.Fprintln(w, "params:")
		for _, name := range sortedNames(info.Params) {
			fmt.Fprintf(w, "  %s = %s\n", name, describeValue(info, info.Params[name]))
		}
	}

	if len(info.EnvParams) > 0 {
		fmt.Fprintln(w, "corner params:")
		for _, name := range sortedNames(info.EnvParams) {
			perEnv := info.EnvParams[name]
			parts := make([]string, 0, len(perEnv))
			for _, env := range info.SimEnvs {
				if v, ok := perEnv[env]; ok {
					parts = append(parts, env+"="+strings.TrimSpace(v.Format("")))
				}
			}
			fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(parts, " "))
		}
	}

	if len(info.SwpInfo) > 0 {
		fmt.Fprintln(w, "sweeps:")
		for _, sv := range info.SwpInfo {
			fmt.Fprintf(w, "  %s: %s\n", sv.Name, describeSweep(info, sv.Sweep))
		}
	}

	fmt.Fprintln(w, "analyses:")
	for _, a := range info.Analyses {
		fmt.Fprintf(w, "  %s\n", describeAnalysis(info, a))
	}
}

// describeValue renders v with an engineering prefix, resolving
// expressions when possible.
func describeValue(info *simdata.NetlistInfo, v simdata.Value) string {
	if !v.IsExpr() {
		return strings.TrimSpace(v.Format(""))
	}
	f, err := info.Eval(v)
	if err != nil {
		return v.Expression()
	}
	return fmt.Sprintf("%s (%s)", v.Expression(), strings.TrimSpace(units.Format(f, "")))
}

func describeFrequency(info *simdata.NetlistInfo, v simdata.Value) string {
	f, err := info.Eval(v)
	if err != nil {
		return v.Expression()
	}
	if !v.IsExpr() {
		return units.FormatFrequency(f)
	}
	return fmt.Sprintf("%s (%s)", v.Expression(), units.FormatFrequency(f))
}

func describeSweep(info *simdata.NetlistInfo, s simdata.Sweep) string {
	if s.Type == simdata.SweepList {
		vals := make([]string, len(s.Values))
		for i, v := range s.Values {
			vals[i] = strings.TrimSpace(units.Format(v, ""))
		}
		return fmt.Sprintf("LIST [%s]", strings.Join(vals, ", "))
	}
	out := fmt.Sprintf("%s %s to %s", s.Type, describeValue(info, s.Start), describeValue(info, s.Stop))
	switch n := s.Len(); {
	case n >= 0:
		out += fmt.Sprintf(", %d points", n)
	case s.Step != nil:
		out += ", step " + describeValue(info, *s.Step)
	}
	return out
}

func describeAnalysis(info *simdata.NetlistInfo, a simdata.Analysis) string {
	switch a := a.(type) {
	case *simdata.DC:
		return fmt.Sprintf("DC sweep %s: %s", a.Param, describeSweep(info, a.Sweep))
	case *simdata.Tran:
		out := fmt.Sprintf("TRAN %s to %s", describeValue(info, a.Start), describeValue(info, a.Stop))
		if a.Strobe != nil {
			out += ", strobe " + describeValue(info, *a.Strobe)
		}
		if a.SweepOptions != nil {
			out += fmt.Sprintf(", sweeping %s: %s", a.SweepVar, describeSweep(info, *a.SweepOptions))
		}
		return out
	case *simdata.PSS:
		var parts []string
		if a.Period != nil {
			parts = append(parts, "period "+describeValue(info, *a.Period))
		}
		if a.Fund != nil {
			parts = append(parts, "fund "+describeFrequency(info, *a.Fund))
		}
		if a.Autofund != nil && *a.Autofund {
			parts = append(parts, "autofund")
		}
		if a.PPort != "" {
			parts = append(parts, fmt.Sprintf("ports %s/%s", a.PPort, a.NPort))
		}
		return strings.TrimSpace("PSS " + strings.Join(parts, ", "))
	default:
		return string(a.Type())
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
