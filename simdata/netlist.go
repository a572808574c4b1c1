package simdata

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/simsetup/input"
)

// SweepVar is one entry of the outer parameter sweep list.
type SweepVar struct {
	Name  string
	Sweep Sweep
}

// NetlistInfo is the normalized simulation setup consumed by netlist writers.
type NetlistInfo struct {
	// SimEnvs lists the process corners to simulate.
	SimEnvs []string

	Analyses []Analysis

	// Params holds fixed design parameter values.
	Params map[string]Value

	// EnvParams holds per-corner values: parameter name to corner to value.
	EnvParams map[string]map[string]Value

	// SwpInfo lists the outer parameter sweeps, outermost first.
	SwpInfo []SweepVar

	// Outputs maps output names to simulator expressions.
	Outputs map[string]string

	Options map[string]any

	// MonteCarlo is nil when Monte Carlo is disabled.
	MonteCarlo map[string]any

	// InitVoltages maps node names to initial conditions.
	InitVoltages map[string]Value
}

// FromDict normalizes a netlist setup mapping.
//
// Required keys are sim_envs and analyses. params, env_params, swp_info,
// outputs, options, monte_carlo and init_voltages are optional. swp_info
// may be a list of [name, sweep] pairs or a mapping, which is ordered by
// name.
func FromDict(setup map[string]any) (*NetlistInfo, error) {
	if setup == nil {
		return nil, fmt.Errorf("%w: nil setup", ErrInvalidSetup)
	}

	info := &NetlistInfo{
		Options:    input.GetMapOrEmpty(setup, "options"),
		MonteCarlo: input.GetMap(setup, "monte_carlo"),
	}

	if _, err := input.Require(setup, "sim_envs"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	info.SimEnvs = input.GetStringSlice(setup, "sim_envs")
	if len(info.SimEnvs) == 0 {
		return nil, fmt.Errorf("%w: sim_envs is empty", ErrInvalidSetup)
	}

	if _, err := input.Require(setup, "analyses"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	rawAnalyses := input.GetSlice(setup, "analyses")
	if len(rawAnalyses) == 0 {
		return nil, fmt.Errorf("%w: analyses must be a non-empty list", ErrInvalidSetup)
	}
	for i, raw := range rawAnalyses {
		m, ok := input.AsMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: analyses[%d] is %T, not a mapping", ErrInvalidSetup, i, raw)
		}
		a, err := AnalysisFromDict(m)
		if err != nil {
			return nil, fmt.Errorf("%w: analyses[%d]: %w", ErrInvalidSetup, i, err)
		}
		info.Analyses = append(info.Analyses, a)
	}

	var err error
	if info.Params, err = valueMap(input.GetMapOrEmpty(setup, "params"), "param"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	if info.InitVoltages, err = valueMap(input.GetMapOrEmpty(setup, "init_voltages"), "init voltage"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}

	info.EnvParams = make(map[string]map[string]Value)
	for name, raw := range input.GetMapOrEmpty(setup, "env_params") {
		perEnv, ok := input.AsMap(raw)
		if !ok {
			return nil, fmt.Errorf("%w: env_params %s is %T, not a mapping", ErrInvalidSetup, name, raw)
		}
		if info.EnvParams[name], err = valueMap(perEnv, "env_params "+name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
		}
	}

	if info.SwpInfo, err = parseSwpInfo(setup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}

	info.Outputs = make(map[string]string)
	for name, raw := range input.GetMapOrEmpty(setup, "outputs") {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: output %s is %T, not a string", ErrInvalidSetup, name, raw)
		}
		info.Outputs[name] = s
	}

	return info, nil
}

func parseSwpInfo(setup map[string]any) ([]SweepVar, error) {
	raw, ok := input.Lookup(setup, "swp_info")
	if !ok {
		return nil, nil
	}

	if m, isMap := input.AsMap(raw); isMap {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]SweepVar, 0, len(names))
		for _, name := range names {
			sv, err := sweepVar(name, m[name])
			if err != nil {
				return nil, err
			}
			out = append(out, sv)
		}
		return out, nil
	}

	items := input.GetSlice(setup, "swp_info")
	if items == nil {
		return nil, fmt.Errorf("swp_info is %T, not a list or mapping", raw)
	}
	out := make([]SweepVar, 0, len(items))
	for i, item := range items {
		pair, ok := item.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("swp_info[%d] must be a [name, sweep] pair", i)
		}
		name, ok := pair[0].(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("swp_info[%d] name must be a non-empty string", i)
		}
		sv, err := sweepVar(name, pair[1])
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

func sweepVar(name string, raw any) (SweepVar, error) {
	m, ok := input.AsMap(raw)
	if !ok {
		return SweepVar{}, fmt.Errorf("swp_info %s is %T, not a mapping", name, raw)
	}
	sweep, err := SweepFromDict(m)
	if err != nil {
		return SweepVar{}, fmt.Errorf("swp_info %s: %w", name, err)
	}
	return SweepVar{Name: name, Sweep: sweep}, nil
}

// Dict renders the setup back to mapping form. FromDict(info.Dict())
// yields an equivalent NetlistInfo.
func (n *NetlistInfo) Dict() map[string]any {
	analyses := make([]any, len(n.Analyses))
	for i, a := range n.Analyses {
		analyses[i] = a.Dict()
	}

	envParams := make(map[string]any, len(n.EnvParams))
	for name, perEnv := range n.EnvParams {
		envParams[name] = valueMapDict(perEnv)
	}

	swpInfo := make([]any, len(n.SwpInfo))
	for i, sv := range n.SwpInfo {
		swpInfo[i] = []any{sv.Name, sv.Sweep.Dict()}
	}

	outputs := make(map[string]any, len(n.Outputs))
	for name, e := range n.Outputs {
		outputs[name] = e
	}

	out := map[string]any{
		"sim_envs":   copyStrings(n.SimEnvs),
		"analyses":   analyses,
		"params":     valueMapDict(n.Params),
		"env_params": envParams,
		"swp_info":   swpInfo,
		"outputs":    outputs,
		"options":    copyMap(n.Options),
	}
	if n.MonteCarlo != nil {
		out["monte_carlo"] = input.Clone(n.MonteCarlo)
	}
	if len(n.InitVoltages) > 0 {
		out["init_voltages"] = valueMapDict(n.InitVoltages)
	}
	return out
}

// AnalysisTypes returns the analysis tags in order.
func (n *NetlistInfo) AnalysisTypes() []AnalysisType {
	out := make([]AnalysisType, len(n.Analyses))
	for i, a := range n.Analyses {
		out[i] = a.Type()
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (n *NetlistInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Dict())
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NetlistInfo) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromDict(raw)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (n *NetlistInfo) MarshalYAML() (any, error) {
	return n.Dict(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NetlistInfo) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromDict(raw)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}
