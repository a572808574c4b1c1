package simdata

import (
	"fmt"
	"strings"

	"github.com/zero-day-ai/simsetup/enum"
	"github.com/zero-day-ai/simsetup/input"
)

// AnalysisType is the literal tag identifying an analysis.
type AnalysisType string

const (
	AnalysisDC   AnalysisType = "DC"
	AnalysisPSS  AnalysisType = "PSS"
	AnalysisTran AnalysisType = "TRAN"
)

func init() {
	enum.Register("analysis", "type", map[string]string{
		"dc":           string(AnalysisDC),
		"pss":          string(AnalysisPSS),
		"steady_state": string(AnalysisPSS),
		"tran":         string(AnalysisTran),
		"transient":    string(AnalysisTran),
	})
}

// ParseAnalysisType resolves a type tag, accepting lowercase tags and aliases.
func ParseAnalysisType(s string) (AnalysisType, error) {
	canonical, ok := enum.Normalize("analysis", "type", s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAnalysis, s)
	}
	return AnalysisType(canonical), nil
}

// Analysis is one simulator analysis in a netlist setup.
type Analysis interface {
	// Type returns the analysis tag.
	Type() AnalysisType

	// Dict renders the analysis in mapping form.
	Dict() map[string]any
}

// DC is a DC operating point sweep.
type DC struct {
	Param       string
	Sweep       Sweep
	Options     map[string]any
	SaveOutputs []string
}

func (a *DC) Type() AnalysisType { return AnalysisDC }

func (a *DC) Dict() map[string]any {
	return map[string]any{
		"type":         string(AnalysisDC),
		"param":        a.Param,
		"sweep":        a.Sweep.Dict(),
		"options":      copyMap(a.Options),
		"save_outputs": copyStrings(a.SaveOutputs),
	}
}

// Tran is a transient analysis. Stop is usually the expression "t_sim".
type Tran struct {
	Start        Value
	Stop         Value
	Strobe       *Value
	OutStart     *Value
	SweepVar     string
	SweepOptions *Sweep
	Options      map[string]any
	SaveOutputs  []string
}

func (a *Tran) Type() AnalysisType { return AnalysisTran }

func (a *Tran) Dict() map[string]any {
	out := map[string]any{
		"type":         string(AnalysisTran),
		"start":        a.Start.Interface(),
		"stop":         a.Stop.Interface(),
		"options":      copyMap(a.Options),
		"save_outputs": copyStrings(a.SaveOutputs),
	}
	if a.Strobe != nil {
		out["strobe"] = a.Strobe.Interface()
	}
	if a.OutStart != nil {
		out["out_start"] = a.OutStart.Interface()
	}
	if a.SweepVar != "" && a.SweepOptions != nil {
		out["sweep_var"] = a.SweepVar
		out["sweep_options"] = a.SweepOptions.Dict()
	}
	return out
}

// PSS is a periodic steady-state analysis. The fundamental is given by
// Period, Fund or Autofund; PPort and NPort name the oscillator nodes for
// autonomous circuits.
type PSS struct {
	PPort       string
	NPort       string
	Period      *Value
	Fund        *Value
	Autofund    *bool
	Strobe      *Value
	Options     map[string]any
	SaveOutputs []string
}

func (a *PSS) Type() AnalysisType { return AnalysisPSS }

func (a *PSS) Dict() map[string]any {
	out := map[string]any{
		"type":         string(AnalysisPSS),
		"options":      copyMap(a.Options),
		"save_outputs": copyStrings(a.SaveOutputs),
	}
	if a.PPort != "" {
		out["p_port"] = a.PPort
	}
	if a.NPort != "" {
		out["n_port"] = a.NPort
	}
	if a.Period != nil {
		out["period"] = a.Period.Interface()
	}
	if a.Fund != nil {
		out["fund"] = a.Fund.Interface()
	}
	if a.Autofund != nil {
		out["autofund"] = *a.Autofund
	}
	if a.Strobe != nil {
		out["strobe"] = a.Strobe.Interface()
	}
	return out
}

// AnalysisFromDict normalizes one analysis mapping.
func AnalysisFromDict(m map[string]any) (Analysis, error) {
	tag, err := input.RequireString(m, "type")
	if err != nil {
		return nil, err
	}
	typ, err := ParseAnalysisType(tag)
	if err != nil {
		return nil, err
	}

	switch typ {
	case AnalysisDC:
		return dcFromDict(m)
	case AnalysisTran:
		return tranFromDict(m)
	case AnalysisPSS:
		return pssFromDict(m)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAnalysis, tag)
}

func dcFromDict(m map[string]any) (*DC, error) {
	param, err := input.RequireString(m, "param")
	if err != nil {
		return nil, fmt.Errorf("DC: %w", err)
	}
	raw, err := input.RequireMap(m, "sweep")
	if err != nil {
		return nil, fmt.Errorf("DC: %w", err)
	}
	sweep, err := SweepFromDict(raw)
	if err != nil {
		return nil, fmt.Errorf("DC sweep of %s: %w", param, err)
	}
	return &DC{
		Param:       param,
		Sweep:       sweep,
		Options:     input.GetMapOrEmpty(m, "options"),
		SaveOutputs: saveOutputs(m),
	}, nil
}

func tranFromDict(m map[string]any) (*Tran, error) {
	a := &Tran{
		Start:       Num(0),
		Options:     input.GetMapOrEmpty(m, "options"),
		SaveOutputs: saveOutputs(m),
	}

	start, err := valuePtr(m, "start")
	if err != nil {
		return nil, fmt.Errorf("TRAN: %w", err)
	}
	if start != nil {
		a.Start = *start
	}
	if a.Stop, err = requireValue(m, "stop"); err != nil {
		return nil, fmt.Errorf("TRAN: %w", err)
	}
	if a.Strobe, err = valuePtr(m, "strobe"); err != nil {
		return nil, fmt.Errorf("TRAN: %w", err)
	}
	if a.OutStart, err = valuePtr(m, "out_start"); err != nil {
		return nil, fmt.Errorf("TRAN: %w", err)
	}

	sweepVar := input.GetString(m, "sweep_var", "")
	sweepOpts := input.GetMap(m, "sweep_options")
	if sweepVar != "" && len(sweepOpts) > 0 {
		sweep, err := SweepFromDict(sweepOpts)
		if err != nil {
			return nil, fmt.Errorf("TRAN sweep of %s: %w", sweepVar, err)
		}
		a.SweepVar = sweepVar
		a.SweepOptions = &sweep
	}
	return a, nil
}

func pssFromDict(m map[string]any) (*PSS, error) {
	a := &PSS{
		PPort:       input.GetString(m, "p_port", ""),
		NPort:       input.GetString(m, "n_port", ""),
		Options:     input.GetMapOrEmpty(m, "options"),
		SaveOutputs: saveOutputs(m),
	}

	var err error
	if a.Period, err = valuePtr(m, "period"); err != nil {
		return nil, fmt.Errorf("PSS: %w", err)
	}
	if a.Fund, err = valuePtr(m, "fund"); err != nil {
		return nil, fmt.Errorf("PSS: %w", err)
	}
	if a.Strobe, err = valuePtr(m, "strobe"); err != nil {
		return nil, fmt.Errorf("PSS: %w", err)
	}
	if raw, ok := input.Lookup(m, "autofund"); ok {
		b, err := parseYesNo(raw)
		if err != nil {
			return nil, fmt.Errorf("PSS: autofund: %w", err)
		}
		a.Autofund = &b
	}
	return a, nil
}

// parseYesNo accepts booleans and the strings yes, no, true and false.
func parseYesNo(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true":
			return true, nil
		case "no", "false":
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: expected yes/no, got %v", ErrInvalidValue, v)
}

func saveOutputs(m map[string]any) []string {
	if out := input.GetStringSlice(m, "save_outputs"); out != nil {
		return out
	}
	return []string{}
}

func copyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return input.Clone(m)
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
