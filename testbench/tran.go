package testbench

import (
	"context"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/schema"
	"github.com/zero-day-ai/simsetup/simdata"
)

// Tran runs a transient analysis from t_start to the t_sim parameter.
type Tran struct {
	*Generic
}

// NewTran creates a transient testbench.
//
// sim_params must define t_sim. Optional keys: t_start (default 0),
// t_step (output strobe period), tran_options, sweep_var with
// sweep_options (a parameter swept inside the analysis), ic (initial node
// voltages) and save_outputs.
func NewTran(specs map[string]any, cfg *Config) (*Tran, error) {
	tb := &Tran{Generic: NewGeneric(specs, cfg)}
	if err := tb.validate(tb.SpecSchema()); err != nil {
		return nil, err
	}
	return tb, nil
}

func (tb *Tran) Type() simdata.AnalysisType { return simdata.AnalysisTran }

// AnalysisDict returns the transient analysis description. The stop time
// is always the expression "t_sim".
func (tb *Tran) AnalysisDict() (map[string]any, error) {
	start, ok := input.Lookup(tb.specs, "t_start")
	if !ok {
		start = 0.0
	}

	analysis := map[string]any{
		"type":         string(simdata.AnalysisTran),
		"start":        start,
		"stop":         "t_sim",
		"options":      input.Clone(input.GetMapOrEmpty(tb.specs, "tran_options")),
		"save_outputs": tb.SaveOutputs(),
	}

	sweepVar := input.GetString(tb.specs, "sweep_var", "")
	sweepOptions := input.GetMap(tb.specs, "sweep_options")
	if sweepVar != "" && len(sweepOptions) > 0 {
		analysis["sweep_var"] = sweepVar
		analysis["sweep_options"] = input.Clone(sweepOptions)
	}

	if tStep, ok := input.Lookup(tb.specs, "t_step"); ok {
		analysis["strobe"] = tStep
	}
	return analysis, nil
}

// NetlistInfoDict returns the setup with the transient analysis merged in
// and init_voltages taken from ic.
func (tb *Tran) NetlistInfoDict() (map[string]any, error) {
	setup, err := tb.withAnalysis(tb.AnalysisDict)
	if err != nil {
		return nil, err
	}
	if _, err := input.Require(setup["params"].(map[string]any), "t_sim"); err != nil {
		return nil, err
	}
	setup["init_voltages"] = input.Clone(input.GetMapOrEmpty(tb.specs, "ic"))
	return setup, nil
}

// NetlistInfo normalizes the transient setup.
func (tb *Tran) NetlistInfo(ctx context.Context) (*simdata.NetlistInfo, error) {
	return tb.netlistInfo(ctx, simdata.AnalysisTran, tb.NetlistInfoDict)
}

// SpecSchema describes the transient spec keys.
func (tb *Tran) SpecSchema() schema.JSON {
	s := specSchema(map[string]schema.JSON{
		"t_start":       schema.NumberOrExpr("analysis start time").WithDefault(0.0),
		"t_step":        schema.NumberOrExpr("output strobe period"),
		"tran_options":  options("simulator options for the transient analysis"),
		"sweep_var":     paramName("parameter swept inside the analysis"),
		"sweep_options": sweepSchema(),
		"ic":            schema.MapOf(schema.NumberOrExpr("")).WithDesc("initial node voltages"),
	})

	params := s.Properties["sim_params"]
	params.Properties = map[string]schema.JSON{"t_sim": schema.NumberOrExpr("simulation stop time")}
	params.Required = []string{"t_sim"}
	s.Properties["sim_params"] = params
	return s
}
