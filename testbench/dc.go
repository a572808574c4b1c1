package testbench

import (
	"context"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/schema"
	"github.com/zero-day-ai/simsetup/simdata"
)

// DC sweeps one variable through DC operating points.
type DC struct {
	*Generic
}

// NewDC creates a DC testbench.
//
// Required keys: sweep_var (the swept variable) and sweep_options (a sweep
// mapping with type LINEAR, LOG or LIST). Optional: dc_options and
// save_outputs.
func NewDC(specs map[string]any, cfg *Config) (*DC, error) {
	tb := &DC{Generic: NewGeneric(specs, cfg)}
	if err := tb.validate(tb.SpecSchema()); err != nil {
		return nil, err
	}
	return tb, nil
}

func (tb *DC) Type() simdata.AnalysisType { return simdata.AnalysisDC }

// AnalysisDict returns the DC analysis description.
func (tb *DC) AnalysisDict() (map[string]any, error) {
	sweepVar, err := input.RequireString(tb.specs, "sweep_var")
	if err != nil {
		return nil, err
	}
	sweepOptions, err := input.RequireMap(tb.specs, "sweep_options")
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"type":         string(simdata.AnalysisDC),
		"param":        sweepVar,
		"sweep":        input.Clone(sweepOptions),
		"options":      input.Clone(input.GetMapOrEmpty(tb.specs, "dc_options")),
		"save_outputs": tb.SaveOutputs(),
	}, nil
}

// NetlistInfoDict returns the setup with the DC analysis merged in.
func (tb *DC) NetlistInfoDict() (map[string]any, error) {
	return tb.withAnalysis(tb.AnalysisDict)
}

// NetlistInfo normalizes the DC setup.
func (tb *DC) NetlistInfo(ctx context.Context) (*simdata.NetlistInfo, error) {
	return tb.netlistInfo(ctx, simdata.AnalysisDC, tb.NetlistInfoDict)
}

// SpecSchema describes the DC spec keys.
func (tb *DC) SpecSchema() schema.JSON {
	return specSchema(map[string]schema.JSON{
		"sweep_var":     paramName("variable swept by the DC analysis"),
		"sweep_options": sweepSchema().WithDesc("DC sweep points"),
		"dc_options":    options("simulator options for the DC analysis"),
	}, "sweep_var", "sweep_options")
}
