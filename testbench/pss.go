package testbench

import (
	"context"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/schema"
	"github.com/zero-day-ai/simsetup/simdata"
)

// pssPassthrough lists the PSS keys copied verbatim when present.
var pssPassthrough = []string{"p_port", "n_port", "period", "fund", "autofund"}

// PSS runs a periodic steady-state analysis.
type PSS struct {
	*Generic
}

// NewPSS creates a PSS testbench.
//
// Optional keys: p_port and n_port (oscillator nodes), period or fund
// (the fundamental), autofund, t_step (output strobe period), pss_options
// and save_outputs.
func NewPSS(specs map[string]any, cfg *Config) (*PSS, error) {
	tb := &PSS{Generic: NewGeneric(specs, cfg)}
	if err := tb.validate(tb.SpecSchema()); err != nil {
		return nil, err
	}
	return tb, nil
}

func (tb *PSS) Type() simdata.AnalysisType { return simdata.AnalysisPSS }

// AnalysisDict returns the PSS analysis description.
func (tb *PSS) AnalysisDict() (map[string]any, error) {
	analysis := map[string]any{
		"type":         string(simdata.AnalysisPSS),
		"options":      input.Clone(input.GetMapOrEmpty(tb.specs, "pss_options")),
		"save_outputs": tb.SaveOutputs(),
	}
	if tStep, ok := input.Lookup(tb.specs, "t_step"); ok {
		analysis["strobe"] = tStep
	}
	for _, key := range pssPassthrough {
		if input.Has(tb.specs, key) {
			analysis[key] = input.CloneValue(tb.specs[key])
		}
	}
	return analysis, nil
}

// NetlistInfoDict returns the setup with the PSS analysis merged in.
func (tb *PSS) NetlistInfoDict() (map[string]any, error) {
	return tb.withAnalysis(tb.AnalysisDict)
}

// SimSetup returns the merged setup mapping before normalization.
func (tb *PSS) SimSetup() (map[string]any, error) {
	return tb.NetlistInfoDict()
}

// NetlistInfo normalizes the PSS setup.
func (tb *PSS) NetlistInfo(ctx context.Context) (*simdata.NetlistInfo, error) {
	return tb.netlistInfo(ctx, simdata.AnalysisPSS, tb.NetlistInfoDict)
}

// SpecSchema describes the PSS spec keys.
func (tb *PSS) SpecSchema() schema.JSON {
	return specSchema(map[string]schema.JSON{
		"p_port":      nodeName("positive oscillator node"),
		"n_port":      nodeName("negative oscillator node"),
		"period":      schema.NumberOrExpr("fundamental period"),
		"fund":        schema.NumberOrExpr("fundamental frequency"),
		"autofund":    schema.AnyOf(schema.Bool(), schema.Enum("yes", "no")).WithDesc("detect the fundamental automatically"),
		"t_step":      schema.NumberOrExpr("output strobe period"),
		"pss_options": options("simulator options for the PSS analysis"),
	})
}
