package testbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/simdata"
)

func dcSpecs() map[string]any {
	return withSpecs(map[string]any{
		"sweep_var":     "vin",
		"sweep_options": map[string]any{"type": "LINEAR", "start": 0, "stop": "vdd", "num": 10},
	})
}

func TestDCAnalysisDict(t *testing.T) {
	tb, err := NewDC(dcSpecs(), nil)
	require.NoError(t, err)
	assert.Equal(t, simdata.AnalysisDC, tb.Type())

	a, err := tb.AnalysisDict()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"type":         "DC",
		"param":        "vin",
		"sweep":        map[string]any{"type": "LINEAR", "start": 0, "stop": "vdd", "num": 10},
		"options":      map[string]any{},
		"save_outputs": []string{},
	}, a)
}

func TestDCAnalysisDictOptional(t *testing.T) {
	specs := dcSpecs()
	specs["dc_options"] = map[string]any{"maxiters": 200}
	specs["save_outputs"] = []any{"vout"}

	tb, err := NewDC(specs, nil)
	require.NoError(t, err)

	a, err := tb.AnalysisDict()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"maxiters": 200}, a["options"])
	assert.Equal(t, []string{"vout"}, a["save_outputs"])
}

func TestDCMissingKeys(t *testing.T) {
	for _, key := range []string{"sweep_var", "sweep_options"} {
		t.Run(key, func(t *testing.T) {
			specs := dcSpecs()
			delete(specs, key)

			tb, err := NewDC(specs, nil)
			require.NoError(t, err)

			_, err = tb.AnalysisDict()
			assert.ErrorIs(t, err, input.ErrMissingKey)

			_, err = tb.NetlistInfo(context.Background())
			var keyErr *input.KeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, key, keyErr.Key)
		})
	}
}

func TestDCNetlistInfo(t *testing.T) {
	tb, err := NewDC(dcSpecs(), nil)
	require.NoError(t, err)

	setup, err := tb.NetlistInfoDict()
	require.NoError(t, err)
	require.Len(t, setup["analyses"], 1)

	info, err := tb.NetlistInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, info.Analyses, 1)

	dc, ok := info.Analyses[0].(*simdata.DC)
	require.True(t, ok)
	assert.Equal(t, "vin", dc.Param)
	assert.Equal(t, simdata.SweepLinear, dc.Sweep.Type)
	assert.Equal(t, "vdd", dc.Sweep.Stop.Expression())
	assert.Equal(t, map[string]any{}, dc.Options)
	assert.Equal(t, []string{}, dc.SaveOutputs)
}

func TestDCNetlistInfoBadSweep(t *testing.T) {
	specs := dcSpecs()
	specs["sweep_options"] = map[string]any{"type": "LIST"}

	tb, err := NewDC(specs, nil)
	require.NoError(t, err)

	_, err = tb.NetlistInfo(context.Background())
	assert.ErrorIs(t, err, simdata.ErrInvalidSweep)
}
