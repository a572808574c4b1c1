package testbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/simsetup/simdata"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind string
		want simdata.AnalysisType
	}{
		{kind: "dc", want: simdata.AnalysisDC},
		{kind: "DC", want: simdata.AnalysisDC},
		{kind: "pss", want: simdata.AnalysisPSS},
		{kind: "steady_state", want: simdata.AnalysisPSS},
		{kind: "tran", want: simdata.AnalysisTran},
		{kind: " Transient ", want: simdata.AnalysisTran},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			tb, err := New(tt.kind, baseSpecs(), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tb.Type())
		})
	}
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New("noise", baseSpecs(), nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Contains(t, err.Error(), "noise")
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Subset(t, kinds, []string{"dc", "pss", "tran"})
	assert.IsNonDecreasing(t, kinds)
}

type fixedTB struct {
	*Tran
}

func TestRegister(t *testing.T) {
	Register("fixed_tran", func(specs map[string]any, cfg *Config) (Testbench, error) {
		tb, err := NewTran(specs, cfg)
		if err != nil {
			return nil, err
		}
		return fixedTB{tb}, nil
	})
	t.Cleanup(func() {
		mu.Lock()
		delete(factories, "fixed_tran")
		mu.Unlock()
	})

	tb, err := New("fixed_tran", baseSpecs(), nil)
	require.NoError(t, err)
	assert.Contains(t, Kinds(), "fixed_tran")

	info, err := tb.NetlistInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []simdata.AnalysisType{simdata.AnalysisTran}, info.AnalysisTypes())
}

func TestRegisterIgnoresCase(t *testing.T) {
	Register("Settling", func(specs map[string]any, cfg *Config) (Testbench, error) {
		return NewTran(specs, cfg)
	})
	t.Cleanup(func() {
		mu.Lock()
		delete(factories, "settling")
		mu.Unlock()
	})

	assert.Contains(t, Kinds(), "settling")
	for _, kind := range []string{"settling", "Settling", "SETTLING"} {
		tb, err := New(kind, baseSpecs(), nil)
		require.NoError(t, err, kind)
		assert.Equal(t, simdata.AnalysisTran, tb.Type())
	}
}

func TestSpecSchema(t *testing.T) {
	for _, kind := range []string{"dc", "pss", "tran"} {
		tb, err := New(kind, baseSpecs(), nil)
		require.NoError(t, err)

		s := tb.SpecSchema()
		assert.Equal(t, "object", s.Type, kind)
		assert.Contains(t, s.Required, "sim_envs", kind)
		assert.Contains(t, s.Required, "sim_params", kind)
		assert.Contains(t, s.PropertyNames(), "save_outputs", kind)
	}

	dc, err := NewDC(nil, nil)
	require.NoError(t, err)
	assert.Contains(t, dc.SpecSchema().Required, "sweep_var")

	tran, err := NewTran(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"t_sim"}, tran.SpecSchema().Properties["sim_params"].Required)
}
