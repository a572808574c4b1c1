package testbench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/simsetup/input"
)

func baseSpecs() map[string]any {
	return map[string]any{
		"sim_envs":   []any{"tt_25"},
		"sim_params": map[string]any{"vdd": 0.9, "t_sim": "10n"},
	}
}

func withSpecs(extra map[string]any) map[string]any {
	specs := baseSpecs()
	for k, v := range extra {
		specs[k] = v
	}
	return specs
}

func TestGenericNetlistInfoDictDefaults(t *testing.T) {
	g := NewGeneric(baseSpecs(), nil)

	setup, err := g.NetlistInfoDict()
	require.NoError(t, err)

	assert.Equal(t, []string{"tt_25"}, setup["sim_envs"])
	assert.Equal(t, map[string]any{"vdd": 0.9, "t_sim": "10n"}, setup["params"])
	assert.Equal(t, map[string]any{}, setup["env_params"])
	assert.Equal(t, []any{}, setup["swp_info"])
	assert.Equal(t, map[string]any{}, setup["options"])
	assert.Equal(t, map[string]any{}, setup["outputs"])
	assert.NotContains(t, setup, "monte_carlo")
	assert.NotContains(t, setup, "analyses")
	assert.Equal(t, []string{}, g.SaveOutputs())
}

func TestGenericNetlistInfoDictKeys(t *testing.T) {
	specs := withSpecs(map[string]any{
		"env_params":         map[string]any{"temp": map[string]any{"tt_25": 25}},
		"swp_info":           []any{[]any{"vdd", map[string]any{"type": "LIST", "values": []any{0.8, 0.9}}}},
		"sim_options":        map[string]any{"reltol": 1e-4},
		"monte_carlo_params": map[string]any{"numruns": 10},
		"outputs":            map[string]any{"vout": "out"},
		"save_outputs":       []any{"out", "in"},
	})
	g := NewGeneric(specs, nil)

	setup, err := g.NetlistInfoDict()
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"temp": map[string]any{"tt_25": 25}}, setup["env_params"])
	assert.Equal(t, map[string]any{"reltol": 1e-4}, setup["options"])
	assert.Equal(t, map[string]any{"numruns": 10}, setup["monte_carlo"])
	assert.Equal(t, map[string]any{"vout": "out"}, setup["outputs"])
	assert.Len(t, setup["swp_info"], 1)
	assert.Equal(t, []string{"out", "in"}, g.SaveOutputs())
}

func TestGenericNetlistInfoDictIsFresh(t *testing.T) {
	specs := withSpecs(map[string]any{"sim_options": map[string]any{"reltol": 1e-4}})
	g := NewGeneric(specs, nil)

	setup, err := g.NetlistInfoDict()
	require.NoError(t, err)
	setup["params"].(map[string]any)["vdd"] = 1.2
	setup["options"].(map[string]any)["reltol"] = 1e-6

	again, err := g.NetlistInfoDict()
	require.NoError(t, err)
	assert.Equal(t, 0.9, again["params"].(map[string]any)["vdd"])
	assert.Equal(t, 1e-4, specs["sim_options"].(map[string]any)["reltol"])
}

func TestGenericMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		specs   map[string]any
		wantKey string
		wantErr error
	}{
		{name: "no sim_envs", specs: map[string]any{"sim_params": map[string]any{}}, wantKey: "sim_envs", wantErr: input.ErrMissingKey},
		{name: "no sim_params", specs: map[string]any{"sim_envs": []any{"tt_25"}}, wantKey: "sim_params", wantErr: input.ErrMissingKey},
		{name: "nil sim_params", specs: map[string]any{"sim_envs": []any{"tt_25"}, "sim_params": nil}, wantKey: "sim_params", wantErr: input.ErrMissingKey},
		{name: "sim_envs wrong type", specs: map[string]any{"sim_envs": 3, "sim_params": map[string]any{}}, wantKey: "sim_envs", wantErr: input.ErrWrongType},
		{name: "sim_params wrong type", specs: map[string]any{"sim_envs": []any{"tt_25"}, "sim_params": "vdd=1"}, wantKey: "sim_params", wantErr: input.ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGeneric(tt.specs, nil).NetlistInfoDict()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var keyErr *input.KeyError
			require.ErrorAs(t, err, &keyErr)
			assert.Equal(t, tt.wantKey, keyErr.Key)
		})
	}
}

func TestNilSpecs(t *testing.T) {
	tb, err := NewTran(nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, tb.Specs())

	_, err = tb.NetlistInfo(context.Background())
	assert.ErrorIs(t, err, input.ErrMissingKey)
}
