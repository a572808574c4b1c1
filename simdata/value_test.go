package simdata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		wantNum  float64
		wantExpr string
	}{
		{name: "float", input: 1e-9, wantNum: 1e-9},
		{name: "int", input: 5, wantNum: 5},
		{name: "int64", input: int64(-3), wantNum: -3},
		{name: "engineering string", input: "10n", wantNum: 10e-9},
		{name: "engineering with unit", input: "2.5megHz", wantNum: 2.5e6},
		{name: "plain numeric string", input: "0.9", wantNum: 0.9},
		{name: "identifier", input: "t_sim", wantExpr: "t_sim"},
		{name: "expression trimmed", input: "  2*t_per ", wantExpr: "2*t_per"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseValue(tt.input)
			require.NoError(t, err)
			if tt.wantExpr != "" {
				assert.True(t, v.IsExpr())
				assert.Equal(t, tt.wantExpr, v.Expression())
				return
			}
			f, ok := v.Float()
			require.True(t, ok)
			assert.InDelta(t, tt.wantNum, f, 1e-21)
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	for _, input := range []any{"", "   ", nil, true, []int{1}} {
		_, err := ParseValue(input)
		assert.ErrorIs(t, err, ErrInvalidValue, "input %v", input)
	}
}

func TestValueInterface(t *testing.T) {
	assert.Equal(t, 0.0, Value{}.Interface())
	assert.Equal(t, "t_sim", Expr("t_sim").Interface())
	assert.Equal(t, 1.5, Num(1.5).Interface())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "1e-09", Num(1e-9).String())
	assert.Equal(t, "t_sim/2", Expr("t_sim/2").String())
	assert.Equal(t, "1 ns", Num(1e-9).Format("s"))
	assert.Equal(t, "t_sim", Expr("t_sim").Format("s"))
}

func TestValueEval(t *testing.T) {
	got, err := Expr("t_sim/2").Eval(map[string]float64{"t_sim": 10e-9})
	require.NoError(t, err)
	assert.InDelta(t, 5e-9, got, 1e-21)

	got, err = Num(3).Eval(nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	_, err = Expr("t_sim").Eval(nil)
	assert.Error(t, err)
}

func TestValueIdentifiers(t *testing.T) {
	assert.Equal(t, []string{"t_per", "t_sim"}, Expr("t_per + t_sim").Identifiers())
	assert.Nil(t, Num(1).Identifiers())
}

func TestValueJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{"stop": Expr("t_sim"), "start": Num(0.5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"stop":"t_sim","start":0.5}`, string(data))

	var decoded map[string]Value
	require.NoError(t, json.Unmarshal([]byte(`{"a":"1u","b":"vdd/2","c":3}`), &decoded))
	f, ok := decoded["a"].Float()
	require.True(t, ok)
	assert.InDelta(t, 1e-6, f, 1e-18)
	assert.Equal(t, "vdd/2", decoded["b"].Expression())
	assert.Equal(t, 3.0, decoded["c"].Interface())

	var bad Value
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestValueYAML(t *testing.T) {
	var decoded struct {
		Stop  Value `yaml:"stop"`
		Start Value `yaml:"start"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("stop: t_sim\nstart: 1n\n"), &decoded))
	assert.Equal(t, "t_sim", decoded.Stop.Expression())
	f, ok := decoded.Start.Float()
	require.True(t, ok)
	assert.InDelta(t, 1e-9, f, 1e-21)

	out, err := yaml.Marshal(decoded)
	require.NoError(t, err)
	assert.Contains(t, string(out), "stop: t_sim")
}
