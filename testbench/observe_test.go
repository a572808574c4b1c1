package testbench

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/simdata"
)

func TestNetlistInfoSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	cfg := NewConfig().SetTracerProvider(tp)

	tb, err := NewTran(baseSpecs(), cfg)
	require.NoError(t, err)
	_, err = tb.NetlistInfo(context.Background())
	require.NoError(t, err)

	bad, err := NewDC(baseSpecs(), cfg)
	require.NoError(t, err)
	_, err = bad.NetlistInfo(context.Background())
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "testbench.netlist_info", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("simsetup.analysis", "TRAN"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("simsetup.sim_envs", 1))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Contains(t, spans[1].Attributes(), attribute.String("simsetup.analysis", "DC"))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	require.NotEmpty(t, spans[1].Events())
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestNetlistInfoBuildCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	cfg := NewConfig().SetMeterProvider(mp)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		tb, err := NewTran(baseSpecs(), cfg)
		require.NoError(t, err)
		_, err = tb.NetlistInfo(ctx)
		require.NoError(t, err)
	}
	dc, err := NewDC(baseSpecs(), cfg)
	require.NoError(t, err)
	_, err = dc.NetlistInfo(ctx)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "simsetup.netlist_info.builds" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				analysis, _ := dp.Attributes.Value("analysis")
				outcome, _ := dp.Attributes.Value("outcome")
				counts[analysis.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"TRAN/ok": 2, "DC/error": 1}, counts)
}

func TestNetlistInfoLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tb, err := NewTran(baseSpecs(), NewConfig().SetLogger(logger))
	require.NoError(t, err)
	_, err = tb.NetlistInfo(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "built netlist info")
	assert.Contains(t, buf.String(), "analysis=TRAN")
}

func TestStrictSchema(t *testing.T) {
	cfg := NewConfig().SetStrict(true)

	_, err := NewTran(withSpecs(map[string]any{"t_step": []int{1}}), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSpec)
	assert.Contains(t, err.Error(), "t_step")

	specs := baseSpecs()
	delete(specs["sim_params"].(map[string]any), "t_sim")
	_, err = NewTran(specs, cfg)
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = NewDC(baseSpecs(), cfg)
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = NewPSS(withSpecs(map[string]any{"autofund": "maybe"}), cfg)
	assert.ErrorIs(t, err, ErrInvalidSpec)

	_, err = NewTran(baseSpecs(), NewConfig())
	assert.NoError(t, err)
}

func TestStrictSchemaConstraints(t *testing.T) {
	cfg := NewConfig().SetStrict(true)
	sweep := map[string]any{"type": "LINEAR", "start": 0, "stop": "vdd", "num": 10}

	tests := []struct {
		name  string
		build func() error
		key   string
	}{
		{
			name: "sweep_var not a name",
			build: func() error {
				_, err := NewDC(withSpecs(map[string]any{"sweep_var": "1vin", "sweep_options": sweep}), cfg)
				return err
			},
			key: "sweep_var",
		},
		{
			name: "negative num",
			build: func() error {
				bad := map[string]any{"type": "LINEAR", "start": 0, "stop": "vdd", "num": -3}
				_, err := NewDC(withSpecs(map[string]any{"sweep_var": "vin", "sweep_options": bad}), cfg)
				return err
			},
			key: "num",
		},
		{
			name: "empty corner",
			build: func() error {
				_, err := NewTran(withSpecs(map[string]any{"sim_envs": []any{"tt_25", ""}}), cfg)
				return err
			},
			key: "sim_envs",
		},
		{
			name: "empty port",
			build: func() error {
				_, err := NewPSS(withSpecs(map[string]any{"p_port": "", "period": "1n"}), cfg)
				return err
			},
			key: "p_port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSpec)
			assert.Contains(t, err.Error(), tt.key)
		})
	}

	_, err := NewDC(withSpecs(map[string]any{"sweep_var": "v_in2", "sweep_options": sweep}), cfg)
	assert.NoError(t, err)
}

func TestStrictCheck(t *testing.T) {
	specs := withSpecs(map[string]any{"t_start": "20n"})

	lenient, err := NewTran(specs, nil)
	require.NoError(t, err)
	_, err = lenient.NetlistInfo(context.Background())
	require.NoError(t, err)

	strict, err := NewTran(specs, NewConfig().SetStrict(true))
	require.NoError(t, err)
	_, err = strict.NetlistInfo(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, simdata.ErrInvalidSetup)
	assert.Contains(t, err.Error(), "not after start")

	pss, err := NewPSS(baseSpecs(), NewConfig().SetStrict(true))
	require.NoError(t, err)
	_, err = pss.NetlistInfo(context.Background())
	assert.ErrorIs(t, err, simdata.ErrInvalidSetup)
}

func TestMissingKeyIsNotWrappedBySpan(t *testing.T) {
	tb, err := NewDC(baseSpecs(), nil)
	require.NoError(t, err)

	_, err = tb.NetlistInfo(context.Background())
	assert.ErrorIs(t, err, input.ErrMissingKey)
}
