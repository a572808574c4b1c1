package simsetup

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/simsetup/testbench"
)

// Option configures testbenches created through this package.
type Option func(*testbench.Config)

// WithLogger sets the logger used by testbench builds.
// If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *testbench.Config) {
		c.SetLogger(logger)
	}
}

// WithTracer sets an OpenTelemetry tracer for netlist info spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *testbench.Config) {
		c.SetTracer(tracer)
	}
}

// WithTracerProvider takes the tracer from tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *testbench.Config) {
		c.SetTracerProvider(tp)
	}
}

// WithMeterProvider takes the build counter's meter from mp.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *testbench.Config) {
		c.SetMeterProvider(mp)
	}
}

// WithStrict validates specs against the testbench's schema and checks the
// normalized setup for semantic errors.
func WithStrict(strict bool) Option {
	return func(c *testbench.Config) {
		c.SetStrict(strict)
	}
}

func newConfig(opts []Option) *testbench.Config {
	cfg := testbench.NewConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}
