package testbench

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/zero-day-ai/simsetup/testbench"

// Config holds the settings shared by all testbenches.
type Config struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	strict bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		logger: slog.Default(),
		tracer: tracenoop.NewTracerProvider().Tracer(instrumentationName),
		meter:  metricnoop.NewMeterProvider().Meter(instrumentationName),
	}
}

// SetLogger sets the logger. A nil logger keeps the current one.
func (c *Config) SetLogger(logger *slog.Logger) *Config {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// SetTracer sets the tracer used for netlist info spans.
func (c *Config) SetTracer(tracer trace.Tracer) *Config {
	if tracer != nil {
		c.tracer = tracer
	}
	return c
}

// SetTracerProvider sets the tracer from a provider.
func (c *Config) SetTracerProvider(tp trace.TracerProvider) *Config {
	if tp != nil {
		c.tracer = tp.Tracer(instrumentationName)
	}
	return c
}

// SetMeterProvider sets the meter used for build counters.
func (c *Config) SetMeterProvider(mp metric.MeterProvider) *Config {
	if mp != nil {
		c.meter = mp.Meter(instrumentationName)
	}
	return c
}

// SetStrict enables schema validation of specs and semantic checks of
// the normalized setup.
func (c *Config) SetStrict(strict bool) *Config {
	c.strict = strict
	return c
}

// Logger returns the configured logger.
func (c *Config) Logger() *slog.Logger {
	return c.logger
}

// Strict reports whether strict mode is enabled.
func (c *Config) Strict() bool {
	return c.strict
}

func orDefault(cfg *Config) *Config {
	if cfg == nil {
		return NewConfig()
	}
	return cfg
}
