package testbench

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/schema"
	"github.com/zero-day-ai/simsetup/simdata"
)

// Testbench builds the netlist setup for one analysis.
type Testbench interface {
	// Type returns the analysis tag this testbench produces.
	Type() simdata.AnalysisType

	// Specs returns the spec mapping the testbench was created with.
	Specs() map[string]any

	// AnalysisDict returns the analysis description built from the specs.
	AnalysisDict() (map[string]any, error)

	// NetlistInfoDict returns the full setup mapping with the analysis
	// merged under "analyses".
	NetlistInfoDict() (map[string]any, error)

	// NetlistInfo normalizes the setup mapping.
	NetlistInfo(ctx context.Context) (*simdata.NetlistInfo, error)

	// SpecSchema describes the spec keys the testbench understands.
	SpecSchema() schema.JSON
}

// Generic holds the spec keys shared by every testbench kind.
type Generic struct {
	specs  map[string]any
	cfg    *Config
	builds metric.Int64Counter
}

// NewGeneric creates the shared base for a testbench. A nil cfg uses
// NewConfig defaults.
func NewGeneric(specs map[string]any, cfg *Config) *Generic {
	cfg = orDefault(cfg)
	if specs == nil {
		specs = map[string]any{}
	}

	builds, err := cfg.meter.Int64Counter(
		"simsetup.netlist_info.builds",
		metric.WithDescription("Netlist setups built, by analysis and outcome"),
	)
	if err != nil {
		cfg.logger.Warn("failed to create build counter", "error", err)
	}

	return &Generic{specs: specs, cfg: cfg, builds: builds}
}

// Specs returns the spec mapping.
func (g *Generic) Specs() map[string]any {
	return g.specs
}

// NetlistInfoDict returns a fresh setup mapping built from the shared
// spec keys. sim_envs and sim_params are required.
func (g *Generic) NetlistInfoDict() (map[string]any, error) {
	rawEnvs, err := input.Require(g.specs, "sim_envs")
	if err != nil {
		return nil, err
	}
	simEnvs := input.GetStringSlice(g.specs, "sim_envs")
	if simEnvs == nil {
		return nil, &input.KeyError{Key: "sim_envs", Want: "list of strings", Got: rawEnvs, Err: input.ErrWrongType}
	}

	params, err := input.RequireMap(g.specs, "sim_params")
	if err != nil {
		return nil, err
	}

	swpInfo, ok := input.Lookup(g.specs, "swp_info")
	if !ok {
		swpInfo = []any{}
	}

	setup := map[string]any{
		"sim_envs":   append([]string(nil), simEnvs...),
		"params":     input.Clone(params),
		"env_params": input.Clone(input.GetMapOrEmpty(g.specs, "env_params")),
		"swp_info":   input.CloneValue(swpInfo),
		"options":    input.Clone(input.GetMapOrEmpty(g.specs, "sim_options")),
		"outputs":    input.Clone(input.GetMapOrEmpty(g.specs, "outputs")),
	}
	if mc := input.GetMap(g.specs, "monte_carlo_params"); mc != nil {
		setup["monte_carlo"] = input.Clone(mc)
	}
	return setup, nil
}

// SaveOutputs returns the save_outputs spec key, or an empty list.
func (g *Generic) SaveOutputs() []string {
	out := input.GetStringSlice(g.specs, "save_outputs")
	if out == nil {
		return []string{}
	}
	return append([]string(nil), out...)
}

// validate checks the specs against s when strict mode is on.
func (g *Generic) validate(s schema.JSON) error {
	if !g.cfg.strict {
		return nil
	}
	if err := s.Validate(g.specs); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	return nil
}

// withAnalysis merges one analysis description into the shared setup.
func (g *Generic) withAnalysis(analysis func() (map[string]any, error)) (map[string]any, error) {
	setup, err := g.NetlistInfoDict()
	if err != nil {
		return nil, err
	}
	a, err := analysis()
	if err != nil {
		return nil, err
	}
	setup["analyses"] = []any{a}
	return setup, nil
}

// netlistInfo normalizes the setup produced by build, tracing and counting
// the attempt.
func (g *Generic) netlistInfo(ctx context.Context, typ simdata.AnalysisType, build func() (map[string]any, error)) (*simdata.NetlistInfo, error) {
	ctx, span := g.cfg.tracer.Start(ctx, "testbench.netlist_info",
		trace.WithAttributes(attribute.String("simsetup.analysis", string(typ))))
	defer span.End()

	info, err := g.normalize(build)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.cfg.logger.DebugContext(ctx, "netlist info build failed", "analysis", typ, "error", err)
	} else {
		span.SetAttributes(attribute.Int("simsetup.sim_envs", len(info.SimEnvs)))
		g.cfg.logger.DebugContext(ctx, "built netlist info",
			slog.String("analysis", string(typ)),
			slog.Any("sim_envs", info.SimEnvs),
			slog.Int("params", len(info.Params)),
			slog.Int("swp_info", len(info.SwpInfo)),
		)
	}

	if g.builds != nil {
		g.builds.Add(ctx, 1, metric.WithAttributes(
			attribute.String("analysis", string(typ)),
			attribute.String("outcome", outcome),
		))
	}
	return info, err
}

func (g *Generic) normalize(build func() (map[string]any, error)) (*simdata.NetlistInfo, error) {
	setup, err := build()
	if err != nil {
		return nil, err
	}
	info, err := simdata.FromDict(setup)
	if err != nil {
		return nil, err
	}
	if g.cfg.strict {
		if err := info.Check(); err != nil {
			return nil, err
		}
	}
	return info, nil
}
