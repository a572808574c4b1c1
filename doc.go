// Package simsetup builds simulation netlist setups from testbench specs.
//
// A testbench spec is a mapping of simulation environments, parameters and
// analysis-specific keys. Each testbench kind (dc, pss, tran) turns its spec
// into one analysis and merges it with the generic netlist info; the result
// is normalized into a simdata.NetlistInfo that a simulation backend consumes.
//
// # Building
//
//	info, err := simsetup.NetlistInfo(ctx, "tran", map[string]any{
//		"sim_envs":   []any{"tt_25"},
//		"sim_params": map[string]any{"t_sim": "10n"},
//		"t_step":     "1p",
//	})
//
// Or from a spec file:
//
//	f, tb, err := simsetup.LoadTestbench("simsetup.yaml", simsetup.WithStrict(true))
//
// # Submitting
//
// Submit hands a setup to a backend through the Redis job queue and waits
// for the result:
//
//	client, err := queue.NewRedisClient(queue.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//		return err
//	}
//	defer simsetup.CloseWithLog(client, logger, "queue client")
//	res, err := simsetup.Submit(ctx, client, info, simsetup.SubmitOptions{Backend: "spectre"})
//
// # Errors
//
// Facade functions return *Error with a Kind (KindValidation, KindNotFound,
// KindTimeout, ...). The package sentinels of input, simdata and testbench
// stay reachable through errors.Is.
//
// # Subpackages
//
//   - testbench: DC, PSS and TRAN testbenches and the kind registry
//   - simdata: netlist info, analyses, sweeps and values
//   - specfile: YAML/JSON spec files
//   - queue: Redis job queue for simulation backends
//   - expr: parameter expression evaluation
//   - units: engineering-notation numbers
//   - input, enum, schema: spec lookups, alias normalization, JSON schemas
package simsetup
