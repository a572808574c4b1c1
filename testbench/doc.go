// Package testbench turns declarative testbench specs into netlist setups.
//
// A spec is a loosely typed mapping such as one read from YAML. Each
// testbench kind (DC, PSS, TRAN) picks the keys it understands, fills in
// defaults, and assembles one analysis description with a literal type
// tag. The description is merged into the setup produced by Generic and
// normalized by simdata.FromDict:
//
//	tb, err := testbench.NewTran(map[string]any{
//	    "sim_envs":   []any{"tt_25"},
//	    "sim_params": map[string]any{"t_sim": "10n"},
//	    "t_step":     "1p",
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	info, err := tb.NetlistInfo(ctx)
//
// # Spec keys
//
// Every kind shares the Generic keys: sim_envs and sim_params (required),
// env_params, swp_info, sim_options, monte_carlo_params, outputs and
// save_outputs. Kind-specific keys are documented on NewDC, NewPSS and
// NewTran; SpecSchema describes all of them as a JSON schema.
//
// # Strict mode
//
// With Config.SetStrict, specs are validated against SpecSchema when the
// testbench is created and the normalized setup must pass
// simdata.NetlistInfo.Check.
//
// # Observability
//
// Every NetlistInfo call runs in a "testbench.netlist_info" span and
// increments the simsetup.netlist_info.builds counter, labelled by analysis
// and outcome. Both default to no-op providers.
package testbench
