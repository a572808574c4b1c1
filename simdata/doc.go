// Package simdata holds the normalized, typed description of a simulation
// setup handed to a netlist writer.
//
// Testbenches assemble loosely typed setup mappings; FromDict checks and
// normalizes such a mapping into a NetlistInfo:
//
//	info, err := simdata.FromDict(map[string]any{
//	    "sim_envs": []any{"tt_25"},
//	    "params":   map[string]any{"t_sim": "10n"},
//	    "analyses": []any{map[string]any{"type": "TRAN", "stop": "t_sim"}},
//	})
//
// # Values
//
// Simulator quantities are either numbers or parameter expressions. Value
// holds one of the two; strings in engineering notation ("10n") become
// numbers, any other string stays an expression ("t_sim", "2*t_per").
//
// # Analyses
//
// DC, Tran and PSS implement Analysis. Each knows its literal type tag and
// renders back to the mapping shape through Dict.
//
// # Sweeps
//
// Sweep describes LINEAR, LOG and LIST sweeps, used by DC analyses, by
// transient parameter sweeps and by the outer swp_info sweep list. Sweep
// types are matched case-insensitively and accept common aliases.
//
// # Checking
//
// FromDict rejects structurally broken input. Check goes further and looks
// at semantics: every corner covered by env_params, PSS frequency given,
// transient stop after start once parameter expressions are resolved.
package simdata
