// Package input provides type-safe helpers for extracting values from spec mappings.
//
// Testbench specs are plain map[string]any values decoded from YAML or JSON or
// built as Go literals, so a number may show up as int, int64, float64 or an
// engineering string like "10n". The helpers here paper over those differences.
//
// # Optional keys
//
// The Get* functions never fail. They return the supplied default when the key
// is absent, nil, or holds a value that cannot be coerced:
//
//	tStart := input.GetFloat64(specs, "t_start", 0.0)
//	opts := input.GetMapOrEmpty(specs, "tran_options")
//	outputs := input.GetStringSlice(specs, "save_outputs")
//
// # Required keys
//
// The Require* functions return a *KeyError that wraps ErrMissingKey or
// ErrWrongType, so callers can test with errors.Is and recover the key name
// with errors.As:
//
//	sweepVar, err := input.RequireString(specs, "sweep_var")
//	if errors.Is(err, input.ErrMissingKey) {
//	    // report the missing key
//	}
//
// # Presence versus value
//
// Has reports key presence even for nil values, while Lookup treats nil as
// absent. Builders use Has where a key must be copied verbatim whenever the
// caller wrote it, and Lookup where nil means "not given".
package input
