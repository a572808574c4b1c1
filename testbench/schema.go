package testbench

import "github.com/zero-day-ai/simsetup/schema"

// identPattern matches parameter names usable in expressions.
const identPattern = `^[A-Za-z_][A-Za-z0-9_]*$`

func paramName(desc string) schema.JSON {
	return schema.StringWithDesc(desc).WithPattern(identPattern)
}

func nodeName(desc string) schema.JSON {
	return schema.StringWithDesc(desc).WithMinLength(1)
}

// specSchema returns the Generic spec keys merged with extra, requiring
// sim_envs, sim_params and the given keys.
func specSchema(extra map[string]schema.JSON, required ...string) schema.JSON {
	props := map[string]schema.JSON{
		"sim_envs":           schema.Array(schema.String().WithMinLength(1)).WithDesc("process corners to simulate"),
		"sim_params":         schema.MapOf(schema.NumberOrExpr("")).WithDesc("design parameter values"),
		"env_params":         schema.MapOf(schema.MapOf(schema.NumberOrExpr(""))).WithDesc("per-corner parameter values"),
		"swp_info":           schema.AnyOf(schema.Array(schema.Array(schema.Any())), schema.MapOf(sweepSchema())).WithDesc("outer parameter sweeps"),
		"sim_options":        options("global simulator options"),
		"monte_carlo_params": options("Monte Carlo settings"),
		"outputs":            schema.MapOf(schema.String()).WithDesc("output name to simulator expression"),
		"save_outputs":       schema.Array(schema.String()).WithDesc("signals saved by the analysis"),
	}
	for name, s := range extra {
		props[name] = s
	}
	return schema.Object(props, append([]string{"sim_envs", "sim_params"}, required...)...)
}

func sweepSchema() schema.JSON {
	return schema.Object(map[string]schema.JSON{
		"type":     schema.StringWithDesc("LINEAR, LOG or LIST"),
		"start":    schema.NumberOrExpr("first point"),
		"stop":     schema.NumberOrExpr("last point"),
		"num":      schema.Int().WithMinimum(0),
		"step":     schema.NumberOrExpr("LINEAR step size"),
		"endpoint": schema.Bool().WithDefault(true),
		"values":   schema.Array(schema.NumberOrExpr("")),
	}, "type")
}

func options(desc string) schema.JSON {
	return schema.MapOf(schema.Any()).WithDesc(desc)
}
