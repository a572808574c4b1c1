// Package schema provides JSON Schema types and validation for spec mappings.
//
// Every testbench publishes the schema of the spec keys it recognizes. The
// schema doubles as documentation (printed by the CLI) and as a strict-mode
// validator run before a netlist description is built.
//
// # Basic Usage
//
// Creating simple schemas:
//
//	nameSchema := schema.String()
//	countSchema := schema.Int()
//	flagSchema := schema.Bool()
//
// Simulator values are usually numbers or parameter expressions:
//
//	tStep := schema.NumberOrExpr("strobe period")
//	tStep.Validate(1e-12)     // nil
//	tStep.Validate("t_sim/100") // nil
//	tStep.Validate(true)      // error
//
// # Complex Schemas
//
// Object schemas list properties and required keys:
//
//	dcSpec := schema.Object(map[string]schema.JSON{
//		"sweep_var":     schema.StringWithDesc("swept variable"),
//		"sweep_options": schema.Object(nil, "type"),
//		"dc_options":    schema.MapOf(schema.Any()),
//	}, "sweep_var", "sweep_options")
//
// MapOf validates every value of an open-ended mapping, which suits
// sim_params and env_params:
//
//	params := schema.MapOf(schema.NumberOrExpr(""))
//
// # Validation
//
// Validate walks nested objects and arrays and reports the first failing
// property path, for example "property sim_params: property t_sim: ...".
// Required keys holding nil count as missing. Unknown keys are accepted
// unless AdditionalProperties is set.
//
// # Enumerations
//
//	sweepType := schema.Enum("LINEAR", "LOG", "LIST")
//	sweepType.Validate("LINEAR") // nil
package schema
