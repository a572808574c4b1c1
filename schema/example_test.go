package schema_test

import (
	"fmt"

	"github.com/zero-day-ai/simsetup/schema"
)

// Example demonstrates validating a transient spec fragment.
func Example() {
	tranSpec := schema.Object(map[string]schema.JSON{
		"t_step":       schema.NumberOrExpr("strobe period"),
		"t_start":      schema.NumberOrExpr("start time").WithDefault(0.0),
		"tran_options": schema.MapOf(schema.Any()),
		"sim_params":   schema.MapOf(schema.NumberOrExpr("")),
	}, "sim_params")

	valid := map[string]any{
		"t_step":     "10p",
		"sim_params": map[string]any{"t_sim": 1e-9},
	}
	if err := tranSpec.Validate(valid); err != nil {
		fmt.Println("Invalid:", err)
	} else {
		fmt.Println("Valid spec")
	}

	invalid := map[string]any{
		"t_step":     true,
		"sim_params": map[string]any{"t_sim": 1e-9},
	}
	if err := tranSpec.Validate(invalid); err != nil {
		fmt.Println("Invalid spec")
	}

	// Output:
	// Valid spec
	// Invalid spec
}

// ExampleEnum demonstrates enum validation of a sweep type.
func ExampleEnum() {
	sweepType := schema.Enum("LINEAR", "LOG", "LIST")

	fmt.Println(sweepType.Validate("LOG") == nil)
	fmt.Println(sweepType.Validate("CUBIC") == nil)

	// Output:
	// true
	// false
}

// ExampleJSON_PropertyNames lists the keys an object schema recognizes.
func ExampleJSON_PropertyNames() {
	s := schema.Object(map[string]schema.JSON{
		"sweep_var":     schema.String(),
		"dc_options":    schema.Any(),
		"sweep_options": schema.Any(),
	}, "sweep_var")

	fmt.Println(s.PropertyNames())

	// Output: [dc_options sweep_options sweep_var]
}
