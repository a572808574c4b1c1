package simdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/simsetup/expr"
	"github.com/zero-day-ai/simsetup/input"
	"github.com/zero-day-ai/simsetup/units"
)

// Value is a simulator quantity: either a number or a parameter expression.
// The zero Value is the number 0.
type Value struct {
	num  float64
	expr string
}

// Num returns a numeric Value.
func Num(f float64) Value {
	return Value{num: f}
}

// Expr returns an expression Value. Engineering-notation strings are
// converted to numbers.
func Expr(s string) Value {
	s = strings.TrimSpace(s)
	if f, err := units.Parse(s); err == nil {
		return Value{num: f}
	}
	return Value{expr: s}
}

// ParseValue converts a spec value (any Go number or a string) to a Value.
func ParseValue(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Value{}, fmt.Errorf("%w: nil", ErrInvalidValue)
		}
		return *t, nil
	case string:
		if strings.TrimSpace(t) == "" {
			return Value{}, fmt.Errorf("%w: empty string", ErrInvalidValue)
		}
		return Expr(t), nil
	case bool, nil:
		return Value{}, fmt.Errorf("%w: %v (%T)", ErrInvalidValue, v, v)
	}

	if f, ok := input.AsFloat64(v); ok {
		return Num(f), nil
	}
	return Value{}, fmt.Errorf("%w: %v (%T)", ErrInvalidValue, v, v)
}

// IsExpr reports whether v holds an expression.
func (v Value) IsExpr() bool {
	return v.expr != ""
}

// Float returns the numeric value and true, or 0 and false for expressions.
func (v Value) Float() (float64, bool) {
	if v.IsExpr() {
		return 0, false
	}
	return v.num, true
}

// Expression returns the expression text, or "" for numbers.
func (v Value) Expression() string {
	return v.expr
}

// Identifiers returns the parameter names referenced by an expression Value.
func (v Value) Identifiers() []string {
	if !v.IsExpr() {
		return nil
	}
	return expr.Identifiers(v.expr)
}

// Interface returns the value as float64 or string, the shape used in mappings.
func (v Value) Interface() any {
	if v.IsExpr() {
		return v.expr
	}
	return v.num
}

// String renders numbers in shortest form and expressions verbatim.
func (v Value) String() string {
	if v.IsExpr() {
		return v.expr
	}
	return strconv.FormatFloat(v.num, 'g', -1, 64)
}

// Format renders numbers with an engineering prefix and unit.
func (v Value) Format(unit string) string {
	if v.IsExpr() {
		return v.expr
	}
	return units.Format(v.num, unit)
}

// Eval evaluates v with the given numeric parameters.
func (v Value) Eval(params map[string]float64) (float64, error) {
	if !v.IsExpr() {
		return v.num, nil
	}
	return expr.Eval(v.expr, params)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseValue(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// valuePtr parses the optional value stored under key.
func valuePtr(m map[string]any, key string) (*Value, error) {
	raw, ok := input.Lookup(m, key)
	if !ok {
		return nil, nil
	}
	v, err := ParseValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

// requireValue parses the required value stored under key.
func requireValue(m map[string]any, key string) (Value, error) {
	raw, err := input.Require(m, key)
	if err != nil {
		return Value{}, err
	}
	v, err := ParseValue(raw)
	if err != nil {
		return Value{}, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// valueMap parses a mapping of names to values.
func valueMap(raw map[string]any, what string) (map[string]Value, error) {
	out := make(map[string]Value, len(raw))
	for name, item := range raw {
		v, err := ParseValue(item)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", what, name, err)
		}
		out[name] = v
	}
	return out, nil
}

func valueMapDict(m map[string]Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v.Interface()
	}
	return out
}
