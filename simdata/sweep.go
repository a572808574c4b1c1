package simdata

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zero-day-ai/simsetup/enum"
	"github.com/zero-day-ai/simsetup/input"
)

// SweepType selects how sweep points are distributed.
type SweepType string

const (
	SweepLinear SweepType = "LINEAR"
	SweepLog    SweepType = "LOG"
	SweepList   SweepType = "LIST"
)

func init() {
	enum.Register("sweep", "type", map[string]string{
		"lin":         string(SweepLinear),
		"linear":      string(SweepLinear),
		"log":         string(SweepLog),
		"dec":         string(SweepLog),
		"logarithmic": string(SweepLog),
		"list":        string(SweepList),
		"values":      string(SweepList),
	})
}

// Sweep describes a swept variable's points.
//
// LINEAR sweeps take start, stop and either num or step. LOG sweeps take
// start, stop and num. LIST sweeps take explicit values.
type Sweep struct {
	Type     SweepType `validate:"required,oneof=LINEAR LOG LIST"`
	Start    Value
	Stop     Value
	Num      int `validate:"gte=0"`
	Step     *Value
	Endpoint bool
	Values   []float64
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(sweepStructLevel, Sweep{})
	return v
}

// sweepStructLevel enforces the per-type field requirements.
func sweepStructLevel(sl validator.StructLevel) {
	s := sl.Current().Interface().(Sweep)

	switch s.Type {
	case SweepList:
		if len(s.Values) == 0 {
			sl.ReportError(s.Values, "Values", "values", "list_values", "")
		}
	case SweepLinear:
		if s.Num == 0 && s.Step == nil {
			sl.ReportError(s.Num, "Num", "num", "num_or_step", "")
		}
		if s.Num > 0 && s.Step != nil {
			sl.ReportError(s.Step, "Step", "step", "num_xor_step", "")
		}
		if step, ok := s.stepFloat(); ok && step == 0 {
			sl.ReportError(s.Step, "Step", "step", "nonzero", "")
		}
	case SweepLog:
		if s.Num == 0 {
			sl.ReportError(s.Num, "Num", "num", "log_num", "")
		}
		if f, ok := s.Start.Float(); ok && f <= 0 {
			sl.ReportError(s.Start, "Start", "start", "log_positive", "")
		}
		if f, ok := s.Stop.Float(); ok && f <= 0 {
			sl.ReportError(s.Stop, "Stop", "stop", "log_positive", "")
		}
	}
}

var sweepRuleText = map[string]string{
	"required":     "is required",
	"oneof":        "must be one of LINEAR, LOG, LIST",
	"gte":          "must not be negative",
	"list_values":  "LIST sweep needs at least one value",
	"num_or_step":  "LINEAR sweep needs num or step",
	"num_xor_step": "LINEAR sweep takes num or step, not both",
	"nonzero":      "must not be zero",
	"log_num":      "LOG sweep needs num",
	"log_positive": "LOG sweep bounds must be positive",
}

// Validate checks the sweep's field requirements.
func (s Sweep) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSweep, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		text, ok := sweepRuleText[fe.Tag()]
		if !ok {
			text = "fails " + fe.Tag()
		}
		msgs = append(msgs, strings.ToLower(fe.Field())+" "+text)
	}
	return fmt.Errorf("%w: %s", ErrInvalidSweep, strings.Join(msgs, "; "))
}

// Len returns the number of sweep points, or -1 when the count depends
// on parameter values.
func (s Sweep) Len() int {
	switch s.Type {
	case SweepList:
		return len(s.Values)
	case SweepLinear, SweepLog:
		if s.Num > 0 {
			return s.Num
		}
	}
	return -1
}

func (s Sweep) stepFloat() (float64, bool) {
	if s.Step == nil {
		return 0, false
	}
	return s.Step.Float()
}

// SweepFromDict normalizes a sweep mapping. Type aliases such as "lin" or
// "dec" resolve to their canonical names.
func SweepFromDict(m map[string]any) (Sweep, error) {
	if m == nil {
		return Sweep{}, fmt.Errorf("%w: missing sweep options", ErrInvalidSweep)
	}
	m = enum.NormalizeMap("sweep", m)

	typ, err := input.RequireString(m, "type")
	if err != nil {
		return Sweep{}, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
	}
	s := Sweep{Type: SweepType(typ), Endpoint: input.GetBool(m, "endpoint", true)}

	if s.Type == SweepList {
		raw, err := input.Require(m, "values")
		if err != nil {
			return Sweep{}, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
		}
		items, ok := raw.([]any)
		if !ok {
			if strs, isStrs := raw.([]string); isStrs {
				items = make([]any, len(strs))
				for i, v := range strs {
					items[i] = v
				}
			} else if floats, isFloats := raw.([]float64); isFloats {
				items = make([]any, len(floats))
				for i, v := range floats {
					items[i] = v
				}
			} else {
				return Sweep{}, fmt.Errorf("%w: values must be a list, got %T", ErrInvalidSweep, raw)
			}
		}
		s.Values = make([]float64, 0, len(items))
		for i, item := range items {
			f, ok := input.AsFloat64(item)
			if !ok {
				return Sweep{}, fmt.Errorf("%w: values[%d]: not a number: %v", ErrInvalidSweep, i, item)
			}
			s.Values = append(s.Values, f)
		}
	} else {
		if s.Start, err = requireValue(m, "start"); err != nil {
			return Sweep{}, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
		}
		if s.Stop, err = requireValue(m, "stop"); err != nil {
			return Sweep{}, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
		}
		s.Num = input.GetInt(m, "num", 0)
		if s.Step, err = valuePtr(m, "step"); err != nil {
			return Sweep{}, fmt.Errorf("%w: %w", ErrInvalidSweep, err)
		}
	}

	if err := s.Validate(); err != nil {
		return Sweep{}, err
	}
	return s, nil
}

// Dict renders the sweep back to mapping form.
func (s Sweep) Dict() map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Type == SweepList {
		values := make([]any, len(s.Values))
		for i, v := range s.Values {
			values[i] = v
		}
		out["values"] = values
		return out
	}

	out["start"] = s.Start.Interface()
	out["stop"] = s.Stop.Interface()
	if s.Num > 0 {
		out["num"] = s.Num
	}
	if s.Step != nil {
		out["step"] = s.Step.Interface()
	}
	out["endpoint"] = s.Endpoint
	return out
}

// values returns the Value fields that may hold expressions.
func (s Sweep) values() map[string]Value {
	if s.Type == SweepList {
		return nil
	}
	out := map[string]Value{"start": s.Start, "stop": s.Stop}
	if s.Step != nil {
		out["step"] = *s.Step
	}
	return out
}
