package simdata

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Struct converts the setup to a protobuf Struct.
func (n *NetlistInfo) Struct() (*structpb.Struct, error) {
	m, ok := protoValue(n.Dict()).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: setup is not a mapping", ErrInvalidSetup)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("convert netlist info to struct: %w", err)
	}
	return s, nil
}

// FromStruct normalizes a setup carried in a protobuf Struct.
func FromStruct(s *structpb.Struct) (*NetlistInfo, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil struct", ErrInvalidSetup)
	}
	return FromDict(s.AsMap())
}

// MarshalProtoJSON renders the setup as protobuf JSON.
func (n *NetlistInfo) MarshalProtoJSON() ([]byte, error) {
	s, err := n.Struct()
	if err != nil {
		return nil, err
	}
	return protojson.Marshal(s)
}

// UnmarshalProtoJSON parses a setup rendered by MarshalProtoJSON.
func UnmarshalProtoJSON(data []byte) (*NetlistInfo, error) {
	var s structpb.Struct
	if err := protojson.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSetup, err)
	}
	return FromStruct(&s)
}

// protoValue rewrites typed slices and maps into the []any and
// map[string]any shapes structpb accepts.
func protoValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = protoValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = protoValue(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = protoValue(item)
		}
		return out
	}
	return v
}
