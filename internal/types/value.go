package types

import (
	"fmt"
	"strconv"
	"time"
)

// TypePair is the full type of a pin or variable: a VariableType crossed
// with a ValueShape. Generic defers the concrete pair to connection time
// (see unify.go).
type TypePair struct {
	Variable VariableType
	Shape    ValueShape
}

func (p TypePair) String() string {
	return fmt.Sprintf("%s/%s", p.Variable, p.Shape)
}

// IsGeneric reports whether this pair still needs unification.
func (p TypePair) IsGeneric() bool {
	return p.Variable == VariableTypeGeneric
}

// Value is a strongly-typed value flowing between pins.
type Value struct {
	Type TypePair
	Raw  interface{}
}

// NewValue creates a Value with a Normal shape.
func NewValue(t VariableType, raw interface{}) Value {
	return Value{Type: TypePair{Variable: t, Shape: ValueShapeNormal}, Raw: raw}
}

// NewShapedValue creates a Value with an explicit shape (Array/HashMap/HashSet).
func NewShapedValue(t VariableType, shape ValueShape, raw interface{}) Value {
	return Value{Type: TypePair{Variable: t, Shape: shape}, Raw: raw}
}

// AsString converts the value to a string, using permissive coercion
// (fmt.Sprintf fallback rather than a hard error for every foreign
// representation).
func (v Value) AsString() (string, error) {
	if v.Raw == nil {
		return "", nil
	}
	if s, ok := v.Raw.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", v.Raw), nil
}

// AsNumber converts the value to a float64.
func (v Value) AsNumber() (float64, error) {
	if v.Raw == nil {
		return 0, nil
	}
	switch val := v.Raw.(type) {
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case float32:
		return float64(val), nil
	case float64:
		return val, nil
	case string:
		num, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to number: %w", val, err)
		}
		return num, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", v.Raw)
	}
}

// AsBoolean converts the value to a boolean.
func (v Value) AsBoolean() (bool, error) {
	if v.Raw == nil {
		return false, nil
	}
	switch val := v.Raw.(type) {
	case bool:
		return val, nil
	case int:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case string:
		b, err := strconv.ParseBool(val)
		if err != nil {
			// Non-boolean strings: empty is false, anything else truthy.
			return val != "", nil
		}
		return b, nil
	default:
		return true, nil
	}
}

// AsArray converts the value to a slice.
func (v Value) AsArray() ([]interface{}, error) {
	if v.Raw == nil {
		return []interface{}{}, nil
	}
	if arr, ok := v.Raw.([]interface{}); ok {
		return arr, nil
	}
	return nil, fmt.Errorf("cannot convert %T to array", v.Raw)
}

// AsMap converts the value to a string-keyed map (the HashMap shape).
func (v Value) AsMap() (map[string]interface{}, error) {
	if v.Raw == nil {
		return map[string]interface{}{}, nil
	}
	if m, ok := v.Raw.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("cannot convert %T to map", v.Raw)
}

// AsSet converts the value to a HashSet shape, represented as a
// deduplicated slice preserving first-seen order.
func (v Value) AsSet() ([]interface{}, error) {
	arr, err := v.AsArray()
	if err != nil {
		return nil, err
	}
	seen := make(map[interface{}]struct{}, len(arr))
	out := make([]interface{}, 0, len(arr))
	for _, item := range arr {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// AsDate converts the value to a time.Time.
func (v Value) AsDate() (time.Time, error) {
	switch val := v.Raw.(type) {
	case time.Time:
		return val, nil
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse date %q: %w", val, err)
		}
		return t, nil
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to date", v.Raw)
	}
}

// AsBytes converts the value to a byte slice.
func (v Value) AsBytes() ([]byte, error) {
	switch val := v.Raw.(type) {
	case []byte:
		return val, nil
	case string:
		return []byte(val), nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to bytes", v.Raw)
	}
}
