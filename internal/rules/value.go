package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a sealed interface for condition values.
// Only Bool, Int, String, and StringList implement it.
// Floats are not representable: comparisons against tag-class counts must
// be exact, and a float value in a rule file is an authoring mistake.
type Value interface {
	conditionValue() // Sealed - only these types implement it
}

// Bool is a boolean condition value. Used by the membership condition
// kinds (tag_present, tag_absent, plot_block_selected, plot_block_excluded).
type Bool bool

func (Bool) conditionValue() {}

// Int is an integer condition value. Used by tag_class_constraint to
// compare selected-tag counts.
type Int int64

func (Int) conditionValue() {}

// String is a string condition value.
type String string

func (String) conditionValue() {}

// StringList is a list of string values, used by the in/not_in operators.
type StringList []string

func (StringList) conditionValue() {}

// DecodeValue converts a JSON-decoded or YAML-decoded Go value into a
// sealed Value. Returns an error for floats, nulls, nested structures,
// and mixed-type lists.
func DecodeValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null condition value is not allowed")
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("float condition value %s is not allowed, use an integer", val)
		}
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("condition value out of int64 range: %s", val)
		}
		return Int(n), nil
	case float64:
		// Plain encoding/json decodes all numbers as float64. Accept exact
		// integers, reject anything with a fractional part.
		if val != float64(int64(val)) {
			return nil, fmt.Errorf("float condition value %v is not allowed, use an integer", val)
		}
		return Int(int64(val)), nil
	case []any:
		list := make(StringList, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("list condition value element %d: expected string, got %T", i, elem)
			}
			list[i] = s
		}
		return list, nil
	case []string:
		return StringList(val), nil
	default:
		return nil, fmt.Errorf("unsupported condition value type: %T", v)
	}
}

// MarshalValue renders a Value as its plain JSON form.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Bool:
		return json.Marshal(bool(val))
	case Int:
		return json.Marshal(int64(val))
	case String:
		return json.Marshal(string(val))
	case StringList:
		return json.Marshal([]string(val))
	case nil:
		return []byte("null"), nil
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalValueJSON decodes JSON bytes into a sealed Value.
// Numbers are decoded via json.Number so floats are detected exactly.
func UnmarshalValueJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return DecodeValue(raw)
}
