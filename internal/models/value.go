package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind identifies the dynamic type carried by a Value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindList
)

// Value is a tagged union for a single attribute value: string, number,
// boolean, or list of values. Attribute documents are untyped at the
// storage layer; typing only matters at the format-type boundary.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
}

// StringValue returns a Value holding a string.
func StringValue(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// NumberValue returns a Value holding a number.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// BoolValue returns a Value holding a boolean.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// ListValue returns a Value holding a list of values.
func ListValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindList, List: items}
}

// MarshalJSON implements json.Marshaler. Values serialize as their plain
// JSON form (no type tag on the wire), matching the document layout.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. The kind is inferred from the
// JSON token. Objects and null are rejected: attribute documents are flat
// mappings of scalars and lists.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return fmt.Errorf("empty attribute value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to unmarshal string value: %w", err)
		}
		*v = StringValue(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("failed to unmarshal boolean value: %w", err)
		}
		*v = BoolValue(b)
		return nil
	case '[':
		var list []Value
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("failed to unmarshal list value: %w", err)
		}
		if list == nil {
			list = []Value{}
		}
		*v = Value{Kind: KindList, List: list}
		return nil
	case '{':
		return fmt.Errorf("nested objects are not valid attribute values")
	case 'n':
		return fmt.Errorf("null is not a valid attribute value")
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("failed to unmarshal numeric value: %w", err)
		}
		*v = NumberValue(n)
		return nil
	}
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Attributes is the per-parcel attribute document: a flat mapping from
// attribute key to value. Key order is irrelevant.
type Attributes map[string]Value

// Normalize repairs known artifacts left by older clients that stored
// JSON-encoded strings inside the document: string values consisting only
// of quote and backslash characters collapse to the empty string. All
// other values pass through untouched.
func (a Attributes) Normalize() Attributes {
	if a == nil {
		return Attributes{}
	}
	cleaned := make(Attributes, len(a))
	for k, v := range a {
		if v.Kind == KindString && v.Str != "" && strings.Trim(v.Str, `"\`) == "" {
			cleaned[k] = StringValue("")
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
