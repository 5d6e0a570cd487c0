package models

import "math"

// Value is a node of a generated or parsed data tree.
// Kind selects which of the remaining fields is meaningful.
type Value struct {
	Kind Kind

	Text  string  // KindString
	Num   float64 // KindNumber: the value of a float, an approximation of an integer
	Int   int64   // KindNumber: the exact value when IsInt is set
	IsInt bool    // KindNumber: true for integer literals
	Bool  bool    // KindBoolean

	Items  []Value // KindArray
	Fields []Field // KindObject, in insertion order
}

// Field is a single key/value pair of a mapping.
type Field struct {
	Key   string
	Value Value
}

// String returns a string scalar.
func String(s string) Value {
	return Value{Kind: KindString, Text: s}
}

// Int returns an integer number scalar.
func Int(n int64) Value {
	return Value{Kind: KindNumber, Num: float64(n), Int: n, IsInt: true}
}

// Float returns a floating-point number scalar.
func Float(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Bool returns a boolean scalar.
func Bool(b bool) Value {
	return Value{Kind: KindBoolean, Bool: b}
}

// Null returns the null scalar.
func Null() Value {
	return Value{Kind: KindNull}
}

// Sequence returns an ordered list of values.
func Sequence(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{Kind: KindArray, Items: items}
}

// Mapping returns an ordered mapping. Callers are responsible for key uniqueness.
func Mapping(fields ...Field) Value {
	if fields == nil {
		fields = []Field{}
	}
	return Value{Kind: KindObject, Fields: fields}
}

// Lookup returns the value stored under key in a mapping.
func (v Value) Lookup(key string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Keys returns the keys of a mapping in order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Int64 returns the number as an int64. Floats are truncated.
func (v Value) Int64() int64 {
	if v.IsInt {
		return v.Int
	}
	return int64(v.Num)
}

// Equal reports whether a and b are structurally equal: same kinds, same
// scalar values, same keys in the same order. Integers and floats with the
// same numeric value are not equal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.Text == b.Text
	case KindNumber:
		if a.IsInt != b.IsInt {
			return false
		}
		if a.IsInt {
			return a.Int == b.Int
		}
		if math.IsNaN(a.Num) && math.IsNaN(b.Num) {
			return true
		}
		return a.Num == b.Num
	case KindBoolean:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindArray:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for i := range a.Fields {
			if a.Fields[i].Key != b.Fields[i].Key {
				return false
			}
			if !Equal(a.Fields[i].Value, b.Fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
