package dataset

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the dynamic type of a cell value.
type Kind int

const (
	KindMissing Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a single dynamically-typed cell. The zero value is the
// missing-value marker.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
}

// Missing returns the missing-value marker.
func Missing() Value { return Value{} }

// Int wraps an int64.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float wraps a float64.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String wraps a string.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bool wraps a bool.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Kind reports the value's dynamic type.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether v is the missing-value marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsNumeric reports whether v is an int or float.
func (v Value) IsNumeric() bool { return v.kind == KindInt || v.kind == KindFloat }

// IntValue returns the underlying int64. Only meaningful when Kind() == KindInt.
func (v Value) IntValue() int64 { return v.i }

// FloatValue returns the underlying float64. Only meaningful when Kind() == KindFloat.
func (v Value) FloatValue() float64 { return v.f }

// StringValue returns the underlying string. Only meaningful when Kind() == KindString.
func (v Value) StringValue() string { return v.s }

// BoolValue returns the underlying bool. Only meaningful when Kind() == KindBool.
func (v Value) BoolValue() bool { return v.b }

// AsFloat converts numeric values to float64. The second return is false
// for non-numeric values.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindFloat:
		return v.f, true
	default:
		return 0, false
	}
}

// Render returns the canonical textual form of the value.
// Missing renders as the empty string; integral floats render without a
// trailing ".0" (5.0 -> "5"). This is also the form used for map-operation
// key matching and for store round-trips.
func (v Value) Render() string {
	switch v.kind {
	case KindMissing:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		if math.IsNaN(v.f) {
			return "NaN"
		}
		if v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) && math.Abs(v.f) < 1e15 {
			return strconv.FormatInt(int64(v.f), 10)
		}
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}

// Native returns the value as a native Go type suitable for driver
// parameters: nil, bool, int64, float64 or string.
func (v Value) Native() any {
	switch v.kind {
	case KindMissing:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// FromAny converts a decoded JSON or driver value into a Value.
// Unsupported types fall back to their fmt rendering as a string.
func FromAny(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Missing()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		// JSON numbers always decode as float64; keep integral ones as ints
		// so map keys and renders stay stable.
		if t == math.Trunc(t) && math.Abs(t) < 1e15 {
			return Int(int64(t))
		}
		return Float(t)
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	default:
		return String(fmt.Sprintf("%v", t))
	}
}
