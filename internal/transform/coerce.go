package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// CoercionError reports a value that could not be cast to the requested
// type. It is fatal for the column's transformation and carries the
// underlying cause.
type CoercionError struct {
	Column string
	Target CastTarget
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("column %q: cannot cast %q to %s: %v", e.Column, e.Value, e.Target, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// coerce casts a single value to the target primitive type. Casting is
// idempotent: a value already of the target type passes through.
func coerce(v dataset.Value, target CastTarget) (dataset.Value, error) {
	switch target {
	case CastInt:
		return coerceInt(v)
	case CastFloat:
		return coerceFloat(v)
	case CastString:
		return coerceString(v)
	case CastBool:
		return coerceBool(v)
	default:
		return dataset.Value{}, fmt.Errorf("unsupported cast target %q", target)
	}
}

func coerceInt(v dataset.Value) (dataset.Value, error) {
	switch v.Kind() {
	case dataset.KindInt:
		return v, nil
	case dataset.KindFloat:
		f := v.FloatValue()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return dataset.Value{}, fmt.Errorf("non-finite value")
		}
		return dataset.Int(int64(math.Trunc(f))), nil
	case dataset.KindBool:
		if v.BoolValue() {
			return dataset.Int(1), nil
		}
		return dataset.Int(0), nil
	case dataset.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.StringValue()), 10, 64)
		if err != nil {
			return dataset.Value{}, err
		}
		return dataset.Int(n), nil
	default:
		return dataset.Value{}, fmt.Errorf("missing value has no integer form")
	}
}

func coerceFloat(v dataset.Value) (dataset.Value, error) {
	switch v.Kind() {
	case dataset.KindFloat:
		return v, nil
	case dataset.KindInt:
		return dataset.Float(float64(v.IntValue())), nil
	case dataset.KindBool:
		if v.BoolValue() {
			return dataset.Float(1), nil
		}
		return dataset.Float(0), nil
	case dataset.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.StringValue()), 64)
		if err != nil {
			return dataset.Value{}, err
		}
		return dataset.Float(f), nil
	default:
		// Missing propagates as NaN, mirroring how numeric columns with
		// holes behave upstream of the store.
		return dataset.Float(math.NaN()), nil
	}
}

func coerceString(v dataset.Value) (dataset.Value, error) {
	if v.IsMissing() {
		// Missing stays missing rather than becoming a literal "nan".
		return v, nil
	}
	return dataset.String(v.Render()), nil
}

func coerceBool(v dataset.Value) (dataset.Value, error) {
	switch v.Kind() {
	case dataset.KindBool:
		return v, nil
	case dataset.KindInt:
		return dataset.Bool(v.IntValue() != 0), nil
	case dataset.KindFloat:
		return dataset.Bool(v.FloatValue() != 0), nil
	case dataset.KindString:
		switch strings.ToLower(strings.TrimSpace(v.StringValue())) {
		case "true", "t", "yes", "y", "1":
			return dataset.Bool(true), nil
		case "false", "f", "no", "n", "0":
			return dataset.Bool(false), nil
		default:
			return dataset.Value{}, fmt.Errorf("unrecognized boolean %q", v.StringValue())
		}
	default:
		return dataset.Value{}, fmt.Errorf("missing value has no boolean form")
	}
}
