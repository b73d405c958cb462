// Package transform implements the declarative per-column transformation
// engine: value mapping, type coercion and named-function application,
// driven by a JSON configuration uploaded alongside the dataset.
package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// ErrMalformedConfig marks a configuration that failed structural
// validation. The whole configuration is rejected; nothing is applied.
var ErrMalformedConfig = errors.New("malformed transformation config")

// CastTarget is a primitive type a column can be coerced to.
type CastTarget string

const (
	CastInt    CastTarget = "int"
	CastFloat  CastTarget = "float"
	CastString CastTarget = "string"
	CastBool   CastTarget = "bool"
)

// MapOp replaces cell values via a partial lookup table with identity
// fallback: values absent from the table pass through unchanged.
// Keys match against the cell's rendered form.
type MapOp struct {
	Entries map[string]dataset.Value
}

// CastOp coerces every value in the column to a primitive type.
type CastOp struct {
	Target CastTarget
}

// ApplyOp applies a named function from the registry to every value.
type ApplyOp struct {
	Function string
}

// ColumnOps is the validated operation set for one column. Operations
// always run in the fixed order map -> cast -> apply; absent operations
// are skipped.
type ColumnOps struct {
	Map   *MapOp
	Cast  *CastOp
	Apply *ApplyOp
}

// Config is a validated transformation configuration.
type Config struct {
	Columns map[string]ColumnOps
}

// ColumnNames returns the configured column names in sorted order, which
// is the order the engine processes them in.
func (c *Config) ColumnNames() []string {
	names := make([]string, 0, len(c.Columns))
	for name := range c.Columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rawColumnOps mirrors the uploaded JSON shape:
//
//	{"price": {"map": {"N/A": "0"}, "astype": "float",
//	           "apply": {"type": "custom", "function": "strip_currency_float"}}}
type rawColumnOps struct {
	Map    map[string]any `json:"map"`
	Astype *string        `json:"astype"`
	Apply  *rawApply      `json:"apply"`
}

type rawApply struct {
	Type     string `json:"type"`
	Function string `json:"function"`
}

// ParseConfig decodes and eagerly validates a JSON transformation
// configuration. Any structural problem (invalid JSON, unknown operation
// key, unsupported astype target, non-custom apply, nested map values)
// rejects the whole document with ErrMalformedConfig; per-column problems
// are collected so the user sees all of them at once.
func ParseConfig(data []byte) (*Config, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	cfg := &Config{Columns: make(map[string]ColumnOps, len(top))}
	var problems []error

	for column, raw := range top {
		ops, err := parseColumnOps(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("column %q: %w", column, err))
			continue
		}
		cfg.Columns[column] = ops
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrMalformedConfig, errors.Join(problems...))
	}
	return cfg, nil
}

func parseColumnOps(raw json.RawMessage) (ColumnOps, error) {
	// First pass catches keys outside {map, astype, apply}.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return ColumnOps{}, fmt.Errorf("operation set must be an object: %v", err)
	}
	for k := range keys {
		switch k {
		case "map", "astype", "apply":
		default:
			return ColumnOps{}, fmt.Errorf("unknown operation %q", k)
		}
	}

	var rc rawColumnOps
	if err := json.Unmarshal(raw, &rc); err != nil {
		return ColumnOps{}, err
	}

	var ops ColumnOps

	if rc.Map != nil {
		entries := make(map[string]dataset.Value, len(rc.Map))
		for k, v := range rc.Map {
			switch v.(type) {
			case nil, bool, float64, string:
				entries[k] = dataset.FromAny(v)
			default:
				return ColumnOps{}, fmt.Errorf("map value for key %q must be a scalar", k)
			}
		}
		ops.Map = &MapOp{Entries: entries}
	}

	if rc.Astype != nil {
		target := CastTarget(*rc.Astype)
		switch target {
		case CastInt, CastFloat, CastString, CastBool:
			ops.Cast = &CastOp{Target: target}
		default:
			return ColumnOps{}, fmt.Errorf("unsupported astype target %q", *rc.Astype)
		}
	}

	if rc.Apply != nil {
		if rc.Apply.Type != "custom" {
			return ColumnOps{}, fmt.Errorf("unsupported apply type %q", rc.Apply.Type)
		}
		if rc.Apply.Function == "" {
			return ColumnOps{}, fmt.Errorf("apply is missing a function name")
		}
		ops.Apply = &ApplyOp{Function: rc.Apply.Function}
	}

	return ops, nil
}
