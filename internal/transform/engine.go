package transform

import (
	"fmt"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// Warning codes surfaced to users. These are recoverable conditions: the
// offending column or step is skipped and processing continues.
const (
	WarnUnknownColumn   = "TRN001"
	WarnUnknownFunction = "TRN002"
)

// Warning is a non-fatal condition raised while applying a configuration.
// Warnings travel on their own channel: they are returned alongside the
// result, never as an error.
type Warning struct {
	Code    string `json:"code"`
	Column  string `json:"column"`
	Message string `json:"message"`
}

// Engine applies transformation configurations to datasets. The function
// registry is supplied at construction; nothing is resolved dynamically at
// apply time beyond a lookup into that closed set.
type Engine struct {
	registry *Registry
}

// NewEngine returns an engine bound to a registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Apply runs the configuration against the dataset and returns a new
// dataset; the input is never mutated. Per configured column the steps run
// in fixed order: value mapping, then type coercion, then named-function
// application. Mapping before coercion lets a configuration express lookup
// tables over the original representation; running the named function last
// lets it assume a stabilized type.
//
// Unknown columns and unregistered function names produce warnings and are
// skipped. A failed coercion or function application is fatal for the
// whole call and reported with its cause.
func (e *Engine) Apply(d *dataset.Dataset, cfg *Config) (*dataset.Dataset, []Warning, error) {
	out := d.Clone()
	var warnings []Warning

	for _, column := range cfg.ColumnNames() {
		ops := cfg.Columns[column]

		if !out.HasColumn(column) {
			warnings = append(warnings, Warning{
				Code:    WarnUnknownColumn,
				Column:  column,
				Message: fmt.Sprintf("column %q is not present in the dataset", column),
			})
			continue
		}
		values, _ := out.Column(column)

		next := make([]dataset.Value, len(values))
		copy(next, values)

		if ops.Map != nil {
			applyMap(next, ops.Map)
		}

		if ops.Cast != nil {
			if err := applyCast(next, column, ops.Cast); err != nil {
				return nil, warnings, err
			}
		}

		if ops.Apply != nil {
			fn, ok := e.registry.Lookup(ops.Apply.Function)
			if !ok {
				warnings = append(warnings, Warning{
					Code:    WarnUnknownFunction,
					Column:  column,
					Message: fmt.Sprintf("function %q is not registered", ops.Apply.Function),
				})
			} else if err := applyFunc(next, column, ops.Apply.Function, fn); err != nil {
				return nil, warnings, err
			}
		}

		if err := out.SetColumn(column, next); err != nil {
			return nil, warnings, err
		}
	}

	return out, warnings, nil
}

// applyMap replaces values present in the lookup table; everything else,
// including missing cells, passes through unchanged.
func applyMap(values []dataset.Value, op *MapOp) {
	for i, v := range values {
		if v.IsMissing() {
			continue
		}
		if replacement, ok := op.Entries[v.Render()]; ok {
			values[i] = replacement
		}
	}
}

func applyCast(values []dataset.Value, column string, op *CastOp) error {
	for i, v := range values {
		coerced, err := coerce(v, op.Target)
		if err != nil {
			return &CoercionError{Column: column, Target: op.Target, Value: v.Render(), Err: err}
		}
		values[i] = coerced
	}
	return nil
}

func applyFunc(values []dataset.Value, column, name string, fn Func) error {
	for i, v := range values {
		result, err := fn(v)
		if err != nil {
			return fmt.Errorf("applying %s to column %q: %w", name, column, err)
		}
		values[i] = result
	}
	return nil
}
