package transform

import (
	"sort"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// Func is a single-argument, single-result pure function over a cell
// value, addressable from a configuration's apply operation.
type Func func(dataset.Value) (dataset.Value, error)

// Registry keys are the stable public contract used by uploaded
// configurations; the Go identifiers behind them are an implementation
// detail.
const (
	FuncStripCurrencyInt   = "strip_currency_int"
	FuncStripCurrencyFloat = "strip_currency_float"
	FuncNormalizeLabel     = "normalize_label"
)

// Registry is a closed mapping from name to function. It is built once at
// startup and never mutated afterwards; configurations cannot reference
// anything outside it.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns the registry with the built-in functions installed.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{
		FuncStripCurrencyInt:   StripCurrencyToInt,
		FuncStripCurrencyFloat: StripCurrencyToFloat,
		FuncNormalizeLabel:     NormalizeColumnLabel,
	}}
}

// Lookup resolves a function by its configuration-facing name.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
