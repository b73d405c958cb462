package transform

import (
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

func TestParseConfig_FullShape(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"price": {
			"map": {"N/A": "0", "free": 0},
			"astype": "float",
			"apply": {"type": "custom", "function": "strip_currency_float"}
		}
	}`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	ops, ok := cfg.Columns["price"]
	if !ok {
		t.Fatal("price column missing from config")
	}
	if ops.Map == nil || ops.Cast == nil || ops.Apply == nil {
		t.Fatalf("ops = %+v, want all three operations", ops)
	}
	if ops.Cast.Target != CastFloat {
		t.Errorf("Cast.Target = %q, want float", ops.Cast.Target)
	}
	if ops.Apply.Function != "strip_currency_float" {
		t.Errorf("Apply.Function = %q", ops.Apply.Function)
	}
	if v := ops.Map.Entries["free"]; v.Kind() != dataset.KindInt || v.IntValue() != 0 {
		t.Errorf("numeric map value decoded as %v (%s)", v.Render(), v.Kind())
	}
}

func TestParseConfig_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"invalid json", `{"price": `},
		{"top level not object", `[1, 2]`},
		{"ops not object", `{"price": "astype"}`},
		{"unknown operation", `{"price": {"rename": "cost"}}`},
		{"unsupported astype", `{"price": {"astype": "decimal"}}`},
		{"non-custom apply", `{"price": {"apply": {"type": "builtin", "function": "abs"}}}`},
		{"apply without function", `{"price": {"apply": {"type": "custom"}}}`},
		{"nested map value", `{"price": {"map": {"N/A": {"v": 0}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.raw))
			if !errors.Is(err, ErrMalformedConfig) {
				t.Errorf("error = %v, want ErrMalformedConfig", err)
			}
		})
	}
}

func TestParseConfig_CollectsAllColumnProblems(t *testing.T) {
	_, err := ParseConfig([]byte(`{
		"a": {"astype": "decimal"},
		"b": {"apply": {"type": "builtin", "function": "abs"}}
	}`))
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, col := range []string{`"a"`, `"b"`} {
		if !strings.Contains(msg, col) {
			t.Errorf("error %q does not mention column %s", msg, col)
		}
	}
}

func TestConfig_ColumnNamesSorted(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"b": {}, "a": {}, "c": {}}`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	names := cfg.ColumnNames()
	want := []string{"a", "b", "c"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ColumnNames() = %v, want %v", names, want)
		}
	}
}
