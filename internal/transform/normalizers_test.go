package transform

import (
	"testing"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

func TestStripCurrencyToInt(t *testing.T) {
	tests := []struct {
		name    string
		in      dataset.Value
		want    int64
		wantErr bool
	}{
		{"dollar prefix", dataset.String("$100"), 100, false},
		{"thousands separator", dataset.String("$1,250"), 1250, false},
		{"euro prefix", dataset.String("€42"), 42, false},
		{"plain digits", dataset.String("300"), 300, false},
		{"already int", dataset.Int(7), 7, false},
		{"float truncates", dataset.Float(9.9), 9, false},
		{"not a number", dataset.String("$abc"), 0, true},
		{"decimal rejected", dataset.String("$3.50"), 0, true},
		{"missing", dataset.Missing(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripCurrencyToInt(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.IntValue() != tt.want {
				t.Errorf("got %d, want %d", got.IntValue(), tt.want)
			}
		})
	}
}

func TestStripCurrencyToFloat(t *testing.T) {
	tests := []struct {
		name    string
		in      dataset.Value
		want    float64
		wantErr bool
	}{
		{"dollar decimal", dataset.String("$3.50"), 3.5, false},
		{"thousands separator", dataset.String("$1,250.75"), 1250.75, false},
		{"plain", dataset.String("2"), 2, false},
		{"already float", dataset.Float(1.25), 1.25, false},
		{"int widens", dataset.Int(4), 4, false},
		{"garbage", dataset.String("$-"), 0, true},
		{"missing", dataset.Missing(), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripCurrencyToFloat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.FloatValue() != tt.want {
				t.Errorf("got %v, want %v", got.FloatValue(), tt.want)
			}
		})
	}
}

func TestNormalizeColumnLabel(t *testing.T) {
	tests := []struct {
		name string
		in   dataset.Value
		want string
	}{
		{"missing becomes N/A", dataset.Missing(), "N/A"},
		{"integral float", dataset.Float(5.0), "5"},
		{"fractional float", dataset.Float(5.5), "5.5"},
		{"int", dataset.Int(12), "12"},
		{"string passthrough", dataset.String("Region"), "Region"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeColumnLabel(tt.in)
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got.StringValue() != tt.want {
				t.Errorf("got %q, want %q", got.StringValue(), tt.want)
			}
		})
	}
}

func TestRegistry_Closed(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{FuncStripCurrencyInt, FuncStripCurrencyFloat, FuncNormalizeLabel} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("builtin %q not registered", name)
		}
	}
	if _, ok := r.Lookup("drop_table"); ok {
		t.Error("unexpected function resolved")
	}
	if got := len(r.Names()); got != 3 {
		t.Errorf("registry has %d entries, want 3", got)
	}
}
