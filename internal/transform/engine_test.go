package transform

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

func newEngine() *Engine {
	return NewEngine(NewRegistry())
}

func mustParse(t *testing.T, raw string) *Config {
	t.Helper()
	cfg, err := ParseConfig([]byte(raw))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	return cfg
}

func TestApply_EmptyConfigIsIdentity(t *testing.T) {
	d := dataset.New()
	d.AddColumn("a", []dataset.Value{dataset.Int(1), dataset.Missing()})
	d.AddColumn("b", []dataset.Value{dataset.String("x"), dataset.String("y")})

	out, warnings, err := newEngine().Apply(d, mustParse(t, `{}`))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Apply() warnings = %v, want none", warnings)
	}
	if !out.Equal(d) {
		t.Error("empty config should return an equal dataset")
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	d := dataset.New()
	d.AddColumn("price", []dataset.Value{dataset.String("3.50")})

	_, _, err := newEngine().Apply(d, mustParse(t, `{"price": {"astype": "float"}}`))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	col, _ := d.Column("price")
	if col[0].Kind() != dataset.KindString {
		t.Error("input dataset was mutated")
	}
}

func TestApply_MapIdentityFallback(t *testing.T) {
	d := dataset.New()
	d.AddColumn("state", []dataset.Value{
		dataset.String("california"),
		dataset.String("oregon"),
		dataset.String("CA"),
	})

	cfg := mustParse(t, `{"state": {"map": {"california": "CA", "oregon": "OR"}}}`)
	out, _, err := newEngine().Apply(d, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	col, _ := out.Column("state")
	want := []string{"CA", "OR", "CA"}
	for i, w := range want {
		if col[i].Render() != w {
			t.Errorf("row %d = %q, want %q", i, col[i].Render(), w)
		}
	}
}

func TestApply_MapThenCastFloat(t *testing.T) {
	// The canonical config: map the N/A sentinel before casting the rest.
	d := dataset.New()
	d.AddColumn("price", []dataset.Value{dataset.String("N/A"), dataset.String("3.50")})

	cfg := mustParse(t, `{"price": {"map": {"N/A": "0"}, "astype": "float"}}`)
	out, warnings, err := newEngine().Apply(d, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	col, _ := out.Column("price")
	if col[0].Kind() != dataset.KindFloat || col[0].FloatValue() != 0.0 {
		t.Errorf("row 0 = %v (%s), want float 0", col[0].Render(), col[0].Kind())
	}
	if col[1].Kind() != dataset.KindFloat || col[1].FloatValue() != 3.5 {
		t.Errorf("row 1 = %v (%s), want float 3.5", col[1].Render(), col[1].Kind())
	}
}

func TestApply_CastIsIdempotent(t *testing.T) {
	tests := []struct {
		target string
		values []dataset.Value
	}{
		{"int", []dataset.Value{dataset.String("1"), dataset.String("-3"), dataset.Float(2.7)}},
		{"float", []dataset.Value{dataset.String("1.5"), dataset.Int(2), dataset.Missing()}},
		{"string", []dataset.Value{dataset.Int(1), dataset.Float(5.0), dataset.Missing()}},
		{"bool", []dataset.Value{dataset.String("yes"), dataset.String("0"), dataset.Int(3)}},
	}

	for _, tt := range tests {
		target := tt.target
		d := dataset.New()
		d.AddColumn("v", tt.values)

		t.Run(target, func(t *testing.T) {
			cfg := mustParse(t, `{"v": {"astype": "`+target+`"}}`)

			once, _, err := newEngine().Apply(d, cfg)
			if err != nil {
				t.Fatalf("first cast error = %v", err)
			}
			twice, _, err := newEngine().Apply(once, cfg)
			if err != nil {
				t.Fatalf("second cast error = %v", err)
			}
			if !twice.Equal(once) {
				t.Errorf("casting to %s twice differs from casting once", target)
			}
		})
	}
}

func TestApply_CoercionFailureIsFatal(t *testing.T) {
	d := dataset.New()
	d.AddColumn("n", []dataset.Value{dataset.String("not-a-number")})

	_, _, err := newEngine().Apply(d, mustParse(t, `{"n": {"astype": "int"}}`))
	if err == nil {
		t.Fatal("expected coercion error")
	}

	var ce *CoercionError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %T, want *CoercionError", err)
	}
	if ce.Column != "n" || ce.Target != CastInt {
		t.Errorf("CoercionError = %+v", ce)
	}
}

func TestApply_UnknownColumnWarnsAndContinues(t *testing.T) {
	d := dataset.New()
	d.AddColumn("price", []dataset.Value{dataset.String("1.5")})

	cfg := mustParse(t, `{
		"nonexistent": {"astype": "int"},
		"price": {"astype": "float"}
	}`)

	out, warnings, err := newEngine().Apply(d, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want exactly 1: %v", len(warnings), warnings)
	}
	if warnings[0].Code != WarnUnknownColumn || warnings[0].Column != "nonexistent" {
		t.Errorf("warning = %+v", warnings[0])
	}

	// The other configured column was still processed.
	col, _ := out.Column("price")
	if col[0].Kind() != dataset.KindFloat {
		t.Error("price column was not cast")
	}
}

func TestApply_UnknownFunctionWarnsAndSkipsStep(t *testing.T) {
	d := dataset.New()
	d.AddColumn("v", []dataset.Value{dataset.String("$5")})

	cfg := mustParse(t, `{"v": {"apply": {"type": "custom", "function": "no_such_function"}}}`)
	out, warnings, err := newEngine().Apply(d, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(warnings) != 1 || warnings[0].Code != WarnUnknownFunction {
		t.Fatalf("warnings = %v, want one %s", warnings, WarnUnknownFunction)
	}

	// Column left as-is for the skipped step.
	col, _ := out.Column("v")
	if col[0].Render() != "$5" {
		t.Errorf("column = %q, want untouched %q", col[0].Render(), "$5")
	}
}

func TestApply_RegistryFunction(t *testing.T) {
	d := dataset.New()
	d.AddColumn("amount", []dataset.Value{dataset.String("$1,250"), dataset.String("300")})

	cfg := mustParse(t, `{"amount": {"apply": {"type": "custom", "function": "strip_currency_int"}}}`)
	out, warnings, err := newEngine().Apply(d, cfg)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}

	col, _ := out.Column("amount")
	if col[0].IntValue() != 1250 || col[1].IntValue() != 300 {
		t.Errorf("amounts = [%v %v], want [1250 300]", col[0].Render(), col[1].Render())
	}
}

func TestApply_FunctionFailureIsFatal(t *testing.T) {
	d := dataset.New()
	d.AddColumn("v", []dataset.Value{dataset.String("abc")})

	cfg := mustParse(t, `{"v": {"apply": {"type": "custom", "function": "strip_currency_int"}}}`)
	_, _, err := newEngine().Apply(d, cfg)
	if err == nil {
		t.Fatal("expected error from failing registry function")
	}
}
