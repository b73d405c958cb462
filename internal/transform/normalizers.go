package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// currencyReplacer strips currency symbols and thousands separators before
// numeric parsing. Same cleanup set the CSV import path has always used.
var currencyReplacer = strings.NewReplacer("$", "", "€", "", "£", "", ",", "")

func stripCurrency(s string) string {
	return strings.TrimSpace(currencyReplacer.Replace(s))
}

// StripCurrencyToInt strips a leading currency symbol from textual values
// and parses the remainder as an integer. Numeric values are truncated to
// an integer. Anything unparseable is an error.
func StripCurrencyToInt(v dataset.Value) (dataset.Value, error) {
	switch v.Kind() {
	case dataset.KindInt:
		return v, nil
	case dataset.KindFloat:
		return dataset.Int(int64(math.Trunc(v.FloatValue()))), nil
	case dataset.KindBool:
		if v.BoolValue() {
			return dataset.Int(1), nil
		}
		return dataset.Int(0), nil
	case dataset.KindString:
		cleaned := stripCurrency(v.StringValue())
		n, err := strconv.ParseInt(cleaned, 10, 64)
		if err != nil {
			return dataset.Value{}, fmt.Errorf("parse %q as int: %w", v.StringValue(), err)
		}
		return dataset.Int(n), nil
	default:
		return dataset.Value{}, fmt.Errorf("cannot parse missing value as int")
	}
}

// StripCurrencyToFloat is StripCurrencyToInt with a floating point target.
func StripCurrencyToFloat(v dataset.Value) (dataset.Value, error) {
	switch v.Kind() {
	case dataset.KindInt:
		return dataset.Float(float64(v.IntValue())), nil
	case dataset.KindFloat:
		return v, nil
	case dataset.KindBool:
		if v.BoolValue() {
			return dataset.Float(1), nil
		}
		return dataset.Float(0), nil
	case dataset.KindString:
		cleaned := stripCurrency(v.StringValue())
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return dataset.Value{}, fmt.Errorf("parse %q as float: %w", v.StringValue(), err)
		}
		return dataset.Float(f), nil
	default:
		return dataset.Value{}, fmt.Errorf("cannot parse missing value as float")
	}
}

// NormalizeColumnLabel stringifies a cell for use as a label: missing
// becomes the literal "N/A", integral floats drop the trailing ".0"
// (5.0 -> "5"), everything else keeps its plain string form.
func NormalizeColumnLabel(v dataset.Value) (dataset.Value, error) {
	if v.IsMissing() {
		return dataset.String("N/A"), nil
	}
	return dataset.String(v.Render()), nil
}
