package describe

import (
	"context"
	"testing"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

func TestProfile_NumericColumn(t *testing.T) {
	d := dataset.New()
	d.AddColumn("price", []dataset.Value{
		dataset.Float(1.0),
		dataset.Int(2),
		dataset.Missing(), // excluded from the mean
		dataset.Float(3.0),
	})

	report := Profile(d, 0)
	if report.SampleRows != 4 {
		t.Errorf("SampleRows = %d, want 4", report.SampleRows)
	}

	col := report.Columns[0]
	if col.Mean == nil {
		t.Fatal("numeric column should have a mean")
	}
	if *col.Mean != 2.0 {
		t.Errorf("Mean = %v, want 2", *col.Mean)
	}
	if col.UniqueValues != nil {
		t.Error("numeric column should not have a distinct count")
	}
}

func TestProfile_CategoricalColumn(t *testing.T) {
	d := dataset.New()
	d.AddColumn("region", []dataset.Value{
		dataset.String("west"),
		dataset.String("east"),
		dataset.String("west"),
		dataset.Missing(),
	})

	col := Profile(d, 0).Columns[0]
	if col.Mean != nil {
		t.Error("categorical column should not have a mean")
	}
	if col.UniqueValues == nil || *col.UniqueValues != 2 {
		t.Errorf("UniqueValues = %v, want 2", col.UniqueValues)
	}
	if col.MostCommon != "west" {
		t.Errorf("MostCommon = %q, want west", col.MostCommon)
	}
}

func TestProfile_MixedColumnIsCategorical(t *testing.T) {
	d := dataset.New()
	d.AddColumn("v", []dataset.Value{dataset.Int(1), dataset.String("x")})

	col := Profile(d, 0).Columns[0]
	if col.Mean != nil {
		t.Error("mixed column should be treated as categorical")
	}
}

func TestProfile_SampleCap(t *testing.T) {
	vals := make([]dataset.Value, 100)
	for i := range vals {
		vals[i] = dataset.Int(int64(i))
	}
	d := dataset.New()
	d.AddColumn("n", vals)

	report := Profile(d, 10)
	if report.SampleRows != 10 {
		t.Errorf("SampleRows = %d, want 10", report.SampleRows)
	}
}

func TestTrimIncompleteSentence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"complete sentences untouched",
			"This is a price. It is numeric.",
			"This is a price. It is numeric.",
		},
		{
			"trailing fragment dropped",
			"This is a price. It is usually",
			"This is a price",
		},
		{
			"single fragment becomes empty",
			"An incomplete thought without a per",
			"",
		},
		{
			"single complete sentence",
			"A customer identifier.",
			"A customer identifier.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimIncompleteSentence(tt.in); got != tt.want {
				t.Errorf("TrimIncompleteSentence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDescribe_NoAPIKeySkipsRemoteCalls(t *testing.T) {
	d := dataset.New()
	d.AddColumn("price", []dataset.Value{dataset.Float(1.5)})

	report, err := New(Config{}).Describe(context.Background(), d)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if report.Note == "" {
		t.Error("expected a note about skipped descriptions")
	}
	if report.Columns[0].Description != "" {
		t.Error("description should be empty without an API key")
	}
}
