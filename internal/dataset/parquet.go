package dataset

import (
	"bytes"
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// ReadParquet decodes a parquet file into a dataset. Unlike CSV ingestion,
// parquet carries column types, so cells arrive typed (int, float, bool,
// string); nulls become the missing marker.
func ReadParquet(ctx context.Context, data []byte) (*Dataset, error) {
	rdr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid parquet: %w", err)
	}
	defer rdr.Close()

	fr, err := pqarrow.NewFileReader(rdr, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("invalid parquet: %w", err)
	}

	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading parquet table: %w", err)
	}
	defer tbl.Release()

	d := New()
	for c := 0; c < int(tbl.NumCols()); c++ {
		col := tbl.Column(c)
		vals := make([]Value, 0, tbl.NumRows())
		for _, chunk := range col.Data().Chunks() {
			vals = appendArrowValues(vals, chunk)
		}
		if err := d.AddColumn(col.Name(), vals); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// appendArrowValues converts one arrow chunk into cell values.
func appendArrowValues(vals []Value, arr arrow.Array) []Value {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			vals = append(vals, Missing())
			continue
		}
		switch a := arr.(type) {
		case *array.Int64:
			vals = append(vals, Int(a.Value(i)))
		case *array.Int32:
			vals = append(vals, Int(int64(a.Value(i))))
		case *array.Float64:
			vals = append(vals, Float(a.Value(i)))
		case *array.Float32:
			vals = append(vals, Float(float64(a.Value(i))))
		case *array.Boolean:
			vals = append(vals, Bool(a.Value(i)))
		case *array.String:
			vals = append(vals, String(a.Value(i)))
		case *array.LargeString:
			vals = append(vals, String(a.Value(i)))
		default:
			// Timestamps, decimals and anything else keep their textual form.
			vals = append(vals, String(arr.ValueStr(i)))
		}
	}
	return vals
}
