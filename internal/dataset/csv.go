package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV decodes a delimited text file with a header row into a dataset.
// Cells are kept as strings (empty cells become the missing marker);
// applying types is left to the transformation configuration.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // short rows pad with missing; FromRows rejects over-long ones
	cr.LazyQuotes = true    // tolerate Excel artifacts like ="0123"

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	for i, h := range header {
		header[i] = cleanHeader(h)
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		rows = append(rows, record)
	}

	return FromRows(header, rows)
}

// WriteCSV encodes the dataset as delimited text with a header row.
// Missing values are written as empty cells.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns()); err != nil {
		return err
	}
	for _, row := range d.Rows() {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cleanHeader removes common CSV artifacts from a header cell:
// surrounding whitespace, a UTF-8 BOM and Excel formula prefixes (="...").
func cleanHeader(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	return strings.Trim(s, `"'`)
}
