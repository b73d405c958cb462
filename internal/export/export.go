// Package export renders datasets into downloadable byte streams.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/JonMunkholm/dataprep/internal/dataset"

	"github.com/xuri/excelize/v2"
)

// Download is an inline-download payload: a data: URI plus the filename
// the browser should save it under.
type Download struct {
	Filename string `json:"filename"`
	Href     string `json:"href"`
}

// CSVBytes renders the dataset as CSV with a header row.
func CSVBytes(d *dataset.Dataset) ([]byte, error) {
	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, d); err != nil {
		return nil, fmt.Errorf("encoding csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVDownload builds an inline CSV download link. The ".csv" extension is
// appended to the user-supplied name.
func CSVDownload(d *dataset.Dataset, filename string) (*Download, error) {
	data, err := CSVBytes(d)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename: filename + ".csv",
		Href:     "data:text/csv;base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// XLSXBytes renders the dataset as a single-sheet Excel workbook. An empty
// sheet name defaults to "Sheet1". Typed cells keep their types so Excel
// treats numbers as numbers.
func XLSXBytes(d *dataset.Dataset, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, fmt.Errorf("naming sheet: %w", err)
		}
	}

	for c, name := range d.Columns() {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for r := 0; r < d.NumRows(); r++ {
		for c, v := range d.Row(r) {
			if v.IsMissing() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v.Native()); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSXDownload builds an inline XLSX download link, appending the
// ".xlsx" extension.
func XLSXDownload(d *dataset.Dataset, filename string) (*Download, error) {
	data, err := XLSXBytes(d, filename)
	if err != nil {
		return nil, err
	}
	return &Download{
		Filename: filename + ".xlsx",
		Href: "data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64," +
			base64.StdEncoding.EncodeToString(data),
	}, nil
}
