// Package describe produces per-column analytics for a dataset: basic
// statistics computed locally, optionally enriched with short natural-
// language descriptions from a language-model service.
package describe

import (
	"math/rand/v2"
	"strings"

	"github.com/JonMunkholm/dataprep/internal/dataset"
)

// ColumnProfile is the analysis of a single column. Numeric columns carry
// a mean; everything else carries the distinct-value count and the most
// common value.
type ColumnProfile struct {
	Column       string   `json:"column"`
	Mean         *float64 `json:"mean,omitempty"`
	UniqueValues *int     `json:"uniqueValues,omitempty"`
	MostCommon   string   `json:"mostCommon,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Report is the full dataset analysis.
type Report struct {
	SampleRows int             `json:"sampleRows"`
	Columns    []ColumnProfile `json:"columns"`
	Note       string          `json:"note,omitempty"`
}

// Profile computes basic statistics over a random sample of at most
// sampleSize rows. Missing cells are excluded from means, distinct counts
// and modes.
func Profile(d *dataset.Dataset, sampleSize int) *Report {
	n := d.NumRows()
	if sampleSize > 0 && sampleSize < n {
		n = sampleSize
	}
	indices := rand.Perm(d.NumRows())[:n]

	report := &Report{SampleRows: n}
	for _, name := range d.Columns() {
		values, _ := d.Column(name)
		sample := make([]dataset.Value, 0, n)
		for _, i := range indices {
			sample = append(sample, values[i])
		}
		report.Columns = append(report.Columns, profileColumn(name, sample))
	}
	return report
}

func profileColumn(name string, values []dataset.Value) ColumnProfile {
	profile := ColumnProfile{Column: name}

	if mean, ok := numericMean(values); ok {
		profile.Mean = &mean
		return profile
	}

	counts := make(map[string]int)
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		counts[v.Render()]++
	}
	unique := len(counts)
	profile.UniqueValues = &unique

	best := -1
	for rendered, count := range counts {
		// Ties break toward the lexicographically smaller value so the
		// report is deterministic.
		if count > best || (count == best && rendered < profile.MostCommon) {
			best = count
			profile.MostCommon = rendered
		}
	}
	return profile
}

// numericMean returns the mean of a column whose non-missing cells are all
// numeric. The second return is false for non-numeric columns and columns
// with no data.
func numericMean(values []dataset.Value) (float64, bool) {
	var sum float64
	var count int
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		f, ok := v.AsFloat()
		if !ok {
			return 0, false
		}
		sum += f
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// TrimIncompleteSentence drops a trailing incomplete sentence from
// model output: if the text does not end with a period, everything after
// the last complete sentence is removed.
func TrimIncompleteSentence(text string) string {
	sentences := strings.Split(text, ". ")
	if !strings.HasSuffix(text, ".") {
		sentences = sentences[:len(sentences)-1]
	}
	return strings.Join(sentences, ". ")
}
