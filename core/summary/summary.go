// Package summary derives descriptive statistics for a table: row and
// column counts, null counts, numeric ranges, temporal spans and the
// most frequent categorical values.
package summary

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-analytics/core/table"
)

// topValueLimit bounds the categorical frequency listing per column
const topValueLimit = 10

// NumericStats describes a numeric column
type NumericStats struct {
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
}

// DateStats describes a temporal column
type DateStats struct {
	Min      time.Time `json:"min"`
	Max      time.Time `json:"max"`
	SpanDays int       `json:"span_days"`
}

// ValueCount is one categorical value with its frequency
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Summary is the statistical profile of a table
type Summary struct {
	NumRecords int                     `json:"num_records"`
	NumColumns int                     `json:"num_columns"`
	Columns    []string                `json:"columns"`
	NullCounts map[string]int          `json:"null_counts"`
	Numeric    map[string]NumericStats `json:"numeric"`
	Dates      map[string]DateStats    `json:"dates"`
	TopValues  map[string][]ValueCount `json:"top_values"`
}

// Summarize profiles a table. It never fails; columns that cannot be
// profiled are simply absent from the relevant section.
func Summarize(t *table.Table) *Summary {
	s := &Summary{
		NumRecords: t.NumRows(),
		NumColumns: t.NumCols(),
		Columns:    t.Columns(),
		NullCounts: make(map[string]int),
		Numeric:    make(map[string]NumericStats),
		Dates:      make(map[string]DateStats),
		TopValues:  make(map[string][]ValueCount),
	}

	for _, col := range t.Columns() {
		profileColumn(t, col, s)
	}
	return s
}

func profileColumn(t *table.Table, col string, s *Summary) {
	var (
		nulls    int
		numbers  []decimal.Decimal
		times    []time.Time
		strCount map[string]int
	)

	for row := 0; row < t.NumRows(); row++ {
		c := t.Cell(row, col)
		switch {
		case c.IsNull():
			nulls++
		case c.IsNumeric():
			if d, ok := c.AsDecimal(); ok {
				numbers = append(numbers, d)
			}
		case c.IsTemporal():
			if at, ok := c.AsTime(); ok {
				times = append(times, at)
			}
		case c.Kind() == table.KindString:
			if strCount == nil {
				strCount = make(map[string]int)
			}
			strCount[c.Format()]++
		}
	}

	s.NullCounts[col] = nulls

	if len(numbers) > 0 {
		s.Numeric[col] = numericStats(numbers)
	}
	if len(times) > 0 {
		s.Dates[col] = dateStats(times)
	}
	if len(strCount) > 0 {
		s.TopValues[col] = topValues(strCount)
	}
}

func numericStats(values []decimal.Decimal) NumericStats {
	sorted := append([]decimal.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	sum := decimal.Zero
	for _, v := range sorted {
		sum = sum.Add(v)
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
	}

	return NumericStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum.Div(decimal.NewFromInt(int64(n))).Round(4),
		Median: median,
	}
}

func dateStats(times []time.Time) DateStats {
	min, max := times[0], times[0]
	for _, at := range times[1:] {
		if at.Before(min) {
			min = at
		}
		if at.After(max) {
			max = at
		}
	}
	return DateStats{
		Min:      min,
		Max:      max,
		SpanDays: int(max.Sub(min).Hours() / 24),
	}
}

func topValues(counts map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if len(out) > topValueLimit {
		out = out[:topValueLimit]
	}
	return out
}
