// Package normalize standardizes raw tables before analysis: column
// names are lowercased and underscored, temporal columns are coerced,
// stored totals are reconciled against price*quantity, and rows with
// null identifier columns are removed.
package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/schema"
	"ecommerce-analytics/core/table"
)

// DefaultAnomalyThreshold is the multiplicative bound above which a stored
// total column is considered implausible and recomputed wholesale. A policy
// constant, not derived from the data.
const DefaultAnomalyThreshold = 2.0

// PrimaryDateLayout is tried first on every date/time column
const PrimaryDateLayout = "2006-01-02 15:04:05"

// FallbackDateLayouts are tried in order when the primary layout fails
var FallbackDateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// nonNegativeColumns must never hold negative values; violations are
// warned about and counted but the rows are kept
var nonNegativeColumns = []string{"price", "quantity", "total_value", "shipping_cost"}

// Report describes what normalization did to a table
type Report struct {
	// RowsIn is the input row count
	RowsIn int

	// RowsOut is the output row count
	RowsOut int

	// RowsDropped counts rows removed for null critical columns
	RowsDropped int

	// NullDrops maps each critical column to its null-row count
	NullDrops map[string]int

	// NegativeCounts maps non-negative columns to offending row counts
	NegativeCounts map[string]int

	// TotalRecomputed indicates the total_value column was rebuilt from
	// price*quantity after failing the anomaly check
	TotalRecomputed bool

	// Warnings lists non-fatal issues (unconvertible date columns etc.)
	Warnings []string
}

// Normalizer standardizes raw tables
type Normalizer struct {
	threshold float64
	log       *zap.Logger
}

// New creates a normalizer with the given anomaly threshold. A
// non-positive threshold falls back to the default.
func New(threshold float64, log *zap.Logger) *Normalizer {
	if threshold <= 0 {
		threshold = DefaultAnomalyThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{threshold: threshold, log: log}
}

// Normalize standardizes a table and reports what changed. The input is
// never mutated. An empty table passes through unchanged.
func (n *Normalizer) Normalize(t *table.Table) (*table.Table, *Report, error) {
	report := &Report{
		RowsIn:         t.NumRows(),
		NullDrops:      make(map[string]int),
		NegativeCounts: make(map[string]int),
	}

	if t.NumRows() == 0 || t.NumCols() == 0 {
		n.log.Warn("empty table, nothing to normalize")
		report.RowsOut = t.NumRows()
		return t.Clone(), report, nil
	}

	out := t.RenameColumns(table.NormalizeName)
	n.log.Info("column names standardized", zap.Strings("columns", out.Columns()))

	out = n.coerceDateColumns(out, report)
	out = n.reconcileTotals(out, report)
	out = n.dropNullCritical(out, report)
	n.checkNonNegative(out, report)

	report.RowsOut = out.NumRows()
	n.log.Info("normalization complete",
		zap.Int("rows_in", report.RowsIn),
		zap.Int("rows_out", report.RowsOut),
		zap.Int("rows_dropped", report.RowsDropped))
	return out, report, nil
}

// coerceDateColumns converts string columns whose names contain "date" or
// "time" to temporal cells, trying the primary layout then the fallbacks.
// A column failing every layout stays as-is with a recorded warning.
func (n *Normalizer) coerceDateColumns(t *table.Table, report *Report) *table.Table {
	out := t
	for _, col := range t.Columns() {
		lower := strings.ToLower(col)
		if !strings.Contains(lower, "date") && !strings.Contains(lower, "time") {
			continue
		}
		if columnIsTemporal(out, col) {
			continue
		}

		layout, ok := detectLayout(out, col)
		if !ok {
			msg := fmt.Sprintf("column %q could not be parsed with any known date format", col)
			n.log.Warn("date column left unconverted", zap.String("column", col))
			report.Warnings = append(report.Warnings, msg)
			continue
		}

		name, src := col, out
		out = out.WithColumn(name, func(row int) table.Cell {
			c := src.Cell(row, name)
			if c.IsNull() {
				return c
			}
			parsed, err := time.Parse(layout, c.Format())
			if err != nil {
				return table.Null()
			}
			if layout == PrimaryDateLayout {
				return table.Time(parsed)
			}
			return table.Date(parsed)
		})
		n.log.Info("date column converted",
			zap.String("column", col), zap.String("layout", layout))
	}
	return out
}

// detectLayout returns the first layout that parses every non-null value
// of the column
func detectLayout(t *table.Table, col string) (string, bool) {
	layouts := append([]string{PrimaryDateLayout}, FallbackDateLayouts...)
	for _, layout := range layouts {
		ok := true
		for row := 0; row < t.NumRows(); row++ {
			c := t.Cell(row, col)
			if c.IsNull() {
				continue
			}
			if _, err := time.Parse(layout, c.Format()); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return layout, true
		}
	}
	return "", false
}

func columnIsTemporal(t *table.Table, col string) bool {
	for row := 0; row < t.NumRows(); row++ {
		c := t.Cell(row, col)
		if c.IsNull() {
			continue
		}
		return c.IsTemporal()
	}
	return false
}

// reconcileTotals computes total_value when absent, and recomputes the
// whole column when the stored maximum exceeds the expected bound by more
// than the anomaly threshold. Policy: trust the formula over stored data
// when the data looks implausible.
func (n *Normalizer) reconcileTotals(t *table.Table, report *Report) *table.Table {
	if !t.HasColumn("price") || !t.HasColumn("quantity") {
		return t
	}

	computed := func(row int) table.Cell {
		price, okP := t.Cell(row, "price").AsDecimal()
		qty, okQ := t.Cell(row, "quantity").AsDecimal()
		if !okP || !okQ {
			return table.Null()
		}
		return table.Dec(price.Mul(qty).Round(2))
	}

	if !t.HasColumn("total_value") {
		n.log.Info("computing total_value from price and quantity")
		return t.WithColumn("total_value", computed)
	}

	maxTotal := columnMax(t, "total_value")
	maxExpected := columnMax(t, "price").Mul(columnMax(t, "quantity"))
	bound := maxExpected.Mul(decimal.NewFromFloat(n.threshold))

	if maxTotal.GreaterThan(bound) {
		n.log.Warn("anomalous stored totals detected, recomputing column",
			zap.String("max_total", maxTotal.String()),
			zap.String("max_expected", maxExpected.String()))
		report.TotalRecomputed = true
		return t.WithColumn("total_value", computed)
	}

	n.log.Info("stored total_value within expected bounds")
	return t
}

// dropNullCritical removes rows where any present critical identifier
// column is null, counting removals per column
func (n *Normalizer) dropNullCritical(t *table.Table, report *Report) *table.Table {
	var present []string
	for _, col := range schema.CriticalColumns {
		if t.HasColumn(col) {
			present = append(present, col)
		}
	}
	if len(present) == 0 {
		return t
	}

	for _, col := range present {
		count := 0
		for row := 0; row < t.NumRows(); row++ {
			if t.Cell(row, col).IsNull() {
				count++
			}
		}
		if count > 0 {
			report.NullDrops[col] = count
		}
	}

	before := t.NumRows()
	out := t.Filter(func(row int) bool {
		for _, col := range present {
			if t.Cell(row, col).IsNull() {
				return false
			}
		}
		return true
	})
	removed := before - out.NumRows()
	report.RowsDropped = removed
	if removed > 0 {
		n.log.Warn("rows with null critical columns removed",
			zap.Int("removed", removed), zap.Any("per_column", report.NullDrops))
	}
	return out
}

// checkNonNegative warns about negative values in columns that must be
// non-negative; rows are counted but never dropped
func (n *Normalizer) checkNonNegative(t *table.Table, report *Report) {
	for _, col := range nonNegativeColumns {
		if !t.HasColumn(col) {
			continue
		}
		count := 0
		for row := 0; row < t.NumRows(); row++ {
			if d, ok := t.Cell(row, col).AsDecimal(); ok && d.IsNegative() {
				count++
			}
		}
		if count > 0 {
			report.NegativeCounts[col] = count
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("column %q has %d negative values", col, count))
			n.log.Warn("negative values detected",
				zap.String("column", col), zap.Int("rows", count))
		}
	}
}

// columnMax returns the maximum numeric value in a column, or zero when
// the column has no numeric values
func columnMax(t *table.Table, col string) decimal.Decimal {
	max := decimal.Zero
	found := false
	for row := 0; row < t.NumRows(); row++ {
		d, ok := t.Cell(row, col).AsDecimal()
		if !ok {
			continue
		}
		if !found || d.GreaterThan(max) {
			max = d
			found = true
		}
	}
	return max
}
