package analysis

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/schema"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

// ByRegion aggregates sales per region value, descending by summed
// value, with each region's share of the grand total. An empty regionCol
// auto-detects the column from the fixed candidate order. When the chosen
// column is state and a region column also exists, a macro_region column
// is attached from the table's distinct (state, region) pairs; a failure
// there degrades to a warning.
func (e *Engine) ByRegion(t *table.Table, regionCol, valueCol string) (*table.Table, []Warning, error) {
	if regionCol == "" {
		for _, cand := range schema.RegionCandidates {
			if t.HasColumn(cand) {
				regionCol = cand
				e.log.Info("region column auto-detected", zap.String("column", cand))
				break
			}
		}
		if regionCol == "" {
			return nil, nil, errors.Newf(errors.TypeNotFound,
				"no region column detected, tried: %s",
				strings.Join(schema.RegionCandidates, ", ")).
				WithContext("candidates", schema.RegionCandidates)
		}
	}

	if !t.HasColumn(regionCol) {
		return nil, nil, errors.ColumnNotFound(regionCol)
	}
	if !t.HasColumn(valueCol) {
		return nil, nil, errors.ColumnNotFound(valueCol)
	}

	e.log.Info("running region analysis",
		zap.String("region_column", regionCol),
		zap.String("value_column", valueCol))

	groups := make(map[string]*metrics)
	var order []string
	for row := 0; row < t.NumRows(); row++ {
		value, ok := t.Cell(row, valueCol).AsDecimal()
		if !ok {
			continue
		}
		key := t.Cell(row, regionCol).Format()
		m, exists := groups[key]
		if !exists {
			m = &metrics{}
			groups[key] = m
			order = append(order, key)
		}
		m.add(value, decimal.Zero, decimal.Zero, false, false)
	}

	if len(order) == 0 {
		return nil, nil, errors.Validation("no usable value observations for region analysis")
	}

	grand := decimal.Zero
	for _, m := range groups {
		grand = grand.Add(m.sum)
	}

	out := table.New(regionCol, "value_total", "transaction_count", "ticket_average", "percentage")
	for _, key := range order {
		m := groups[key]
		if err := out.AppendRow(
			table.String(key),
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
			table.Dec(percentage(m.sum, grand)),
		); err != nil {
			return nil, nil, err
		}
	}
	out.Sort(func(a, b []table.Cell) bool {
		av, _ := a[1].AsDecimal()
		bv, _ := b[1].AsDecimal()
		return av.GreaterThan(bv)
	})

	var warnings []Warning
	if regionCol == "state" && t.HasColumn("region") {
		if mapping := stateRegionLookup(t); len(mapping) > 0 {
			result := out
			out = out.WithColumn("macro_region", func(row int) table.Cell {
				state := result.Cell(row, "state").Format()
				if region, ok := mapping[state]; ok {
					return table.String(region)
				}
				return table.Null()
			})
			e.log.Info("macro-region mapping attached", zap.Int("states", len(mapping)))
		} else {
			msg := "could not build state to macro-region mapping from table data"
			e.log.Warn(msg)
			warnings = append(warnings, Warning{Analysis: "macro_region", Message: msg})
		}
	}

	e.log.Info("region analysis complete", zap.Int("regions", out.NumRows()))
	return out, warnings, nil
}

// stateRegionLookup builds a state to region map from the distinct
// non-null (state, region) pairs present in the table
func stateRegionLookup(t *table.Table) map[string]string {
	mapping := make(map[string]string)
	for row := 0; row < t.NumRows(); row++ {
		state := t.Cell(row, "state")
		region := t.Cell(row, "region")
		if state.IsNull() || region.IsNull() {
			continue
		}
		mapping[state.Format()] = region.Format()
	}
	return mapping
}
