package analysis

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/schema"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

// ByCategory aggregates sales per category: sum, count and ticket
// average, plus quantity and cost totals when the table provides them.
// Groups are sorted descending by summed value, with each group's share
// of the grand total and, when cost data exists, its margin percentage.
//
// With a product_subcategory column a secondary (category, subcategory)
// aggregation is attached; if that secondary step fails the primary
// result is still returned, degraded with a warning.
func (e *Engine) ByCategory(t *table.Table, catCol, valueCol string, caps schema.Capabilities) (Node, []Warning, error) {
	if !t.HasColumn(catCol) {
		return nil, nil, errors.ColumnNotFound(catCol)
	}
	if !t.HasColumn(valueCol) {
		return nil, nil, errors.ColumnNotFound(valueCol)
	}

	e.log.Info("running category analysis",
		zap.String("category_column", catCol),
		zap.String("value_column", valueCol),
		zap.Bool("has_quantity", caps.HasQuantity),
		zap.Bool("has_cost", caps.HasCost),
		zap.Bool("has_subcategory", caps.HasSubcategory))

	primary, err := e.aggregateCategories(t, []string{catCol}, valueCol, caps, true)
	if err != nil {
		return nil, nil, err
	}

	if !caps.HasSubcategory {
		e.log.Info("category analysis complete", zap.Int("categories", primary.NumRows()))
		return Leaf{Table: primary}, nil, nil
	}

	secondary, err := e.aggregateCategories(t, []string{catCol, "product_subcategory"}, valueCol, caps, false)
	if err != nil {
		e.log.Warn("subcategory breakdown failed, returning primary result only", zap.Error(err))
		warnings := []Warning{{Analysis: "subcategories", Message: err.Error()}}
		return Leaf{Table: primary}, warnings, nil
	}

	group := NewGroup()
	group.Add("categories", Leaf{Table: primary})
	group.Add("subcategories", Leaf{Table: secondary})
	e.log.Info("category analysis complete",
		zap.Int("categories", primary.NumRows()),
		zap.Int("subcategories", secondary.NumRows()))
	return group, nil, nil
}

// aggregateCategories groups by one or two label columns and derives the
// shared metric set. Ratio columns (percentage, margin) are only attached
// to the primary single-column aggregation.
func (e *Engine) aggregateCategories(t *table.Table, keyCols []string, valueCol string, caps schema.Capabilities, withRatios bool) (*table.Table, error) {
	type catKey struct{ primary, secondary string }

	groups := make(map[catKey]*metrics)
	var order []catKey

	for row := 0; row < t.NumRows(); row++ {
		value, ok := t.Cell(row, valueCol).AsDecimal()
		if !ok {
			continue
		}

		key := catKey{primary: t.Cell(row, keyCols[0]).Format()}
		if len(keyCols) > 1 {
			key.secondary = t.Cell(row, keyCols[1]).Format()
		}

		m, exists := groups[key]
		if !exists {
			m = &metrics{}
			groups[key] = m
			order = append(order, key)
		}

		qty := decimal.Zero
		if caps.HasQuantity {
			qty, _ = t.Cell(row, "quantity").AsDecimal()
		}
		cost := decimal.Zero
		if caps.HasCost {
			cost, _ = t.Cell(row, "cost_value").AsDecimal()
		}
		m.add(value, qty, cost, caps.HasQuantity, caps.HasCost)
	}

	if len(order) == 0 {
		return nil, errors.Validation("no usable value observations for category analysis")
	}

	// grand total sums the groups, not the raw table: upstream filtering
	// must not skew the percentage base
	grand := decimal.Zero
	for _, m := range groups {
		grand = grand.Add(m.sum)
	}

	cols := append([]string(nil), keyCols...)
	cols = append(cols, "value_total", "transaction_count", "ticket_average")
	if caps.HasQuantity {
		cols = append(cols, "quantity_total")
	}
	if caps.HasCost {
		cols = append(cols, "cost_total")
	}
	if withRatios {
		cols = append(cols, "percentage")
		if caps.HasCost {
			cols = append(cols, "margin_percentage")
		}
	}

	out := table.New(cols...)
	for _, key := range order {
		m := groups[key]
		cells := []table.Cell{table.String(key.primary)}
		if len(keyCols) > 1 {
			cells = append(cells, table.String(key.secondary))
		}
		cells = append(cells,
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
		)
		if caps.HasQuantity {
			cells = append(cells, table.Dec(m.qty))
		}
		if caps.HasCost {
			cells = append(cells, table.Dec(m.cost))
		}
		if withRatios {
			cells = append(cells, table.Dec(percentage(m.sum, grand)))
			if caps.HasCost {
				cells = append(cells, table.Dec(marginPercentage(m.sum, m.cost)))
			}
		}
		if err := out.AppendRow(cells...); err != nil {
			return nil, err
		}
	}

	valueIdx := out.ColumnIndex("value_total")
	out.Sort(func(a, b []table.Cell) bool {
		av, _ := a[valueIdx].AsDecimal()
		bv, _ := b[valueIdx].AsDecimal()
		return av.GreaterThan(bv)
	})
	return out, nil
}
