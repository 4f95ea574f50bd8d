// Package analysis implements the sales aggregation engine: grouping
// normalized tables by time bucket, category or region and deriving
// sums, counts, ticket averages and percentage/margin ratios. Optional
// breakdowns degrade to warnings instead of failing the whole call.
package analysis

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var oneHundred = decimal.NewFromInt(100)

// Engine runs aggregations over normalized tables. All methods treat
// their input table as read-only.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates an aggregation engine
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// metrics accumulates per-group aggregates
type metrics struct {
	sum   decimal.Decimal
	qty   decimal.Decimal
	cost  decimal.Decimal
	count int64
}

func (m *metrics) add(value, qty, cost decimal.Decimal, hasQty, hasCost bool) {
	m.sum = m.sum.Add(value)
	m.count++
	if hasQty {
		m.qty = m.qty.Add(qty)
	}
	if hasCost {
		m.cost = m.cost.Add(cost)
	}
}

// ticketAverage derives the mean transaction value of a group. A zero
// count yields zero rather than a division fault.
func (m *metrics) ticketAverage() decimal.Decimal {
	if m.count == 0 {
		return decimal.Zero
	}
	return m.sum.Div(decimal.NewFromInt(m.count)).Round(2)
}

// percentage derives a share of the grand total, rounded to 2 decimal
// places; a zero grand total yields zero
func percentage(part, grand decimal.Decimal) decimal.Decimal {
	if grand.IsZero() {
		return decimal.Zero
	}
	return part.Div(grand).Mul(oneHundred).Round(2)
}

// marginPercentage derives (total - cost) / total * 100 rounded to 2
// decimal places; a zero total yields zero
func marginPercentage(total, cost decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return total.Sub(cost).Div(total).Mul(oneHundred).Round(2)
}
