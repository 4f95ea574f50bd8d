package analysis

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/normalize"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

// WeekdayNames is the fixed display-name lookup, Monday=0 convention
var WeekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// MinMonthsForQuarter gates the quarterly breakdown: below this many
// distinct months the output would be meaningless and is omitted
const MinMonthsForQuarter = 3

// point is one usable (timestamp, value) observation
type point struct {
	at    time.Time
	value decimal.Decimal
}

// ByPeriod groups sales by calendar day, month, weekday and (when the
// data spans enough months) quarter. Each breakdown is independent: a
// failing one is logged, reported as a warning and omitted, and the call
// still returns the surviving breakdowns.
func (e *Engine) ByPeriod(t *table.Table, dateCol, valueCol string) (*Group, []Warning, error) {
	if !t.HasColumn(dateCol) {
		return nil, nil, errors.ColumnNotFound(dateCol)
	}
	if !t.HasColumn(valueCol) {
		return nil, nil, errors.ColumnNotFound(valueCol)
	}

	points, err := datePoints(t, dateCol, valueCol)
	if err != nil {
		return nil, nil, err
	}
	if len(points) == 0 {
		return nil, nil, errors.Validation("no usable date/value observations for period analysis")
	}

	e.log.Info("running period analysis",
		zap.String("date_column", dateCol),
		zap.String("value_column", valueCol),
		zap.Int("observations", len(points)))

	group := NewGroup()
	var warnings []Warning

	breakdowns := []struct {
		name string
		run  func([]point) (*table.Table, error)
	}{
		{"sales_by_day", byDay},
		{"sales_by_month", byMonth},
		{"sales_by_weekday", byWeekday},
	}
	for _, b := range breakdowns {
		out, err := b.run(points)
		if err != nil {
			e.log.Warn("period breakdown failed",
				zap.String("breakdown", b.name), zap.Error(err))
			warnings = append(warnings, Warning{Analysis: b.name, Message: err.Error()})
			continue
		}
		group.Add(b.name, Leaf{Table: out})
	}

	if months := distinctMonths(points); months >= MinMonthsForQuarter {
		out, err := byQuarter(points)
		if err != nil {
			e.log.Warn("quarterly breakdown failed", zap.Error(err))
			warnings = append(warnings, Warning{Analysis: "sales_by_quarter", Message: err.Error()})
		} else {
			group.Add("sales_by_quarter", Leaf{Table: out})
		}
	} else {
		e.log.Info("quarterly breakdown skipped",
			zap.Int("distinct_months", months),
			zap.Int("required", MinMonthsForQuarter))
	}

	e.log.Info("period analysis complete", zap.Int("breakdowns", group.Len()))
	return group, warnings, nil
}

// datePoints extracts usable (timestamp, value) pairs. String dates are
// coerced through the normalizer's layout chain; values failing every
// layout are skipped rather than failing the whole analysis. A column
// that yields no temporal values at all is a conversion error.
func datePoints(t *table.Table, dateCol, valueCol string) ([]point, error) {
	layouts := append([]string{normalize.PrimaryDateLayout}, normalize.FallbackDateLayouts...)

	var points []point
	sawValue := false
	parsedDate := false
	for row := 0; row < t.NumRows(); row++ {
		dc := t.Cell(row, dateCol)
		if dc.IsNull() {
			continue
		}
		sawValue = true

		at, ok := dc.AsTime()
		if !ok {
			if dc.Kind() != table.KindString {
				return nil, errors.Conversion(
					fmt.Sprintf("column %q holds %s values, cannot coerce to date", dateCol, dc.Kind()), nil)
			}
			for _, layout := range layouts {
				if parsed, err := time.Parse(layout, dc.Format()); err == nil {
					at, ok = parsed, true
					break
				}
			}
			if !ok {
				continue
			}
		}
		parsedDate = true

		value, okV := t.Cell(row, valueCol).AsDecimal()
		if !okV {
			continue
		}
		points = append(points, point{at: at, value: value})
	}

	if sawValue && len(points) == 0 {
		if !parsedDate {
			return nil, errors.Conversion(
				fmt.Sprintf("no value in column %q matched any accepted date format", dateCol), nil)
		}
		return nil, errors.Conversion(
			fmt.Sprintf("column %q yielded no numeric values", valueCol), nil)
	}
	return points, nil
}

func distinctMonths(points []point) int {
	seen := make(map[time.Month]bool)
	for _, p := range points {
		seen[p.at.Month()] = true
	}
	return len(seen)
}

// byDay groups observations by calendar date, ascending
func byDay(points []point) (*table.Table, error) {
	keys, groups := accumulate(points, func(p point) string {
		return p.at.Format("2006-01-02")
	})

	out := table.New("date", "value_total", "transaction_count", "ticket_average")
	for _, key := range keys {
		m := groups[key]
		day, _ := time.Parse("2006-01-02", key)
		if err := out.AppendRow(
			table.Date(day),
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
		); err != nil {
			return nil, err
		}
	}
	out.Sort(func(a, b []table.Cell) bool {
		at, _ := a[0].AsTime()
		bt, _ := b[0].AsTime()
		return at.Before(bt)
	})
	return out, nil
}

// byMonth groups observations by (year, month), ascending, with a
// YYYY-MM label for join convenience
func byMonth(points []point) (*table.Table, error) {
	keys, groups := accumulate(points, func(p point) string {
		return p.at.Format("2006-01")
	})

	out := table.New("year", "month", "year_month", "value_total", "transaction_count", "ticket_average")
	for _, key := range keys {
		m := groups[key]
		at, _ := time.Parse("2006-01", key)
		if err := out.AppendRow(
			table.Int(int64(at.Year())),
			table.Int(int64(at.Month())),
			table.String(at.Format("2006-01")),
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
		); err != nil {
			return nil, err
		}
	}
	out.Sort(func(a, b []table.Cell) bool {
		ay, _ := a[0].AsInt()
		by, _ := b[0].AsInt()
		if ay != by {
			return ay < by
		}
		am, _ := a[1].AsInt()
		bm, _ := b[1].AsInt()
		return am < bm
	})
	return out, nil
}

// byWeekday groups observations by weekday index (Monday=0), ascending,
// attaching the display name from the fixed lookup
func byWeekday(points []point) (*table.Table, error) {
	keys, groups := accumulate(points, func(p point) string {
		return fmt.Sprintf("%d", mondayIndex(p.at))
	})

	out := table.New("weekday", "weekday_name", "value_total", "transaction_count", "ticket_average")
	for _, key := range keys {
		m := groups[key]
		var idx int
		fmt.Sscanf(key, "%d", &idx)
		if err := out.AppendRow(
			table.Int(int64(idx)),
			table.String(WeekdayNames[idx]),
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
		); err != nil {
			return nil, err
		}
	}
	out.Sort(func(a, b []table.Cell) bool {
		ai, _ := a[0].AsInt()
		bi, _ := b[0].AsInt()
		return ai < bi
	})
	return out, nil
}

// byQuarter groups observations by (year, quarter), ascending, with a
// YYYY-Qn label
func byQuarter(points []point) (*table.Table, error) {
	keys, groups := accumulate(points, func(p point) string {
		return fmt.Sprintf("%04d-Q%d", p.at.Year(), quarterOf(p.at))
	})

	out := table.New("year", "quarter", "year_quarter", "value_total", "transaction_count", "ticket_average")
	for _, key := range keys {
		m := groups[key]
		var year, q int
		fmt.Sscanf(key, "%d-Q%d", &year, &q)
		if err := out.AppendRow(
			table.Int(int64(year)),
			table.Int(int64(q)),
			table.String(key),
			table.Dec(m.sum),
			table.Int(m.count),
			table.Dec(m.ticketAverage()),
		); err != nil {
			return nil, err
		}
	}
	out.Sort(func(a, b []table.Cell) bool {
		ay, _ := a[0].AsInt()
		by, _ := b[0].AsInt()
		if ay != by {
			return ay < by
		}
		aq, _ := a[1].AsInt()
		bq, _ := b[1].AsInt()
		return aq < bq
	})
	return out, nil
}

// accumulate folds observations into per-key metrics, preserving
// first-seen key order
func accumulate(points []point, keyFn func(point) string) ([]string, map[string]*metrics) {
	groups := make(map[string]*metrics)
	var keys []string
	for _, p := range points {
		key := keyFn(p)
		m, ok := groups[key]
		if !ok {
			m = &metrics{}
			groups[key] = m
			keys = append(keys, key)
		}
		m.add(p.value, decimal.Zero, decimal.Zero, false, false)
	}
	return keys, groups
}

// mondayIndex converts Go's Sunday=0 weekday to the Monday=0 convention
func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func quarterOf(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}
