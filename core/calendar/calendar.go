// Package calendar builds a one-row-per-day dimension table over a date
// range, with the bucketing keys downstream BI joins expect.
package calendar

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

// MaxSpanDays caps a calendar at ten years to bound output size; longer
// requests are truncated inclusively at start+MaxSpanDays
const MaxSpanDays = 3650

const dateLayout = "2006-01-02"

// Columns is the calendar table schema in output order
var Columns = []string{
	"date", "year", "month", "day",
	"weekday", "weekday_name", "month_name",
	"quarter", "half_year", "day_of_year", "week_of_year",
	"year_month", "year_quarter",
	"is_weekend", "is_business_day",
}

// Builder creates calendar tables
type Builder struct {
	log *zap.Logger
}

// NewBuilder creates a calendar builder
func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{log: log}
}

// Build produces the calendar table for [start, end], both YYYY-MM-DD.
// A malformed date is a validation error; an inverted range is swapped;
// a span beyond the cap is truncated.
func (b *Builder) Build(start, end string) (*table.Table, error) {
	startAt, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeValidation, err,
			"invalid start date %q, expected YYYY-MM-DD", start)
	}
	endAt, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeValidation, err,
			"invalid end date %q, expected YYYY-MM-DD", end)
	}

	if startAt.After(endAt) {
		b.log.Warn("start date after end date, swapping",
			zap.String("start", start), zap.String("end", end))
		startAt, endAt = endAt, startAt
	}

	if days := int(endAt.Sub(startAt).Hours() / 24); days > MaxSpanDays {
		b.log.Warn("date span exceeds cap, truncating",
			zap.Int("requested_days", days), zap.Int("max_days", MaxSpanDays))
		endAt = startAt.AddDate(0, 0, MaxSpanDays)
	}

	t := table.New(Columns...)
	for day := startAt; !day.After(endAt); day = day.AddDate(0, 0, 1) {
		if err := t.AppendRow(dayRow(day)...); err != nil {
			return nil, errors.Internal("appending calendar row", err)
		}
	}

	b.log.Info("calendar table built",
		zap.String("start", startAt.Format(dateLayout)),
		zap.String("end", endAt.Format(dateLayout)),
		zap.Int("rows", t.NumRows()))
	return t, nil
}

func dayRow(day time.Time) []table.Cell {
	weekday := mondayIndex(day)
	quarter := (int(day.Month())-1)/3 + 1
	half := 1
	if day.Month() > time.June {
		half = 2
	}

	return []table.Cell{
		table.Date(day),
		table.Int(int64(day.Year())),
		table.Int(int64(day.Month())),
		table.Int(int64(day.Day())),
		table.Int(int64(weekday)),
		table.String(day.Weekday().String()),
		table.String(day.Month().String()),
		table.Int(int64(quarter)),
		table.Int(int64(half)),
		table.Int(int64(day.YearDay())),
		table.Int(int64(weekOfYear(day))),
		table.String(day.Format("2006-01")),
		table.String(fmt.Sprintf("%d-Q%d", day.Year(), quarter)),
		table.Bool(weekday >= 5),
		table.Bool(weekday < 5),
	}
}

// weekOfYear numbers weeks with Monday as the first day; days before the
// year's first Monday fall in week 0
func weekOfYear(t time.Time) int {
	return (t.YearDay() + 6 - mondayIndex(t)) / 7
}

func mondayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
