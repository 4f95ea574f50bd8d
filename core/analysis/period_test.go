package analysis_test

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"ecommerce-analytics/core/analysis"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

func periodFixture(t *testing.T, days []string, values []float64) *table.Table {
	t.Helper()
	tbl := table.New("date", "total_value")
	for i, d := range days {
		at, err := time.Parse("2006-01-02", d)
		if err != nil {
			t.Fatalf("bad fixture date %q: %v", d, err)
		}
		if err := tbl.AppendRow(table.Time(at), table.DecFloat(values[i])); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return tbl
}

func TestByPeriodBreakdowns(t *testing.T) {
	tbl := periodFixture(t,
		[]string{"2024-01-10", "2024-01-10", "2024-02-15", "2024-03-20", "2024-04-02"},
		[]float64{100, 50, 200, 75, 25})

	engine := analysis.NewEngine(zap.NewNop())
	group, warnings, err := engine.ByPeriod(tbl, "date", "total_value")
	if err != nil {
		t.Fatalf("ByPeriod: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	names := group.Names()
	want := []string{"sales_by_day", "sales_by_month", "sales_by_weekday", "sales_by_quarter"}
	if len(names) != len(want) {
		t.Fatalf("breakdowns = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("breakdown[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	node, _ := group.Child("sales_by_day")
	day := node.(analysis.Leaf).Table
	if day.NumRows() != 4 {
		t.Fatalf("sales_by_day rows = %d, want 4", day.NumRows())
	}
	// first day aggregates two transactions
	count, _ := day.Cell(0, "transaction_count").AsInt()
	if count != 2 {
		t.Errorf("first day transaction_count = %d, want 2", count)
	}
	ticket, _ := day.Cell(0, "ticket_average").AsDecimal()
	if ticket.String() != "75" {
		t.Errorf("first day ticket_average = %s, want 75", ticket)
	}
}

func TestByPeriodDaysSortedAscending(t *testing.T) {
	tbl := periodFixture(t,
		[]string{"2024-03-05", "2024-01-01", "2024-02-10"},
		[]float64{1, 2, 3})

	group, _, err := analysis.NewEngine(zap.NewNop()).ByPeriod(tbl, "date", "total_value")
	if err != nil {
		t.Fatalf("ByPeriod: %v", err)
	}
	node, _ := group.Child("sales_by_day")
	day := node.(analysis.Leaf).Table

	var prev time.Time
	for row := 0; row < day.NumRows(); row++ {
		at, _ := day.Cell(row, "date").AsTime()
		if row > 0 && at.Before(prev) {
			t.Errorf("row %d out of order: %v before %v", row, at, prev)
		}
		prev = at
	}
}

func TestByPeriodQuarterGating(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		wantQuarter bool
	}{
		{
			name:        "two distinct months",
			days:        []string{"2024-01-05", "2024-02-05", "2024-02-20"},
			wantQuarter: false,
		},
		{
			name:        "three distinct months",
			days:        []string{"2024-01-05", "2024-02-05", "2024-03-05"},
			wantQuarter: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]float64, len(tt.days))
			for i := range values {
				values[i] = 10
			}
			group, _, err := analysis.NewEngine(zap.NewNop()).
				ByPeriod(periodFixture(t, tt.days, values), "date", "total_value")
			if err != nil {
				t.Fatalf("ByPeriod: %v", err)
			}
			_, got := group.Child("sales_by_quarter")
			if got != tt.wantQuarter {
				t.Errorf("quarter present = %v, want %v", got, tt.wantQuarter)
			}
		})
	}
}

func TestByPeriodWeekdayNames(t *testing.T) {
	// 2024-01-01 is a Monday
	tbl := periodFixture(t, []string{"2024-01-01", "2024-01-07"}, []float64{10, 20})

	group, _, err := analysis.NewEngine(zap.NewNop()).ByPeriod(tbl, "date", "total_value")
	if err != nil {
		t.Fatalf("ByPeriod: %v", err)
	}
	node, _ := group.Child("sales_by_weekday")
	wd := node.(analysis.Leaf).Table

	idx, _ := wd.Cell(0, "weekday").AsInt()
	if idx != 0 {
		t.Errorf("first weekday index = %d, want 0 (Monday)", idx)
	}
	if name := wd.Cell(0, "weekday_name").Format(); name != "Monday" {
		t.Errorf("weekday_name = %q, want Monday", name)
	}
	if name := wd.Cell(1, "weekday_name").Format(); name != "Sunday" {
		t.Errorf("weekday_name = %q, want Sunday", name)
	}
}

func TestByPeriodStringDatesCoerced(t *testing.T) {
	tbl := table.New("date", "total_value")
	if err := tbl.AppendRow(table.String("2024-06-15 12:00:00"), table.DecFloat(30)); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	group, _, err := analysis.NewEngine(zap.NewNop()).ByPeriod(tbl, "date", "total_value")
	if err != nil {
		t.Fatalf("ByPeriod: %v", err)
	}
	node, _ := group.Child("sales_by_day")
	if node.(analysis.Leaf).Table.NumRows() != 1 {
		t.Error("string date was not coerced")
	}
}

func TestByPeriodErrors(t *testing.T) {
	engine := analysis.NewEngine(zap.NewNop())

	t.Run("missing date column", func(t *testing.T) {
		tbl := table.New("total_value")
		_, _, err := engine.ByPeriod(tbl, "date", "total_value")
		if !errors.IsType(err, errors.TypeNotFound) {
			t.Errorf("err = %v, want NOT_FOUND", err)
		}
	})

	t.Run("no parseable dates", func(t *testing.T) {
		tbl := table.New("date", "total_value")
		if err := tbl.AppendRow(table.String("garbage"), table.DecFloat(1)); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
		_, _, err := engine.ByPeriod(tbl, "date", "total_value")
		if !errors.IsType(err, errors.TypeConversion) {
			t.Errorf("err = %v, want CONVERSION_ERROR", err)
		}
		if !strings.Contains(err.Error(), "date") {
			t.Errorf("error %q should name the date column", err)
		}
	})

	t.Run("no numeric values", func(t *testing.T) {
		tbl := table.New("date", "total_value")
		if err := tbl.AppendRow(table.String("2024-01-15"), table.String("n/a")); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
		_, _, err := engine.ByPeriod(tbl, "date", "total_value")
		if !errors.IsType(err, errors.TypeConversion) {
			t.Fatalf("err = %v, want CONVERSION_ERROR", err)
		}
		// the failure is in the value column, the message must say so
		if !strings.Contains(err.Error(), "total_value") {
			t.Errorf("error %q should name the value column", err)
		}
		if strings.Contains(err.Error(), "date format") {
			t.Errorf("error %q misattributes the failure to the date column", err)
		}
	})

	t.Run("empty table", func(t *testing.T) {
		tbl := table.New("date", "total_value")
		_, _, err := engine.ByPeriod(tbl, "date", "total_value")
		if !errors.IsType(err, errors.TypeValidation) {
			t.Errorf("err = %v, want VALIDATION_ERROR", err)
		}
	})
}
