package generate_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/generate"
	"ecommerce-analytics/internal/errors"
)

func TestSalesRoundTripTotals(t *testing.T) {
	gen := generate.New(42, zap.NewNop())
	sales, err := gen.Sales(200, "2024-01-01", "2024-06-30")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}
	if sales.NumRows() != 200 {
		t.Fatalf("NumRows = %d, want 200", sales.NumRows())
	}

	for row := 0; row < sales.NumRows(); row++ {
		price, _ := sales.Cell(row, "price").AsDecimal()
		qty, _ := sales.Cell(row, "quantity").AsDecimal()
		total, _ := sales.Cell(row, "total_value").AsDecimal()
		want := price.Mul(qty).Round(2)
		if !total.Equal(want) {
			t.Errorf("row %d: total_value = %s, want price*quantity = %s", row, total, want)
		}
	}
}

func TestSalesFieldRanges(t *testing.T) {
	gen := generate.New(7, zap.NewNop())
	sales, err := gen.Sales(300, "2024-01-01", "2024-12-31")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}

	trxPattern := regexp.MustCompile(`^TRX-\d{6}$`)
	custPattern := regexp.MustCompile(`^CUST-\d{4}$`)
	prodPattern := regexp.MustCompile(`^PROD-\d{5}$`)
	lo := decimal.NewFromInt(10)
	hi := decimal.NewFromInt(500)

	for row := 0; row < sales.NumRows(); row++ {
		if id := sales.Cell(row, "transaction_id").Format(); !trxPattern.MatchString(id) {
			t.Errorf("row %d: transaction_id %q", row, id)
		}
		if id := sales.Cell(row, "customer_id").Format(); !custPattern.MatchString(id) {
			t.Errorf("row %d: customer_id %q", row, id)
		}
		if id := sales.Cell(row, "product_id").Format(); !prodPattern.MatchString(id) {
			t.Errorf("row %d: product_id %q", row, id)
		}

		price, _ := sales.Cell(row, "price").AsDecimal()
		if price.LessThan(lo) || price.GreaterThan(hi) {
			t.Errorf("row %d: price %s out of [10, 500]", row, price)
		}
		qty, _ := sales.Cell(row, "quantity").AsInt()
		if qty < 1 || qty > 5 {
			t.Errorf("row %d: quantity %d out of [1, 5]", row, qty)
		}

		at, ok := sales.Cell(row, "date").AsTime()
		if !ok {
			t.Fatalf("row %d: date is not temporal", row)
		}
		if at.Hour() < 8 {
			t.Errorf("row %d: purchase hour %d before 08:00", row, at.Hour())
		}
		if at.Before(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) ||
			at.After(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("row %d: date %v outside requested range", row, at)
		}
	}
}

func TestSalesSeedDeterminism(t *testing.T) {
	a, err := generate.New(99, zap.NewNop()).Sales(50, "2024-01-01", "2024-03-31")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}
	b, err := generate.New(99, zap.NewNop()).Sales(50, "2024-01-01", "2024-03-31")
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}

	for row := 0; row < a.NumRows(); row++ {
		for col := 0; col < a.NumCols(); col++ {
			if a.CellAt(row, col).Format() != b.CellAt(row, col).Format() {
				t.Fatalf("row %d col %d differs between identically seeded runs", row, col)
			}
		}
	}
}

func TestSalesDefaultCountSubstitution(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"zero", 0},
		{"negative", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sales, err := generate.New(1, zap.NewNop()).Sales(tt.count, "2024-01-01", "2024-01-31")
			if err != nil {
				t.Fatalf("Sales: %v", err)
			}
			if sales.NumRows() != generate.DefaultSalesCount {
				t.Errorf("NumRows = %d, want default %d", sales.NumRows(), generate.DefaultSalesCount)
			}
		})
	}
}

func TestDateRangeSwapsInvertedBounds(t *testing.T) {
	gen := generate.New(1, zap.NewNop())
	start, end, err := gen.DateRange("2024-06-30", "2024-01-01")
	if err != nil {
		t.Fatalf("DateRange: %v", err)
	}
	if !start.Before(end) {
		t.Errorf("inverted range not swapped: start %v, end %v", start, end)
	}
}

func TestDateRangeRejectsMalformedDates(t *testing.T) {
	gen := generate.New(1, zap.NewNop())
	_, _, err := gen.DateRange("not-a-date", "")
	if err == nil {
		t.Fatal("expected error for malformed start date")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("error type = %v, want VALIDATION_ERROR", err)
	}
}

func TestCustomersSequentialIDs(t *testing.T) {
	custs, err := generate.New(3, zap.NewNop()).Customers(10)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if custs.NumRows() != 10 {
		t.Fatalf("NumRows = %d, want 10", custs.NumRows())
	}
	if got := custs.Cell(0, "customer_id").Format(); got != "CUST-0001" {
		t.Errorf("first customer_id = %q, want CUST-0001", got)
	}
	if got := custs.Cell(9, "customer_id").Format(); got != "CUST-0010" {
		t.Errorf("last customer_id = %q, want CUST-0010", got)
	}
}

func TestMacroRegionCoversAllSeedStates(t *testing.T) {
	for _, state := range generate.States {
		if _, ok := generate.MacroRegionByState[state]; !ok {
			t.Errorf("state %s has no macro region mapping", state)
		}
	}
}
