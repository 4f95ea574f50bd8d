package table_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"ecommerce-analytics/core/table"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Product Category", "product_category"},
		{"  Total Value ", "total_value"},
		{"price", "price"},
		{"TRANSACTION_ID", "transaction_id"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := table.NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestColumnLookupIsCaseInsensitive(t *testing.T) {
	tbl := table.New("Price", "Quantity")
	if !tbl.HasColumn("price") {
		t.Error("expected lowercase lookup of Price to succeed")
	}
	if tbl.ColumnIndex("QUANTITY") != 1 {
		t.Errorf("ColumnIndex(QUANTITY) = %d, want 1", tbl.ColumnIndex("QUANTITY"))
	}
	if tbl.ColumnIndex("missing") != -1 {
		t.Error("expected -1 for missing column")
	}
}

func TestAppendRowArityCheck(t *testing.T) {
	tbl := table.New("a", "b")
	if err := tbl.AppendRow(table.Int(1)); err == nil {
		t.Error("expected error appending 1 cell to 2-column table")
	}
	if err := tbl.AppendRow(table.Int(1), table.Int(2)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if tbl.NumRows() != 1 {
		t.Errorf("NumRows = %d, want 1", tbl.NumRows())
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	tbl := table.New("v")
	for i := 0; i < 4; i++ {
		if err := tbl.AppendRow(table.Int(int64(i))); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}

	kept := tbl.Filter(func(row int) bool {
		v, _ := tbl.Cell(row, "v").AsInt()
		return v%2 == 0
	})

	if kept.NumRows() != 2 {
		t.Errorf("filtered NumRows = %d, want 2", kept.NumRows())
	}
	if tbl.NumRows() != 4 {
		t.Errorf("source NumRows = %d after Filter, want 4", tbl.NumRows())
	}
}

func TestWithColumnReplaceAndAppend(t *testing.T) {
	tbl := table.New("price")
	if err := tbl.AppendRow(table.DecFloat(10)); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	doubled := tbl.WithColumn("double", func(row int) table.Cell {
		d, _ := tbl.Cell(row, "price").AsDecimal()
		return table.Dec(d.Mul(decimal.NewFromInt(2)))
	})
	if doubled.NumCols() != 2 {
		t.Fatalf("NumCols = %d, want 2", doubled.NumCols())
	}
	if got, _ := doubled.Cell(0, "double").AsDecimal(); !got.Equal(decimal.NewFromInt(20)) {
		t.Errorf("double = %s, want 20", got)
	}

	replaced := doubled.WithColumn("price", func(row int) table.Cell {
		return table.DecFloat(1)
	})
	if replaced.NumCols() != 2 {
		t.Errorf("replace grew columns: %d", replaced.NumCols())
	}
	if got, _ := replaced.Cell(0, "price").AsDecimal(); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("price = %s, want 1", got)
	}
}

func TestCellFormat(t *testing.T) {
	day := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		cell table.Cell
		want string
	}{
		{"null", table.Null(), ""},
		{"string", table.String("Electronics"), "Electronics"},
		{"int", table.Int(42), "42"},
		{"decimal", table.Dec(decimal.RequireFromString("19.90")), "19.9"},
		{"time", table.Time(day), "2024-03-15 14:30:00"},
		{"date", table.Date(day), "2024-03-15"},
		{"bool", table.Bool(true), "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateTruncatesTimeComponent(t *testing.T) {
	c := table.Date(time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC))
	at, ok := c.AsTime()
	if !ok {
		t.Fatal("AsTime failed on date cell")
	}
	if at.Hour() != 0 || at.Minute() != 0 || at.Second() != 0 {
		t.Errorf("time component not truncated: %v", at)
	}
}

func TestDistinctStrings(t *testing.T) {
	tbl := table.New("cat")
	for _, v := range []string{"b", "a", "b", "c", "a"} {
		if err := tbl.AppendRow(table.String(v)); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	got := tbl.DistinctStrings("cat")
	want := []string{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DistinctStrings[%d] = %q, want %q (first-seen order)", i, got[i], want[i])
		}
	}
}
