package analysis_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/analysis"
	"ecommerce-analytics/core/schema"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

func categoryFixture(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New("product_category", "total_value", "quantity")
	rows := [][]table.Cell{
		{table.String("Electronics"), table.DecFloat(300), table.Int(2)},
		{table.String("Books"), table.DecFloat(100), table.Int(1)},
		{table.String("Electronics"), table.DecFloat(200), table.Int(3)},
		{table.String("Clothing"), table.DecFloat(400), table.Int(4)},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}
	return tbl
}

func TestByCategoryConservation(t *testing.T) {
	tbl := categoryFixture(t)
	caps := schema.Detect(tbl)

	node, warnings, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", caps)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	out := node.(analysis.Leaf).Table
	if out.NumRows() != 3 {
		t.Fatalf("NumRows = %d, want 3 categories", out.NumRows())
	}

	// summed group values must equal the raw table total
	sum := decimal.Zero
	var count int64
	for row := 0; row < out.NumRows(); row++ {
		v, _ := out.Cell(row, "value_total").AsDecimal()
		sum = sum.Add(v)
		c, _ := out.Cell(row, "transaction_count").AsInt()
		count += c
	}
	if want := decimal.NewFromInt(1000); !sum.Equal(want) {
		t.Errorf("sum of value_total = %s, want %s", sum, want)
	}
	if count != 4 {
		t.Errorf("sum of transaction_count = %d, want 4", count)
	}
}

func TestByCategoryPercentagesSumToHundred(t *testing.T) {
	tbl := categoryFixture(t)
	node, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Detect(tbl))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	out := node.(analysis.Leaf).Table

	sum := decimal.Zero
	for row := 0; row < out.NumRows(); row++ {
		p, _ := out.Cell(row, "percentage").AsDecimal()
		sum = sum.Add(p)
	}
	diff := sum.Sub(decimal.NewFromInt(100)).Abs()
	if diff.GreaterThan(decimal.RequireFromString("0.1")) {
		t.Errorf("percentages sum to %s, want ~100", sum)
	}
}

func TestByCategorySortedDescending(t *testing.T) {
	tbl := categoryFixture(t)
	node, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Detect(tbl))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	out := node.(analysis.Leaf).Table

	if got := out.Cell(0, "product_category").Format(); got != "Electronics" {
		t.Errorf("top category = %q, want Electronics (500)", got)
	}
	var prev decimal.Decimal
	for row := 0; row < out.NumRows(); row++ {
		v, _ := out.Cell(row, "value_total").AsDecimal()
		if row > 0 && v.GreaterThan(prev) {
			t.Errorf("row %d not descending: %s after %s", row, v, prev)
		}
		prev = v
	}
}

func TestByCategoryQuantityTotals(t *testing.T) {
	tbl := categoryFixture(t)
	node, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Detect(tbl))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	out := node.(analysis.Leaf).Table

	if !out.HasColumn("quantity_total") {
		t.Fatal("quantity_total column missing despite quantity capability")
	}
	qty, _ := out.Cell(0, "quantity_total").AsDecimal()
	if !qty.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Electronics quantity_total = %s, want 5", qty)
	}
}

func TestByCategoryMargin(t *testing.T) {
	tbl := table.New("product_category", "total_value", "cost_value")
	if err := tbl.AppendRow(table.String("Books"), table.DecFloat(200), table.DecFloat(150)); err != nil {
		t.Fatalf("AppendRow: %v", err)
	}

	node, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Detect(tbl))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	out := node.(analysis.Leaf).Table

	margin, _ := out.Cell(0, "margin_percentage").AsDecimal()
	if want := decimal.NewFromInt(25); !margin.Equal(want) {
		t.Errorf("margin_percentage = %s, want %s", margin, want)
	}
}

func TestByCategorySubcategoryNesting(t *testing.T) {
	tbl := table.New("product_category", "product_subcategory", "total_value")
	rows := [][]table.Cell{
		{table.String("Electronics"), table.String("Phones"), table.DecFloat(100)},
		{table.String("Electronics"), table.String("Laptops"), table.DecFloat(300)},
		{table.String("Books"), table.String("Fiction"), table.DecFloat(50)},
	}
	for _, r := range rows {
		if err := tbl.AppendRow(r...); err != nil {
			t.Fatalf("AppendRow: %v", err)
		}
	}

	node, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Detect(tbl))
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}

	group, ok := node.(*analysis.Group)
	if !ok {
		t.Fatalf("result = %T, want *Group with subcategories", node)
	}
	sub, ok := group.Child("subcategories")
	if !ok {
		t.Fatal("subcategories child missing")
	}
	subTable := sub.(analysis.Leaf).Table
	if subTable.NumRows() != 3 {
		t.Errorf("subcategory rows = %d, want 3", subTable.NumRows())
	}
	if subTable.HasColumn("percentage") {
		t.Error("secondary aggregation must not carry ratio columns")
	}
	if got := subTable.Cell(0, "product_subcategory").Format(); got != "Laptops" {
		t.Errorf("top subcategory = %q, want Laptops", got)
	}
}

func TestByCategoryMissingColumn(t *testing.T) {
	tbl := table.New("total_value")
	_, _, err := analysis.NewEngine(zap.NewNop()).
		ByCategory(tbl, "product_category", "total_value", schema.Capabilities{})
	if !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
