// Package schema inspects a normalized table once and records which
// optional columns are available, so downstream analyses consume
// capabilities by name instead of re-probing the schema ad hoc.
package schema

import (
	"strings"

	"ecommerce-analytics/core/table"
)

// RegionCandidates is the ordered list tried during region auto-detection
var RegionCandidates = []string{"region", "state", "city", "country"}

// CriticalColumns are identifier columns that must be non-null; rows
// violating this are removed during normalization
var CriticalColumns = []string{"order_id", "transaction_id", "product_id", "customer_id"}

// Capabilities records which optional analysis inputs a table provides
type Capabilities struct {
	// HasQuantity indicates a quantity column usable for unit totals
	HasQuantity bool

	// HasCost indicates a cost_value column usable for margin derivation
	HasCost bool

	// HasSubcategory indicates a product_subcategory breakdown is possible
	HasSubcategory bool

	// RegionColumn is the first present region candidate, or empty
	RegionColumn string

	// HasStateAndRegion indicates the state to macro-region enrichment applies
	HasStateAndRegion bool

	// DateColumns lists columns whose names suggest temporal content
	DateColumns []string
}

// Detect computes the capabilities of a normalized table
func Detect(t *table.Table) Capabilities {
	caps := Capabilities{
		HasQuantity:    t.HasColumn("quantity"),
		HasCost:        t.HasColumn("cost_value"),
		HasSubcategory: t.HasColumn("product_subcategory"),
	}

	for _, cand := range RegionCandidates {
		if t.HasColumn(cand) {
			caps.RegionColumn = cand
			break
		}
	}
	caps.HasStateAndRegion = t.HasColumn("state") && t.HasColumn("region")

	for _, col := range t.Columns() {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
			caps.DateColumns = append(caps.DateColumns, col)
		}
	}

	return caps
}
