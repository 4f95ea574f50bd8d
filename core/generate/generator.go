// Package generate produces synthetic e-commerce sales and customer
// tables with plausible randomized attribute distributions.
package generate

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

const (
	// DefaultSalesCount substitutes a non-positive requested sales count
	DefaultSalesCount = 1000

	// DefaultCustomerCount substitutes a non-positive requested customer count
	DefaultCustomerCount = 500

	// DefaultRangeDays is the trailing window when no date range is given
	DefaultRangeDays = 365

	dateLayout = "2006-01-02"
)

// SalesColumns is the schema of generated sales tables
var SalesColumns = []string{
	"transaction_id", "date", "customer_id", "product_id",
	"product_category", "price", "quantity", "total_value",
	"payment_method", "shipping_cost", "state", "region", "order_status",
}

// CustomerColumns is the schema of generated customer tables
var CustomerColumns = []string{
	"customer_id", "name", "email", "age", "gender",
	"state", "region", "segment", "registration_date",
}

// Generator builds synthetic record tables. A fixed seed yields a fully
// reproducible table.
type Generator struct {
	rng *rand.Rand
	log *zap.Logger
	now func() time.Time
}

// New creates a generator. A non-zero seed makes the output
// reproducible; zero seeds from the clock.
func New(seed int64, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		rng: rand.New(rand.NewSource(seed)),
		log: log,
		now: time.Now,
	}
}

// DateRange resolves and validates a generation window. Empty bounds fall
// back to the trailing default window ending today; an inverted range is
// swapped rather than rejected; a malformed bound is a validation error.
func (g *Generator) DateRange(start, end string) (time.Time, time.Time, error) {
	today := g.now()
	startAt := today.AddDate(0, 0, -DefaultRangeDays)
	endAt := today

	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(errors.TypeValidation, err,
				"invalid start date %q, expected YYYY-MM-DD", start)
		}
		startAt = t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Wrapf(errors.TypeValidation, err,
				"invalid end date %q, expected YYYY-MM-DD", end)
		}
		endAt = t
	}

	if endAt.Before(startAt) {
		g.log.Warn("end date precedes start date, swapping",
			zap.String("start", startAt.Format(dateLayout)),
			zap.String("end", endAt.Format(dateLayout)))
		startAt, endAt = endAt, startAt
	}

	return startAt, endAt, nil
}

// Sales generates exactly count synthetic sales records across [start, end].
// A non-positive count silently substitutes the default and logs it.
func (g *Generator) Sales(count int, start, end string) (*table.Table, error) {
	if count <= 0 {
		g.log.Warn("non-positive record count requested, using default",
			zap.Int("requested", count), zap.Int("default", DefaultSalesCount))
		count = DefaultSalesCount
	}

	startAt, endAt, err := g.DateRange(start, end)
	if err != nil {
		return nil, err
	}
	spanDays := int(endAt.Sub(startAt).Hours() / 24)

	g.log.Info("generating synthetic sales records",
		zap.Int("count", count),
		zap.String("start", startAt.Format(dateLayout)),
		zap.String("end", endAt.Format(dateLayout)))

	t := table.New(SalesColumns...)
	for i := 0; i < count; i++ {
		day := startAt.AddDate(0, 0, g.rng.Intn(spanDays+1))
		purchasedAt := time.Date(day.Year(), day.Month(), day.Day(),
			8+g.rng.Intn(16), g.rng.Intn(60), g.rng.Intn(60), 0, time.UTC)

		category := Categories[g.rng.Intn(len(Categories))]
		price := g.money(10.0, 500.0)
		quantity := int64(1 + g.rng.Intn(5))
		total := price.Mul(decimal.NewFromInt(quantity)).Round(2)

		state := States[g.rng.Intn(len(States))]
		region, ok := MacroRegionByState[state]
		if !ok {
			region = "Undefined"
		}

		if err := t.AppendRow(
			table.String(fmt.Sprintf("TRX-%06d", 100000+g.rng.Intn(900000))),
			table.Time(purchasedAt),
			table.String(fmt.Sprintf("CUST-%04d", 1000+g.rng.Intn(9000))),
			table.String(fmt.Sprintf("PROD-%05d", 10000+g.rng.Intn(90000))),
			table.String(category),
			table.Dec(price),
			table.Int(quantity),
			table.Dec(total),
			table.String(PaymentMethods[g.rng.Intn(len(PaymentMethods))]),
			table.Dec(g.money(5.0, 30.0)),
			table.String(state),
			table.String(region),
			table.String(g.weighted(OrderStatuses)),
		); err != nil {
			return nil, errors.Internal("appending generated sales row", err)
		}
	}

	g.log.Info("synthetic sales records generated", zap.Int("rows", t.NumRows()))
	return t, nil
}

// Customers generates a companion table of synthetic customer records.
// A non-positive count silently substitutes the default and logs it.
func (g *Generator) Customers(count int) (*table.Table, error) {
	if count <= 0 {
		g.log.Warn("non-positive customer count requested, using default",
			zap.Int("requested", count), zap.Int("default", DefaultCustomerCount))
		count = DefaultCustomerCount
	}

	g.log.Info("generating synthetic customer records", zap.Int("count", count))

	t := table.New(CustomerColumns...)
	for i := 1; i <= count; i++ {
		first := FirstNames[g.rng.Intn(len(FirstNames))]
		last := LastNames[g.rng.Intn(len(LastNames))]
		email := fmt.Sprintf("%s.%s%d@example.com",
			strings.ToLower(first), strings.ToLower(last), 1+g.rng.Intn(999))

		state := States[g.rng.Intn(len(States))]
		signup := g.now().AddDate(0, 0, -(30 + g.rng.Intn(5*365-30+1)))

		if err := t.AppendRow(
			table.String(fmt.Sprintf("CUST-%04d", i)),
			table.String(first+" "+last),
			table.String(email),
			table.Int(int64(18+g.rng.Intn(63))),
			table.String([]string{"M", "F"}[g.rng.Intn(2)]),
			table.String(state),
			table.String(MacroRegionByState[state]),
			table.String(g.weighted(CustomerSegments)),
			table.Date(signup),
		); err != nil {
			return nil, errors.Internal("appending generated customer row", err)
		}
	}

	g.log.Info("synthetic customer records generated", zap.Int("rows", t.NumRows()))
	return t, nil
}

// money draws a uniform amount in [lo, hi] rounded to 2 decimal places
func (g *Generator) money(lo, hi float64) decimal.Decimal {
	v := lo + g.rng.Float64()*(hi-lo)
	return decimal.NewFromFloat(math.Round(v*100) / 100)
}

// weighted draws one value from a weighted distribution
func (g *Generator) weighted(choices []Weighted) string {
	var total float64
	for _, c := range choices {
		total += c.Weight
	}
	r := g.rng.Float64() * total
	for _, c := range choices {
		if r < c.Weight {
			return c.Value
		}
		r -= c.Weight
	}
	return choices[len(choices)-1].Value
}
