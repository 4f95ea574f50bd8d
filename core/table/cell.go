package table

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the semantic type of a cell value
type Kind uint8

const (
	// KindNull marks an absent value
	KindNull Kind = iota

	// KindString is free text
	KindString

	// KindInt is an integer quantity
	KindInt

	// KindDecimal is a fixed-point numeric, used for all monetary values
	KindDecimal

	// KindTime is a full timestamp
	KindTime

	// KindDate is a calendar day without a time component
	KindDate

	// KindBool is a boolean flag
	KindBool
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindTime:
		return "time"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Cell is a single typed table value
type Cell struct {
	kind Kind
	str  string
	i64  int64
	dec  decimal.Decimal
	ts   time.Time
	b    bool
}

// Null returns a null cell
func Null() Cell {
	return Cell{kind: KindNull}
}

// String returns a string cell
func String(s string) Cell {
	return Cell{kind: KindString, str: s}
}

// Int returns an integer cell
func Int(v int64) Cell {
	return Cell{kind: KindInt, i64: v}
}

// Dec returns a decimal cell
func Dec(d decimal.Decimal) Cell {
	return Cell{kind: KindDecimal, dec: d}
}

// DecFloat returns a decimal cell from a float value
func DecFloat(f float64) Cell {
	return Cell{kind: KindDecimal, dec: decimal.NewFromFloat(f)}
}

// Time returns a timestamp cell
func Time(t time.Time) Cell {
	return Cell{kind: KindTime, ts: t}
}

// Date returns a calendar-day cell, truncating any time component
func Date(t time.Time) Cell {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Cell{kind: KindDate, ts: day}
}

// Bool returns a boolean cell
func Bool(b bool) Cell {
	return Cell{kind: KindBool, b: b}
}

// Kind returns the cell's kind
func (c Cell) Kind() Kind {
	return c.kind
}

// IsNull reports whether the cell holds no value
func (c Cell) IsNull() bool {
	return c.kind == KindNull
}

// IsTemporal reports whether the cell holds a date or timestamp
func (c Cell) IsTemporal() bool {
	return c.kind == KindTime || c.kind == KindDate
}

// IsNumeric reports whether the cell holds an int or decimal
func (c Cell) IsNumeric() bool {
	return c.kind == KindInt || c.kind == KindDecimal
}

// AsDecimal returns the numeric value of the cell. Integer cells promote.
// The second return is false for non-numeric cells.
func (c Cell) AsDecimal() (decimal.Decimal, bool) {
	switch c.kind {
	case KindDecimal:
		return c.dec, true
	case KindInt:
		return decimal.NewFromInt(c.i64), true
	}
	return decimal.Zero, false
}

// AsInt returns the integer value of the cell
func (c Cell) AsInt() (int64, bool) {
	if c.kind == KindInt {
		return c.i64, true
	}
	return 0, false
}

// AsTime returns the temporal value of the cell
func (c Cell) AsTime() (time.Time, bool) {
	if c.IsTemporal() {
		return c.ts, true
	}
	return time.Time{}, false
}

// AsBool returns the boolean value of the cell
func (c Cell) AsBool() (bool, bool) {
	if c.kind == KindBool {
		return c.b, true
	}
	return false, false
}

// Format renders the cell for delimited output. Null cells become the
// empty string; dates use YYYY-MM-DD and timestamps the full form.
func (c Cell) Format() string {
	switch c.kind {
	case KindNull:
		return ""
	case KindString:
		return c.str
	case KindInt:
		return strconv.FormatInt(c.i64, 10)
	case KindDecimal:
		return c.dec.String()
	case KindTime:
		return c.ts.Format("2006-01-02 15:04:05")
	case KindDate:
		return c.ts.Format("2006-01-02")
	case KindBool:
		return strconv.FormatBool(c.b)
	}
	return ""
}
