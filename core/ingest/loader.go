// Package ingest reads tabular input files into tables. Dispatch is by
// file extension: CSV (header row required), XLSX and JSON are supported;
// anything else is a format error.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Loader reads files from disk into tables
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads the file at path, dispatching on its extension
func (l *Loader) Load(path string) (*table.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound("input file", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	l.log.Info("loading input file", zap.String("path", path), zap.String("format", ext))

	var (
		t   *table.Table
		err error
	)
	switch ext {
	case ".csv":
		t, err = l.loadCSV(path)
	case ".xlsx":
		t, err = l.loadXLSX(path)
	case ".json":
		t, err = l.loadJSON(path)
	default:
		return nil, errors.Formatf("unsupported file format %q, use CSV, XLSX or JSON: %s", ext, path)
	}
	if err != nil {
		return nil, err
	}

	l.log.Info("input file loaded",
		zap.Int("rows", t.NumRows()), zap.Int("columns", t.NumCols()))
	return t, nil
}

func (l *Loader) loadCSV(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO("reading CSV file", err)
	}
	data = bytes.TrimPrefix(data, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.TypeFormat, "parsing CSV", err)
	}
	if len(records) == 0 {
		return nil, errors.Format("CSV file has no header row")
	}

	header := records[0]
	rows := records[1:]
	return fromStringRows(header, rows)
}

func (l *Loader) loadXLSX(path string) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeFormat, "opening XLSX file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Format("XLSX file has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(errors.TypeFormat, "reading XLSX rows", err)
	}
	if len(records) == 0 {
		return nil, errors.Format("XLSX sheet has no header row")
	}

	header := records[0]
	// excelize drops trailing empty cells; pad rows to the header width
	rows := make([][]string, 0, len(records)-1)
	for _, r := range records[1:] {
		for len(r) < len(header) {
			r = append(r, "")
		}
		rows = append(rows, r)
	}
	return fromStringRows(header, rows)
}

func (l *Loader) loadJSON(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO("reading JSON file", err)
	}

	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, byteOrderMark)))
	dec.UseNumber()

	var objects []map[string]interface{}
	if err := dec.Decode(&objects); err != nil {
		return nil, errors.Wrap(errors.TypeFormat, "parsing JSON, expected an array of objects", err)
	}

	// JSON objects are unordered; derive a deterministic column order
	colSet := make(map[string]bool)
	for _, obj := range objects {
		for k := range obj {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	t := table.New(cols...)
	for _, obj := range objects {
		cells := make([]table.Cell, len(cols))
		for i, col := range cols {
			cells[i] = jsonCell(obj[col])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, errors.Internal("appending JSON row", err)
		}
	}
	return t, nil
}

func jsonCell(v interface{}) table.Cell {
	switch val := v.(type) {
	case nil:
		return table.Null()
	case bool:
		return table.Bool(val)
	case string:
		return table.String(val)
	case json.Number:
		if i, err := val.Int64(); err == nil && !strings.Contains(val.String(), ".") {
			return table.Int(i)
		}
		if d, err := decimalFromString(val.String()); err == nil {
			return d
		}
		return table.String(val.String())
	}
	return table.Null()
}

// fromStringRows builds a typed table from raw string records, inferring
// one kind per column from its data: int, then decimal, then bool, with
// string as the fallback. Empty values become nulls.
func fromStringRows(header []string, rows [][]string) (*table.Table, error) {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	kinds := make([]table.Kind, len(cols))
	for c := range cols {
		kinds[c] = inferKind(rows, c)
	}

	t := table.New(cols...)
	for _, row := range rows {
		cells := make([]table.Cell, len(cols))
		for c := range cols {
			raw := ""
			if c < len(row) {
				raw = strings.TrimSpace(row[c])
			}
			cells[c] = typedCell(raw, kinds[c])
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, errors.Internal("appending parsed row", err)
		}
	}
	return t, nil
}

func inferKind(rows [][]string, col int) table.Kind {
	kind := table.KindNull
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		raw := strings.TrimSpace(row[col])
		if raw == "" {
			continue
		}
		kind = widen(kind, cellKind(raw))
		if kind == table.KindString {
			break
		}
	}
	if kind == table.KindNull {
		kind = table.KindString
	}
	return kind
}

func cellKind(raw string) table.Kind {
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return table.KindInt
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return table.KindDecimal
	}
	if raw == "true" || raw == "false" {
		return table.KindBool
	}
	return table.KindString
}

// widen merges per-value kinds into a column kind: ints widen to decimal,
// anything incompatible collapses to string
func widen(have, next table.Kind) table.Kind {
	if have == table.KindNull {
		return next
	}
	if have == next {
		return have
	}
	if (have == table.KindInt && next == table.KindDecimal) ||
		(have == table.KindDecimal && next == table.KindInt) {
		return table.KindDecimal
	}
	return table.KindString
}

func typedCell(raw string, kind table.Kind) table.Cell {
	if raw == "" {
		return table.Null()
	}
	switch kind {
	case table.KindInt:
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return table.Int(i)
		}
	case table.KindDecimal:
		if c, err := decimalFromString(raw); err == nil {
			return c
		}
	case table.KindBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return table.Bool(b)
		}
	}
	return table.String(raw)
}

func decimalFromString(raw string) (table.Cell, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return table.Null(), err
	}
	return table.Dec(d), nil
}
