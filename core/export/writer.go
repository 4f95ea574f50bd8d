package export

import (
	"encoding/csv"
	"os"

	"github.com/xuri/excelize/v2"

	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/errors"
)

// TableWriter is the file-writing capability the exporter depends on.
// Implementations own the serialization format.
type TableWriter interface {
	// Write serializes a table to the given path
	Write(t *table.Table, path string) error

	// Ext returns the file extension this writer produces, without dot
	Ext() string
}

// CSVWriter writes tables as comma-delimited files with a header row
type CSVWriter struct{}

// Ext implements TableWriter
func (CSVWriter) Ext() string { return "csv" }

// Write implements TableWriter
func (CSVWriter) Write(t *table.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IO("creating CSV file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns()); err != nil {
		return errors.IO("writing CSV header", err)
	}

	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for col := 0; col < t.NumCols(); col++ {
			record[col] = t.CellAt(row, col).Format()
		}
		if err := w.Write(record); err != nil {
			return errors.IO("writing CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.IO("flushing CSV file", err)
	}
	return nil
}

// XLSXWriter writes tables as single-sheet XLSX workbooks
type XLSXWriter struct{}

// Ext implements TableWriter
func (XLSXWriter) Ext() string { return "xlsx" }

// Write implements TableWriter
func (XLSXWriter) Write(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, t.NumCols())
	for i, col := range t.Columns() {
		header[i] = col
	}
	cell, _ := excelize.CoordinatesToCellName(1, 1)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return errors.IO("writing XLSX header", err)
	}

	for row := 0; row < t.NumRows(); row++ {
		values := make([]interface{}, t.NumCols())
		for col := 0; col < t.NumCols(); col++ {
			values[col] = t.CellAt(row, col).Format()
		}
		cell, _ := excelize.CoordinatesToCellName(1, row+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.IO("writing XLSX row", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IO("saving XLSX file", err)
	}
	return nil
}

// NewWriter returns the writer for a format name; unknown formats fall
// back to CSV
func NewWriter(format string) TableWriter {
	if format == "xlsx" {
		return XLSXWriter{}
	}
	return CSVWriter{}
}
