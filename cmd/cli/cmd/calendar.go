// Package cmd - calendar command
package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"ecommerce-analytics/core/calendar"
)

var (
	calStart string
	calEnd   string
	calOut   string
)

// calendarCmd represents the calendar command
var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Export a calendar dimension table",
	Long: `Build a calendar table with one row per day between two dates.

Each row carries year, month, quarter, week and weekend attributes,
ready to join against sales data in a BI tool.

Examples:
  ecommerce-analytics calendar --start 2024-01-01 --end 2024-12-31
  ecommerce-analytics calendar --start 2023-01-01 --end 2025-12-31 --out calendar.xlsx`,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().StringVar(&calStart, "start", "", "start date (YYYY-MM-DD, default one year ago)")
	calendarCmd.Flags().StringVar(&calEnd, "end", "", "end date (YYYY-MM-DD, default today)")
	calendarCmd.Flags().StringVarP(&calOut, "out", "o", "", "output path (default <export_dir>/calendar.csv)")
}

func runCalendar(cmd *cobra.Command, args []string) error {
	start, end := calStart, calEnd
	if start == "" {
		start = time.Now().AddDate(-1, 0, 0).Format("2006-01-02")
	}
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}

	cal, err := calendar.NewBuilder(logger).Build(start, end)
	if err != nil {
		return err
	}

	out := calOut
	if out == "" {
		out = filepath.Join(appCfg.Export.Dir, "calendar.csv")
	}
	if err := writeTable(cal, out); err != nil {
		return err
	}

	fmt.Printf("Calendar with %d days written to %s\n", cal.NumRows(), out)
	return nil
}
