// Package cmd - analyze command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ecommerce-analytics/core/pipeline"
)

var (
	analyzeFormat string
	analyzeReport bool
	analyzeCount  int
	analyzeSeed   int64
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run the full analysis pipeline over a dataset",
	Long: `Load a sales dataset, normalize it and export aggregated breakdowns.

The path can be a CSV, XLSX or JSON file. When omitted, a synthetic
dataset is generated and analyzed instead.

Examples:
  ecommerce-analytics analyze data/raw/sales_data.csv
  ecommerce-analytics analyze sales.xlsx --format xlsx --report
  ecommerce-analytics analyze --count 100 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "export format (csv, xlsx; default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "write a markdown summary report")
	analyzeCmd.Flags().IntVarP(&analyzeCount, "count", "n", 0, "generated record count when no path is given")
	analyzeCmd.Flags().Int64Var(&analyzeSeed, "seed", 0, "random seed when no path is given")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	opts := pipeline.RunOptions{
		Format: analyzeFormat,
		Report: analyzeReport,
		Count:  analyzeCount,
		Seed:   analyzeSeed,
	}
	if len(args) > 0 {
		opts.Input = args[0]
		if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", opts.Input)
		}
	}

	result, err := pipeline.New(appCfg, logger).Run(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Analyzed %d records (run %s)\n\n", result.Rows, result.RunID)
	if rep := result.Normalization; rep != nil && rep.RowsDropped > 0 {
		fmt.Printf("Dropped %d rows with missing identifiers\n", rep.RowsDropped)
	}
	if rep := result.Normalization; rep != nil && rep.TotalRecomputed {
		fmt.Println("Recomputed total_value column from price and quantity")
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  %s: %s\n", w.Analysis, w.Message)
		}
		fmt.Println()
	}

	fmt.Printf("Exported %d files:\n", len(result.Artifacts))
	for _, a := range result.Artifacts {
		fmt.Printf("  %-24s %s\n", a.Name, a.Path)
	}
	if result.ReportPath != "" {
		fmt.Printf("\nReport: %s\n", result.ReportPath)
	}
	return nil
}
