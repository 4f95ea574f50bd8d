// Package cmd provides the CLI commands for ecommerce-analytics.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecommerce-analytics/internal/config"
	"ecommerce-analytics/internal/logging"
)

var (
	cfgFile string
	verbose bool

	appCfg *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ecommerce-analytics",
	Short: "Generate and analyze synthetic e-commerce sales data",
	Long: `ecommerce-analytics is a sales data analysis toolkit.

It generates realistic synthetic sales datasets, normalizes messy input
files, and produces aggregated breakdowns by period, category and region.

Examples:
  ecommerce-analytics generate --count 5000 --out data/raw/sales.csv
  ecommerce-analytics analyze data/raw/sales.csv --format xlsx
  ecommerce-analytics calendar --start 2024-01-01 --end 2024-12-31`,
}

// Execute runs the CLI
func Execute() error {
	defer func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	appCfg = cfg

	if verbose {
		appCfg.Logging.Level = "debug"
	}
	logger, err = logging.New(appCfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		logger = zap.NewNop()
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ecommerce-analytics version 0.1.0")
	},
}
