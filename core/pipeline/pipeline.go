package pipeline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"ecommerce-analytics/core/analysis"
	"ecommerce-analytics/core/calendar"
	"ecommerce-analytics/core/export"
	"ecommerce-analytics/core/generate"
	"ecommerce-analytics/core/ingest"
	"ecommerce-analytics/core/normalize"
	"ecommerce-analytics/core/schema"
	"ecommerce-analytics/core/summary"
	"ecommerce-analytics/core/table"
	"ecommerce-analytics/internal/config"
)

// RunOptions controls a single pipeline run
type RunOptions struct {
	// Input is the path of a data file to analyze. When empty a synthetic
	// dataset is generated instead.
	Input string

	// Count is the number of sales records to generate. Ignored when
	// Input is set.
	Count int

	// Seed fixes the generator RNG. Zero means time-based.
	Seed int64

	// Start and End bound generated dates, "YYYY-MM-DD"
	Start string
	End   string

	// Format overrides the configured export format
	Format string

	// Report enables the markdown report
	Report bool
}

// RunResult describes what a pipeline run produced
type RunResult struct {
	RunID         string
	Rows          int
	Artifacts     []export.Artifact
	Warnings      []analysis.Warning
	Normalization *normalize.Report
	ReportPath    string
}

// Pipeline wires generation, normalization, analysis and export into a
// single run
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger
}

// New creates a pipeline from configuration
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, log: log}
}

// Run executes the full pipeline. Failures in individual analyses are
// downgraded to warnings so the remaining analyses still export; only
// load, normalization and export infrastructure errors abort the run.
func (p *Pipeline) Run(opts RunOptions) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString()}

	p.log.Info("starting pipeline run", zap.String("run_id", result.RunID))

	raw, err := p.acquire(opts)
	if err != nil {
		return nil, err
	}

	norm := normalize.New(p.cfg.Normalize.AnomalyThreshold, p.log)
	clean, report, err := norm.Normalize(raw)
	if err != nil {
		return nil, err
	}
	result.Normalization = report
	result.Rows = clean.NumRows()

	caps := schema.Detect(clean)
	engine := analysis.NewEngine(p.log)
	root := analysis.NewGroup()

	p.runAnalyses(engine, clean, caps, root, result)
	p.buildCalendar(clean, caps, root)

	format := opts.Format
	if format == "" {
		format = p.cfg.Export.Format
	}
	exporter := export.NewExporter(p.cfg.Export.Dir, export.NewWriter(format), p.log)
	artifacts, err := exporter.Export("", root)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	if opts.Report {
		path, err := exporter.WriteMarkdownReport(
			"Sales analysis", summary.Summarize(clean), artifacts)
		if err != nil {
			return nil, err
		}
		result.ReportPath = path
	}

	p.log.Info("pipeline run complete",
		zap.String("run_id", result.RunID),
		zap.Int("rows", result.Rows),
		zap.Int("artifacts", len(result.Artifacts)),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// acquire loads the input file, or generates a dataset when none is given
func (p *Pipeline) acquire(opts RunOptions) (*table.Table, error) {
	if opts.Input != "" {
		return ingest.NewLoader(p.log).Load(opts.Input)
	}

	count := opts.Count
	if count <= 0 {
		count = p.cfg.Generator.DefaultSalesCount
	}
	gen := generate.New(opts.Seed, p.log)
	return gen.Sales(count, opts.Start, opts.End)
}

// runAnalyses runs the period, category and region analyses, attaching
// whatever succeeds to the result group
func (p *Pipeline) runAnalyses(engine *analysis.Engine, t *table.Table, caps schema.Capabilities, root *analysis.Group, result *RunResult) {
	if dateCol := firstDateColumn(caps); dateCol != "" {
		periods, warns, err := engine.ByPeriod(t, dateCol, "total_value")
		result.Warnings = append(result.Warnings, warns...)
		if err != nil {
			p.warnAnalysis("period", err, result)
		} else {
			for _, name := range periods.Names() {
				child, _ := periods.Child(name)
				root.Add(name, child)
			}
		}
	} else {
		result.Warnings = append(result.Warnings, analysis.Warning{
			Analysis: "period",
			Message:  "no date column found, skipping period analysis",
		})
	}

	categories, warns, err := engine.ByCategory(t, "product_category", "total_value", caps)
	result.Warnings = append(result.Warnings, warns...)
	if err != nil {
		p.warnAnalysis("category", err, result)
	} else {
		root.Add("sales_by_category", categories)
	}

	regions, warns, err := engine.ByRegion(t, caps.RegionColumn, "total_value")
	result.Warnings = append(result.Warnings, warns...)
	if err != nil {
		p.warnAnalysis("region", err, result)
	} else {
		root.Add("sales_by_region", analysis.Leaf{Table: regions})
	}
}

// buildCalendar derives a calendar table spanning the observed dates
func (p *Pipeline) buildCalendar(t *table.Table, caps schema.Capabilities, root *analysis.Group) {
	dateCol := firstDateColumn(caps)
	if dateCol == "" {
		return
	}
	sum := summary.Summarize(t)
	stats, ok := sum.Dates[dateCol]
	if !ok {
		return
	}

	cal, err := calendar.NewBuilder(p.log).Build(
		stats.Min.Format("2006-01-02"), stats.Max.Format("2006-01-02"))
	if err != nil {
		p.log.Warn("calendar build failed", zap.Error(err))
		return
	}
	root.Add("calendar", analysis.Leaf{Table: cal})
}

func (p *Pipeline) warnAnalysis(name string, err error, result *RunResult) {
	p.log.Warn("analysis failed", zap.String("analysis", name), zap.Error(err))
	result.Warnings = append(result.Warnings, analysis.Warning{
		Analysis: name,
		Message:  err.Error(),
	})
}

func firstDateColumn(caps schema.Capabilities) string {
	if len(caps.DateColumns) == 0 {
		return ""
	}
	return caps.DateColumns[0]
}
