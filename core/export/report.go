package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ecommerce-analytics/core/summary"
	"ecommerce-analytics/internal/errors"
)

// WriteMarkdownReport writes a narrative markdown report describing the
// dataset and the exported artifacts. Returns the path of the written file.
func (e *Exporter) WriteMarkdownReport(title string, sum *summary.Summary, artifacts []Artifact) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", errors.IO("creating export directory", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated at %s\n\n", e.now().Format("2006-01-02 15:04:05"))

	if sum != nil {
		b.WriteString("## Dataset\n\n")
		fmt.Fprintf(&b, "- Records: %d\n", sum.NumRecords)
		fmt.Fprintf(&b, "- Columns: %d\n\n", sum.NumColumns)

		if len(sum.Numeric) > 0 {
			b.WriteString("### Numeric columns\n\n")
			b.WriteString("| Column | Min | Max | Mean | Median |\n")
			b.WriteString("|---|---|---|---|---|\n")
			for _, col := range sum.Columns {
				stats, ok := sum.Numeric[col]
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					col, stats.Min, stats.Max, stats.Mean, stats.Median)
			}
			b.WriteString("\n")
		}

		if len(sum.Dates) > 0 {
			b.WriteString("### Date columns\n\n")
			for _, col := range sum.Columns {
				stats, ok := sum.Dates[col]
				if !ok {
					continue
				}
				fmt.Fprintf(&b, "- `%s`: %s to %s (%d days)\n",
					col,
					stats.Min.Format("2006-01-02"),
					stats.Max.Format("2006-01-02"),
					stats.SpanDays)
			}
			b.WriteString("\n")
		}

		nullCols := make([]string, 0, len(sum.NullCounts))
		for col, n := range sum.NullCounts {
			if n > 0 {
				nullCols = append(nullCols, col)
			}
		}
		if len(nullCols) > 0 {
			sort.Strings(nullCols)
			b.WriteString("### Null values\n\n")
			for _, col := range nullCols {
				fmt.Fprintf(&b, "- `%s`: %d\n", col, sum.NullCounts[col])
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("## Exported files\n\n")
	if len(artifacts) == 0 {
		b.WriteString("No files were produced.\n")
	} else {
		for _, a := range artifacts {
			fmt.Fprintf(&b, "- %s: `%s`\n", a.Name, filepath.Base(a.Path))
		}
	}

	name := fmt.Sprintf("report_%s.md", e.now().Format("20060102_150405"))
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", errors.IO("writing markdown report", err)
	}
	return path, nil
}
