package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ecommerce-analytics/core/analysis"
	"ecommerce-analytics/internal/errors"
)

// Artifact records one file produced by an export run
type Artifact struct {
	Name string // logical name, underscore-joined for nested results
	Path string // absolute or dir-relative path of the written file
}

// Exporter writes analysis results to disk through a TableWriter.
// Nested results produce one file per leaf table.
type Exporter struct {
	dir    string
	writer TableWriter
	log    *zap.Logger
	now    func() time.Time
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir string, writer TableWriter, log *zap.Logger) *Exporter {
	return &Exporter{
		dir:    dir,
		writer: writer,
		log:    log,
		now:    time.Now,
	}
}

// Export walks a result node and writes one file per non-empty leaf.
// Filenames are "{name}_{timestamp}.{ext}" where nested keys are joined
// to the base name with underscores. A nil or empty node produces no
// files and no error. A leaf that fails to write is logged and skipped.
func (e *Exporter) Export(name string, node analysis.Node) ([]Artifact, error) {
	if node == nil {
		return nil, nil
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, errors.IO("creating export directory", err)
	}

	stamp := e.now().Format("20060102_150405")
	artifacts := make([]Artifact, 0, analysis.CountLeaves(node))
	e.walk(name, stamp, node, &artifacts)
	return artifacts, nil
}

func (e *Exporter) walk(name, stamp string, node analysis.Node, out *[]Artifact) {
	switch n := node.(type) {
	case analysis.Leaf:
		if n.Table == nil || n.Table.NumRows() == 0 {
			e.log.Debug("skipping empty result", zap.String("name", name))
			return
		}
		filename := fmt.Sprintf("%s_%s.%s", name, stamp, e.writer.Ext())
		path := filepath.Join(e.dir, filename)
		if err := e.writer.Write(n.Table, path); err != nil {
			e.log.Warn("failed to export result",
				zap.String("name", name),
				zap.Error(err))
			return
		}
		e.log.Info("exported result",
			zap.String("name", name),
			zap.String("path", path),
			zap.Int("rows", n.Table.NumRows()))
		*out = append(*out, Artifact{Name: name, Path: path})
	case *analysis.Group:
		for _, child := range n.Names() {
			childName := child
			if name != "" {
				childName = name + "_" + child
			}
			node, _ := n.Child(child)
			e.walk(childName, stamp, node, out)
		}
	}
}
