// Package pipeline drives one classification run: for each document,
// readability check, then text extraction, then LLM analysis, with every
// outcome recorded on the batch. Documents are processed strictly
// sequentially in submission order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/kehinde-alade/evidence-classifier/internal/common"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
	"github.com/kehinde-alade/evidence-classifier/internal/pdf"
	"github.com/kehinde-alade/evidence-classifier/internal/report"
)

// Extractor is the text-extraction stage.
type Extractor interface {
	IsReadable(ctx context.Context, path string) (bool, string)
	Extract(ctx context.Context, path string) (pdf.ExtractionResult, error)
}

// Analyzer is the analysis stage.
type Analyzer interface {
	Analyze(ctx context.Context, text, filename, model string) (llm.Verdict, error)
}

// Processor coordinates extraction then analysis for each document.
type Processor struct {
	logger    *slog.Logger
	extractor Extractor
	analyzer  Analyzer
	model     string
}

func NewProcessor(extractor Extractor, analyzer Analyzer, model string, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, extractor: extractor, analyzer: analyzer, model: model}
}

// ProcessBatch runs every document through ProcessFile in order.
// Cancellation is honored only at document boundaries; a document whose
// network call has started runs to completion.
func (p *Processor) ProcessBatch(ctx context.Context, batch *report.Batch, paths []string) error {
	total := len(paths)
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline.batch.cancelled", "processed", i, "total", total)
			return err
		}
		p.logger.Info("pipeline.file.start", "file", filepath.Base(path), "position", i+1, "total", total)
		p.ProcessFile(ctx, batch, path)

		stats := batch.Stats()
		p.logger.Info("pipeline.progress",
			"successful", stats.Successful,
			"failed", stats.Failed,
			"remaining", total-stats.TotalProcessed,
		)
	}
	return nil
}

// ProcessFile runs one document through the full stage sequence. Any stage
// failure becomes an error record on the batch; a single document never
// aborts the run.
func (p *Processor) ProcessFile(ctx context.Context, batch *report.Batch, path string) {
	name := filepath.Base(path)

	defer func() {
		if r := recover(); r != nil {
			batch.AddError(name, fmt.Sprintf("Unexpected error: %v", r))
		}
	}()

	readable, reason := p.extractor.IsReadable(ctx, path)
	if !readable {
		batch.AddError(name, reason)
		return
	}

	res, err := p.extractor.Extract(ctx, path)
	if err != nil {
		batch.AddError(name, "Text extraction failed: "+err.Error())
		return
	}
	p.logger.Info("pipeline.extract.ok",
		"file", name, "method", res.Method, "pages", res.Pages, "chars", len(res.Text))

	verdict, err := p.analyzer.Analyze(ctx, res.Text, name, p.model)
	if err != nil {
		if common.CodeOf(err) == common.CodeValidationFailed {
			batch.AddError(name, "Invalid LLM response: "+err.Error())
		} else {
			batch.AddError(name, "LLM analysis failed: "+err.Error())
		}
		return
	}

	batch.AddResult(verdict, name)
}
