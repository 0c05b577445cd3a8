package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const filePrefix = "evidence_base_classifier"

// ResultsCSVHeader is the fixed column set of the results export.
var ResultsCSVHeader = []string{
	"article_title",
	"inclusion_exclusion_decision",
	"category",
	"detailed_reasoning_for_decision",
	"citation",
	"open_access_url",
	"confidence",
	"source_file",
	"timestamp",
}

var errorsCSVHeader = []string{"source_file", "error_message", "timestamp"}

// ExportResultsCSV writes the accumulated rows to
// <outputDir>/evidence_base_classifier_results_<tag>_<stamp>.csv, creating
// the directory if needed. An empty batch still produces a header-only file.
func (b *Batch) ExportResultsCSV(outputDir string) (string, error) {
	path := b.exportPath(outputDir, "results", "csv")
	records := make([][]string, 0, len(b.rows))
	for _, r := range b.rows {
		records = append(records, []string{
			r.ArticleTitle,
			r.Decision,
			r.Category,
			r.DetailedReasoning,
			r.Citation,
			r.OpenAccessURL,
			r.Confidence,
			r.SourceFile,
			r.Timestamp,
		})
	}
	if err := writeCSV(path, ResultsCSVHeader, records); err != nil {
		return "", fmt.Errorf("export results: %w", err)
	}
	b.logger.Info("report.export.results_csv", "path", path, "rows", len(b.rows))
	return path, nil
}

// ExportErrorsCSV writes the error records to
// <outputDir>/evidence_base_classifier_errors_<tag>_<stamp>.csv.
func (b *Batch) ExportErrorsCSV(outputDir string) (string, error) {
	path := b.exportPath(outputDir, "errors", "csv")
	records := make([][]string, 0, len(b.errs))
	for _, e := range b.errs {
		records = append(records, []string{e.SourceFile, e.ErrorMessage, e.Timestamp})
	}
	if err := writeCSV(path, errorsCSVHeader, records); err != nil {
		return "", fmt.Errorf("export errors: %w", err)
	}
	b.logger.Info("report.export.errors_csv", "path", path, "rows", len(b.errs))
	return path, nil
}

// ExportErrorsText writes the error records as a human-readable log with a
// fixed banner followed by one numbered block per error.
func (b *Batch) ExportErrorsText(logsDir string) (string, error) {
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return "", fmt.Errorf("create logs dir: %w", err)
	}
	path := filepath.Join(logsDir, fmt.Sprintf("%s_errors_%s_%s.txt", filePrefix, b.modelTag, b.runStamp))

	var sb strings.Builder
	sb.WriteString("Evidence Base Classifier - Error Log\n")
	fmt.Fprintf(&sb, "Generated: %s\n", b.now().Format(time.RFC3339))
	fmt.Fprintf(&sb, "Total Errors: %d\n", len(b.errs))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, e := range b.errs {
		fmt.Fprintf(&sb, "Error #%d\n", i+1)
		fmt.Fprintf(&sb, "File: %s\n", e.SourceFile)
		fmt.Fprintf(&sb, "Time: %s\n", e.Timestamp)
		fmt.Fprintf(&sb, "Error: %s\n", e.ErrorMessage)
		sb.WriteString(strings.Repeat("-", 30) + "\n\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("export error log: %w", err)
	}
	b.logger.Info("report.export.errors_text", "path", path, "rows", len(b.errs))
	return path, nil
}

func (b *Batch) exportPath(dir, kind, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s_%s.%s", filePrefix, kind, b.modelTag, b.runStamp, ext))
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	return w.Error()
}
