package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ExportResultsXLSX writes the accumulated rows as an XLSX workbook next to
// the CSV exports, for reviewers who live in spreadsheets. Same columns,
// same filename scheme.
func (b *Batch) ExportResultsXLSX(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := b.exportPath(outputDir, "results", "xlsx")

	f := excelize.NewFile()
	const sheet = "Results"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return "", err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 && defIndex != activeIndex {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range ResultsCSVHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range b.rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.ArticleTitle)
		write(2, r.Decision)
		write(3, r.Category)
		write(4, r.DetailedReasoning)
		write(5, r.Citation)
		write(6, r.OpenAccessURL)
		write(7, r.Confidence)
		write(8, r.SourceFile)
		write(9, r.Timestamp)
		row++
	}

	// Widen the columns people actually read.
	_ = f.SetColWidth(sheet, "A", "A", 48) // title
	_ = f.SetColWidth(sheet, "B", "C", 16) // decision, category
	_ = f.SetColWidth(sheet, "D", "D", 80) // reasoning
	_ = f.SetColWidth(sheet, "H", "H", 32) // source file
	_ = f.SetColWidth(sheet, "I", "I", 22) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return "", fmt.Errorf("xlsx write: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	b.logger.Info("report.export.results_xlsx", "path", path, "rows", len(b.rows))
	return path, nil
}
