package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ocrFallback rasterizes every page and runs tesseract on each image.
// Non-empty page results are joined with newlines; a failing page is logged
// and skipped.
func (e *Extractor) ocrFallback(ctx context.Context, path string) (string, []string) {
	tmpDir, err := os.MkdirTemp("", "ebc-ocr-*")
	if err != nil {
		return "", []string{fmt.Sprintf("create temp dir: %v", err)}
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("pdf.ocr.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", []string{fmt.Sprintf("rasterize: %s", firstLine(string(errb)))}
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", []string{"pdftoppm produced no images"}
	}

	var parts []string
	var warns []string
	for i, img := range matches {
		out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, img, "stdout", "-l", e.cfg.TesseractLang)
		if err != nil {
			w := fmt.Sprintf("page %d: OCR failed: %s", i+1, firstLine(string(errb)))
			e.logger.Warn("pdf.ocr.page_failed", "page", i+1, "error", err)
			warns = append(warns, w)
			continue
		}
		if txt := string(out); strings.TrimSpace(txt) != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n"), warns
}
