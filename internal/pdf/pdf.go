// Package pdf extracts plain text from PDF documents. The native text layer
// is tried first; when it yields too little content the pages are rasterized
// and run through OCR. All external tools (poppler-utils, tesseract) are
// invoked through a Runner so tests can stub them.
package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kehinde-alade/evidence-classifier/internal/common"
)

type Config struct {
	Pdfinfo   string // binary name or absolute path; if empty -> "pdfinfo"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	// MinTextChars is the sufficiency threshold: native extraction whose
	// whitespace-stripped length falls below it triggers the OCR fallback.
	MinTextChars int // default 50
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextChars <= 0 {
		cfg.MinTextChars = 50
	}
	return &Extractor{cfg: cfg, runner: execRunner{log: logger}, logger: logger}
}

// NewExtractorWithRunner is NewExtractor with the command runner injected,
// for callers that stub the external tools.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	e := NewExtractor(cfg, logger)
	e.runner = runner
	return e
}

// IsReadable probes the document before any extraction work: the file must
// open, report at least one page, not be encrypted, and expose the first
// page's geometry. On failure the second return value is a single
// human-readable reason.
func (e *Extractor) IsReadable(ctx context.Context, path string) (bool, string) {
	name := filepath.Base(path)
	info, err := e.docInfo(ctx, path)
	if err != nil {
		return false, fmt.Sprintf("PDF %s is not readable: %v", name, err)
	}
	if info.Pages == 0 {
		return false, fmt.Sprintf("PDF %s has no pages", name)
	}
	if info.Encrypted {
		return false, fmt.Sprintf("PDF %s is encrypted", name)
	}
	if !info.HasPageGeometry {
		return false, fmt.Sprintf("PDF %s is not readable: first page geometry unavailable", name)
	}
	return true, ""
}

// Extract produces sanitized text for the document. Native text-layer
// extraction runs first; if its whitespace-stripped length is below
// MinTextChars the pages are rasterized at cfg.DPI and OCRed. A single page
// failing either path is logged and skipped. Only when both paths yield no
// usable text does Extract fail.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	name := filepath.Base(path)

	info, err := e.docInfo(ctx, path)
	if err != nil {
		return ExtractionResult{}, common.NewAppError(common.CodeUnreadableInput,
			fmt.Sprintf("open %s", name), err)
	}

	native, warns := e.extractNative(ctx, path, info.Pages)
	if sufficient(native, e.cfg.MinTextChars) {
		e.logger.Info("pdf.extract.native_ok", "file", name, "pages", info.Pages, "chars", len(native))
		return ExtractionResult{
			Text:     Sanitize(native),
			Pages:    info.Pages,
			Method:   "pdf-text",
			Language: e.cfg.TesseractLang,
			Duration: time.Since(start),
			Warnings: warns,
		}, nil
	}

	e.logger.Info("pdf.extract.native_insufficient", "file", name, "threshold", e.cfg.MinTextChars)
	ocrText, ocrWarns := e.ocrFallback(ctx, path)
	warns = append(warns, ocrWarns...)
	if strings.TrimSpace(ocrText) != "" {
		e.logger.Info("pdf.extract.ocr_ok", "file", name, "chars", len(ocrText))
		return ExtractionResult{
			Text:     Sanitize(ocrText),
			Pages:    info.Pages,
			Method:   "pdf-ocr",
			Language: e.cfg.TesseractLang,
			Duration: time.Since(start),
			Warnings: warns,
		}, nil
	}

	err = common.NewAppError(common.CodeExtractionFailed,
		fmt.Sprintf("both native and OCR text extraction failed for %s", name), nil)
	e.logger.Error("pdf.extract.failed", "file", name, "error", err)
	return ExtractionResult{Pages: info.Pages, Warnings: warns, Duration: time.Since(start)}, err
}
