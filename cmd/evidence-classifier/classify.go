package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/common"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
	"github.com/kehinde-alade/evidence-classifier/internal/llm/anthropic"
	"github.com/kehinde-alade/evidence-classifier/internal/llm/openai"
	"github.com/kehinde-alade/evidence-classifier/internal/pdf"
	"github.com/kehinde-alade/evidence-classifier/internal/pipeline"
	"github.com/kehinde-alade/evidence-classifier/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [flags] <pdf|dir>...",
	Short: "Classify a batch of PDF papers and export the results",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClassify,
}

func init() {
	classifyCmd.Flags().String("model", "", fmt.Sprintf("model selector (%s)", strings.Join(constants.ModelOptions, " | ")))
	classifyCmd.Flags().String("output-dir", "", "directory for CSV/XLSX exports (default: output)")
	classifyCmd.Flags().String("logs-dir", "", "directory for the error log (default: logs)")
	classifyCmd.Flags().Bool("xlsx", false, "also export results as XLSX")

	_ = viper.BindPFlag("model", classifyCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("output_dir", classifyCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("logs_dir", classifyCmd.Flags().Lookup("logs-dir"))

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg := common.LoadConfig()
	if m := viper.GetString("model"); m != "" {
		cfg.LLM.Model = m
	}
	if d := viper.GetString("output_dir"); d != "" {
		cfg.Export.OutputDir = d
	}
	if d := viper.GetString("logs_dir"); d != "" {
		cfg.Export.LogsDir = d
	}

	// Missing credential for the selected backend is a hard precondition;
	// a key that merely looks wrong for its slot is only worth a warning.
	if err := cfg.Validate(); err != nil {
		return err
	}
	warnKeyFormats(logger, cfg)

	paths, err := collectPDFs(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found in %s", strings.Join(args, ", "))
	}
	logger.Info("classify.start", "files", len(paths), "model", cfg.LLM.Model)

	extractor := pdf.NewExtractor(pdf.Config{
		Pdfinfo:       cfg.PDF.Pdfinfo,
		Pdftotext:     cfg.PDF.Pdftotext,
		Pdftoppm:      cfg.PDF.Pdftoppm,
		Tesseract:     cfg.PDF.Tesseract,
		TesseractLang: cfg.PDF.TesseractLang,
		DPI:           cfg.PDF.DPI,
		MaxPages:      cfg.PDF.MaxPages,
		MinTextChars:  cfg.PDF.MinTextChars,
	}, logger)

	backends := map[constants.Provider]llm.Backend{}
	if cfg.LLM.OpenAIKey != "" {
		backends[constants.ProviderOpenAI] = openai.NewClient(openai.Config{
			APIKey:  cfg.LLM.OpenAIKey,
			BaseURL: cfg.LLM.OpenAIBaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	}
	if cfg.LLM.AnthropicKey != "" {
		backends[constants.ProviderAnthropic] = anthropic.NewClient(anthropic.Config{
			APIKey:  cfg.LLM.AnthropicKey,
			BaseURL: cfg.LLM.AnthropicBaseURL,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	}

	router := llm.NewRouter(backends, logger)
	proc := pipeline.NewProcessor(extractor, router, cfg.LLM.Model, logger)
	batch := report.NewBatch(cfg.LLM.Model, logger)

	if err := proc.ProcessBatch(cmd.Context(), batch, paths); err != nil {
		logger.Warn("classify.interrupted", "error", err)
	}

	fmt.Println(batch.Summary())

	if errs := batch.Errors(); len(errs) > 0 {
		fmt.Println("### Failed Files")
		for _, e := range errs {
			fmt.Printf("- %s: %s\n", e.SourceFile, e.ErrorMessage)
		}
		fmt.Println()
	}

	if path, err := batch.ExportResultsCSV(cfg.Export.OutputDir); err != nil {
		logger.Error("classify.export_results_failed", "error", err)
	} else {
		fmt.Println("Results CSV:", path)
	}
	if xlsx, _ := cmd.Flags().GetBool("xlsx"); xlsx {
		if path, err := batch.ExportResultsXLSX(cfg.Export.OutputDir); err != nil {
			logger.Error("classify.export_xlsx_failed", "error", err)
		} else {
			fmt.Println("Results XLSX:", path)
		}
	}
	if len(batch.Errors()) > 0 {
		if path, err := batch.ExportErrorsCSV(cfg.Export.OutputDir); err != nil {
			logger.Error("classify.export_errors_failed", "error", err)
		} else {
			fmt.Println("Errors CSV:", path)
		}
		if path, err := batch.ExportErrorsText(cfg.Export.LogsDir); err != nil {
			logger.Error("classify.export_error_log_failed", "error", err)
		} else {
			fmt.Println("Error log:", path)
		}
	}

	return nil
}

// collectPDFs expands the args into a sorted list of PDF paths; directories
// are walked recursively.
func collectPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !st.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// warnKeyFormats flags keys that look like they were pasted into the wrong
// slot. Advisory only; the backend will reject a truly wrong key.
func warnKeyFormats(logger *slog.Logger, cfg *common.Config) {
	if k := cfg.LLM.OpenAIKey; k != "" {
		if strings.HasPrefix(k, "sk-ant-") {
			logger.Warn("classify.key_format", "hint", "OPENAI_API_KEY looks like an Anthropic key")
		} else if !strings.HasPrefix(k, "sk-") {
			logger.Warn("classify.key_format", "hint", "OPENAI_API_KEY should start with 'sk-'")
		}
	}
	if k := cfg.LLM.AnthropicKey; k != "" {
		if strings.HasPrefix(k, "sk-") && !strings.HasPrefix(k, "sk-ant-") {
			logger.Warn("classify.key_format", "hint", "ANTHROPIC_API_KEY looks like an OpenAI key")
		} else if !strings.HasPrefix(k, "sk-ant-") {
			logger.Warn("classify.key_format", "hint", "ANTHROPIC_API_KEY should start with 'sk-ant-'")
		}
	}
}
