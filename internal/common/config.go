package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	PDF    PDFConfig
	LLM    LLMConfig
	Export ExportConfig
}

// PDFConfig holds text-extraction configuration
type PDFConfig struct {
	Pdfinfo       string
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
	MinTextChars  int
}

// LLMConfig holds analysis-backend configuration
type LLMConfig struct {
	Model            string
	OpenAIKey        string
	AnthropicKey     string
	OpenAIBaseURL    string
	AnthropicBaseURL string
	Timeout          time.Duration
}

// ExportConfig holds report-export configuration
type ExportConfig struct {
	OutputDir string
	LogsDir   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		PDF: PDFConfig{
			Pdfinfo:       getEnv("PDFINFO_BIN", "pdfinfo"),
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			DPI:           getEnvAsInt("PDF_OCR_DPI", 300),
			MaxPages:      getEnvAsInt("PDF_MAX_PAGES", 0),
			MinTextChars:  getEnvAsInt("PDF_MIN_TEXT_CHARS", 50),
		},
		LLM: LLMConfig{
			Model:            getEnv("CLASSIFIER_MODEL", "o3"),
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
			AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),
			Timeout:          getEnvAsDuration("LLM_TIMEOUT", 10*time.Minute),
		},
		Export: ExportConfig{
			OutputDir: getEnv("OUTPUT_DIR", "output"),
			LogsDir:   getEnv("LOGS_DIR", "logs"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks that the configuration can support a run with the selected
// model. A missing credential for the selected backend is a hard failure; a
// key pasted into the wrong slot is the UI's problem, not ours.
func (c *Config) Validate() error {
	model := strings.ToLower(c.LLM.Model)
	switch {
	case strings.Contains(model, "o3"):
		if c.LLM.OpenAIKey == "" {
			return NewAppError(CodeMissingCredential, "OPENAI_API_KEY is required for model "+c.LLM.Model, ErrInvalidInput)
		}
	case strings.Contains(model, "claude"):
		if c.LLM.AnthropicKey == "" {
			return NewAppError(CodeMissingCredential, "ANTHROPIC_API_KEY is required for model "+c.LLM.Model, ErrInvalidInput)
		}
	default:
		return NewAppError(CodeValidationFailed, "unsupported model: "+c.LLM.Model, ErrInvalidInput)
	}
	return nil
}
