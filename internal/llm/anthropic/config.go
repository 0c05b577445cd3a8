package anthropic

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Anthropic client.
type Config struct {
	APIKey  string // if empty, falls back to env ANTHROPIC_API_KEY
	BaseURL string // default https://api.anthropic.com
	Model   string // e.g., "claude-opus-4-20250514"
	Version string // anthropic-version header, default "2023-06-01"

	// MaxTokens is kept below the context ceiling to leave room for the
	// model's thinking budget.
	MaxTokens   int     // default 20000
	Temperature float64 // default 1

	// DisableStreaming switches the default transport to single-shot
	// messages.create. Token triage may still force streaming per request.
	DisableStreaming bool

	Timeout time.Duration // http client timeout
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-opus-4-20250514"
	}
	if cfg.Version == "" {
		cfg.Version = "2023-06-01"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 20000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}
