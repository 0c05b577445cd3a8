// Package main is the entry point for the evidence-classifier CLI, the
// presentation collaborator around the extraction/analysis/report core.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the evidence-classifier CLI.
var rootCmd = &cobra.Command{
	Use:   "evidence-classifier",
	Short: "Classify academic PDFs into the CommCare Evidence Base",
	Long: `evidence-classifier extracts text from academic PDF documents (native text
layer first, OCR fallback for scanned papers), asks an LLM backend for a
structured inclusion/exclusion verdict, and aggregates the verdicts into
CSV/XLSX reports plus error logs.

Supported backends: OpenAI (model selector "o3") and Anthropic (model
selector "claude-opus-4"). Credentials come from OPENAI_API_KEY and
ANTHROPIC_API_KEY.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.evidence-classifier/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

// initConfig wires viper to the optional YAML config file and the
// environment. Settings resolve flag > env > config file > default.
func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".evidence-classifier"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("EBC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
