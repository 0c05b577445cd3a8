package llm

import (
	"fmt"
	"log/slog"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/common"
)

// Token triage thresholds, in estimated tokens. Only the hard limit changes
// behavior; the rest drive expectation logging.
const (
	TokenHardLimit    = 180000
	TokenVeryLarge    = 150000
	TokenMediumLarge  = 100000
	TokenLarge        = 50000
	charsPerTokenRate = 4
)

// EstimateTokens approximates the token count of text (1 token ≈ 4 chars).
func EstimateTokens(text string) int {
	return len(text) / charsPerTokenRate
}

// checkBudget enforces the hard size cutoff and logs processing-time
// expectations below it. It reports whether the streaming transport should be
// forced for a streaming-capable provider.
func checkBudget(logger *slog.Logger, filename, text string, provider constants.Provider) (forceStream bool, err error) {
	est := EstimateTokens(text)
	switch {
	case est > TokenHardLimit:
		logger.Warn("llm.triage.oversize",
			"file", filename, "estimated_tokens", est, "limit", TokenHardLimit)
		return false, common.NewAppError(common.CodeDocumentTooLarge,
			fmt.Sprintf("Document too large (%d tokens) - exceeds safe processing limit", est), nil)
	case est > TokenVeryLarge:
		logger.Warn("llm.triage.very_large",
			"file", filename, "estimated_tokens", est, "expectation", "5-10 minutes")
	case est > TokenMediumLarge:
		logger.Info("llm.triage.medium_large",
			"file", filename, "estimated_tokens", est, "expectation", "2-5 minutes")
	case est > TokenLarge:
		logger.Info("llm.triage.large",
			"file", filename, "estimated_tokens", est, "expectation", "1-2 minutes")
	}

	if provider == constants.ProviderAnthropic && est > TokenMediumLarge {
		logger.Info("llm.triage.force_streaming", "file", filename, "estimated_tokens", est)
		forceStream = true
	}
	return forceStream, nil
}
