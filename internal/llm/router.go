package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/common"
)

// Router dispatches a document to whichever backend the model selector names.
// Backends are registered per provider at wiring time; asking for a provider
// that was never registered (no credential) is a precondition failure, not a
// silent fallback.
type Router struct {
	logger   *slog.Logger
	backends map[constants.Provider]Backend
}

func NewRouter(backends map[constants.Provider]Backend, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if backends == nil {
		backends = map[constants.Provider]Backend{}
	}
	return &Router{logger: logger, backends: backends}
}

// Analyze runs token triage, dispatches to the selected backend, and
// validates the verdict. Every failure comes back as an error carrying one of
// the common failure codes; the caller decides whether the batch continues.
func (r *Router) Analyze(ctx context.Context, text, filename, model string) (Verdict, error) {
	provider, ok := constants.ProviderForModel(model)
	if !ok {
		return Verdict{}, common.NewAppError(common.CodeValidationFailed,
			"unsupported model: "+model, common.ErrInvalidInput)
	}

	backend, ok := r.backends[provider]
	if !ok {
		return Verdict{}, common.NewAppError(common.CodeMissingCredential,
			fmt.Sprintf("no %s credential configured for model %s", provider, model), common.ErrInvalidInput)
	}

	forceStream, err := checkBudget(r.logger, filename, text, provider)
	if err != nil {
		return Verdict{}, err
	}

	verdict, _, err := backend.Analyze(ctx, Request{
		Text:        text,
		Filename:    filename,
		ForceStream: forceStream,
	})
	if err != nil {
		var ae *common.AppError
		if errors.As(err, &ae) {
			return Verdict{}, err
		}
		return Verdict{}, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("%s analysis failed for %s", provider, filename), err)
	}

	if err := ValidateVerdict(&verdict, r.logger); err != nil {
		return Verdict{}, err
	}

	r.logger.Info("llm.analyze.ok",
		"file", filename,
		"model", model,
		"decision", verdict.InclusionDecision,
		"category", verdict.Category,
		"title", verdict.ArticleTitle,
	)
	return verdict, nil
}
