package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/common"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateVerdict checks a parsed verdict in place: all five fields must be
// non-blank after trimming, the decision and category must be known enum
// values (spelling drift like "GreyLiterature" is canonicalized, anything
// unrecognizable fails), and an Excluded paper's category is corrected to
// N/A. The correction is a normalization, not a failure; re-validating the
// corrected verdict is a no-op.
func ValidateVerdict(v *Verdict, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	v.ArticleTitle = strings.TrimSpace(v.ArticleTitle)
	v.InclusionDecision = strings.TrimSpace(v.InclusionDecision)
	v.Justification = strings.TrimSpace(v.Justification)
	v.Category = strings.TrimSpace(v.Category)
	v.DetailedReasoning = strings.TrimSpace(v.DetailedReasoning)

	fields := map[string]string{
		"article_title":      v.ArticleTitle,
		"inclusion_decision": v.InclusionDecision,
		"justification":      v.Justification,
		"category":           v.Category,
		"detailed_reasoning": v.DetailedReasoning,
	}
	for _, name := range []string{"article_title", "inclusion_decision", "justification", "category", "detailed_reasoning"} {
		if fields[name] == "" {
			return common.NewAppError(common.CodeValidationFailed,
				"empty required field: "+name, common.ErrValidation)
		}
	}

	decision, ok := constants.ParseDecision(v.InclusionDecision)
	if !ok {
		return common.NewAppError(common.CodeValidationFailed,
			"invalid inclusion_decision: "+v.InclusionDecision, common.ErrValidation)
	}
	v.InclusionDecision = string(decision)

	category, ok := constants.CanonicalizeCategory(v.Category)
	if !ok {
		return common.NewAppError(common.CodeValidationFailed,
			"invalid category: "+v.Category, common.ErrValidation)
	}
	if string(category) != v.Category {
		logger.Warn("llm.validate.category_canonicalized", "from", v.Category, "to", string(category))
	}
	v.Category = string(category)

	// Excluded papers carry no category.
	if decision == constants.Excluded && category != constants.NotApplicable {
		logger.Warn("llm.validate.category_corrected",
			"decision", v.InclusionDecision, "from", v.Category, "to", string(constants.NotApplicable))
		v.Category = string(constants.NotApplicable)
	}

	return nil
}
