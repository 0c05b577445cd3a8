package llm

import (
	"github.com/kehinde-alade/evidence-classifier/constants"
)

// ToolName is the tool both backends are asked to call with their analysis.
const ToolName = "paper_review"

// ToolDescription accompanies the tool declaration on the Anthropic path.
const ToolDescription = "Review an academic article and make inclusion/exclusion decisions with detailed reasoning"

// BuildReviewJSONSchema returns the paper_review output schema as a generic
// map. We pass it to OpenAI as a structured-output constraint, to Anthropic
// as a tool input schema, and also use it locally to validate responses.
func BuildReviewJSONSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"article_title": map[string]any{
				"type":        "string",
				"description": "Title of the academic article under review",
			},
			"inclusion_decision": map[string]any{
				"type":        "string",
				"description": "Inclusion or exclusion decision for the paper",
				"enum":        constants.DecisionStrings(),
			},
			"justification": map[string]any{
				"type":        "string",
				"description": "Brief justification for the inclusion/exclusion decision",
			},
			"category": map[string]any{
				"type":        "string",
				"description": "The category assigned to the included paper. Required for all outputs (N/A if excluded).",
				"enum":        constants.CategoryStrings(),
			},
			"detailed_reasoning": map[string]any{
				"type":        "string",
				"description": "Detailed reasoning for the inclusion or exclusion decision, reflecting critical review and criteria.",
			},
		},
		"required": []string{
			"article_title", "inclusion_decision", "justification", "category", "detailed_reasoning",
		},
		"additionalProperties": false,
	}
}
