package constants

import "strings"

// Decision is the inclusion/exclusion verdict for a reviewed paper.
type Decision string

// Stable values (these exact strings appear in exports and in the LLM schema).
const (
	Included Decision = "Included"
	Excluded Decision = "Excluded"
)

var allDecisions = []Decision{Included, Excluded}

// DecisionStrings returns the allowed decision values for schema enums.
func DecisionStrings() []string {
	result := make([]string, len(allDecisions))
	for i, d := range allDecisions {
		result[i] = string(d)
	}
	return result
}

// ParseDecision matches a raw string against the known decisions,
// case-insensitively.
func ParseDecision(input string) (Decision, bool) {
	normalized := strings.TrimSpace(input)
	for _, d := range allDecisions {
		if strings.EqualFold(normalized, string(d)) {
			return d, true
		}
	}
	return "", false
}
