package constants

import (
	"strings"
)

// Category is the evidence-base category assigned to an included paper.
type Category string

// Stable values (these exact strings appear in exports and in the LLM schema).
const (
	Client         Category = "Client"
	FLW            Category = "FLW"
	Feasibility    Category = "Feasibility"
	Data           Category = "Data"
	GreyLiterature Category = "Grey Literature"
	NotApplicable  Category = "N/A"
)

var allCategories = []Category{
	Client,
	FLW,
	Feasibility,
	Data,
	GreyLiterature,
	NotApplicable,
}

// CategoryStrings returns the allowed category values for schema enums.
func CategoryStrings() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// CanonicalizeCategory maps a raw label to a known category. Backends
// occasionally drift on spelling ("grey literature", "GreyLiterature", "NA"),
// so a few synonyms are folded before the exact-match pass.
func CanonicalizeCategory(input string) (Category, bool) {
	if input == "" {
		return NotApplicable, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]Category{
		"greyliterature":   GreyLiterature,
		"gray literature":  GreyLiterature,
		"frontline":        FLW,
		"frontline worker": FLW,
		"na":               NotApplicable,
		"none":             NotApplicable,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return NotApplicable, false
}
