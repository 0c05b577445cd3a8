package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDecision(t *testing.T) {
	tests := []struct {
		in     string
		want   Decision
		wantOK bool
	}{
		{"Included", Included, true},
		{"included", Included, true},
		{"  EXCLUDED  ", Excluded, true},
		{"Maybe", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDecision(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCanonicalizeCategory(t *testing.T) {
	tests := []struct {
		in     string
		want   Category
		wantOK bool
	}{
		{"Client", Client, true},
		{"client", Client, true},
		{"Grey Literature", GreyLiterature, true},
		{"GreyLiterature", GreyLiterature, true},
		{"gray literature", GreyLiterature, true},
		{"frontline worker", FLW, true},
		{"NA", NotApplicable, true},
		{"none", NotApplicable, true},
		{"N/A", NotApplicable, true},
		{"Robotics", NotApplicable, false},
		{"", NotApplicable, false},
	}
	for _, tt := range tests {
		got, ok := CanonicalizeCategory(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestProviderForModel(t *testing.T) {
	tests := []struct {
		model  string
		want   Provider
		wantOK bool
	}{
		{"o3", ProviderOpenAI, true},
		{"o3-2025-04-16", ProviderOpenAI, true},
		{"claude-opus-4", ProviderAnthropic, true},
		{"claude-opus-4-20250514", ProviderAnthropic, true},
		{"gpt-4o", "", false},
		{"llama-3", "", false},
	}
	for _, tt := range tests {
		got, ok := ProviderForModel(tt.model)
		assert.Equal(t, tt.wantOK, ok, tt.model)
		assert.Equal(t, tt.want, got, tt.model)
	}
}
