package constants

import "strings"

// Provider identifies which analysis backend a model selector routes to.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ModelOptions holds the recognized model selectors, in display order.
var ModelOptions = []string{"o3", "claude-opus-4"}

// ProviderForModel resolves a model selector to a provider by substring match:
// anything naming "o3" goes to OpenAI, anything naming "claude" to Anthropic.
func ProviderForModel(model string) (Provider, bool) {
	m := strings.ToLower(model)
	switch {
	case strings.Contains(m, "o3"):
		return ProviderOpenAI, true
	case strings.Contains(m, "claude"):
		return ProviderAnthropic, true
	default:
		return "", false
	}
}
