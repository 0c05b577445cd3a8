package llm

import "context"

// Verdict is the structured review we want from a backend. Field names match
// the paper_review JSON schema exactly.
type Verdict struct {
	ArticleTitle      string `json:"article_title"`
	InclusionDecision string `json:"inclusion_decision"`
	Justification     string `json:"justification"`
	Category          string `json:"category"`
	DetailedReasoning string `json:"detailed_reasoning"`
}

// Request carries one document's text into a backend call.
type Request struct {
	Text     string
	Filename string

	// ForceStream makes a streaming-capable backend use its streaming
	// transport even if it was configured not to. Set by the token triage
	// for very large documents; ignored by backends without streaming.
	ForceStream bool
}

// Backend is the interface the router dispatches to, one implementation per
// provider. The raw response payload is returned alongside the verdict for
// logging and diagnostics.
type Backend interface {
	Analyze(ctx context.Context, req Request) (Verdict, []byte, error)
}
