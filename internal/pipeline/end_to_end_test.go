package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
	"github.com/kehinde-alade/evidence-classifier/internal/llm/openai"
	"github.com/kehinde-alade/evidence-classifier/internal/pdf"
	"github.com/kehinde-alade/evidence-classifier/internal/report"
)

// fakePDFTools stands in for the poppler binaries: one readable two-page
// document with a healthy native text layer.
type fakePDFTools struct{}

func (fakePDFTools) Run(_ context.Context, name string, _ ...string) ([]byte, []byte, error) {
	switch name {
	case "pdfinfo":
		return []byte("Pages:          2\nEncrypted:      no\nPage    1 size: 612 x 792 pts (letter)\n"), nil, nil
	case "pdftotext":
		return []byte(strings.Repeat("CommCare deployment results. ", 10)), nil, nil
	default:
		return nil, nil, fmt.Errorf("unexpected command: %s", name)
	}
}

// TestClassifyDocumentEndToEnd runs a document through the real extractor,
// router, and OpenAI client against a stub completions server, checking the
// batch ends with one fully populated row and no error records.
func TestClassifyDocumentEndToEnd(t *testing.T) {
	const verdictJSON = `{
		"article_title": "CommCare Deployment Outcomes",
		"inclusion_decision": "Included",
		"justification": "CommCare is the platform under study.",
		"category": "Client",
		"detailed_reasoning": "Outcome data comes from a CommCare-supported maternal health program."
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, verdictJSON)
	}))
	t.Cleanup(srv.Close)

	extractor := pdf.NewExtractorWithRunner(pdf.Config{}, fakePDFTools{}, nil)
	backend := openai.NewClient(openai.Config{APIKey: "sk-test", BaseURL: srv.URL}, nil)
	router := llm.NewRouter(map[constants.Provider]llm.Backend{constants.ProviderOpenAI: backend}, nil)
	p := NewProcessor(extractor, router, "o3", nil)
	b := report.NewBatch("o3", nil)

	require.NoError(t, p.ProcessBatch(context.Background(), b, []string{"/papers/outcomes.pdf"}))

	assert.Empty(t, b.Errors())
	require.Len(t, b.Results(), 1)
	row := b.Results()[0]
	assert.Equal(t, "CommCare Deployment Outcomes", row.ArticleTitle)
	assert.Equal(t, "Included", row.Decision)
	assert.Equal(t, "Client", row.Category)
	assert.Equal(t, "outcomes.pdf", row.SourceFile)
	assert.NotEmpty(t, row.Timestamp)
}
