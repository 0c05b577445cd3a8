package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kehinde-alade/evidence-classifier/internal/llm"
)

func fixedBatch(t *testing.T, model string) *Batch {
	t.Helper()
	b := NewBatch(model, nil)
	b.runStamp = "20250115_093000"
	b.now = func() time.Time { return time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC) }
	return b
}

func includedVerdict(title, category string) llm.Verdict {
	return llm.Verdict{
		ArticleTitle:      title,
		InclusionDecision: "Included",
		Justification:     "CommCare is central to the study.",
		Category:          category,
		DetailedReasoning: "Detailed reasoning.",
	}
}

func TestStats(t *testing.T) {
	b := fixedBatch(t, "o3")
	b.AddResult(includedVerdict("Paper A", "Client"), "a.pdf")
	b.AddResult(includedVerdict("Paper B", "FLW"), "b.pdf")
	b.AddError("c.pdf", "Text extraction failed: boom")

	s := b.Stats()
	assert.Equal(t, 3, s.TotalProcessed)
	assert.Equal(t, 2, s.Successful)
	assert.Equal(t, 1, s.Failed)
}

func TestAddResultWithoutDecision(t *testing.T) {
	b := fixedBatch(t, "o3")
	b.AddResult(llm.Verdict{ArticleTitle: "Broken"}, "x.pdf")

	assert.Empty(t, b.Results())
	require.Len(t, b.Errors(), 1)
	assert.Equal(t, "Error adding result for x.pdf: verdict has no decision", b.Errors()[0].ErrorMessage)
}

func TestSummary(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		b := fixedBatch(t, "o3")
		s := b.Summary()
		assert.Contains(t, s, "## Processing Summary")
		assert.Contains(t, s, "- **Total files processed:** 0")
		assert.NotContains(t, s, "### Analysis Results")
	})

	t.Run("all excluded", func(t *testing.T) {
		b := fixedBatch(t, "o3")
		v := includedVerdict("Paper A", "N/A")
		v.InclusionDecision = "Excluded"
		b.AddResult(v, "a.pdf")

		s := b.Summary()
		assert.Contains(t, s, "### Analysis Results")
		assert.Contains(t, s, "- **Excluded papers:** 1")
		assert.NotContains(t, s, "### Categories")
	})

	t.Run("category breakdown keeps first-seen order", func(t *testing.T) {
		b := fixedBatch(t, "o3")
		b.AddResult(includedVerdict("P1", "FLW"), "1.pdf")
		b.AddResult(includedVerdict("P2", "Client"), "2.pdf")
		b.AddResult(includedVerdict("P3", "FLW"), "3.pdf")

		s := b.Summary()
		assert.Contains(t, s, "- **Included papers:** 3")
		flw := strings.Index(s, "- **FLW:** 2")
		client := strings.Index(s, "- **Client:** 1")
		require.NotEqual(t, -1, flw)
		require.NotEqual(t, -1, client)
		assert.Less(t, flw, client)
	})
}

func TestSanitizeModelTag(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"o3", "o3"},
		{"o3-2025-04-16", "o3"},
		{"claude-opus-4", "claude-opus-4"},
		{"claude-opus-4-20250514", "claude-opus-4"},
		{"Weird Model/Name!", "weird-model-name"},
		{"///", "unknown"},
		{"", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeModelTag(tt.in))
		})
	}
}

func TestExportResultsCSV(t *testing.T) {
	dir := t.TempDir()
	b := fixedBatch(t, "claude-opus-4-20250514")
	b.AddResult(includedVerdict("Paper, with comma", "Client"), "a.pdf")

	path, err := b.ExportResultsCSV(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evidence_base_classifier_results_claude-opus-4_20250115_093000.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, ResultsCSVHeader, records[0])
	row := records[1]
	assert.Equal(t, "Paper, with comma", row[0])
	assert.Equal(t, "Included", row[1])
	assert.Equal(t, "Client", row[2])
	assert.Empty(t, row[4], "citation placeholder stays empty")
	assert.Equal(t, "a.pdf", row[7])
}

func TestExportResultsCSVEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	b := fixedBatch(t, "o3")

	path, err := b.ExportResultsCSV(dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "empty batch still writes the header")
	assert.Equal(t, ResultsCSVHeader, records[0])
}

func TestExportErrorsText(t *testing.T) {
	dir := t.TempDir()
	b := fixedBatch(t, "o3")
	b.AddError("bad.pdf", "PDF bad.pdf is encrypted")

	path, err := b.ExportErrorsText(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evidence_base_classifier_errors_o3_20250115_093000.txt"), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(raw)

	assert.True(t, strings.HasPrefix(body, "Evidence Base Classifier - Error Log\n"))
	assert.Contains(t, body, "Generated: 2025-01-15T09:30:00Z")
	assert.Contains(t, body, "Total Errors: 1")
	assert.Contains(t, body, strings.Repeat("=", 50))
	assert.Contains(t, body, "Error #1\nFile: bad.pdf\nTime: 2025-01-15T09:30:00Z\nError: PDF bad.pdf is encrypted\n")
	assert.Contains(t, body, strings.Repeat("-", 30))
}

func TestExportErrorsCSV(t *testing.T) {
	dir := t.TempDir()
	b := fixedBatch(t, "o3")
	b.AddError("a.pdf", "LLM analysis failed: timeout")

	path, err := b.ExportErrorsCSV(dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"source_file", "error_message", "timestamp"}, records[0])
	assert.Equal(t, "a.pdf", records[1][0])
}
