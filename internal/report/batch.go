// Package report accumulates per-document outcomes across one classification
// run and renders them as exports. A Batch is owned by the driver loop for
// the duration of a run; only AddResult and AddError mutate it.
package report

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/kehinde-alade/evidence-classifier/constants"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
)

// ResultRow is the export-ready projection of a successful verdict.
// Citation, OpenAccessURL, and Confidence are reserved for future enrichment
// and always empty; consumers must not assume they are populated.
type ResultRow struct {
	ArticleTitle      string
	Decision          string
	Category          string
	DetailedReasoning string
	Citation          string
	OpenAccessURL     string
	Confidence        string
	SourceFile        string
	Timestamp         string
}

// ErrorRecord captures one failed document. Append-only; one per document.
type ErrorRecord struct {
	SourceFile   string
	ErrorMessage string
	Timestamp    string
}

// Stats summarizes a batch in flight or after completion.
type Stats struct {
	TotalProcessed int
	Successful     int
	Failed         int
}

// Batch owns the accumulated state of a single run.
type Batch struct {
	logger   *slog.Logger
	rows     []ResultRow
	errs     []ErrorRecord
	runStamp string
	modelTag string
	now      func() time.Time
}

func NewBatch(modelName string, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	return &Batch{
		logger:   logger,
		runStamp: now().Format("20060102_150405"),
		modelTag: SanitizeModelTag(modelName),
		now:      now,
	}
}

// AddResult projects a validated verdict into a ResultRow, stamping the
// current time. A verdict with no decision cannot be projected and is
// redirected into AddError so the batch keeps going.
func (b *Batch) AddResult(v llm.Verdict, sourceFile string) {
	if strings.TrimSpace(v.InclusionDecision) == "" {
		b.AddError(sourceFile, fmt.Sprintf("Error adding result for %s: verdict has no decision", sourceFile))
		return
	}
	b.rows = append(b.rows, ResultRow{
		ArticleTitle:      v.ArticleTitle,
		Decision:          v.InclusionDecision,
		Category:          v.Category,
		DetailedReasoning: v.DetailedReasoning,
		SourceFile:        sourceFile,
		Timestamp:         b.now().Format(time.RFC3339),
	})
	b.logger.Info("report.result_added", "file", sourceFile, "decision", v.InclusionDecision)
}

// AddError appends an immutable error record. Errors are never retried or
// removed.
func (b *Batch) AddError(sourceFile, message string) {
	b.errs = append(b.errs, ErrorRecord{
		SourceFile:   sourceFile,
		ErrorMessage: message,
		Timestamp:    b.now().Format(time.RFC3339),
	})
	b.logger.Error("report.error_added", "file", sourceFile, "error", message)
}

func (b *Batch) Stats() Stats {
	return Stats{
		TotalProcessed: len(b.rows) + len(b.errs),
		Successful:     len(b.rows),
		Failed:         len(b.errs),
	}
}

// Results returns the accumulated rows for display. Callers must not mutate.
func (b *Batch) Results() []ResultRow { return b.rows }

// Errors returns the accumulated error records for display. Callers must not
// mutate.
func (b *Batch) Errors() []ErrorRecord { return b.errs }

// Summary renders the human-readable run report: totals always, decision
// counts when at least one paper was analyzed, and a per-category breakdown
// (first-seen order) when at least one paper was included.
func (b *Batch) Summary() string {
	stats := b.Stats()

	var sb strings.Builder
	sb.WriteString("## Processing Summary\n")
	fmt.Fprintf(&sb, "- **Total files processed:** %d\n", stats.TotalProcessed)
	fmt.Fprintf(&sb, "- **Successfully analyzed:** %d\n", stats.Successful)
	fmt.Fprintf(&sb, "- **Failed to analyze:** %d\n", stats.Failed)

	if len(b.rows) == 0 {
		return sb.String()
	}

	var included, excluded int
	for _, r := range b.rows {
		if r.Decision == string(constants.Included) {
			included++
		} else {
			excluded++
		}
	}
	sb.WriteString("\n### Analysis Results\n")
	fmt.Fprintf(&sb, "- **Included papers:** %d\n", included)
	fmt.Fprintf(&sb, "- **Excluded papers:** %d\n", excluded)

	if included == 0 {
		return sb.String()
	}

	counts := map[string]int{}
	var order []string
	for _, r := range b.rows {
		if r.Decision != string(constants.Included) {
			continue
		}
		if _, seen := counts[r.Category]; !seen {
			order = append(order, r.Category)
		}
		counts[r.Category]++
	}
	sb.WriteString("\n### Categories (Included Papers)\n")
	for _, cat := range order {
		fmt.Fprintf(&sb, "- **%s:** %d\n", cat, counts[cat])
	}
	return sb.String()
}

var (
	reClaudeTag = regexp.MustCompile(`claude-opus-4.*`)
	reO3Tag     = regexp.MustCompile(`o3.*`)
	reTagJunk   = regexp.MustCompile(`[^a-z0-9\-_]`)
	reTagDashes = regexp.MustCompile(`-+`)
)

// SanitizeModelTag turns a model selector into a filename-safe tag:
// lower-cased, provider version suffixes collapsed to a canonical short
// form, non-alphanumeric runs collapsed to single dashes, no leading or
// trailing dash.
func SanitizeModelTag(modelName string) string {
	tag := strings.ToLower(modelName)
	tag = reClaudeTag.ReplaceAllString(tag, "claude-opus-4")
	tag = reO3Tag.ReplaceAllString(tag, "o3")
	tag = reTagJunk.ReplaceAllString(tag, "-")
	tag = reTagDashes.ReplaceAllString(tag, "-")
	tag = strings.Trim(tag, "-")
	if tag == "" {
		return "unknown"
	}
	return tag
}
