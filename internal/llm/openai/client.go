package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kehinde-alade/evidence-classifier/internal/common"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
)

// Analyze implements llm.Backend with a single synchronous chat/completions
// call using strict structured output. There is no streaming path for this
// provider; Request.ForceStream is ignored.
func (c *Client) Analyze(ctx context.Context, req llm.Request) (llm.Verdict, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("openai.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.Filename,
		"text_len", len(req.Text),
	)

	schema := llm.BuildReviewJSONSchema()
	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]any{
			{
				"role": "developer",
				"content": []map[string]any{
					{"type": "text", "text": llm.SystemPrompt},
				},
			},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": req.Text},
				},
			},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   llm.ToolName,
				"strict": true,
				"schema": schema,
			},
		},
		"reasoning_effort": c.cfg.ReasoningEffort,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("openai.analyze.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Verdict{}, raw, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("OpenAI API error for %s", req.Filename), err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("openai.analyze.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Verdict{}, raw, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("unexpected response format from OpenAI for %s", req.Filename), err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("openai.analyze.no_choices", "req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds())
		return llm.Verdict{}, raw, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("no choices in OpenAI response for %s", req.Filename), nil)
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		c.log.Error("openai.analyze.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Verdict{}, content, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("unexpected response format from OpenAI for %s", req.Filename), err)
	}

	var verdict llm.Verdict
	if err := json.Unmarshal(content, &verdict); err != nil {
		return llm.Verdict{}, content, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("unexpected response format from OpenAI for %s", req.Filename), err)
	}

	c.log.Info("openai.analyze.ok",
		"req_id", rid,
		"file", req.Filename,
		"decision", verdict.InclusionDecision,
		"category", verdict.Category,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return verdict, content, nil
}
