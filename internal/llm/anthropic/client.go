package anthropic

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

// Analyze implements llm.Backend. The streaming transport is the default;
// when a stream attempt fails at the transport level the call falls back to
// a single-shot messages.create, and if that fails too the combined error
// from both attempts is surfaced. A response that arrives intact but cannot
// be parsed is a malformed-response error and is not retried.
func (c *Client) Analyze(ctx context.Context, req llm.Request) (llm.Verdict, []byte, error) {
	useStream := !c.cfg.DisableStreaming || req.ForceStream

	if !useStream {
		return c.analyzeOnce(ctx, req)
	}

	verdict, raw, streamErr := c.analyzeStream(ctx, req)
	if streamErr == nil {
		return verdict, raw, nil
	}
	if common.CodeOf(streamErr) == common.CodeMalformedResponse {
		return llm.Verdict{}, raw, streamErr
	}

	c.log.Warn("anthropic.analyze.stream_failed_fallback",
		"file", req.Filename, "error", streamErr)

	verdict, raw, onceErr := c.analyzeOnce(ctx, req)
	if onceErr == nil {
		c.log.Info("anthropic.analyze.fallback_ok", "file", req.Filename)
		return verdict, raw, nil
	}
	// An intact but unparseable fallback payload is still a malformed
	// response, not a transport failure.
	if common.CodeOf(onceErr) == common.CodeMalformedResponse {
		return llm.Verdict{}, raw, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("unexpected response format from Anthropic for %s (streaming and non-streaming both failed): %v | Fallback: %v",
				req.Filename, streamErr, onceErr), onceErr)
	}
	return llm.Verdict{}, raw, common.NewAppError(common.CodeBackendFailed,
		fmt.Sprintf("Anthropic API error for %s (streaming and non-streaming both failed): %v | Fallback: %v",
			req.Filename, streamErr, onceErr), onceErr)
}

// analyzeOnce performs a synchronous messages.create call.
func (c *Client) analyzeOnce(ctx context.Context, req llm.Request) (llm.Verdict, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("anthropic.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.Filename,
		"text_len", len(req.Text),
		"transport", "sync",
	)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, c.requestBody(req, false), c.headers(), c.log)
	if err != nil {
		c.log.Error("anthropic.analyze.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Verdict{}, raw, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("Anthropic API error for %s", req.Filename), err)
	}

	var mr struct {
		Content []contentBlock `json:"content"`
	}
	if err := json.Unmarshal(raw, &mr); err != nil {
		return llm.Verdict{}, raw, common.NewAppError(common.CodeMalformedResponse,
			fmt.Sprintf("unexpected response format from Anthropic for %s", req.Filename), err)
	}

	verdict, err := c.verdictFromBlocks(mr.Content, req.Filename)
	if err != nil {
		return llm.Verdict{}, raw, err
	}

	c.log.Info("anthropic.analyze.ok",
		"req_id", rid,
		"file", req.Filename,
		"decision", verdict.InclusionDecision,
		"category", verdict.Category,
		"transport", "sync",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return verdict, raw, nil
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text"`
	Input json.RawMessage `json:"input"`
}

// verdictFromBlocks extracts the structured payload from response content:
// a tool_use block takes priority; otherwise the first text block is parsed
// as bare JSON.
func (c *Client) verdictFromBlocks(blocks []contentBlock, filename string) (llm.Verdict, error) {
	for _, b := range blocks {
		if b.Type == "tool_use" && len(b.Input) > 0 {
			var v llm.Verdict
			if err := json.Unmarshal(b.Input, &v); err != nil {
				return llm.Verdict{}, common.NewAppError(common.CodeMalformedResponse,
					fmt.Sprintf("unexpected response format from Anthropic for %s", filename), err)
			}
			return v, nil
		}
	}
	for _, b := range blocks {
		if b.Type == "text" && strings.TrimSpace(b.Text) != "" {
			var v llm.Verdict
			if err := json.Unmarshal([]byte(b.Text), &v); err == nil {
				return v, nil
			}
			break
		}
	}
	return llm.Verdict{}, common.NewAppError(common.CodeMalformedResponse,
		fmt.Sprintf("unexpected response format from Anthropic for %s", filename), nil)
}

func (c *Client) requestBody(req llm.Request, stream bool) map[string]any {
	body := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
		"system":      llm.SystemPrompt,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": req.Text},
				},
			},
		},
		"tools": []map[string]any{
			{
				"name":         llm.ToolName,
				"description":  llm.ToolDescription,
				"input_schema": llm.BuildReviewJSONSchema(),
			},
		},
	}
	if stream {
		body["stream"] = true
	}
	return body
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": c.cfg.Version,
	}
}
