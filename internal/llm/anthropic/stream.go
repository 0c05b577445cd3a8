package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kehinde-alade/evidence-classifier/internal/common"
	"github.com/kehinde-alade/evidence-classifier/internal/llm"
)

// analyzeStream performs a streaming messages call over SSE and assembles
// the tool_use input (or bare text) from the delta events. Transport errors
// come back as BACKEND_FAILED so the caller can fall back to the synchronous
// path; a fully received but unparseable payload is MALFORMED_RESPONSE.
func (c *Client) analyzeStream(ctx context.Context, req llm.Request) (llm.Verdict, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("anthropic.analyze.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.Filename,
		"text_len", len(req.Text),
		"transport", "stream",
	)

	bs, err := json.Marshal(c.requestBody(req, true))
	if err != nil {
		return llm.Verdict{}, nil, fmt.Errorf("encode json: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return llm.Verdict{}, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	for k, v := range c.headers() {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.Error("anthropic.stream.send_error", "req_id", rid, "error", err)
		return llm.Verdict{}, nil, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("Anthropic streaming error for %s", req.Filename), err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("anthropic.stream.body_close_error", "req_id", rid, "error", err)
		}
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		c.log.Error("anthropic.stream.http_error",
			"req_id", rid, "status", resp.StatusCode, "body", string(raw))
		return llm.Verdict{}, raw, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("Anthropic streaming error for %s: status %d", req.Filename, resp.StatusCode), nil)
	}

	toolJSON, text, err := c.consumeSSE(resp.Body, rid)
	if err != nil {
		return llm.Verdict{}, nil, common.NewAppError(common.CodeBackendFailed,
			fmt.Sprintf("Anthropic streaming error for %s", req.Filename), err)
	}

	raw := []byte(toolJSON)
	if toolJSON == "" {
		raw = []byte(text)
	}

	var blocks []contentBlock
	if toolJSON != "" {
		blocks = append(blocks, contentBlock{Type: "tool_use", Input: json.RawMessage(toolJSON)})
	}
	if text != "" {
		blocks = append(blocks, contentBlock{Type: "text", Text: text})
	}
	verdict, err := c.verdictFromBlocks(blocks, req.Filename)
	if err != nil {
		return llm.Verdict{}, raw, err
	}

	c.log.Info("anthropic.analyze.ok",
		"req_id", rid,
		"file", req.Filename,
		"decision", verdict.InclusionDecision,
		"category", verdict.Category,
		"transport", "stream",
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return verdict, raw, nil
}

// consumeSSE reads the event stream to completion, accumulating tool_use
// input JSON and plain text deltas. An in-band error event or a broken
// stream surfaces as an error.
func (c *Client) consumeSSE(body io.Reader, rid string) (toolJSON, text string, err error) {
	var tool strings.Builder
	var txt strings.Builder
	toolBlocks := map[int]bool{}

	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var ev struct {
			Type  string `json:"type"`
			Index int    `json:"index"`
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
			ContentBlock struct {
				Type string `json:"type"`
			} `json:"content_block"`
			Delta struct {
				Type        string `json:"type"`
				Text        string `json:"text"`
				PartialJSON string `json:"partial_json"`
			} `json:"delta"`
		}
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			c.log.Warn("anthropic.stream.event_decode_error", "req_id", rid, "error", err)
			continue
		}

		switch ev.Type {
		case "error":
			return "", "", fmt.Errorf("stream error event: %s: %s", ev.Error.Type, ev.Error.Message)
		case "content_block_start":
			if ev.ContentBlock.Type == "tool_use" {
				toolBlocks[ev.Index] = true
			}
		case "content_block_delta":
			switch ev.Delta.Type {
			case "input_json_delta":
				if toolBlocks[ev.Index] {
					tool.WriteString(ev.Delta.PartialJSON)
				}
			case "text_delta":
				txt.WriteString(ev.Delta.Text)
			}
		case "message_stop":
			return tool.String(), txt.String(), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", "", fmt.Errorf("read stream: %w", err)
	}
	// Stream ended without message_stop; treat whatever arrived as final.
	return tool.String(), txt.String(), nil
}
