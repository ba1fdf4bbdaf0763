// Package ai wraps the hosted LLM behind stateless adapters. The model is an
// untrusted external system: every adapter either returns a validated result
// or its documented fallback, and never lets a model error escape.
package ai

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

	"go.uber.org/zap"
)

// Message is one chat-completions turn.
type Message struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

type requestPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	Stream      bool      `json:"stream,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint with a
// two-tier model fallback: the smart model first, the fast model on any
// error. No retries beyond that, no backoff, no circuit breaker.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	smartModel string
	fastModel  string
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, smartModel, fastModel string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		smartModel: smartModel,
		fastModel:  fastModel,
		logger:     logger,
	}
}

// Generate runs one completion, trying the smart model then the fast model.
// Both failing returns the last error; callers convert that to their own
// fallback payloads.
func (c *Client) Generate(ctx context.Context, temperature float64, messages ...Message) (string, error) {
	text, err := c.complete(ctx, c.smartModel, temperature, messages)
	if err == nil {
		return text, nil
	}
	c.logger.Warn("primary model failed, trying fallback",
		zap.String("model", c.smartModel), zap.Error(err))

	text, err = c.complete(ctx, c.fastModel, temperature, messages)
	if err != nil {
		c.logger.Error("all models failed", zap.Error(err))
		return "", err
	}
	return text, nil
}

// Stream runs a streamed completion, writing each text delta to w as it
// arrives and returning the concatenated text. The fast model is tried if
// the smart model fails before any output is produced.
func (c *Client) Stream(ctx context.Context, temperature float64, w io.Writer, messages ...Message) (string, error) {
	text, wrote, err := c.streamOnce(ctx, c.smartModel, temperature, w, messages)
	if err == nil || wrote {
		// Once bytes hit the wire there is no clean way to restart.
		return text, err
	}
	c.logger.Warn("primary model failed mid-stream, trying fallback",
		zap.String("model", c.smartModel), zap.Error(err))

	text, _, err = c.streamOnce(ctx, c.fastModel, temperature, w, messages)
	return text, err
}

func (c *Client) complete(ctx context.Context, model string, temperature float64, messages []Message) (string, error) {
	body, err := c.do(ctx, requestPayload{
		Model:       model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices received")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) streamOnce(ctx context.Context, model string, temperature float64, w io.Writer, messages []Message) (text string, wrote bool, err error) {
	body, err := c.do(ctx, requestPayload{
		Model:       model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: temperature,
		Stream:      true,
	})
	if err != nil {
		return "", false, err
	}
	defer body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return full.String(), wrote, err
		}
		wrote = true
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		full.WriteString(delta)
	}
	if err := scanner.Err(); err != nil {
		return full.String(), wrote, err
	}
	return full.String(), wrote, nil
}

func (c *Client) do(ctx context.Context, payload requestPayload) (io.ReadCloser, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("model %s: status %d: %s", payload.Model, resp.StatusCode, string(raw))
	}
	return resp.Body, nil
}
