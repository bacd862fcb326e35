package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"

	// Placeholder some deployments leave in the env file; treated the
	// same as a missing key.
	placeholderKey = "user_provided"
)

// AnthropicClient calls the Anthropic Messages API over plain HTTP.
type AnthropicClient struct {
	http    *http.Client
	apiKey  string
	baseURL string
	rl      *rpsLimiter
}

// NewAnthropicClient builds a client from the given key, falling back
// to the ANTHROPIC_API_KEY env var. A missing or malformed key is a
// PermanentError: the job cannot proceed and must not be retried.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" || apiKey == placeholderKey {
		return nil, NewPermanentError(ErrMissingAPIKey)
	}
	if !strings.HasPrefix(apiKey, "sk-ant-") {
		return nil, NewPermanentError(ErrInvalidAPIKey)
	}
	return &AnthropicClient{
		http:    &http.Client{Timeout: 10 * time.Minute},
		apiKey:  apiKey,
		baseURL: anthropicBaseURL,
		rl:      limiterFromEnv("ANTHROPIC_RPS", "ANTHROPIC_BURST"),
	}, nil
}

func (c *AnthropicClient) Name() string { return "Anthropic" }

func (c *AnthropicClient) Close() error {
	if c.rl != nil {
		c.rl.Stop()
	}
	return nil
}

type anthropicReq struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResp struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete performs a single Messages call. Truncated is set when the
// backend stopped at the max_tokens ceiling, which is the primary
// signal the extraction repair path relies on.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := c.rl.Acquire(ctx); err != nil {
		return Completion{}, &RequestError{Err: err}
	}

	body := anthropicReq{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	b, _ := json.Marshal(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(b))
	if err != nil {
		return Completion{}, &RequestError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Completion{}, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Completion{}, NewPermanentError(fmt.Errorf("anthropic: rejected credential (status %d)", resp.StatusCode))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Completion{}, &RequestError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("anthropic: %s", strings.TrimSpace(string(msg))),
		}
	}

	var out anthropicResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Completion{}, &RequestError{Err: err}
	}
	text := ""
	for _, part := range out.Content {
		if part.Type == "text" {
			text = part.Text
			break
		}
	}
	if text == "" {
		return Completion{}, &RequestError{Err: ErrEmptyResponse}
	}
	return Completion{
		Text:      text,
		Truncated: out.StopReason == "max_tokens",
	}, nil
}
