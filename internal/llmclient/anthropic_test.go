package llmclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewAnthropicClient_KeyValidation(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	cases := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", ErrMissingAPIKey},
		{"whitespace", "   ", ErrMissingAPIKey},
		{"placeholder", "user_provided", ErrMissingAPIKey},
		{"wrong prefix", "sk-live-abc123", ErrInvalidAPIKey},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewAnthropicClient(tc.key)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			var pe *PermanentError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *PermanentError", err)
			}
		})
	}
}

func TestNewAnthropicClient_EnvFallback(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test123")
	c, err := NewAnthropicClient("")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = c.Close() }()
	if c.Name() != "Anthropic" {
		t.Fatalf("name = %q", c.Name())
	}
}

func newTestAnthropic(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewAnthropicClient("sk-ant-test123")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.baseURL = srv.URL
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestAnthropicComplete_Success(t *testing.T) {
	c := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test123" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
		var body anthropicReq
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.MaxTokens != 4096 {
			t.Errorf("max_tokens = %d", body.MaxTokens)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": `{"score": 7}`}},
			"stop_reason": "end_turn",
		})
	})

	out, err := c.Complete(context.Background(), Request{Prompt: "p", Model: "m", MaxTokens: 4096})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Text != `{"score": 7}` {
		t.Fatalf("text = %q", out.Text)
	}
	if out.Truncated {
		t.Fatal("should not be truncated")
	}
}

func TestAnthropicComplete_TruncatedStopReason(t *testing.T) {
	c := newTestAnthropic(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{{"type": "text", "text": "partial"}},
			"stop_reason": "max_tokens",
		})
	})
	out, err := c.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !out.Truncated {
		t.Fatal("expected truncated completion")
	}
}

func TestAnthropicComplete_AuthRejectedIsPermanent(t *testing.T) {
	c := newTestAnthropic(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.Complete(context.Background(), Request{})
	var pe *PermanentError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *PermanentError", err)
	}
}

func TestAnthropicComplete_ServerErrorIsRequestError(t *testing.T) {
	c := newTestAnthropic(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := c.Complete(context.Background(), Request{})
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if re.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d", re.Status)
	}
}

func TestAnthropicComplete_EmptyContent(t *testing.T) {
	c := newTestAnthropic(t, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []map[string]any{}})
	})
	_, err := c.Complete(context.Background(), Request{})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}
