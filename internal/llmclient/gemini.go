package llmclient

import (
	"context"
	"os"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client,
// kept as an alternative completion backend for deployments without an
// Anthropic credential.
type GeminiClient struct {
	cli *genai.Client
	rl  *rpsLimiter
}

// NewGeminiClient builds a Gemini-backed client. The genai SDK reads
// GEMINI_API_KEY from the environment; an absent key is treated as a
// permanent configuration failure here rather than at call time.
func NewGeminiClient(ctx context.Context) (*GeminiClient, error) {
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) == "" {
		return nil, NewPermanentError(ErrMissingAPIKey)
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		cli: cli,
		rl:  limiterFromEnv("GEMINI_RPS", "GEMINI_BURST"),
	}, nil
}

func (g *GeminiClient) Name() string { return "Gemini" }

func (g *GeminiClient) Close() error {
	if g.rl != nil {
		g.rl.Stop()
	}
	return nil
}

func (g *GeminiClient) Complete(ctx context.Context, req Request) (Completion, error) {
	if err := g.rl.Acquire(ctx); err != nil {
		return Completion{}, &RequestError{Err: err}
	}

	temp := float32(req.Temperature)
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
		Temperature:     &temp,
	}
	resp, err := g.cli.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return Completion{}, &RequestError{Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Completion{}, &RequestError{Err: ErrEmptyResponse}
	}
	cand := resp.Candidates[0]
	return Completion{
		Text:      cand.Content.Parts[0].Text,
		Truncated: cand.FinishReason == genai.FinishReasonMaxTokens,
	}, nil
}
