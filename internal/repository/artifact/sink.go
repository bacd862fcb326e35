package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codeappraise/internal/llmclient"
)

// Sink adapts a Store into an llmclient.ResponseSink, archiving raw
// completions under responses/<timestamp>.json for one project.
type Sink struct {
	store     Store
	projectID string
	now       func() time.Time
}

func NewSink(store Store, projectID string) *Sink {
	return &Sink{store: store, projectID: projectID, now: time.Now}
}

type archivedResponse struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"maxTokens"`
	Prompt    string `json:"prompt"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
	SavedAt   string `json:"savedAt"`
}

func (s *Sink) Archive(ctx context.Context, req llmclient.Request, out llmclient.Completion) error {
	if s == nil || s.store == nil {
		return nil
	}
	ts := s.now().UTC()
	payload, err := json.Marshal(archivedResponse{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Prompt:    req.Prompt,
		Text:      out.Text,
		Truncated: out.Truncated,
		SavedAt:   ts.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	path := fmt.Sprintf("responses/%d.json", ts.UnixNano())
	return s.store.Put(ctx, s.projectID, path, payload)
}
