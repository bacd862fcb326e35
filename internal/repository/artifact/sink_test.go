package artifact

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"codeappraise/internal/llmclient"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "p1", "responses/1.json", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Get(ctx, "p1", "responses/1.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `{"a":1}` {
		t.Fatalf("content = %s", got)
	}

	if _, err := s.Get(ctx, "p1", "missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	paths, err := s.List(ctx, "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(paths) != 1 || paths[0] != "responses/1.json" {
		t.Fatalf("paths = %v", paths)
	}
}

func TestSink_ArchivesCompletion(t *testing.T) {
	store := NewMemoryStore()
	sink := NewSink(store, "p1")
	sink.now = func() time.Time { return time.Unix(1700000000, 0) }

	err := sink.Archive(context.Background(),
		llmclient.Request{Prompt: "analyze", Model: "m", MaxTokens: 4096},
		llmclient.Completion{Text: `{"score":5}`, Truncated: true},
	)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}

	paths, _ := store.List(context.Background(), "p1")
	if len(paths) != 1 || !strings.HasPrefix(paths[0], "responses/") {
		t.Fatalf("paths = %v", paths)
	}

	raw, _ := store.Get(context.Background(), "p1", paths[0])
	var payload struct {
		Model     string `json:"model"`
		Text      string `json:"text"`
		Truncated bool   `json:"truncated"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Model != "m" || payload.Text != `{"score":5}` || !payload.Truncated {
		t.Fatalf("payload = %+v", payload)
	}
}
