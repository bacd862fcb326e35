package analysis

import (
	"context"
	"errors"
	"testing"

	"codeappraise/internal/llmclient"
)

func TestRunAll_AllCategoriesInOrder(t *testing.T) {
	fake := llmclient.NewFakeClient() // default good response forever
	orchStages := []Category{}
	orch := NewOrchestrator(newTestRunner(fake), func(c Category, message string) {
		if message == "" {
			t.Errorf("empty stage message for %s", c)
		}
		orchStages = append(orchStages, c)
	})

	out, err := orch.RunAll(context.Background(), testFiles, "", Config{})
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if len(orchStages) != len(Categories) {
		t.Fatalf("stages = %d, want %d", len(orchStages), len(Categories))
	}
	for i, c := range Categories {
		if orchStages[i] != c {
			t.Fatalf("stage %d = %s, want %s", i, orchStages[i], c)
		}
	}
	for _, c := range Categories {
		if out.Result(c).Score != 5 {
			t.Fatalf("category %s score = %v, want 5", c, out.Result(c).Score)
		}
	}
	if fake.CallCount() != len(Categories) {
		t.Fatalf("calls = %d, want %d", fake.CallCount(), len(Categories))
	}
}

func TestRunAll_EmptyFiles(t *testing.T) {
	orch := NewOrchestrator(newTestRunner(llmclient.NewFakeClient()), nil)
	if _, err := orch.RunAll(context.Background(), nil, "", Config{}); err == nil {
		t.Fatal("expected error for empty file set")
	}
}

func TestRunAll_FailFast(t *testing.T) {
	// First category fails terminally; later categories must not run.
	garbage := llmclient.FakeStep{Out: llmclient.Completion{Text: "not json"}}
	fake := llmclient.NewFakeClient(garbage)
	orch := NewOrchestrator(newTestRunner(fake), nil)

	cfg := Config{RetryAttempts: 1}
	_, err := orch.RunAll(context.Background(), testFiles, "", cfg)
	var ce *CategoryError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *CategoryError", err)
	}
	if ce.Category != CategorySecurity {
		t.Fatalf("failed category = %s, want security (first)", ce.Category)
	}
	if fake.CallCount() != 2 {
		t.Fatalf("calls = %d, want 2 (one category, two attempts)", fake.CallCount())
	}
}
