package fixes

import (
	"context"
	"strings"
	"testing"

	"codeappraise/internal/analysis"
	"codeappraise/internal/llmclient"
)

const fixJSON = `{"fixedCode": "db.Query(q, id)", "explanation": "use a bound parameter", "steps": ["replace concatenation"], "confidence": 90}`

func TestSuggest(t *testing.T) {
	fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: fixJSON}})
	g := NewGenerator(fake, "test-model")

	issue := analysis.Issue{
		Severity:   analysis.SeverityCritical,
		Title:      "SQL injection",
		Description: "query built by string concatenation",
		FilePath:   "db.go",
		LineNumber: 42,
	}
	s, err := g.Suggest(context.Background(), analysis.CategorySecurity, issue, `db.Query("..." + id)`)
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if s.IssueTitle != "SQL injection" || s.FixedCode != "db.Query(q, id)" || s.Confidence != 90 {
		t.Fatalf("suggestion = %+v", s)
	}

	req := fake.Calls()[0]
	for _, want := range []string{"SQL injection", "**File:** db.go", "**Line:** 42", "security"} {
		if !strings.Contains(req.Prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if req.MaxTokens != 2000 {
		t.Fatalf("max tokens = %d, want 2000", req.MaxTokens)
	}
}

func TestSuggestBatchFiltersAndCaps(t *testing.T) {
	fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: fixJSON}})
	g := NewGenerator(fake, "test-model")

	// 12 critical issues plus low/medium noise; only the first 10
	// critical ones get a call.
	var issues []analysis.Issue
	for i := 0; i < 12; i++ {
		issues = append(issues, analysis.Issue{Severity: analysis.SeverityCritical, Title: "crit"})
	}
	issues = append(issues,
		analysis.Issue{Severity: analysis.SeverityMedium, Title: "med"},
		analysis.Issue{Severity: analysis.SeverityLow, Title: "low"},
	)

	out := g.SuggestBatch(context.Background(), analysis.CategorySecurity, issues, nil)
	if len(out) != 10 {
		t.Fatalf("suggestions = %d, want 10", len(out))
	}
	if fake.CallCount() != 10 {
		t.Fatalf("calls = %d, want 10", fake.CallCount())
	}
}

func TestSuggestBatchSkipsFailures(t *testing.T) {
	// First response unusable, second fine: the batch keeps going.
	fake := llmclient.NewFakeClient(
		llmclient.FakeStep{Out: llmclient.Completion{Text: "no json here"}},
		llmclient.FakeStep{Out: llmclient.Completion{Text: fixJSON}},
	)
	g := NewGenerator(fake, "test-model")

	issues := []analysis.Issue{
		{Severity: analysis.SeverityHigh, Title: "a"},
		{Severity: analysis.SeverityHigh, Title: "b"},
	}
	out := g.SuggestBatch(context.Background(), analysis.CategoryBugs, issues, nil)
	if len(out) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(out))
	}
	if out[0].IssueTitle != "b" {
		t.Fatalf("kept suggestion = %+v", out[0])
	}
}

func TestSuggestBatchUsesProvidedCode(t *testing.T) {
	fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: fixJSON}})
	g := NewGenerator(fake, "test-model")

	issues := []analysis.Issue{{Severity: analysis.SeverityHigh, Title: "a", FilePath: "x.go"}}
	g.SuggestBatch(context.Background(), analysis.CategoryBugs, issues, map[string]string{"x.go": "func x() {}"})

	if !strings.Contains(fake.Calls()[0].Prompt, "func x() {}") {
		t.Fatal("prompt missing the file's code context")
	}
}
