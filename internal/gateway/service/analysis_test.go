package service

import (
	"context"
	"testing"

	"codeappraise/internal/analysis"
	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
	"codeappraise/internal/repository/artifact"
	"codeappraise/internal/repository/project"
	"codeappraise/internal/repository/report"
	"codeappraise/internal/status"
)

const categoryJSON = `{"score": 7, "summary": "ok", "issues": [{"severity": "high", "title": "found"}], "recommendations": ["fix it"]}`

const valuationJSON = `{"estimatedValue": 9000, "minValue": 6000, "maxValue": 14000, "isAssetOrLiability": "asset", "confidenceLevel": 0.7, "methodology": "cost approach"}`

var serviceFiles = []analysis.CodeFile{
	{Path: "main.go", Language: "Go", Content: "package main\n"},
}

func newTestService(t *testing.T, client llmclient.CompletionClient) (*AnalysisService, *project.MemoryStore, *report.MemoryStore, *status.Broker) {
	t.Helper()
	projects := project.NewMemoryStore()
	reports := report.NewMemoryStore()
	broker := status.NewBroker()
	svc := NewAnalysisService(projects, reports, nil, client, prompt.NewResolver(nil), broker, analysis.Config{})
	return svc, projects, reports, broker
}

func seedProject(t *testing.T, projects *project.MemoryStore) {
	t.Helper()
	err := projects.Put(context.Background(), project.Record{
		ID: "p1", UserID: "u1", Name: "svc", FileCount: 1, TotalLines: 1,
		Status: project.StatusPending,
	})
	if err != nil {
		t.Fatal(err)
	}
}

// goodScript returns six category responses followed by a valuation.
func goodScript() []llmclient.FakeStep {
	steps := make([]llmclient.FakeStep, 0, 7)
	for i := 0; i < 6; i++ {
		steps = append(steps, llmclient.FakeStep{Out: llmclient.Completion{Text: categoryJSON}})
	}
	steps = append(steps, llmclient.FakeStep{Out: llmclient.Completion{Text: valuationJSON}})
	return steps
}

func TestAnalyze_FullPipeline(t *testing.T) {
	fake := llmclient.NewFakeClient(goodScript()...)
	svc, projects, reports, broker := newTestService(t, fake)
	seedProject(t, projects)

	var stages []string
	defer broker.Subscribe("p1", func(u status.Update) {
		stages = append(stages, u.Stage)
	})()

	out, err := svc.Analyze(context.Background(), "p1", "u1", serviceFiles)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Status transitions.
	rec, _, _ := projects.Get(context.Background(), "p1")
	if rec.Status != project.StatusCompleted {
		t.Fatalf("status = %q, want completed", rec.Status)
	}

	// Stage sequence: bookkeeping stages around the six categories.
	want := []string{"starting", "preparing",
		"security", "code_quality", "performance", "bugs", "maintainability", "architecture",
		"scoring", "valuation", "completed"}
	if len(stages) != len(want) {
		t.Fatalf("stages = %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("stage %d = %q, want %q", i, stages[i], want[i])
		}
	}

	// Scores: all categories 7 -> overall 7.
	if out.Analysis.OverallScore != 7 {
		t.Fatalf("overall = %v, want 7", out.Analysis.OverallScore)
	}
	if out.Analysis.ID == "" {
		t.Fatal("analysis id not set")
	}

	// Persisted analysis matches the returned one.
	stored, ok, _ := reports.LatestAnalysis(context.Background(), "p1")
	if !ok || stored.ID != out.Analysis.ID {
		t.Fatalf("stored analysis = %+v", stored)
	}

	// One issue per category, six total.
	issues, _ := reports.IssuesByAnalysis(context.Background(), out.Analysis.ID)
	if len(issues) != 6 {
		t.Fatalf("issues = %d, want 6", len(issues))
	}

	// The valuation came from the model path.
	val, ok, _ := reports.LatestValuation(context.Background(), "p1")
	if !ok || val.EstimatedValue != 9000 {
		t.Fatalf("valuation = %+v", val)
	}

	// 6 categories + 1 valuation call.
	if fake.CallCount() != 7 {
		t.Fatalf("calls = %d, want 7", fake.CallCount())
	}
}

func TestAnalyze_BugsIssuesTaggedSingular(t *testing.T) {
	fake := llmclient.NewFakeClient(goodScript()...)
	svc, projects, reports, _ := newTestService(t, fake)
	seedProject(t, projects)

	out, err := svc.Analyze(context.Background(), "p1", "u1", serviceFiles)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	issues, _ := reports.IssuesByAnalysis(context.Background(), out.Analysis.ID)
	sawBug := false
	for _, issue := range issues {
		if issue.Category == "bugs" {
			t.Fatal(`bugs issues must be tagged "bug"`)
		}
		if issue.Category == "bug" {
			sawBug = true
		}
	}
	if !sawBug {
		t.Fatal(`expected an issue tagged "bug"`)
	}
}

func TestAnalyze_CategoryFailureMarksFailed(t *testing.T) {
	// Every response is garbage: the first category exhausts its
	// retries and the run fails fast.
	garbage := llmclient.FakeStep{Out: llmclient.Completion{Text: "not json"}}
	fake := llmclient.NewFakeClient(garbage)
	svc, projects, reports, broker := newTestService(t, fake)
	seedProject(t, projects)

	var last status.Update
	defer broker.Subscribe("p1", func(u status.Update) { last = u })()

	_, err := svc.Analyze(context.Background(), "p1", "u1", serviceFiles)
	if err == nil {
		t.Fatal("expected failure")
	}

	rec, _, _ := projects.Get(context.Background(), "p1")
	if rec.Status != project.StatusFailed {
		t.Fatalf("status = %q, want failed", rec.Status)
	}
	if last.Stage != "failed" {
		t.Fatalf("last stage = %q, want failed", last.Stage)
	}
	if _, ok, _ := reports.LatestAnalysis(context.Background(), "p1"); ok {
		t.Fatal("no analysis should be persisted on failure")
	}
}

func TestAnalyze_ValuationFallsBackToBasic(t *testing.T) {
	// Six good category responses, then garbage for the valuation.
	steps := goodScript()
	steps[6] = llmclient.FakeStep{Out: llmclient.Completion{Text: "not json"}}
	fake := llmclient.NewFakeClient(steps...)
	svc, projects, reports, _ := newTestService(t, fake)
	seedProject(t, projects)

	_, err := svc.Analyze(context.Background(), "p1", "u1", serviceFiles)
	if err != nil {
		t.Fatalf("valuation failure must not fail the run: %v", err)
	}

	rec, _, _ := projects.Get(context.Background(), "p1")
	if rec.Status != project.StatusCompleted {
		t.Fatalf("status = %q, want completed", rec.Status)
	}

	val, ok, _ := reports.LatestValuation(context.Background(), "p1")
	if !ok {
		t.Fatal("expected a fallback valuation")
	}
	// The arithmetic path stamps its fixed confidence.
	if val.ConfidenceLevel != 0.65 {
		t.Fatalf("confidence = %v, want the basic path's 0.65", val.ConfidenceLevel)
	}
}

func TestAnalyze_UnknownProject(t *testing.T) {
	fake := llmclient.NewFakeClient()
	svc, _, _, _ := newTestService(t, fake)

	if _, err := svc.Analyze(context.Background(), "ghost", "u1", serviceFiles); err == nil {
		t.Fatal("expected error for unknown project")
	}
	if fake.CallCount() != 0 {
		t.Fatal("no completion calls expected")
	}
}

func TestAnalyze_ArchivesRawResponses(t *testing.T) {
	fake := llmclient.NewFakeClient(goodScript()...)
	projects := project.NewMemoryStore()
	reports := report.NewMemoryStore()
	artifacts := artifact.NewMemoryStore()
	svc := NewAnalysisService(projects, reports, artifacts, fake, prompt.NewResolver(nil), status.NewBroker(), analysis.Config{})
	seedProject(t, projects)

	if _, err := svc.Analyze(context.Background(), "p1", "u1", serviceFiles); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	paths, err := artifacts.List(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list artifacts: %v", err)
	}
	// Six category responses are archived; the valuation call goes
	// through the unwrapped client.
	if len(paths) != 6 {
		t.Fatalf("archived responses = %d, want 6", len(paths))
	}
}
