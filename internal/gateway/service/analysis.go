// Package service runs the analysis job end to end: status tracking,
// the six category calls, score aggregation, persistence, and the
// valuation with its arithmetic fallback.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"codeappraise/internal/analysis"
	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
	"codeappraise/internal/repository/artifact"
	"codeappraise/internal/repository/project"
	"codeappraise/internal/repository/report"
	"codeappraise/internal/scoring"
	"codeappraise/internal/status"
	"codeappraise/internal/valuation"
)

// Stage tokens emitted around the per-category messages.
const (
	stageStarting  = "starting"
	stagePreparing = "preparing"
	stageScoring   = "scoring"
	stageValuation = "valuation"
	stageCompleted = "completed"
	stageFailed    = "failed"
)

type AnalysisService struct {
	Projects  project.Store
	Reports   report.Store
	Artifacts artifact.Store // optional, raw response archive
	Client    llmclient.CompletionClient
	Prompts   *prompt.Resolver
	Broker    *status.Broker
	Defaults  analysis.Config

	now func() time.Time
}

func NewAnalysisService(
	projects project.Store,
	reports report.Store,
	artifacts artifact.Store,
	client llmclient.CompletionClient,
	prompts *prompt.Resolver,
	broker *status.Broker,
	defaults analysis.Config,
) *AnalysisService {
	return &AnalysisService{
		Projects:  projects,
		Reports:   reports,
		Artifacts: artifacts,
		Client:    client,
		Prompts:   prompts,
		Broker:    broker,
		Defaults:  defaults,
		now:       time.Now,
	}
}

// Outcome is what one completed analysis run produced.
type Outcome struct {
	Analysis  report.AnalysisRecord
	Issues    []report.IssueRecord
	Valuation report.ValuationRecord
}

// Analyze runs the full pipeline for one project. On any category
// failure the project is marked failed and the error returned; a
// valuation failure never fails the run, it falls back to the
// arithmetic estimate.
func (s *AnalysisService) Analyze(ctx context.Context, projectID, userID string, files []analysis.CodeFile) (*Outcome, error) {
	rec, ok, err := s.Projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("project %s not found", projectID)
	}

	start := s.now()
	if err := s.Projects.SetStatus(ctx, projectID, project.StatusAnalyzing); err != nil {
		return nil, fmt.Errorf("mark analyzing: %w", err)
	}
	s.emit(projectID, project.StatusAnalyzing, stageStarting)
	s.emit(projectID, project.StatusAnalyzing, stagePreparing)

	cfg := s.configFor(rec)
	client := s.Client
	if s.Artifacts != nil {
		client = llmclient.Chain(client, llmclient.WithArchive(artifact.NewSink(s.Artifacts, projectID)))
	}

	runner := analysis.NewRunner(client, s.Prompts)
	orch := analysis.NewOrchestrator(runner, func(category analysis.Category, _ string) {
		s.emit(projectID, project.StatusAnalyzing, string(category))
	})

	complete, err := orch.RunAll(ctx, files, userID, cfg)
	if err != nil {
		s.fail(ctx, projectID, err)
		return nil, err
	}

	s.emit(projectID, project.StatusAnalyzing, stageScoring)
	results := complete.Results()
	scores := scoring.FromResults(complete)
	overall := scoring.Overall(scores)
	confidence := scoring.Confidence(results, rec.FileCount, rec.TotalLines)
	summary := scoring.Summarize(scores, overall, results)

	analysisRec := report.AnalysisRecord{
		ProjectID:            projectID,
		UserID:               userID,
		OverallScore:         overall,
		SecurityScore:        scores[analysis.CategorySecurity],
		CodeQualityScore:     scores[analysis.CategoryCodeQuality],
		PerformanceScore:     scores[analysis.CategoryPerformance],
		BugsScore:            scores[analysis.CategoryBugs],
		MaintainabilityScore: scores[analysis.CategoryMaintainability],
		ArchitectureScore:    scores[analysis.CategoryArchitecture],
		DurationSeconds:      int(s.now().Sub(start).Seconds()),
		Model:                cfg.Model,
		ConfidenceLevel:      confidence,
		Summary:              summary,
		Recommendations:      collectRecommendations(results),
		CreatedAt:            s.now(),
	}
	analysisID, err := s.Reports.InsertAnalysis(ctx, analysisRec)
	if err != nil {
		s.fail(ctx, projectID, err)
		return nil, fmt.Errorf("persist analysis: %w", err)
	}
	analysisRec.ID = analysisID

	issues := flattenIssues(analysisID, projectID, userID, results)
	if err := s.Reports.InsertIssues(ctx, issues); err != nil {
		s.fail(ctx, projectID, err)
		return nil, fmt.Errorf("persist issues: %w", err)
	}

	s.emit(projectID, project.StatusAnalyzing, stageValuation)
	valRes := s.valuate(ctx, rec, userID, cfg.Model, scores, overall)
	valRec := report.ValuationRecord{
		AnalysisID: analysisID,
		ProjectID:  projectID,
		UserID:     userID,
		Result:     valRes,
		CreatedAt:  s.now(),
	}
	if err := s.Reports.InsertValuation(ctx, valRec); err != nil {
		s.fail(ctx, projectID, err)
		return nil, fmt.Errorf("persist valuation: %w", err)
	}

	if err := s.Projects.SetStatus(ctx, projectID, project.StatusCompleted); err != nil {
		return nil, fmt.Errorf("mark completed: %w", err)
	}
	s.emit(projectID, project.StatusCompleted, stageCompleted)
	log.Printf("analysis for project %s completed in %ds (overall %.1f)",
		projectID, analysisRec.DurationSeconds, overall)

	return &Outcome{Analysis: analysisRec, Issues: issues, Valuation: valRec}, nil
}

// valuate tries the model path and falls back to the arithmetic
// estimate so every completed analysis carries a valuation.
func (s *AnalysisService) valuate(ctx context.Context, rec project.Record, userID, model string, scores scoring.Scores, overall float64) valuation.Result {
	in := valuation.Input{
		ProjectName:          rec.Name,
		Description:          rec.Description,
		FileCount:            rec.FileCount,
		TotalLines:           rec.TotalLines,
		Languages:            rec.Languages,
		OverallScore:         overall,
		SecurityScore:        scores[analysis.CategorySecurity],
		CodeQualityScore:     scores[analysis.CategoryCodeQuality],
		PerformanceScore:     scores[analysis.CategoryPerformance],
		BugsScore:            scores[analysis.CategoryBugs],
		MaintainabilityScore: scores[analysis.CategoryMaintainability],
		ArchitectureScore:    scores[analysis.CategoryArchitecture],
	}

	requestor := valuation.NewRequestor(s.Client, s.Prompts, model)
	res, err := requestor.Value(ctx, in, userID)
	if err != nil {
		log.Printf("valuation for project %s failed, using basic estimate: %v", rec.ID, err)
		return valuation.Basic(in)
	}
	return res
}

func (s *AnalysisService) fail(ctx context.Context, projectID string, cause error) {
	log.Printf("analysis for project %s failed: %v", projectID, cause)
	if err := s.Projects.SetStatus(ctx, projectID, project.StatusFailed); err != nil {
		log.Printf("mark project %s failed: %v", projectID, err)
	}
	s.emit(projectID, project.StatusFailed, stageFailed)
}

func (s *AnalysisService) emit(projectID, statusText, stage string) {
	if s.Broker != nil {
		s.Broker.Emit(projectID, statusText, stage)
	}
}

// configFor overlays per-project settings on the service defaults.
func (s *AnalysisService) configFor(rec project.Record) analysis.Config {
	cfg := s.Defaults
	if rec.Model != "" {
		cfg.Model = rec.Model
	}
	if rec.MaxTokens > 0 {
		cfg.MaxTokens = rec.MaxTokens
	}
	if rec.Temperature > 0 {
		cfg.Temperature = rec.Temperature
	}
	if rec.RetryAttempts > 0 {
		cfg.RetryAttempts = rec.RetryAttempts
	}
	return cfg
}

// issueCategoryTag maps the bugs category to its singular issue tag.
func issueCategoryTag(c analysis.Category) string {
	if c == analysis.CategoryBugs {
		return "bug"
	}
	return string(c)
}

func flattenIssues(analysisID, projectID, userID string, results map[analysis.Category]analysis.CategoryResult) []report.IssueRecord {
	var out []report.IssueRecord
	for _, category := range analysis.Categories {
		res := results[category]
		for _, issue := range res.Issues {
			out = append(out, report.IssueRecord{
				AnalysisID: analysisID,
				ProjectID:  projectID,
				UserID:     userID,
				Category:   issueCategoryTag(category),
				Status:     "open",
				Issue:      issue,
			})
		}
	}
	return out
}

func collectRecommendations(results map[analysis.Category]analysis.CategoryResult) []string {
	var out []string
	for _, category := range analysis.Categories {
		out = append(out, results[category].Recommendations...)
	}
	return out
}
