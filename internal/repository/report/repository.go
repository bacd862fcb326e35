// Package report persists completed analyses, their issues, and the
// associated valuations, keyed by project and ordered by creation time.
package report

import (
	"context"
	"time"

	"codeappraise/internal/analysis"
	"codeappraise/internal/valuation"
)

// AnalysisRecord is one persisted analysis run.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	OverallScore         float64 `json:"overall_score"`
	SecurityScore        float64 `json:"security_score"`
	CodeQualityScore     float64 `json:"code_quality_score"`
	PerformanceScore     float64 `json:"performance_score"`
	BugsScore            float64 `json:"bugs_score"`
	MaintainabilityScore float64 `json:"maintainability_score"`
	ArchitectureScore    float64 `json:"architecture_score"`

	DurationSeconds int      `json:"analysis_duration_seconds"`
	Model           string   `json:"ai_model"`
	ConfidenceLevel float64  `json:"confidence_level"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// IssueRecord is one persisted issue, tagged with its owning category.
type IssueRecord struct {
	ID         string `json:"id"`
	AnalysisID string `json:"analysis_id"`
	ProjectID  string `json:"project_id"`
	UserID     string `json:"user_id"`
	Category   string `json:"category"`
	Status     string `json:"status"`

	analysis.Issue
}

// ValuationRecord is one persisted valuation.
type ValuationRecord struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysis_id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`

	valuation.Result
}

// Store is the persistence surface for analysis outcomes.
type Store interface {
	InsertAnalysis(ctx context.Context, rec AnalysisRecord) (string, error)
	InsertIssues(ctx context.Context, issues []IssueRecord) error
	InsertValuation(ctx context.Context, rec ValuationRecord) error

	LatestAnalysis(ctx context.Context, projectID string) (AnalysisRecord, bool, error)
	IssuesByAnalysis(ctx context.Context, analysisID string) ([]IssueRecord, error)
	LatestValuation(ctx context.Context, projectID string) (ValuationRecord, bool, error)
}
