package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"codeappraise/internal/analysis"
	"codeappraise/internal/valuation"

	"github.com/google/uuid"
)

// PostgresStore persists analysis outcomes through database/sql with
// the pgx stdlib driver. Composite valuation fields are stored as
// JSONB rather than normalized columns.
type PostgresStore struct {
	db         *sql.DB
	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  user_id TEXT NOT NULL DEFAULT '',
  overall_score DOUBLE PRECISION NOT NULL,
  security_score DOUBLE PRECISION NOT NULL,
  code_quality_score DOUBLE PRECISION NOT NULL,
  performance_score DOUBLE PRECISION NOT NULL,
  bugs_score DOUBLE PRECISION NOT NULL,
  maintainability_score DOUBLE PRECISION NOT NULL,
  architecture_score DOUBLE PRECISION NOT NULL,
  analysis_duration_seconds INTEGER NOT NULL DEFAULT 0,
  ai_model TEXT NOT NULL DEFAULT '',
  confidence_level DOUBLE PRECISION NOT NULL DEFAULT 0,
  summary TEXT NOT NULL DEFAULT '',
  recommendations JSONB NOT NULL DEFAULT '[]',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_analyses_project_id ON analyses (project_id);

CREATE TABLE IF NOT EXISTS issues (
  id TEXT PRIMARY KEY,
  analysis_id TEXT NOT NULL,
  project_id TEXT NOT NULL,
  user_id TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  severity TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  file_path TEXT,
  line_number INTEGER,
  code_snippet TEXT,
  suggested_fix TEXT,
  status TEXT NOT NULL DEFAULT 'open'
);
CREATE INDEX IF NOT EXISTS idx_issues_analysis_id ON issues (analysis_id);

CREATE TABLE IF NOT EXISTS valuations (
  id TEXT PRIMARY KEY,
  analysis_id TEXT NOT NULL,
  project_id TEXT NOT NULL,
  user_id TEXT NOT NULL DEFAULT '',
  estimated_value DOUBLE PRECISION NOT NULL,
  min_value DOUBLE PRECISION NOT NULL,
  max_value DOUBLE PRECISION NOT NULL,
  is_asset_or_liability TEXT NOT NULL DEFAULT 'asset',
  confidence_level DOUBLE PRECISION NOT NULL DEFAULT 0,
  methodology TEXT NOT NULL DEFAULT '',
  detail JSONB NOT NULL DEFAULT '{}',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_valuations_project_id ON valuations (project_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) InsertAnalysis(ctx context.Context, rec AnalysisRecord) (string, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	recs, _ := json.Marshal(rec.Recommendations)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO analyses (
  id, project_id, user_id, overall_score, security_score, code_quality_score,
  performance_score, bugs_score, maintainability_score, architecture_score,
  analysis_duration_seconds, ai_model, confidence_level, summary, recommendations, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		rec.ID, rec.ProjectID, rec.UserID, rec.OverallScore, rec.SecurityScore,
		rec.CodeQualityScore, rec.PerformanceScore, rec.BugsScore,
		rec.MaintainabilityScore, rec.ArchitectureScore, rec.DurationSeconds,
		rec.Model, rec.ConfidenceLevel, rec.Summary, recs, rec.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}
	return rec.ID, nil
}

func (s *PostgresStore) InsertIssues(ctx context.Context, issues []IssueRecord) error {
	if len(issues) == 0 {
		return nil
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, issue := range issues {
		id := issue.ID
		if id == "" {
			id = uuid.NewString()
		}
		status := issue.Status
		if status == "" {
			status = "open"
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO issues (
  id, analysis_id, project_id, user_id, category, severity, title,
  description, file_path, line_number, code_snippet, suggested_fix, status
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			id, issue.AnalysisID, issue.ProjectID, issue.UserID, issue.Category,
			string(issue.Severity), issue.Title, issue.Description,
			nullStr(issue.FilePath), nullInt(issue.LineNumber),
			nullStr(issue.CodeSnippet), nullStr(issue.SuggestedFix), status)
		if err != nil {
			return fmt.Errorf("insert issue: %w", err)
		}
	}
	return tx.Commit()
}

func (s *PostgresStore) InsertValuation(ctx context.Context, rec ValuationRecord) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	detail, _ := json.Marshal(rec.Result)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO valuations (
  id, analysis_id, project_id, user_id, estimated_value, min_value, max_value,
  is_asset_or_liability, confidence_level, methodology, detail, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.AnalysisID, rec.ProjectID, rec.UserID,
		rec.EstimatedValue, rec.MinValue, rec.MaxValue, rec.IsAssetOrLiability,
		rec.ConfidenceLevel, rec.Methodology, detail, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert valuation: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestAnalysis(ctx context.Context, projectID string) (AnalysisRecord, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return AnalysisRecord{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, project_id, user_id, overall_score, security_score, code_quality_score,
       performance_score, bugs_score, maintainability_score, architecture_score,
       analysis_duration_seconds, ai_model, confidence_level, summary, recommendations, created_at
FROM analyses WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`, projectID)

	var rec AnalysisRecord
	var recs []byte
	err := row.Scan(
		&rec.ID, &rec.ProjectID, &rec.UserID, &rec.OverallScore, &rec.SecurityScore,
		&rec.CodeQualityScore, &rec.PerformanceScore, &rec.BugsScore,
		&rec.MaintainabilityScore, &rec.ArchitectureScore, &rec.DurationSeconds,
		&rec.Model, &rec.ConfidenceLevel, &rec.Summary, &recs, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return AnalysisRecord{}, false, nil
	}
	if err != nil {
		return AnalysisRecord{}, false, err
	}
	if len(recs) > 0 {
		_ = json.Unmarshal(recs, &rec.Recommendations)
	}
	return rec, true, nil
}

func (s *PostgresStore) IssuesByAnalysis(ctx context.Context, analysisID string) ([]IssueRecord, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, analysis_id, project_id, user_id, category, severity, title,
       description, file_path, line_number, code_snippet, suggested_fix, status
FROM issues WHERE analysis_id = $1 ORDER BY id`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []IssueRecord
	for rows.Next() {
		var rec IssueRecord
		var severity string
		var filePath, codeSnippet, suggestedFix sql.NullString
		var lineNumber sql.NullInt64
		err := rows.Scan(
			&rec.ID, &rec.AnalysisID, &rec.ProjectID, &rec.UserID, &rec.Category,
			&severity, &rec.Title, &rec.Description, &filePath, &lineNumber,
			&codeSnippet, &suggestedFix, &rec.Status,
		)
		if err != nil {
			return nil, err
		}
		rec.Severity = analysis.Severity(severity)
		rec.FilePath = filePath.String
		rec.LineNumber = int(lineNumber.Int64)
		rec.CodeSnippet = codeSnippet.String
		rec.SuggestedFix = suggestedFix.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LatestValuation(ctx context.Context, projectID string) (ValuationRecord, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return ValuationRecord{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, analysis_id, project_id, user_id, detail, created_at
FROM valuations WHERE project_id = $1 ORDER BY created_at DESC LIMIT 1`, projectID)

	var rec ValuationRecord
	var detail []byte
	err := row.Scan(&rec.ID, &rec.AnalysisID, &rec.ProjectID, &rec.UserID, &detail, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return ValuationRecord{}, false, nil
	}
	if err != nil {
		return ValuationRecord{}, false, err
	}
	var res valuation.Result
	if err := json.Unmarshal(detail, &res); err == nil {
		rec.Result = res
	}
	return rec, true, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
