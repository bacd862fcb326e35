package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// PostgresStore persists projects through database/sql with the pgx
// stdlib driver.
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
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL DEFAULT 'Project',
  description TEXT NOT NULL DEFAULT '',
  repo_url TEXT NOT NULL DEFAULT '',
  file_count INTEGER NOT NULL DEFAULT 0,
  total_lines INTEGER NOT NULL DEFAULT 0,
  languages JSONB NOT NULL DEFAULT '[]',
  status TEXT NOT NULL DEFAULT 'pending',
  ai_model TEXT NOT NULL DEFAULT '',
  max_tokens INTEGER NOT NULL DEFAULT 0,
  temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
  retry_attempts INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects (user_id);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Record{}, false, err
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, user_id, name, description, repo_url, file_count, total_lines,
       languages, status, ai_model, max_tokens, temperature, retry_attempts, created_at
FROM projects WHERE id = $1`, strings.TrimSpace(id))
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

func (s *PostgresStore) Put(ctx context.Context, rec Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	langs, _ := json.Marshal(rec.Languages)
	_, err := s.db.ExecContext(ctx, `
INSERT INTO projects (
  id, user_id, name, description, repo_url, file_count, total_lines,
  languages, status, ai_model, max_tokens, temperature, retry_attempts, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id)
DO UPDATE SET user_id=EXCLUDED.user_id,
  name=EXCLUDED.name,
  description=EXCLUDED.description,
  repo_url=EXCLUDED.repo_url,
  file_count=EXCLUDED.file_count,
  total_lines=EXCLUDED.total_lines,
  languages=EXCLUDED.languages,
  status=EXCLUDED.status,
  ai_model=EXCLUDED.ai_model,
  max_tokens=EXCLUDED.max_tokens,
  temperature=EXCLUDED.temperature,
  retry_attempts=EXCLUDED.retry_attempts`,
		rec.ID, rec.UserID, rec.Name, rec.Description, rec.RepoURL,
		rec.FileCount, rec.TotalLines, langs, rec.Status,
		rec.Model, rec.MaxTokens, rec.Temperature, rec.RetryAttempts, rec.CreatedAt)
	return err
}

func (s *PostgresStore) SetStatus(ctx context.Context, id, status string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE projects SET status = $2 WHERE id = $1`, strings.TrimSpace(id), status)
	return err
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, user_id, name, description, repo_url, file_count, total_lines,
       languages, status, ai_model, max_tokens, temperature, retry_attempts, created_at
FROM projects WHERE user_id = $1 ORDER BY created_at DESC`, strings.TrimSpace(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var langs []byte
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Description, &rec.RepoURL,
		&rec.FileCount, &rec.TotalLines, &langs, &rec.Status,
		&rec.Model, &rec.MaxTokens, &rec.Temperature, &rec.RetryAttempts, &rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	if len(langs) > 0 {
		_ = json.Unmarshal(langs, &rec.Languages)
	}
	return rec, nil
}
