package promptoverride

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"codeappraise/internal/prompt"
)

// PostgresStore persists per-user prompt overrides, one row per
// (user_id, prompt_type) pair.
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
CREATE TABLE IF NOT EXISTS prompt_overrides (
  user_id TEXT NOT NULL,
  prompt_type TEXT NOT NULL,
  content TEXT NOT NULL,
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  PRIMARY KEY (user_id, prompt_type)
);
`)
	})
	return s.schemaErr
}

func (s *PostgresStore) Get(ctx context.Context, userID string, t prompt.Type) (string, bool, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return "", false, err
	}
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM prompt_overrides WHERE user_id=$1 AND prompt_type=$2`,
		userID, string(t)).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return content, true, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID string, t prompt.Type, text string) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO prompt_overrides (user_id, prompt_type, content, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, prompt_type)
DO UPDATE SET content=EXCLUDED.content, updated_at=EXCLUDED.updated_at`,
		userID, string(t), text, time.Now())
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, userID string, t prompt.Type) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM prompt_overrides WHERE user_id=$1 AND prompt_type=$2`,
		userID, string(t))
	return err
}
