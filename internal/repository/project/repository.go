// Package project persists project records: what to analyze and the
// per-project analysis configuration.
package project

import (
	"context"
	"time"
)

// Status values a project moves through.
const (
	StatusPending   = "pending"
	StatusAnalyzing = "analyzing"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one project.
type Record struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url"`
	FileCount   int       `json:"file_count"`
	TotalLines  int       `json:"total_lines"`
	Languages   []string  `json:"languages"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`

	// Analysis configuration, zero values mean "use defaults".
	Model         string  `json:"ai_model"`
	MaxTokens     int     `json:"max_tokens"`
	Temperature   float64 `json:"temperature"`
	RetryAttempts int     `json:"retry_attempts"`
}

// Store is the project CRUD surface.
type Store interface {
	Get(ctx context.Context, id string) (Record, bool, error)
	Put(ctx context.Context, rec Record) error
	SetStatus(ctx context.Context, id, status string) error
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}
