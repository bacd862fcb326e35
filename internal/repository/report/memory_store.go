package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps analysis records in process memory. Used when no
// DATABASE_URL is configured and in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	analyses   []AnalysisRecord
	issues     []IssueRecord
	valuations []ValuationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) InsertAnalysis(_ context.Context, rec AnalysisRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.analyses = append(s.analyses, rec)
	return rec.ID, nil
}

func (s *MemoryStore) InsertIssues(_ context.Context, issues []IssueRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, issue := range issues {
		if issue.ID == "" {
			issue.ID = uuid.NewString()
		}
		if issue.Status == "" {
			issue.Status = "open"
		}
		s.issues = append(s.issues, issue)
	}
	return nil
}

func (s *MemoryStore) InsertValuation(_ context.Context, rec ValuationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	s.valuations = append(s.valuations, rec)
	return nil
}

func (s *MemoryStore) LatestAnalysis(_ context.Context, projectID string) (AnalysisRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best AnalysisRecord
	found := false
	for _, rec := range s.analyses {
		if rec.ProjectID != projectID {
			continue
		}
		if !found || rec.CreatedAt.After(best.CreatedAt) {
			best = rec
			found = true
		}
	}
	return best, found, nil
}

func (s *MemoryStore) IssuesByAnalysis(_ context.Context, analysisID string) ([]IssueRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []IssueRecord
	for _, issue := range s.issues {
		if issue.AnalysisID == analysisID {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (s *MemoryStore) LatestValuation(_ context.Context, projectID string) (ValuationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var best ValuationRecord
	found := false
	for _, rec := range s.valuations {
		if rec.ProjectID != projectID {
			continue
		}
		if !found || rec.CreatedAt.After(best.CreatedAt) {
			best = rec
			found = true
		}
	}
	return best, found, nil
}
