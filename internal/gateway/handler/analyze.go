package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"codeappraise/internal/analysis"
	"codeappraise/internal/gateway/service"
	"codeappraise/internal/repository/project"
	"codeappraise/internal/repostats"
)

// analyzeTimeout bounds one full pipeline run; six categories with
// retries plus valuation comfortably fit.
const analyzeTimeout = 30 * time.Minute

type AnalyzeHandler struct {
	svc      *service.AnalysisService
	projects project.Store
}

func NewAnalyzeHandler(svc *service.AnalysisService, projects project.Store) *AnalyzeHandler {
	return &AnalyzeHandler{svc: svc, projects: projects}
}

// HandleAnalyze kicks off the pipeline for the submitted files and
// returns immediately; progress is streamed over the status endpoints.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		ProjectID string `json:"project_id"`
		UserID    string `json:"user_id"`
		Files     []struct {
			Path     string `json:"path"`
			Language string `json:"language"`
			Content  string `json:"content"`
		} `json:"files"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	if len(in.Files) == 0 {
		http.Error(w, "files are required", http.StatusBadRequest)
		return
	}

	files := make([]analysis.CodeFile, 0, len(in.Files))
	for _, f := range in.Files {
		path := strings.TrimSpace(f.Path)
		if path == "" || f.Content == "" {
			continue
		}
		files = append(files, analysis.CodeFile{
			Path:     path,
			Language: strings.TrimSpace(f.Language),
			Content:  f.Content,
		})
	}
	if len(files) == 0 {
		http.Error(w, "no usable files", http.StatusBadRequest)
		return
	}

	rec, ok, err := h.projects.Get(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}
	if rec.Status == project.StatusAnalyzing {
		http.Error(w, "analysis already in progress", http.StatusConflict)
		return
	}

	stats := repostats.Collect(files)
	rec.FileCount = stats.FileCount
	rec.TotalLines = stats.TotalLines
	rec.Languages = stats.Languages
	if err := h.projects.Put(r.Context(), rec); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	userID := strings.TrimSpace(in.UserID)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()
		if _, err := h.svc.Analyze(ctx, projectID, userID, files); err != nil {
			log.Printf("background analysis for project %s: %v", projectID, err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"project_id": projectID,
		"status":     project.StatusAnalyzing,
	})
}
