package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"codeappraise/internal/repository/report"
)

type ReportHandler struct {
	reports report.Store
}

func NewReportHandler(reports report.Store) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// HandleReport returns the latest analysis, its issues, and the latest
// valuation for a project.
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	analysisRec, ok, err := h.reports.LatestAnalysis(r.Context(), projectID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "no analysis for project", http.StatusNotFound)
		return
	}

	issues, err := h.reports.IssuesByAnalysis(r.Context(), analysisRec.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := map[string]any{
		"analysis": analysisRec,
		"issues":   issues,
	}
	if valRec, ok, err := h.reports.LatestValuation(r.Context(), projectID); err == nil && ok {
		out["valuation"] = valRec
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
