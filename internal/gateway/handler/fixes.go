package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"codeappraise/internal/analysis"
	"codeappraise/internal/fixes"
)

type FixesHandler struct {
	generator *fixes.Generator
}

func NewFixesHandler(generator *fixes.Generator) *FixesHandler {
	return &FixesHandler{generator: generator}
}

// HandleSuggest generates fix suggestions for the submitted issues.
// Code snippets are supplied by the caller, keyed by file path.
func (h *FixesHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Category string            `json:"category"`
		Issues   []analysis.Issue  `json:"issues"`
		Code     map[string]string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	category := analysis.Category(strings.TrimSpace(in.Category))
	valid := false
	for _, c := range analysis.Categories {
		if category == c {
			valid = true
			break
		}
	}
	if !valid {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	if len(in.Issues) == 0 {
		http.Error(w, "issues are required", http.StatusBadRequest)
		return
	}

	suggestions := h.generator.SuggestBatch(r.Context(), category, in.Issues, in.Code)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"suggestions": suggestions,
	})
}
