package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"codeappraise/internal/prompt"
)

type PromptHandler struct {
	resolver *prompt.Resolver
}

func NewPromptHandler(resolver *prompt.Resolver) *PromptHandler {
	return &PromptHandler{resolver: resolver}
}

func parsePromptType(raw string) (prompt.Type, bool) {
	t := prompt.Type(strings.TrimSpace(raw))
	for _, known := range prompt.Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// HandlePrompts serves the effective prompt set for a user and the
// override save/reset operations on a single endpoint.
func (h *PromptHandler) HandlePrompts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPut, http.MethodPost:
		h.save(w, r)
	case http.MethodDelete:
		h.reset(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *PromptHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	prompts := h.resolver.ResolveAll(r.Context(), userID)
	out := make(map[string]string, len(prompts))
	for t, text := range prompts {
		out[string(t)] = text
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"prompts": out,
	})
}

func (h *PromptHandler) save(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID  string `json:"user_id"`
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	userID := strings.TrimSpace(in.UserID)
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	t, ok := parsePromptType(in.Type)
	if !ok {
		http.Error(w, "unknown prompt type", http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(in.Content)
	if content == "" {
		http.Error(w, "content is required", http.StatusBadRequest)
		return
	}
	if err := h.resolver.Save(r.Context(), userID, t, content); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
	})
}

func (h *PromptHandler) reset(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}
	t, ok := parsePromptType(r.URL.Query().Get("type"))
	if !ok {
		http.Error(w, "unknown prompt type", http.StatusBadRequest)
		return
	}
	if err := h.resolver.Reset(r.Context(), userID, t); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"ok": true,
	})
}
