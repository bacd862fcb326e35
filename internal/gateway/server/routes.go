package server

import (
	"net/http"

	"codeappraise/internal/gateway/handler"
	"codeappraise/internal/gateway/middleware"
)

func NewMux(
	projectHandler *handler.ProjectHandler,
	analyzeHandler *handler.AnalyzeHandler,
	reportHandler *handler.ReportHandler,
	statusHandler *handler.StatusHandler,
	promptHandler *handler.PromptHandler,
	fixesHandler *handler.FixesHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/projects/create", projectHandler.HandleCreate)
	mux.HandleFunc("/api/projects/get", projectHandler.HandleGet)
	mux.HandleFunc("/api/projects/list", projectHandler.HandleList)

	mux.HandleFunc("/api/analyze", analyzeHandler.HandleAnalyze)
	mux.HandleFunc("/api/report", reportHandler.HandleReport)
	mux.HandleFunc("/api/fixes/suggest", fixesHandler.HandleSuggest)
	mux.HandleFunc("/api/prompts", promptHandler.HandlePrompts)

	mux.HandleFunc("/api/status/stream", statusHandler.HandleStream)
	mux.HandleFunc("/ws/status", statusHandler.HandleStatusWS)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(mux)
}
