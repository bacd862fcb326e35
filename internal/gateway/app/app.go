package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"codeappraise/internal/analysis"
	"codeappraise/internal/fixes"
	"codeappraise/internal/gateway/config"
	"codeappraise/internal/gateway/handler"
	"codeappraise/internal/gateway/server"
	"codeappraise/internal/gateway/service"
	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
	"codeappraise/internal/status"
)

type App struct {
	server *server.Server
	stores *stores
	client llmclient.CompletionClient
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := initStores(cfg)
	if err != nil {
		return nil, err
	}

	client, err := initClient(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	client = llmclient.Chain(client, llmclient.WithLogging())

	defaults := analysis.Config{
		Model:         cfg.Analysis.Model,
		MaxTokens:     cfg.Analysis.MaxTokens,
		Temperature:   cfg.Analysis.Temperature,
		RetryAttempts: cfg.Analysis.RetryAttempts,
	}

	prompts := prompt.NewResolver(st.overrides)
	broker := status.NewBroker()
	analysisSvc := service.NewAnalysisService(st.projects, st.reports, st.artifacts, client, prompts, broker, defaults)
	fixGen := fixes.NewGenerator(client, cfg.Analysis.Model)

	mux := server.NewMux(
		handler.NewProjectHandler(st.projects),
		handler.NewAnalyzeHandler(analysisSvc, st.projects),
		handler.NewReportHandler(st.reports),
		handler.NewStatusHandler(broker),
		handler.NewPromptHandler(prompts),
		handler.NewFixesHandler(fixGen),
	)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
		stores: st,
		client: client,
	}, nil
}

// initClient picks the configured provider: Anthropic when an API key
// is present, Gemini otherwise.
func initClient(ctx context.Context) (llmclient.CompletionClient, error) {
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		client, err := llmclient.NewAnthropicClient(key)
		if err != nil {
			return nil, err
		}
		log.Printf("llm client: anthropic")
		return client, nil
	}
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "" {
		client, err := llmclient.NewGeminiClient(ctx)
		if err != nil {
			return nil, err
		}
		log.Printf("llm client: gemini")
		return client, nil
	}
	return nil, fmt.Errorf("no LLM provider configured: set ANTHROPIC_API_KEY or GEMINI_API_KEY")
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if closeErr := a.client.Close(); closeErr != nil {
		log.Printf("close llm client: %v", closeErr)
	}
	if closeErr := a.stores.Close(); closeErr != nil {
		log.Printf("close stores: %v", closeErr)
	}
	return err
}
