package cli

import (
	"fmt"
	"os"
	"strings"

	"codeappraise/internal/analysis"
	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
	"codeappraise/internal/repostats"
	"codeappraise/internal/scoring"
	"codeappraise/internal/valuation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeFlags struct {
	model         string
	maxTokens     int
	retryAttempts int
	skipValuation bool
	basicOnly     bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Run the full analysis against a local directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFlags.model, "model", "", "model override")
	analyzeCmd.Flags().IntVar(&analyzeFlags.maxTokens, "max-tokens", 0, "token budget for the first attempt")
	analyzeCmd.Flags().IntVar(&analyzeFlags.retryAttempts, "retry-attempts", 0, "extraction retries per category")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.skipValuation, "skip-valuation", false, "skip the valuation step")
	analyzeCmd.Flags().BoolVar(&analyzeFlags.basicOnly, "basic-valuation", false, "use the arithmetic valuation only")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	files, err := repostats.LoadDir(root)
	if err != nil {
		return fmt.Errorf("load %s: %w", root, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no analyzable files under %s", root)
	}
	stats := repostats.Collect(files)
	fmt.Printf("Loaded %d files, %d lines (%s)\n",
		stats.FileCount, stats.TotalLines, strings.Join(stats.Languages, ", "))

	client, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	cfg := analysis.Config{
		Model:         analyzeFlags.model,
		MaxTokens:     analyzeFlags.maxTokens,
		RetryAttempts: analyzeFlags.retryAttempts,
	}

	prompts := prompt.NewResolver(nil)
	runner := analysis.NewRunner(client, prompts)
	orch := analysis.NewOrchestrator(runner, func(_ analysis.Category, message string) {
		color.New(color.FgCyan).Fprintln(cmd.OutOrStdout(), message)
	})

	complete, err := orch.RunAll(rootCtx, files, "", cfg)
	if err != nil {
		return err
	}

	results := complete.Results()
	scores := scoring.FromResults(complete)
	overall := scoring.Overall(scores)
	confidence := scoring.Confidence(results, stats.FileCount, stats.TotalLines)
	summary := scoring.Summarize(scores, overall, results)

	writeScoreTable(cmd.OutOrStdout(), scores, overall, confidence)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), summary)
	writeIssueTable(cmd.OutOrStdout(), results)

	if analyzeFlags.skipValuation {
		return nil
	}

	in := valuation.Input{
		ProjectName:          root,
		FileCount:            stats.FileCount,
		TotalLines:           stats.TotalLines,
		Languages:            stats.Languages,
		OverallScore:         overall,
		SecurityScore:        scores[analysis.CategorySecurity],
		CodeQualityScore:     scores[analysis.CategoryCodeQuality],
		PerformanceScore:     scores[analysis.CategoryPerformance],
		BugsScore:            scores[analysis.CategoryBugs],
		MaintainabilityScore: scores[analysis.CategoryMaintainability],
		ArchitectureScore:    scores[analysis.CategoryArchitecture],
	}

	var valRes valuation.Result
	if analyzeFlags.basicOnly {
		valRes = valuation.Basic(in)
	} else {
		requestor := valuation.NewRequestor(client, prompts, cfg.Model)
		valRes, err = requestor.Value(rootCtx, in, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "valuation failed, using basic estimate: %v\n", err)
			valRes = valuation.Basic(in)
		}
	}
	writeValuation(cmd.OutOrStdout(), valRes)
	return nil
}

func newClient() (llmclient.CompletionClient, error) {
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		return llmclient.NewAnthropicClient(key)
	}
	if strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "" {
		return llmclient.NewGeminiClient(rootCtx)
	}
	return nil, fmt.Errorf("no LLM provider configured: set ANTHROPIC_API_KEY or GEMINI_API_KEY")
}
