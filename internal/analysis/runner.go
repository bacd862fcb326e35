package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
)

// retryBackoff is the fixed wait before re-running the full cycle after
// an extraction failure.
const retryBackoff = time.Second

var promptTypeByCategory = map[Category]prompt.Type{
	CategorySecurity:        prompt.TypeSecurity,
	CategoryCodeQuality:     prompt.TypeCodeQuality,
	CategoryPerformance:     prompt.TypePerformance,
	CategoryBugs:            prompt.TypeBugs,
	CategoryMaintainability: prompt.TypeMaintainability,
	CategoryArchitecture:    prompt.TypeArchitecture,
}

// Runner drives one category analysis: resolve the prompt, call the
// completion backend, extract a structured result, and retry the whole
// cycle with an escalated token budget on structural failure.
//
// Completion errors are not retried here. The retry budget is reserved
// for extraction failures, which tend to be model variance that a
// repeat request avoids; transport failures are the caller's decision.
type Runner struct {
	Client  llmclient.CompletionClient
	Prompts *prompt.Resolver

	// sleep is swappable in tests. Defaults to time.Sleep.
	sleep func(time.Duration)
}

func NewRunner(client llmclient.CompletionClient, prompts *prompt.Resolver) *Runner {
	return &Runner{Client: client, Prompts: prompts, sleep: time.Sleep}
}

// Run analyzes files for one category. The token budget is
// cfg.MaxTokens on the first attempt and min(2*cfg.MaxTokens, 200000)
// on every later attempt; it escalates once, not per retry.
func (r *Runner) Run(ctx context.Context, category Category, files []CodeFile, userID string, cfg Config) (CategoryResult, error) {
	cfg = cfg.withDefaults()

	pt, ok := promptTypeByCategory[category]
	if !ok {
		return CategoryResult{}, fmt.Errorf("analysis: unknown category %q", category)
	}

	var lastExtract error
	for attempt := 0; attempt <= cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			log.Printf("analysis %s: retrying with increased token budget (attempt %d/%d)",
				category, attempt+1, cfg.RetryAttempts+1)
			r.wait(retryBackoff)
		}

		// Preparing: a retry re-resolves the prompt and rebuilds the
		// combined text; the fresh completion call is deliberate.
		promptText := r.Prompts.Resolve(ctx, userID, pt)
		combined := buildPrompt(promptText, files)

		budget := cfg.MaxTokens
		if attempt > 0 {
			budget = min(cfg.MaxTokens*2, maxTokenBudget)
		}

		out, err := r.Client.Complete(ctx, llmclient.Request{
			Prompt:      combined,
			Model:       cfg.Model,
			MaxTokens:   budget,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			// Transport and configuration failures propagate unmodified.
			return CategoryResult{}, err
		}
		if out.Truncated {
			log.Printf("analysis %s: response truncated at the token ceiling", category)
		}

		res, err := Extract(out.Text)
		if err == nil {
			log.Printf("analysis %s: completed with %d issues (attempt %d)",
				category, len(res.Issues), attempt+1)
			return res, nil
		}

		var ee *ExtractError
		if !errors.As(err, &ee) {
			return CategoryResult{}, err
		}
		logExtractFailure(category, ee)
		lastExtract = err
	}

	return CategoryResult{}, &CategoryError{
		Category: category,
		Attempts: cfg.RetryAttempts + 1,
		Err:      lastExtract,
	}
}

func (r *Runner) wait(d time.Duration) {
	if r.sleep != nil {
		r.sleep(d)
		return
	}
	time.Sleep(d)
}

// buildPrompt concatenates the category prompt with the serialized file
// contents into a single completion request.
func buildPrompt(promptText string, files []CodeFile) string {
	var b strings.Builder
	b.WriteString(promptText)
	b.WriteString("\n\nCODE TO ANALYZE:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "\n=== File: %s (%s) ===\n%s\n", f.Path, f.Language, f.Content)
	}
	b.WriteString("\nIMPORTANT: Respond ONLY with a valid, complete JSON object. Make sure every string is properly closed and the JSON is parseable. Limit the response to the most critical problems if needed to stay within the token limit.")
	return b.String()
}

func logExtractFailure(category Category, ee *ExtractError) {
	head, tail := ee.Excerpts()
	if head != "" {
		log.Printf("analysis %s: raw response head: %s", category, head)
	}
	if tail != "" {
		log.Printf("analysis %s: raw response tail: %s", category, tail)
	}
	log.Printf("analysis %s: extraction failed: %v", category, ee.Err)
}
