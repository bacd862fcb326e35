// Package fixes generates concrete fix suggestions for detected issues
// with one single-shot completion call per issue.
package fixes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"codeappraise/internal/analysis"
	"codeappraise/internal/llmclient"
	"codeappraise/internal/util/jsonutil"
)

// Suggestion is a proposed fix for one issue.
type Suggestion struct {
	IssueTitle   string   `json:"issueTitle"`
	OriginalCode string   `json:"originalCode"`
	FixedCode    string   `json:"fixedCode"`
	Explanation  string   `json:"explanation"`
	Steps        []string `json:"steps"`
	Confidence   float64  `json:"confidence"`
}

// batchLimit caps how many issues a batch run will pay for.
const batchLimit = 10

const fixMaxTokens = 2000

// Generator produces fix suggestions. Like the valuation requestor it
// is single-shot: one call, one extraction attempt, no retry.
type Generator struct {
	Client llmclient.CompletionClient
	Model  string
}

func NewGenerator(client llmclient.CompletionClient, model string) *Generator {
	return &Generator{Client: client, Model: model}
}

// Suggest asks the model for a fix to one issue given the surrounding
// code.
func (g *Generator) Suggest(ctx context.Context, category analysis.Category, issue analysis.Issue, codeContext string) (Suggestion, error) {
	out, err := g.Client.Complete(ctx, llmclient.Request{
		Prompt:      buildFixPrompt(category, issue, codeContext),
		Model:       g.Model,
		MaxTokens:   fixMaxTokens,
		Temperature: 1,
	})
	if err != nil {
		return Suggestion{}, err
	}

	var parsed struct {
		FixedCode   string   `json:"fixedCode"`
		Explanation string   `json:"explanation"`
		Steps       []string `json:"steps"`
		Confidence  float64  `json:"confidence"`
	}
	if err := jsonutil.ExtractInto(out.Text, &parsed); err != nil {
		return Suggestion{}, fmt.Errorf("fixes: %w", err)
	}
	return Suggestion{
		IssueTitle:   issue.Title,
		OriginalCode: codeContext,
		FixedCode:    parsed.FixedCode,
		Explanation:  parsed.Explanation,
		Steps:        parsed.Steps,
		Confidence:   parsed.Confidence,
	}, nil
}

// SuggestBatch generates fixes for the critical and high severity
// issues, up to the batch limit. Per-issue failures are logged and
// skipped; the batch never fails as a whole.
func (g *Generator) SuggestBatch(ctx context.Context, category analysis.Category, issues []analysis.Issue, code map[string]string) []Suggestion {
	var out []Suggestion
	taken := 0
	for _, issue := range issues {
		if issue.Severity != analysis.SeverityCritical && issue.Severity != analysis.SeverityHigh {
			continue
		}
		if taken >= batchLimit {
			break
		}
		taken++

		codeContext := "Code not available"
		if issue.FilePath != "" {
			if c, ok := code[issue.FilePath]; ok {
				codeContext = c
			}
		}
		s, err := g.Suggest(ctx, category, issue, codeContext)
		if err != nil {
			log.Printf("fixes: suggestion for %q failed: %v", issue.Title, err)
			continue
		}
		out = append(out, s)
	}
	return out
}

func buildFixPrompt(category analysis.Category, issue analysis.Issue, codeContext string) string {
	var b strings.Builder
	b.WriteString("You are a software development expert. The following problem was detected in the code:\n\n")
	fmt.Fprintf(&b, "**Problem:** %s\n", issue.Title)
	fmt.Fprintf(&b, "**Description:** %s\n", issue.Description)
	fmt.Fprintf(&b, "**Category:** %s\n", category)
	fmt.Fprintf(&b, "**Severity:** %s\n", issue.Severity)
	if issue.FilePath != "" {
		fmt.Fprintf(&b, "**File:** %s\n", issue.FilePath)
	}
	if issue.LineNumber > 0 {
		fmt.Fprintf(&b, "**Line:** %d\n", issue.LineNumber)
	}
	fmt.Fprintf(&b, "\n**Current code:**\n```\n%s\n```\n", codeContext)
	b.WriteString(`
Please provide the corrected code, a clear explanation of the solution, the steps to apply it, and your confidence in the fix (0-100).

Respond in JSON format:
{
  "fixedCode": "corrected code here",
  "explanation": "explanation of the solution",
  "steps": ["step 1", "step 2"],
  "confidence": 85
}`)
	return b.String()
}
