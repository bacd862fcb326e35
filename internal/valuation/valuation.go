// Package valuation estimates the monetary value of a codebase. The
// primary path is a single-shot completion call; the basic path is a
// pure arithmetic fallback so the pipeline always produces a valuation.
package valuation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
	"codeappraise/internal/util/jsonutil"
)

// Input carries the project and quality numbers the valuation is based on.
type Input struct {
	ProjectName string
	Description string
	FileCount   int
	TotalLines  int
	Languages   []string

	OverallScore         float64
	SecurityScore        float64
	CodeQualityScore     float64
	PerformanceScore     float64
	BugsScore            float64
	MaintainabilityScore float64
	ArchitectureScore    float64
}

// CostBreakdown itemizes the reconstruction baseline.
type CostBreakdown struct {
	ReconstructionCost float64 `json:"reconstructionCost"`
	DevelopmentHours   float64 `json:"developmentHours"`
	AverageHourlyRate  float64 `json:"averageHourlyRate"`
	Region             string  `json:"region"`
}

type DepreciationFactors struct {
	AgeDepreciation   float64 `json:"ageDepreciation"`
	TechnicalDebt     float64 `json:"technicalDebt"`
	ObsolescenceFactor float64 `json:"obsolescenceFactor"`
	QualityMultiplier float64 `json:"qualityMultiplier"`
}

type ValueIncrements struct {
	TestCoverage  float64 `json:"testCoverage"`
	Documentation float64 `json:"documentation"`
	Security      float64 `json:"security"`
	ActiveUsers   float64 `json:"activeUsers"`
	Revenue       float64 `json:"revenue"`
}

type AnnualCosts struct {
	Maintenance              float64 `json:"maintenance"`
	Infrastructure           float64 `json:"infrastructure"`
	TechnicalDebtRemediation float64 `json:"technicalDebtRemediation"`
}

type QualityMetrics struct {
	CodeQualityScore     float64 `json:"codeQualityScore"`
	TestCoverage         float64 `json:"testCoverage"`
	SecurityScore        float64 `json:"securityScore"`
	DocumentationScore   float64 `json:"documentationScore"`
	MaintainabilityIndex float64 `json:"maintainabilityIndex"`
}

type RiskFactor struct {
	Factor      string `json:"factor"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

type ComparableProject struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	EstimatedValue float64 `json:"estimatedValue"`
	Similarity     float64 `json:"similarity"`
	Source         string  `json:"source,omitempty"`
}

// Result is the comprehensive valuation record.
type Result struct {
	EstimatedValue     float64 `json:"estimatedValue"`
	MinValue           float64 `json:"minValue"`
	MaxValue           float64 `json:"maxValue"`
	IsAssetOrLiability string  `json:"isAssetOrLiability"`

	CostBreakdown       CostBreakdown       `json:"costBreakdown"`
	DepreciationFactors DepreciationFactors `json:"depreciationFactors"`
	ValueIncrements     ValueIncrements     `json:"valueIncrements"`
	AnnualCosts         AnnualCosts         `json:"annualCosts"`
	QualityMetrics      QualityMetrics      `json:"qualityMetrics"`

	RiskFactors        []RiskFactor        `json:"riskFactors"`
	ComparableProjects []ComparableProject `json:"comparableProjects"`

	ConfidenceLevel float64  `json:"confidenceLevel"`
	Methodology     string   `json:"methodology"`
	Assumptions     []string `json:"assumptions"`
	Recommendations []string `json:"recommendations"`
	Notes           string   `json:"notes"`
}

// Error is the terminal failure of the model-based valuation path. The
// caller must fall back to Basic rather than surface it to the user.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("valuation: %v", e.Err) }
func (e *Error) Unwrap() error { return e.Err }

const valuationMaxTokens = 2048

// Requestor performs the model-based valuation. It is a single-shot
// sibling of the category pipeline: one prompt, one completion call,
// one extraction attempt, no retry escalation.
type Requestor struct {
	Client  llmclient.CompletionClient
	Prompts *prompt.Resolver
	Model   string
}

func NewRequestor(client llmclient.CompletionClient, prompts *prompt.Resolver, model string) *Requestor {
	return &Requestor{Client: client, Prompts: prompts, Model: model}
}

// Value requests a monetary estimate from the model.
func (r *Requestor) Value(ctx context.Context, in Input, userID string) (Result, error) {
	methodology := r.Prompts.Resolve(ctx, userID, prompt.TypeValuation)
	full := buildValuationPrompt(methodology, in)

	out, err := r.Client.Complete(ctx, llmclient.Request{
		Prompt:      full,
		Model:       r.Model,
		MaxTokens:   valuationMaxTokens,
		Temperature: 1,
	})
	if err != nil {
		return Result{}, &Error{Err: err}
	}

	var res Result
	if err := jsonutil.ExtractInto(out.Text, &res); err != nil {
		return Result{}, &Error{Err: err}
	}
	return normalize(res), nil
}

// normalize clamps the headline numbers into their sane floors.
func normalize(res Result) Result {
	res.EstimatedValue = math.Max(1000, res.EstimatedValue)
	res.MinValue = math.Max(500, res.MinValue)
	res.MaxValue = math.Max(res.EstimatedValue, res.MaxValue)
	res.ConfidenceLevel = math.Max(0.5, math.Min(0.99, res.ConfidenceLevel))
	return res
}

func buildValuationPrompt(methodology string, in Input) string {
	var b strings.Builder
	b.WriteString(methodology)
	b.WriteString("\n\nPROJECT INFORMATION:\n")
	fmt.Fprintf(&b, "- Name: %s\n", in.ProjectName)
	desc := in.Description
	if strings.TrimSpace(desc) == "" {
		desc = "Not provided"
	}
	fmt.Fprintf(&b, "- Description: %s\n", desc)
	fmt.Fprintf(&b, "- Files: %d\n", in.FileCount)
	fmt.Fprintf(&b, "- Lines of code: %d\n", in.TotalLines)
	fmt.Fprintf(&b, "- Languages: %s\n", strings.Join(in.Languages, ", "))
	b.WriteString("\nQUALITY SCORES (1-10 scale):\n")
	fmt.Fprintf(&b, "- Overall: %v/10\n", in.OverallScore)
	fmt.Fprintf(&b, "- Security: %v/10\n", in.SecurityScore)
	fmt.Fprintf(&b, "- Code Quality: %v/10\n", in.CodeQualityScore)
	fmt.Fprintf(&b, "- Performance: %v/10\n", in.PerformanceScore)
	fmt.Fprintf(&b, "- Bug Detection: %v/10\n", in.BugsScore)
	fmt.Fprintf(&b, "- Maintainability: %v/10\n", in.MaintainabilityScore)
	fmt.Fprintf(&b, "- Architecture: %v/10\n", in.ArchitectureScore)
	b.WriteString("\nProvide a detailed monetary valuation in USD. Respond ONLY with the requested JSON, no additional text.")
	return b.String()
}
