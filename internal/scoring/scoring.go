// Package scoring combines the six category scores into the overall
// quality score, a confidence level, and a natural-language summary.
// Everything here is a pure function over already-extracted results.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"codeappraise/internal/analysis"
)

// Weights per category. Must sum to 1.0.
var Weights = map[analysis.Category]float64{
	analysis.CategorySecurity:        0.25,
	analysis.CategoryCodeQuality:     0.20,
	analysis.CategoryPerformance:     0.15,
	analysis.CategoryBugs:            0.20,
	analysis.CategoryMaintainability: 0.10,
	analysis.CategoryArchitecture:    0.10,
}

// Scores holds the six category scores.
type Scores map[analysis.Category]float64

// FromResults picks the scores out of a complete analysis.
func FromResults(a *analysis.CompleteAnalysis) Scores {
	out := make(Scores, len(analysis.Categories))
	for _, c := range analysis.Categories {
		out[c] = a.Result(c).Score
	}
	return out
}

// Overall computes the weighted overall score, rounded to one decimal
// place (half away from zero).
func Overall(scores Scores) float64 {
	var sum float64
	for _, c := range analysis.Categories {
		sum += scores[c] * Weights[c]
	}
	return math.Round(sum*10) / 10
}

// Confidence derives a confidence level from dataset-size signals. It
// is a fixed linear heuristic, not a calibrated probability: the
// completion backend offers no better signal.
func Confidence(results map[analysis.Category]analysis.CategoryResult, fileCount, totalLines int) float64 {
	confidence := 0.80
	if fileCount < 3 {
		confidence -= 0.10
	}
	if totalLines < 100 {
		confidence -= 0.10
	}

	if len(results) > 0 {
		total := 0
		for _, res := range results {
			total += len(res.Issues)
		}
		avg := float64(total) / float64(len(results))
		if avg < 2 {
			confidence -= 0.05
		}
	}

	return math.Max(0.50, math.Min(0.99, confidence))
}

var categoryLabels = map[analysis.Category]string{
	analysis.CategorySecurity:        "security",
	analysis.CategoryCodeQuality:     "code quality",
	analysis.CategoryPerformance:     "performance",
	analysis.CategoryBugs:            "bug detection",
	analysis.CategoryMaintainability: "maintainability",
	analysis.CategoryArchitecture:    "architecture",
}

// Summarize composes a deterministic natural-language summary: overall
// score with a quality tier, critical/high issue counts when nonzero,
// and the single weakest category (first occurrence wins on ties,
// scanning categories in declared order).
func Summarize(scores Scores, overall float64, results map[analysis.Category]analysis.CategoryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %v/10. ", overall)

	switch {
	case overall >= 8:
		b.WriteString("The code has excellent quality with few areas for improvement. ")
	case overall >= 6:
		b.WriteString("The code has good quality but there are areas that require attention. ")
	case overall >= 4:
		b.WriteString("The code has moderate quality with several areas that need improvement. ")
	default:
		b.WriteString("The code has significant problems that require immediate attention. ")
	}

	critical, high := 0, 0
	for _, res := range results {
		for _, issue := range res.Issues {
			switch issue.Severity {
			case analysis.SeverityCritical:
				critical++
			case analysis.SeverityHigh:
				high++
			}
		}
	}
	if critical > 0 {
		fmt.Fprintf(&b, "%d critical issue(s) were found that must be resolved urgently. ", critical)
	}
	if high > 0 {
		fmt.Fprintf(&b, "There are %d high-priority issue(s). ", high)
	}

	weakest := analysis.Categories[0]
	for _, c := range analysis.Categories[1:] {
		if scores[c] < scores[weakest] {
			weakest = c
		}
	}
	fmt.Fprintf(&b, "The weakest area is %s with a score of %v/10.", categoryLabels[weakest], scores[weakest])

	return b.String()
}
