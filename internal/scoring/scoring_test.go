package scoring

import (
	"strings"
	"testing"

	"codeappraise/internal/analysis"

	"github.com/stretchr/testify/assert"
)

func scoresOf(sec, cq, perf, bugs, maint, arch float64) Scores {
	return Scores{
		analysis.CategorySecurity:        sec,
		analysis.CategoryCodeQuality:     cq,
		analysis.CategoryPerformance:     perf,
		analysis.CategoryBugs:            bugs,
		analysis.CategoryMaintainability: maint,
		analysis.CategoryArchitecture:    arch,
	}
}

func TestWeightsSumToOne(t *testing.T) {
	var sum float64
	for _, w := range Weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestOverall_Weighted(t *testing.T) {
	// 8*.25 + 7*.20 + 6*.15 + 7*.20 + 5*.10 + 6*.10 = 6.8
	got := Overall(scoresOf(8, 7, 6, 7, 5, 6))
	assert.Equal(t, 6.8, got)
}

func TestOverall_RoundsHalfUp(t *testing.T) {
	// 7*.25 + 7*.20 + 8*.15 + 7*.20 + 7*.10 + 7*.10 = 7.15 -> 7.2
	got := Overall(scoresOf(7, 7, 8, 7, 7, 7))
	assert.Equal(t, 7.2, got)
}

func TestOverall_Uniform(t *testing.T) {
	assert.Equal(t, 10.0, Overall(scoresOf(10, 10, 10, 10, 10, 10)))
	assert.Equal(t, 1.0, Overall(scoresOf(1, 1, 1, 1, 1, 1)))
}

func resultsWithIssues(perCategory int) map[analysis.Category]analysis.CategoryResult {
	out := make(map[analysis.Category]analysis.CategoryResult)
	for _, c := range analysis.Categories {
		issues := make([]analysis.Issue, perCategory)
		for i := range issues {
			issues[i] = analysis.Issue{Severity: analysis.SeverityMedium, Title: "x"}
		}
		out[c] = analysis.CategoryResult{Score: 5, Issues: issues}
	}
	return out
}

func TestConfidence_Baseline(t *testing.T) {
	got := Confidence(resultsWithIssues(3), 10, 1000)
	assert.Equal(t, 0.8, got)
}

func TestConfidence_AllPenalties(t *testing.T) {
	// 0.80 - 0.10 (files) - 0.10 (lines) - 0.05 (few issues) = 0.55
	got := Confidence(resultsWithIssues(1), 2, 50)
	assert.InDelta(t, 0.55, got, 1e-9)
}

func TestConfidence_Clamped(t *testing.T) {
	got := Confidence(nil, 0, 0)
	assert.GreaterOrEqual(t, got, 0.5)
	assert.LessOrEqual(t, got, 0.99)
}

func TestSummarize_Tiers(t *testing.T) {
	results := resultsWithIssues(0)
	cases := []struct {
		overall float64
		phrase  string
	}{
		{9.0, "excellent quality"},
		{6.5, "good quality"},
		{4.5, "moderate quality"},
		{2.0, "significant problems"},
	}
	for _, tc := range cases {
		got := Summarize(scoresOf(5, 5, 5, 5, 5, 5), tc.overall, results)
		assert.Contains(t, got, tc.phrase, "overall %.1f", tc.overall)
	}
}

func TestSummarize_CountsAndWeakest(t *testing.T) {
	results := map[analysis.Category]analysis.CategoryResult{
		analysis.CategorySecurity: {Issues: []analysis.Issue{
			{Severity: analysis.SeverityCritical},
			{Severity: analysis.SeverityHigh},
			{Severity: analysis.SeverityHigh},
		}},
	}
	scores := scoresOf(3, 7, 7, 7, 7, 7)
	got := Summarize(scores, 6.0, results)
	assert.Contains(t, got, "1 critical issue(s)")
	assert.Contains(t, got, "2 high-priority issue(s)")
	assert.Contains(t, got, "weakest area is security")
}

func TestSummarize_WeakestTieFirstWins(t *testing.T) {
	// security and bugs tie at 4; declared order puts security first.
	got := Summarize(scoresOf(4, 7, 7, 4, 7, 7), 5.6, nil)
	assert.True(t, strings.Contains(got, "weakest area is security"), got)
}

func TestFromResults(t *testing.T) {
	a := &analysis.CompleteAnalysis{
		Security:        analysis.CategoryResult{Score: 8},
		CodeQuality:     analysis.CategoryResult{Score: 7},
		Performance:     analysis.CategoryResult{Score: 6},
		Bugs:            analysis.CategoryResult{Score: 5},
		Maintainability: analysis.CategoryResult{Score: 4},
		Architecture:    analysis.CategoryResult{Score: 3},
	}
	scores := FromResults(a)
	assert.Equal(t, 8.0, scores[analysis.CategorySecurity])
	assert.Equal(t, 3.0, scores[analysis.CategoryArchitecture])
}
