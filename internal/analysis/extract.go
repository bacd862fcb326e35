package analysis

import (
	"codeappraise/internal/util/jsonutil"
)

// defaultSummary fills in when a parsed result carries no summary.
const defaultSummary = "Analysis completed"

// Extract recovers a CategoryResult from raw model output. The heavy
// lifting (locate, cleanup, truncation repair) lives in jsonutil; this
// layer adds the domain normalization that must hold regardless of
// which repair stage succeeded.
func Extract(raw string) (CategoryResult, error) {
	var res CategoryResult
	if err := jsonutil.ExtractInto(raw, &res); err != nil {
		return CategoryResult{}, &ExtractError{Err: err}
	}
	return Normalize(res), nil
}

// Normalize clamps the score into [1,10] and defaults the optional
// fields. Raw scores outside the range are clamped, not rejected.
func Normalize(res CategoryResult) CategoryResult {
	if res.Score < 1 {
		res.Score = 1
	}
	if res.Score > 10 {
		res.Score = 10
	}
	if res.Summary == "" {
		res.Summary = defaultSummary
	}
	if res.Issues == nil {
		res.Issues = []Issue{}
	}
	if res.Recommendations == nil {
		res.Recommendations = []string{}
	}
	return res
}
