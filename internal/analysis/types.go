package analysis

import "strings"

// Category is one of the six fixed analysis dimensions.
type Category string

const (
	CategorySecurity        Category = "security"
	CategoryCodeQuality     Category = "code_quality"
	CategoryPerformance     Category = "performance"
	CategoryBugs            Category = "bugs"
	CategoryMaintainability Category = "maintainability"
	CategoryArchitecture    Category = "architecture"
)

// Categories lists the fixed analysis categories in execution order.
// The orchestrator runs them sequentially in exactly this order.
var Categories = []Category{
	CategorySecurity,
	CategoryCodeQuality,
	CategoryPerformance,
	CategoryBugs,
	CategoryMaintainability,
	CategoryArchitecture,
}

// ValidCategory reports whether s names one of the six fixed categories.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == strings.TrimSpace(s) {
			return true
		}
	}
	return false
}

// Severity classifies a detected issue. Closed set.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Issue is a single problem detected in one category's response.
// Issues are never mutated after extraction; the caller tags them
// with their owning category when flattening across categories.
type Issue struct {
	Severity    Severity `json:"severity"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	FilePath    string   `json:"file_path,omitempty"`
	LineNumber  int      `json:"line_number,omitempty"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	SuggestedFix string  `json:"suggested_fix,omitempty"`

	// Category-specific annotations. At most one of these is set,
	// depending on which prompt produced the issue.
	Impact              string `json:"impact,omitempty"`
	PerformanceImpact   string `json:"performance_impact,omitempty"`
	Reproduction        string `json:"reproduction,omitempty"`
	ArchitecturalImpact string `json:"architectural_impact,omitempty"`
}

// CategoryResult is the structured output of one category analysis.
// Score is always in [1,10] after extraction; out-of-range raw values
// are clamped, not rejected.
type CategoryResult struct {
	Score           float64  `json:"score"`
	Summary         string   `json:"summary"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// CompleteAnalysis holds exactly one result per fixed category.
type CompleteAnalysis struct {
	Security        CategoryResult
	CodeQuality     CategoryResult
	Performance     CategoryResult
	Bugs            CategoryResult
	Maintainability CategoryResult
	Architecture    CategoryResult
}

// Result returns the result for the given category.
func (a *CompleteAnalysis) Result(c Category) CategoryResult {
	switch c {
	case CategorySecurity:
		return a.Security
	case CategoryCodeQuality:
		return a.CodeQuality
	case CategoryPerformance:
		return a.Performance
	case CategoryBugs:
		return a.Bugs
	case CategoryMaintainability:
		return a.Maintainability
	case CategoryArchitecture:
		return a.Architecture
	}
	return CategoryResult{}
}

func (a *CompleteAnalysis) set(c Category, r CategoryResult) {
	switch c {
	case CategorySecurity:
		a.Security = r
	case CategoryCodeQuality:
		a.CodeQuality = r
	case CategoryPerformance:
		a.Performance = r
	case CategoryBugs:
		a.Bugs = r
	case CategoryMaintainability:
		a.Maintainability = r
	case CategoryArchitecture:
		a.Architecture = r
	}
}

// Results returns all six results keyed by category.
func (a *CompleteAnalysis) Results() map[Category]CategoryResult {
	out := make(map[Category]CategoryResult, len(Categories))
	for _, c := range Categories {
		out[c] = a.Result(c)
	}
	return out
}

// CodeFile is one source file supplied by the file source collaborator.
type CodeFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// Config is the full configuration surface consumed by the pipeline.
type Config struct {
	Model         string
	MaxTokens     int
	Temperature   float64
	RetryAttempts int
}

const (
	DefaultModel         = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens     = 16384
	DefaultTemperature   = 1.0
	DefaultRetryAttempts = 2

	// Hard ceiling for the escalated token budget on retries.
	maxTokenBudget = 200000
)

// withDefaults fills zero values with the documented defaults.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	return c
}
