package analysis

import (
	"context"
	"fmt"
	"log"
)

// StageFunc reports that a category's work is about to begin. The
// orchestrator only calls it; what the report looks like (status
// broadcast, log line, nothing) is the caller's choice.
type StageFunc func(category Category, message string)

// stageMessages are the human-readable status lines emitted before each
// category run.
var stageMessages = map[Category]string{
	CategorySecurity:        "Analyzing code security...",
	CategoryCodeQuality:     "Evaluating code quality...",
	CategoryPerformance:     "Reviewing performance...",
	CategoryBugs:            "Detecting potential bugs...",
	CategoryMaintainability: "Analyzing maintainability...",
	CategoryArchitecture:    "Evaluating architecture...",
}

// Orchestrator runs the six fixed categories sequentially, in declared
// order. Sequential by design: the category calls share one per-user
// credential, and sequencing avoids burst rate limits while keeping the
// stage-by-stage progress narrative meaningful.
type Orchestrator struct {
	Runner  *Runner
	OnStage StageFunc
}

func NewOrchestrator(runner *Runner, onStage StageFunc) *Orchestrator {
	return &Orchestrator{Runner: runner, OnStage: onStage}
}

// RunAll analyzes every category and returns the complete set of
// results. It fails fast: the first terminal category failure aborts
// the remaining categories and no partial results are returned.
func (o *Orchestrator) RunAll(ctx context.Context, files []CodeFile, userID string, cfg Config) (*CompleteAnalysis, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("analysis: no files to analyze")
	}
	cfg = cfg.withDefaults()
	log.Printf("analysis: starting complete analysis of %d files with model %s", len(files), cfg.Model)

	out := &CompleteAnalysis{}
	for _, category := range Categories {
		if o.OnStage != nil {
			o.OnStage(category, stageMessages[category])
		}
		res, err := o.Runner.Run(ctx, category, files, userID, cfg)
		if err != nil {
			return nil, err
		}
		out.set(category, res)
	}
	return out, nil
}
