package cli

import (
	"fmt"
	"io"
	"strconv"

	"codeappraise/internal/analysis"
	"codeappraise/internal/scoring"
	"codeappraise/internal/valuation"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgMagenta, color.Bold)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgCyan)
)

func scoreLabel(score float64) string {
	switch {
	case score >= 8:
		return color.GreenString("good")
	case score >= 6:
		return color.YellowString("fair")
	case score >= 4:
		return color.MagentaString("weak")
	default:
		return color.RedString("poor")
	}
}

func severityLabel(s analysis.Severity) string {
	switch s {
	case analysis.SeverityCritical:
		return criticalColor.Sprint("critical")
	case analysis.SeverityHigh:
		return highColor.Sprint("high")
	case analysis.SeverityMedium:
		return mediumColor.Sprint("medium")
	default:
		return lowColor.Sprint("low")
	}
}

func writeScoreTable(w io.Writer, scores scoring.Scores, overall, confidence float64) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Category", "Score", "Label"})

	var data [][]string
	for _, category := range analysis.Categories {
		score := scores[category]
		data = append(data, []string{
			string(category),
			fmt.Sprintf("%.1f", score),
			scoreLabel(score),
		})
	}
	data = append(data, []string{"overall", fmt.Sprintf("%.1f", overall), scoreLabel(overall)})

	_ = table.Bulk(data)
	_ = table.Render()
	fmt.Fprintf(w, "Confidence: %.0f%%\n", confidence*100)
}

func writeIssueTable(w io.Writer, results map[analysis.Category]analysis.CategoryResult) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Severity", "Category", "Title", "File", "Line"})

	var data [][]string
	total := 0
	for _, category := range analysis.Categories {
		for _, issue := range results[category].Issues {
			line := ""
			if issue.LineNumber > 0 {
				line = strconv.Itoa(issue.LineNumber)
			}
			data = append(data, []string{
				severityLabel(issue.Severity),
				string(category),
				issue.Title,
				issue.FilePath,
				line,
			})
			total++
		}
	}
	if total == 0 {
		fmt.Fprintln(w, "No issues found.")
		return
	}

	fmt.Fprintln(w)
	_ = table.Bulk(data)
	_ = table.Render()
	fmt.Fprintf(w, "%d issues total\n", total)
}

func writeValuation(w io.Writer, res valuation.Result) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Estimated value: $%.0f (range $%.0f - $%.0f)\n",
		res.EstimatedValue, res.MinValue, res.MaxValue)
	fmt.Fprintf(w, "Asset or liability: %s (confidence %.0f%%)\n",
		res.IsAssetOrLiability, res.ConfidenceLevel*100)
	if res.Methodology != "" {
		fmt.Fprintf(w, "Methodology: %s\n", res.Methodology)
	}
	for _, rec := range res.Recommendations {
		fmt.Fprintf(w, "  - %s\n", rec)
	}
}
