package valuation

import (
	"fmt"
	"math"
)

// Heuristic constants for the arithmetic fallback.
const (
	basicHourlyRate   = 35.0 // average developer rate, USD
	basicLinesPerHour = 50.0 // industry-average throughput
)

// Basic is the circuit-breaker valuation: a pure arithmetic estimate
// with no network call, invoked whenever the model-based path fails.
// Identical input yields identical output.
func Basic(in Input) Result {
	developmentHours := math.Ceil(float64(in.TotalLines) / basicLinesPerHour)
	reconstructionCost := developmentHours * basicHourlyRate

	qualityMultiplier := math.Max(0.3, in.OverallScore/10)
	adjustedCost := reconstructionCost * qualityMultiplier

	complexityFactor := 1 + float64(len(in.Languages))*0.1
	if in.FileCount > 50 {
		complexityFactor += 0.2
	}

	// Technical debt scales with the inverse of quality; roughly 30% of
	// the reconstruction cost at the lowest scores.
	technicalDebtFactor := (10 - in.OverallScore) / 10
	technicalDebtCost := reconstructionCost * technicalDebtFactor * 0.3

	estimatedValue := math.Max(1000, adjustedCost*complexityFactor-technicalDebtCost)

	maintenanceCost := math.Round(estimatedValue * 0.15)
	infrastructureCost := math.Round(estimatedValue * 0.05)

	codeQualityImpact := "medium"
	if in.CodeQualityScore < 5 {
		codeQualityImpact = "high"
	}
	securityImpact := "low"
	if in.SecurityScore < 5 {
		securityImpact = "high"
	}

	codeQualityAdvice := "Maintain current quality standards"
	if in.CodeQualityScore < 6 {
		codeQualityAdvice = "Invest in refactoring to improve code quality"
	}
	securityAdvice := "Continue with good security practices"
	if in.SecurityScore < 6 {
		securityAdvice = "Carry out a complete security audit"
	}

	return Result{
		EstimatedValue:     math.Round(estimatedValue),
		MinValue:           math.Round(estimatedValue * 0.6),
		MaxValue:           math.Round(estimatedValue * 1.4),
		IsAssetOrLiability: "asset",

		CostBreakdown: CostBreakdown{
			ReconstructionCost: math.Round(reconstructionCost),
			DevelopmentHours:   developmentHours,
			AverageHourlyRate:  basicHourlyRate,
			Region:             "Global Average",
		},
		DepreciationFactors: DepreciationFactors{
			TechnicalDebt:     math.Round(technicalDebtCost),
			QualityMultiplier: math.Round(qualityMultiplier*100) / 100,
		},
		AnnualCosts: AnnualCosts{
			Maintenance:              maintenanceCost,
			Infrastructure:           infrastructureCost,
			TechnicalDebtRemediation: math.Round(technicalDebtCost),
		},
		QualityMetrics: QualityMetrics{
			CodeQualityScore:     in.CodeQualityScore,
			SecurityScore:        in.SecurityScore,
			MaintainabilityIndex: in.MaintainabilityScore,
		},

		RiskFactors: []RiskFactor{
			{
				Factor:      "Code Quality",
				Impact:      codeQualityImpact,
				Description: fmt.Sprintf("Quality score: %v/10", in.CodeQualityScore),
			},
			{
				Factor:      "Security",
				Impact:      securityImpact,
				Description: fmt.Sprintf("Security score: %v/10", in.SecurityScore),
			},
		},
		ComparableProjects: []ComparableProject{
			{
				Name:           "Similar Project A",
				Description:    "Web application with similar characteristics",
				EstimatedValue: math.Round(estimatedValue * 0.9),
				Similarity:     0.85,
				Source:         "Market-based estimate",
			},
			{
				Name:           "Similar Project B",
				Description:    "System built with comparable technologies",
				EstimatedValue: math.Round(estimatedValue * 1.1),
				Similarity:     0.8,
				Source:         "Market-based estimate",
			},
		},

		ConfidenceLevel: 0.65,
		Methodology:     "Basic valuation based on estimated development hours, an average hourly rate, and quality factors. Technical debt is treated as a liability that reduces total value.",
		Assumptions: []string{
			fmt.Sprintf("Average rate of $%v/hour", basicHourlyRate),
			fmt.Sprintf("%v lines of code per hour", basicLinesPerHour),
			"Code quality directly affects value",
			"Technical debt represents ~30% of cost in low-quality projects",
		},
		Recommendations: []string{
			codeQualityAdvice,
			securityAdvice,
			"Implement automated tests to increase value",
			"Document the code to ease maintenance",
		},
		Notes: "This is a basic valuation computed locally. For a more precise estimate based on market analysis and real comparables, use the model-based valuation.",
	}
}
