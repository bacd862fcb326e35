package valuation

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"codeappraise/internal/llmclient"
	"codeappraise/internal/prompt"
)

func sampleInput() Input {
	return Input{
		ProjectName:          "shop-backend",
		Description:          "Order processing service",
		FileCount:            40,
		TotalLines:           5000,
		Languages:            []string{"Go", "SQL"},
		OverallScore:         7.0,
		SecurityScore:        8,
		CodeQualityScore:     7,
		PerformanceScore:     6,
		BugsScore:            7,
		MaintainabilityScore: 6,
		ArchitectureScore:    7,
	}
}

func TestBasic_Deterministic(t *testing.T) {
	a := Basic(sampleInput())
	b := Basic(sampleInput())
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical input must yield identical output")
	}
}

func TestBasic_Formula(t *testing.T) {
	res := Basic(sampleInput())

	// 5000 lines / 50 per hour = 100 hours * $35 = $3500 reconstruction.
	if res.CostBreakdown.DevelopmentHours != 100 {
		t.Fatalf("hours = %v, want 100", res.CostBreakdown.DevelopmentHours)
	}
	if res.CostBreakdown.ReconstructionCost != 3500 {
		t.Fatalf("reconstruction = %v, want 3500", res.CostBreakdown.ReconstructionCost)
	}
	// quality 0.7, complexity 1 + 2*0.1 = 1.2 (40 files, no bump),
	// debt 3500 * 0.3 * 0.3 = 315 => 3500*0.7*1.2 - 315 = 2625.
	if res.EstimatedValue != 2625 {
		t.Fatalf("estimated = %v, want 2625", res.EstimatedValue)
	}
	if res.MinValue != 1575 || res.MaxValue != 3675 {
		t.Fatalf("range = [%v, %v], want [1575, 3675]", res.MinValue, res.MaxValue)
	}
	if res.ConfidenceLevel != 0.65 {
		t.Fatalf("confidence = %v, want 0.65", res.ConfidenceLevel)
	}
	if res.IsAssetOrLiability != "asset" {
		t.Fatalf("classification = %q", res.IsAssetOrLiability)
	}
}

func TestBasic_Floor(t *testing.T) {
	in := sampleInput()
	in.TotalLines = 10
	in.OverallScore = 1
	res := Basic(in)
	if res.EstimatedValue < 1000 {
		t.Fatalf("estimated = %v, want >= 1000", res.EstimatedValue)
	}
}

func TestBasic_LargeProjectComplexityBump(t *testing.T) {
	in := sampleInput()
	base := Basic(in)
	in.FileCount = 51
	bumped := Basic(in)
	if bumped.EstimatedValue <= base.EstimatedValue {
		t.Fatalf("file-count bump missing: %v <= %v", bumped.EstimatedValue, base.EstimatedValue)
	}
}

const modelValuation = `{
	"estimatedValue": 12000,
	"minValue": 8000,
	"maxValue": 18000,
	"isAssetOrLiability": "asset",
	"confidenceLevel": 0.7,
	"methodology": "Cost approach"
}`

func TestValue_ModelPath(t *testing.T) {
	fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: modelValuation}})
	r := NewRequestor(fake, prompt.NewResolver(nil), "test-model")

	res, err := r.Value(context.Background(), sampleInput(), "")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if res.EstimatedValue != 12000 {
		t.Fatalf("estimated = %v, want 12000", res.EstimatedValue)
	}

	calls := fake.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want exactly one (no retries)", len(calls))
	}
	if calls[0].MaxTokens != 2048 {
		t.Fatalf("max tokens = %d, want 2048", calls[0].MaxTokens)
	}
	for _, want := range []string{"shop-backend", "5000", "Go, SQL", "Overall: 7/10"} {
		if !strings.Contains(calls[0].Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestValue_NormalizesFloors(t *testing.T) {
	low := `{"estimatedValue": 10, "minValue": 5, "maxValue": 7, "confidenceLevel": 0.1}`
	fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: low}})
	r := NewRequestor(fake, prompt.NewResolver(nil), "test-model")

	res, err := r.Value(context.Background(), sampleInput(), "")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if res.EstimatedValue != 1000 {
		t.Fatalf("estimated = %v, want floor 1000", res.EstimatedValue)
	}
	if res.MinValue != 500 {
		t.Fatalf("min = %v, want floor 500", res.MinValue)
	}
	if res.MaxValue != 1000 {
		t.Fatalf("max = %v, want raised to estimated", res.MaxValue)
	}
	if res.ConfidenceLevel != 0.5 {
		t.Fatalf("confidence = %v, want floor 0.5", res.ConfidenceLevel)
	}
}

func TestValue_FailuresAreTyped(t *testing.T) {
	t.Run("completion error", func(t *testing.T) {
		fake := llmclient.NewFakeClient(llmclient.FakeStep{Err: errors.New("boom")})
		r := NewRequestor(fake, prompt.NewResolver(nil), "m")
		_, err := r.Value(context.Background(), sampleInput(), "")
		var ve *Error
		if !errors.As(err, &ve) {
			t.Fatalf("error type = %T, want *Error", err)
		}
	})
	t.Run("extraction error", func(t *testing.T) {
		fake := llmclient.NewFakeClient(llmclient.FakeStep{Out: llmclient.Completion{Text: "not json"}})
		r := NewRequestor(fake, prompt.NewResolver(nil), "m")
		_, err := r.Value(context.Background(), sampleInput(), "")
		var ve *Error
		if !errors.As(err, &ve) {
			t.Fatalf("error type = %T, want *Error", err)
		}
	})
}
