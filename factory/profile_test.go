package factory_test

import (
	"strings"
	"testing"

	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/factory"
)

func TestParse_FullProfile(t *testing.T) {
	raw := `{
		"id": "strict",
		"name": "Strict weighting",
		"weights": {
			"consistency": 500,
			"savings_rate": 300,
			"balance_trend": 100,
			"spending_control": 100
		},
		"discretionary_categories": ["lazer", "delivery"]
	}`

	profile, err := factory.NewProfileFactory().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if profile.Weights[engine.MetricConsistency] != 500 {
		t.Errorf("consistency weight = %d, want 500", profile.Weights[engine.MetricConsistency])
	}
	if !profile.Discretionary[engine.CategoryLeisure] || profile.Discretionary[engine.CategoryStreaming] {
		t.Errorf("discretionary set not replaced: %v", profile.Discretionary)
	}
}

func TestParse_PartialWeights_KeepDefaultsForRest(t *testing.T) {
	// Shift 100 points from consistency to spending_control, leave the
	// other two at their defaults.
	raw := `{"id": "shifted", "weights": {"consistency": 300, "spending_control": 200}}`

	profile, err := factory.NewProfileFactory().Parse(raw)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if profile.Weights[engine.MetricSavingsRate] != 300 {
		t.Errorf("savings_rate weight = %d, want default 300", profile.Weights[engine.MetricSavingsRate])
	}
	if profile.Weights[engine.MetricSpendingControl] != 200 {
		t.Errorf("spending_control weight = %d, want 200", profile.Weights[engine.MetricSpendingControl])
	}
}

func TestParse_EmptyDocument_IsTheDefaultProfile(t *testing.T) {
	profile, err := factory.NewProfileFactory().Parse(`{"id": "plain"}`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := profile.Validate(); err != nil {
		t.Errorf("default-backed profile invalid: %v", err)
	}
	if profile.Weights[engine.MetricConsistency] != 400 {
		t.Errorf("consistency weight = %d, want default 400", profile.Weights[engine.MetricConsistency])
	}
}

func TestParse_UnknownMetric_Rejected(t *testing.T) {
	_, err := factory.NewProfileFactory().Parse(`{"id": "bad", "weights": {"karma": 1000}}`)
	if err == nil || !strings.Contains(err.Error(), "unknown metric") {
		t.Fatalf("err = %v, want unknown metric error", err)
	}
}

func TestParse_WeightsNotSumming1000_Rejected(t *testing.T) {
	raw := `{"id": "bad", "weights": {"consistency": 999, "savings_rate": 300, "balance_trend": 200, "spending_control": 100}}`
	if _, err := factory.NewProfileFactory().Parse(raw); err == nil {
		t.Fatal("weights summing to 1599 should fail validation")
	}
}

func TestParse_MalformedJSON_Rejected(t *testing.T) {
	if _, err := factory.NewProfileFactory().Parse(`{"id": `); err == nil {
		t.Fatal("malformed JSON should fail")
	}
}

func TestDefaultJSON_RoundTrips(t *testing.T) {
	raw := factory.DefaultJSON("default", "Default weighting")

	profile, err := factory.NewProfileFactory().Parse(raw)
	if err != nil {
		t.Fatalf("Parse of DefaultJSON failed: %v", err)
	}
	if err := profile.Validate(); err != nil {
		t.Errorf("DefaultJSON profile invalid: %v", err)
	}
	if !profile.Discretionary[engine.CategoryGames] {
		t.Error("DefaultJSON should include jogos as discretionary")
	}
}
