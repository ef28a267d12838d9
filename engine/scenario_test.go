package engine_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/orbit/projection-engine/engine"
)

func simulate(t *testing.T, st engine.ScenarioType, value string) *engine.ScenarioDelta {
	t.Helper()
	delta, err := engine.Simulate(revolvingCard(), engine.Scenario{
		Type:  st,
		Value: engine.MustParseDecimal(value),
	}, jan1())
	if err != nil {
		t.Fatalf("Simulate(%s, %s) failed: %v", st, value, err)
	}
	return delta
}

func TestSimulate_ExtraPayment_SavesThreeMonths(t *testing.T) {
	// GIVEN: The canonical card, paying R$100 extra per month
	// WHEN: Simulating
	// THEN: 12 months instead of 15, R$476.35 of interest saved

	delta := simulate(t, engine.ScenarioExtraPayment, "100")

	if delta.MonthsDelta != -3 {
		t.Errorf("MonthsDelta = %d, want -3", delta.MonthsDelta)
	}
	if delta.MonthsSaved() != 3 {
		t.Errorf("MonthsSaved = %d, want 3", delta.MonthsSaved())
	}
	if delta.DaysDelta != -90 {
		t.Errorf("DaysDelta = %d, want -90", delta.DaysDelta)
	}
	cents(t, "InterestDelta", delta.InterestDelta, "-476.35")
	if delta.Modified == nil || delta.Modified.TotalMonths != 12 {
		t.Fatalf("Modified projection missing or wrong length: %+v", delta.Modified)
	}
}

func TestSimulate_LumpSum_ReducesPrincipal(t *testing.T) {
	// R$1000 against the principal: 11 months, interest drops to R$1237.96.
	delta := simulate(t, engine.ScenarioLumpSum, "1000")

	if delta.Modified.TotalMonths != 11 {
		t.Errorf("TotalMonths = %d, want 11", delta.Modified.TotalMonths)
	}
	cents(t, "InterestDelta", delta.InterestDelta, "-867.40")
}

func TestSimulate_IncomeEvent_BehavesLikeLumpSum(t *testing.T) {
	lump := simulate(t, engine.ScenarioLumpSum, "1000")
	income := simulate(t, engine.ScenarioIncomeEvent, "1000")

	if lump.MonthsDelta != income.MonthsDelta {
		t.Errorf("MonthsDelta differs: lump %d, income %d", lump.MonthsDelta, income.MonthsDelta)
	}
	if !lump.InterestDelta.Value.Equal(income.InterestDelta.Value) {
		t.Errorf("InterestDelta differs: lump %s, income %s", lump.InterestDelta.Value, income.InterestDelta.Value)
	}
}

func TestSimulate_RateChange_Renegotiation(t *testing.T) {
	// Renegotiating 5% a.m. down to 2% a.m.: 12 months, R$635.16 interest.
	// The delta here is sensitive to rounding order: diffing the two
	// already-rounded totals gives -1470.20; the full-precision delta,
	// rounded once, is -1470.19.
	delta := simulate(t, engine.ScenarioRateChange, "0.02")

	if delta.Modified.TotalMonths != 12 {
		t.Errorf("TotalMonths = %d, want 12", delta.Modified.TotalMonths)
	}
	cents(t, "InterestDelta", delta.InterestDelta, "-1470.19")
}

func TestSimulate_LumpSumCoveringDebt_ClearsOutright(t *testing.T) {
	// GIVEN: A lump sum larger than the whole principal
	// WHEN: Simulating
	// THEN: Debt cleared: payoff is asOf itself, all interest saved, no
	//       modified projection

	delta := simulate(t, engine.ScenarioLumpSum, "6000")

	if delta.Modified != nil {
		t.Errorf("Modified = %+v, want nil for a cleared debt", delta.Modified)
	}
	if !delta.NewPayoffDate.Equal(jan1()) {
		t.Errorf("NewPayoffDate = %v, want asOf", delta.NewPayoffDate)
	}
	if delta.MonthsDelta != -15 {
		t.Errorf("MonthsDelta = %d, want -15", delta.MonthsDelta)
	}
	cents(t, "InterestDelta", delta.InterestDelta, "-2105.36")
}

func TestSimulate_UnsupportedType_Fails(t *testing.T) {
	_, err := engine.Simulate(revolvingCard(), engine.Scenario{
		Type:  engine.ScenarioType("win_lottery"),
		Value: decimal.NewFromInt(1),
	}, jan1())

	if !errors.Is(err, engine.ErrUnsupportedScenario) {
		t.Fatalf("err = %v, want ErrUnsupportedScenario", err)
	}
	var use *engine.UnsupportedScenarioError
	if !errors.As(err, &use) || use.Type != "win_lottery" {
		t.Errorf("error does not carry the offending type: %v", err)
	}
}

func TestSimulate_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		st    engine.ScenarioType
		value string
	}{
		{"zero extra payment", engine.ScenarioExtraPayment, "0"},
		{"negative extra payment", engine.ScenarioExtraPayment, "-50"},
		{"zero lump sum", engine.ScenarioLumpSum, "0"},
		{"rate of 1", engine.ScenarioRateChange, "1"},
		{"negative rate", engine.ScenarioRateChange, "-0.02"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Simulate(revolvingCard(), engine.Scenario{
				Type:  tc.st,
				Value: engine.MustParseDecimal(tc.value),
			}, jan1())
			if !errors.Is(err, engine.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSimulate_NoDebt_ReturnsSignal(t *testing.T) {
	state := revolvingCard()
	state.Principal = brl(0)

	_, err := engine.Simulate(state, engine.Scenario{
		Type:  engine.ScenarioExtraPayment,
		Value: decimal.NewFromInt(100),
	}, jan1())
	if !errors.Is(err, engine.ErrNoActiveDebt) {
		t.Fatalf("err = %v, want ErrNoActiveDebt", err)
	}
}

func TestSimulate_RateChangeToZero_Allowed(t *testing.T) {
	delta := simulate(t, engine.ScenarioRateChange, "0")
	if delta.Modified.TotalMonths != 10 {
		t.Errorf("TotalMonths = %d, want 10 at zero rate", delta.Modified.TotalMonths)
	}
	if !delta.Modified.TotalInterestPaid.IsZero() {
		t.Errorf("interest at zero rate = %s, want 0", delta.Modified.TotalInterestPaid.Value)
	}
}
