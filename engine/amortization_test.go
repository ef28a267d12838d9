package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/orbit/projection-engine/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func brl(v float64) engine.Amount {
	return engine.NewAmount(v, engine.UnitBRL)
}

func rate(s string) decimal.Decimal {
	return engine.MustParseDecimal(s)
}

// revolvingCard is the canonical worked example used across these tests:
// R$5000 at 5% a.m. paying R$500/month pays off in 15 months with
// R$2105.36 of interest.
func revolvingCard() engine.DebtState {
	return engine.DebtState{
		Principal:      brl(5000),
		MonthlyRate:    rate("0.05"),
		MonthlyPayment: brl(500),
	}
}

func jan1() time.Time {
	return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// cents compares an Amount against an expected value at 2-decimal
// precision, which is where all API output lands.
func cents(t *testing.T, name string, got engine.Amount, want string) {
	t.Helper()
	if got.Round2().Value.String() != engine.MustParseDecimal(want).String() {
		t.Errorf("%s = %s, want %s", name, got.Round2().Value, want)
	}
}

// =============================================================================
// AMORTIZATION TESTS
// =============================================================================

func TestAmortize_RevolvingCard_PaysOffIn15Months(t *testing.T) {
	// GIVEN: R$5000 at 5% a.m., paying R$500/month
	// WHEN: Amortizing to zero
	// THEN: 15 months, R$2105.36 interest, R$7105.36 total paid

	result, err := engine.Amortize(revolvingCard())
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	if result.TotalMonths != 15 {
		t.Errorf("TotalMonths = %d, want 15", result.TotalMonths)
	}
	cents(t, "TotalInterest", result.TotalInterest, "2105.36")
	cents(t, "TotalPaid", result.TotalPaid, "7105.36")
}

func TestAmortize_RevolvingCard_MonthlyTrajectory(t *testing.T) {
	// GIVEN: The canonical card
	// WHEN: Inspecting the per-month balances
	// THEN: Each month follows balance*(1.05) - 500, ending at exactly zero

	result, err := engine.Amortize(revolvingCard())
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	wantBalances := []string{"4750", "4487.5", "4211.875"}
	for i, want := range wantBalances {
		got := result.Entries[i].Balance
		if !got.Value.Equal(engine.MustParseDecimal(want)) {
			t.Errorf("month %d balance = %s, want %s", i+1, got.Value, want)
		}
	}

	last := result.Entries[len(result.Entries)-1]
	if !last.Balance.IsZero() {
		t.Errorf("final balance = %s, want exactly 0", last.Balance.Value)
	}
	// Final payment is clamped to what is owed, not the full R$500.
	cents(t, "final payment", last.Payment, "105.36")
}

func TestAmortize_EntriesAreStrictlyDecreasing(t *testing.T) {
	result, err := engine.Amortize(revolvingCard())
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}

	prev := brl(5000)
	for _, e := range result.Entries {
		if !e.Balance.LessThan(prev) {
			t.Fatalf("month %d balance %s did not decrease from %s", e.Month, e.Balance.Value, prev.Value)
		}
		prev = e.Balance
	}
}

func TestAmortize_ZeroRate_IsStraightDivision(t *testing.T) {
	// GIVEN: R$5000 interest-free, paying R$500/month
	// WHEN: Amortizing
	// THEN: Exactly 10 months and zero interest

	state := revolvingCard()
	state.MonthlyRate = decimal.Zero

	result, err := engine.Amortize(state)
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}
	if result.TotalMonths != 10 {
		t.Errorf("TotalMonths = %d, want 10", result.TotalMonths)
	}
	if !result.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, want 0", result.TotalInterest.Value)
	}
}

func TestAmortize_PaymentEqualToInterest_NonAmortizing(t *testing.T) {
	// GIVEN: R$5000 at 5% with payment R$250 (= first month's interest)
	// WHEN: Amortizing
	// THEN: NonAmortizingError before any looping, carrying the minimum payment

	state := revolvingCard()
	state.MonthlyPayment = brl(250)

	_, err := engine.Amortize(state)
	if !errors.Is(err, engine.ErrNonAmortizing) {
		t.Fatalf("err = %v, want ErrNonAmortizing", err)
	}

	var na *engine.NonAmortizingError
	if !errors.As(err, &na) {
		t.Fatalf("err is not *NonAmortizingError: %v", err)
	}
	cents(t, "MinimumPayment", na.MinimumPayment, "250")
	if na.CapReached {
		t.Error("CapReached = true for a structural failure")
	}
}

func TestAmortize_PaymentBelowInterest_NonAmortizing(t *testing.T) {
	state := revolvingCard()
	state.MonthlyPayment = brl(100)

	_, err := engine.Amortize(state)
	if !errors.Is(err, engine.ErrNonAmortizing) {
		t.Fatalf("err = %v, want ErrNonAmortizing", err)
	}
}

func TestAmortize_ContributionRescuesNonAmortizingPayment(t *testing.T) {
	// GIVEN: Payment alone (R$200) below the R$250 interest, but a R$100
	//        monthly contribution on top
	// WHEN: Amortizing
	// THEN: The combined flow amortizes

	state := revolvingCard()
	state.MonthlyPayment = brl(200)
	state.MonthlyContribution = brl(100)

	result, err := engine.Amortize(state)
	if err != nil {
		t.Fatalf("Amortize failed: %v", err)
	}
	if result.TotalMonths == 0 {
		t.Error("expected a finite payoff")
	}
}

func TestAmortize_ZeroPrincipal_ReturnsNoDebtSignal(t *testing.T) {
	state := revolvingCard()
	state.Principal = brl(0)

	_, err := engine.Amortize(state)
	if !errors.Is(err, engine.ErrNoActiveDebt) {
		t.Fatalf("err = %v, want ErrNoActiveDebt", err)
	}
}

func TestAmortize_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*engine.DebtState)
	}{
		{"negative principal", func(s *engine.DebtState) { s.Principal = brl(-100) }},
		{"negative rate", func(s *engine.DebtState) { s.MonthlyRate = rate("-0.01") }},
		{"rate of 1", func(s *engine.DebtState) { s.MonthlyRate = rate("1") }},
		{"zero payment", func(s *engine.DebtState) { s.MonthlyPayment = brl(0) }},
		{"negative payment", func(s *engine.DebtState) { s.MonthlyPayment = brl(-500) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := revolvingCard()
			tc.mutate(&state)
			_, err := engine.Amortize(state)
			if !errors.Is(err, engine.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// =============================================================================
// COMPOUND GROWTH TESTS
// =============================================================================

func TestCompoundGrowth_PrincipalOnly(t *testing.T) {
	// GIVEN: R$1000 at 1% a.m. for 12 months, no contributions
	// WHEN: Compounding
	// THEN: 1000 * 1.01^12 = 1126.83

	result, err := engine.CompoundGrowth(brl(1000), rate("0.01"), 12, brl(0))
	if err != nil {
		t.Fatalf("CompoundGrowth failed: %v", err)
	}
	cents(t, "FinalBalance", result.FinalBalance, "1126.83")
	if len(result.Steps) != 12 {
		t.Errorf("Steps = %d, want 12", len(result.Steps))
	}
}

func TestCompoundGrowth_WithContributions(t *testing.T) {
	// Zero-rate contributions are pure accumulation.
	result, err := engine.CompoundGrowth(brl(0), decimal.Zero, 10, brl(100))
	if err != nil {
		t.Fatalf("CompoundGrowth failed: %v", err)
	}
	cents(t, "FinalBalance", result.FinalBalance, "1000")
	if !result.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, want 0", result.TotalInterest.Value)
	}
}

func TestCompoundGrowth_RejectsNegativeInputs(t *testing.T) {
	if _, err := engine.CompoundGrowth(brl(-1), rate("0.01"), 12, brl(0)); !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("negative principal: err = %v, want ErrInvalidInput", err)
	}
	if _, err := engine.CompoundGrowth(brl(100), rate("-0.01"), 12, brl(0)); !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("negative rate: err = %v, want ErrInvalidInput", err)
	}
	if _, err := engine.CompoundGrowth(brl(100), rate("0.01"), engine.MaxProjectionMonths+1, brl(0)); !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("months over cap: err = %v, want ErrInvalidInput", err)
	}
}
