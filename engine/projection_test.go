package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/orbit/projection-engine/engine"
)

func TestProject_PayoffDateAdvancesByTotalMonths(t *testing.T) {
	// GIVEN: The canonical card as of Jan 1, 2026
	// WHEN: Projecting
	// THEN: 15 months out lands on Apr 1, 2027 (calendar rollover)

	proj, err := engine.Project(revolvingCard(), jan1())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	want := time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !proj.PayoffDate.Equal(want) {
		t.Errorf("PayoffDate = %v, want %v", proj.PayoffDate, want)
	}
	cents(t, "TotalInterestPaid", proj.TotalInterestPaid, "2105.36")
	cents(t, "TotalPaid", proj.TotalPaid, "7105.36")
}

func TestProject_IsDeterministic(t *testing.T) {
	// Same inputs, same outputs. The engine never reads the clock.
	a, err := engine.Project(revolvingCard(), jan1())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	b, err := engine.Project(revolvingCard(), jan1())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if a.TotalMonths != b.TotalMonths || !a.PayoffDate.Equal(b.PayoffDate) ||
		!a.TotalInterestPaid.Value.Equal(b.TotalInterestPaid.Value) {
		t.Error("two projections of the same state disagree")
	}
}

func TestProject_NoDebt_ReturnsSignal(t *testing.T) {
	state := revolvingCard()
	state.Principal = brl(0)

	_, err := engine.Project(state, jan1())
	if !errors.Is(err, engine.ErrNoActiveDebt) {
		t.Fatalf("err = %v, want ErrNoActiveDebt", err)
	}
}

func TestRemainingDays_FlooredAtZero(t *testing.T) {
	proj, err := engine.Project(revolvingCard(), jan1())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	if d := proj.RemainingDays(jan1()); d <= 0 {
		t.Errorf("RemainingDays from asOf = %d, want > 0", d)
	}
	afterPayoff := proj.PayoffDate.AddDate(1, 0, 0)
	if d := proj.RemainingDays(afterPayoff); d != 0 {
		t.Errorf("RemainingDays after payoff = %d, want 0", d)
	}
}

func TestMonthKey_BucketsAndOrders(t *testing.T) {
	dec := engine.MonthOf(time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC))
	jan := engine.MonthOf(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	if !dec.Before(jan) {
		t.Error("Dec 2025 should sort before Jan 2026")
	}
	if dec.Next() != jan {
		t.Errorf("Next() of %v = %v, want %v", dec, dec.Next(), jan)
	}
	if jan.String() != "2026-01" {
		t.Errorf("String() = %q, want 2026-01", jan.String())
	}
}

func TestMonthsBetween_InclusiveOfBothEnds(t *testing.T) {
	a := engine.MonthKey{Year: 2025, Month: time.November}
	b := engine.MonthKey{Year: 2026, Month: time.February}
	if n := engine.MonthsBetween(a, b); n != 4 {
		t.Errorf("MonthsBetween = %d, want 4", n)
	}
	if n := engine.MonthsBetween(a, a); n != 1 {
		t.Errorf("MonthsBetween same month = %d, want 1", n)
	}
}
