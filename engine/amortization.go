/*
amortization.go - Month-by-month balance trajectories under compound interest

PURPOSE:
  The numerical core everything else wraps. Produces the full monthly
  balance sequence for a debt under fixed payments, and the savings-side
  equivalent (compound growth with contributions).

PER-STEP UPDATE:
  interest = balance * monthlyRate
  balance  = balance + interest - payment - contribution

  The contribution reduces the balance directly in the same month it is
  made (no intra-month interest accrual on it). The final payment is
  clamped to the remaining balance plus that month's interest, so the
  trajectory ends at exactly zero with no negative overshoot.

TERMINATION:
  Guaranteed two ways:
  1. Up-front check: if the first month's interest already meets or
     exceeds payment+contribution, the input is structurally
     non-amortizing and we fail before looping.
  2. MaxProjectionMonths cap (100 years) as a backstop.

SEE ALSO:
  - projection.go: Wraps Amortize into a DebtProjection
  - errors.go: NonAmortizingError
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// MaxProjectionMonths caps every trajectory at 100 years. Together with
// the up-front non-amortizing check this bounds each call's cost.
const MaxProjectionMonths = 1200

// AmortizationResult is the raw trajectory before calendar math.
type AmortizationResult struct {
	TotalMonths   int
	TotalInterest Amount
	TotalPaid     Amount
	Entries       []MonthEntry
}

// Amortize runs the monthly balance recurrence until the balance reaches
// zero. The zero-rate case degenerates to straight division and never
// fails the amortization check.
func Amortize(state DebtState) (*AmortizationResult, error) {
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if !state.HasActiveDebt() {
		return nil, ErrNoActiveDebt
	}

	unit := state.Principal.Unit
	balance := state.Principal
	payment := state.MonthlyPayment
	contribution := state.MonthlyContribution
	if contribution.Unit == "" {
		contribution = Amount{Value: decimal.Zero, Unit: unit}
	}
	rate := state.MonthlyRate

	// Structural check, once, before any looping. payment+contribution
	// must strictly exceed the first month's interest or the balance
	// never decreases.
	if rate.IsPositive() {
		firstInterest := balance.Mul(rate)
		if !payment.Add(contribution).GreaterThan(firstInterest) {
			return nil, &NonAmortizingError{
				Principal:      state.Principal,
				MonthlyRate:    rate,
				MonthlyPayment: payment,
				MinimumPayment: firstInterest,
			}
		}
	}

	totalInterest := Amount{Value: decimal.Zero, Unit: unit}
	totalPaid := Amount{Value: decimal.Zero, Unit: unit}
	var entries []MonthEntry

	for month := 1; month <= MaxProjectionMonths; month++ {
		interest := balance.Mul(rate)
		due := balance.Add(interest)

		// Clamp the final payment to what is actually owed.
		applied := payment.Add(contribution).Min(due)

		balance = due.Sub(applied)
		totalInterest = totalInterest.Add(interest)
		totalPaid = totalPaid.Add(applied)

		entries = append(entries, MonthEntry{
			Month:    month,
			Interest: interest,
			Payment:  applied,
			Balance:  balance,
		})

		if balance.IsZero() || balance.IsNegative() {
			return &AmortizationResult{
				TotalMonths:   month,
				TotalInterest: totalInterest,
				TotalPaid:     totalPaid,
				Entries:       entries,
			}, nil
		}
	}

	// The up-front check handles the first-month condition; a trajectory
	// that still runs into the cap (contribution interacting with rate
	// drift over extreme inputs) is reported the same way.
	return nil, &NonAmortizingError{
		Principal:      state.Principal,
		MonthlyRate:    rate,
		MonthlyPayment: payment,
		MinimumPayment: state.Principal.Mul(rate),
		CapReached:     true,
	}
}

// =============================================================================
// COMPOUND GROWTH - Savings-side projection
// =============================================================================

// GrowthStep is one month of a compound growth trajectory.
type GrowthStep struct {
	Month           int
	Interest        Amount
	Balance         Amount
	AccruedInterest Amount
}

// GrowthResult is the outcome of compounding with monthly contributions.
type GrowthResult struct {
	FinalBalance  Amount
	TotalInterest Amount
	Steps         []GrowthStep
}

// CompoundGrowth projects a balance growing under compound interest with
// optional monthly contributions: M = P*(1+i)^n + PMT*(((1+i)^n - 1)/i),
// computed iteratively so the per-month evolution is available to the
// dashboard.
func CompoundGrowth(principal Amount, monthlyRate decimal.Decimal, months int, contribution Amount) (*GrowthResult, error) {
	if principal.IsNegative() {
		return nil, &InvalidInputError{Field: "principal", Reason: "must be >= 0", Value: principal.Value}
	}
	if monthlyRate.IsNegative() {
		return nil, &InvalidInputError{Field: "monthly_rate", Reason: "must be >= 0", Value: monthlyRate}
	}
	if months < 0 || months > MaxProjectionMonths {
		return nil, &InvalidInputError{Field: "months", Reason: "must be in [0, 1200]", Value: decimal.NewFromInt(int64(months))}
	}

	unit := principal.Unit
	balance := principal
	accrued := Amount{Value: decimal.Zero, Unit: unit}
	if contribution.Unit == "" {
		contribution = Amount{Value: decimal.Zero, Unit: unit}
	}

	steps := make([]GrowthStep, 0, months)
	for month := 1; month <= months; month++ {
		interest := balance.Mul(monthlyRate)
		balance = balance.Add(interest).Add(contribution)
		accrued = accrued.Add(interest)
		steps = append(steps, GrowthStep{
			Month:           month,
			Interest:        interest,
			Balance:         balance,
			AccruedInterest: accrued,
		})
	}

	return &GrowthResult{
		FinalBalance:  balance,
		TotalInterest: accrued,
		Steps:         steps,
	}, nil
}
