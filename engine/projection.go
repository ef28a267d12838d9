/*
projection.go - Debt payoff projection

PURPOSE:
  Wraps the amortization trajectory into the caller-facing DebtProjection:
  payoff calendar date, total months, and total interest paid.

DETERMINISM:
  Same inputs always produce the same outputs. The "current date" used for
  calendar offsetting is the explicit asOf parameter - the engine never
  reads the system clock.

EXAMPLE:
  proj, err := engine.Project(state, asOf)
  if err != nil {
      var na *engine.NonAmortizingError
      if errors.As(err, &na) {
          // payment below na.MinimumPayment: debt never shrinks
      }
  }
  fmt.Println(proj.TotalMonths, proj.PayoffDate)

SEE ALSO:
  - amortization.go: The underlying recurrence
  - impact.go, scenario.go: Built by diffing two projections
*/
package engine

import "time"

// Project computes the payoff projection for a debt as of the given date.
// Monetary outputs are rounded to cents; the per-month trajectory keeps
// full precision for downstream diffing.
func Project(state DebtState, asOf time.Time) (*DebtProjection, error) {
	result, err := Amortize(state)
	if err != nil {
		return nil, err
	}

	return &DebtProjection{
		State:             state,
		TotalMonths:       result.TotalMonths,
		PayoffDate:        AddMonths(asOf, result.TotalMonths),
		TotalInterestPaid: result.TotalInterest.Round2(),
		TotalPaid:         result.TotalPaid.Round2(),
		MonthlyBalances:   result.Entries,
		exactInterest:     result.TotalInterest,
	}, nil
}

// RemainingDays returns whole days from asOf to the payoff date, floored
// at zero. Convenience for the freedom timeline.
func (p *DebtProjection) RemainingDays(asOf time.Time) int {
	d := DaysBetween(asOf, p.PayoffDate)
	if d < 0 {
		return 0
	}
	return d
}
