/*
impact.go - Marginal cost of a new expense while in debt

PURPOSE:
  Answers "what does this purchase really cost me?" for a user carrying
  debt. The expense is modeled as added to the principal (spending while
  indebted is borrowing), and the marginal payoff delay and interest are
  read off the difference between two projections.

DAY APPROXIMATION:
  ExtraDays = ExtraMonths * 30. A month is approximated as 30 days for
  user-facing messaging; this is deliberate and affects displayed values
  only, never the calendar payoff dates.

NO-DEBT SIGNAL:
  With zero principal there is no meaningful delta. EstimateImpact returns
  ErrNoActiveDebt so the caller (the coach) can switch tone instead of
  showing a meaningless zero.
*/
package engine

import "time"

// EstimateImpact computes the marginal effect of newExpense on the payoff
// projection. RealCost is the marginal interest alone; TotalCost adds the
// expense itself.
//
// Monotonic: a larger expense never yields smaller ExtraDays or RealCost.
func EstimateImpact(state DebtState, newExpense Amount, asOf time.Time) (*SpendingImpact, error) {
	if newExpense.IsNegative() {
		return nil, &InvalidInputError{Field: "new_expense", Reason: "must be >= 0", Value: newExpense.Value}
	}
	if !state.HasActiveDebt() {
		return nil, ErrNoActiveDebt
	}

	baseline, err := Project(state, asOf)
	if err != nil {
		return nil, err
	}

	alternative := state
	alternative.Principal = state.Principal.Add(newExpense)

	withExpense, err := Project(alternative, asOf)
	if err != nil {
		return nil, err
	}

	extraMonths := withExpense.TotalMonths - baseline.TotalMonths
	realCost := withExpense.exactInterest.Sub(baseline.exactInterest)

	return &SpendingImpact{
		Expense:     newExpense,
		ExtraMonths: extraMonths,
		ExtraDays:   extraMonths * DaysPerMonth,
		RealCost:    realCost.Round2(),
		TotalCost:   newExpense.Add(realCost).Round2(),
		Baseline:    baseline,
		WithExpense: withExpense,
	}, nil
}
