/*
scenario.go - "What if?" scenario simulation

PURPOSE:
  Applies a typed hypothetical adjustment to a DebtState, reprojects, and
  reports the delta against the unmodified projection.

SCENARIO SEMANTICS:
  extra_payment  value is added to the monthly payment
  lump_sum       value reduces the principal once (selling something)
  income_event   one-time windfall, applied to principal like lump_sum
  rate_change    value replaces the monthly rate (renegotiation)

  Unknown types fail with UnsupportedScenarioError - never a silent no-op.

CLEARED-DEBT CASE:
  A lump sum or income event covering the whole principal clears the debt
  outright: NewPayoffDate is asOf itself, the full projected interest is
  saved, and Modified is nil.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Simulate applies the scenario to the debt state and reports the change
// in payoff time and interest cost. Negative deltas mean improvement.
func Simulate(state DebtState, scenario Scenario, asOf time.Time) (*ScenarioDelta, error) {
	if !state.HasActiveDebt() {
		return nil, ErrNoActiveDebt
	}

	baseline, err := Project(state, asOf)
	if err != nil {
		return nil, err
	}

	modified, err := applyScenario(state, scenario)
	if err != nil {
		return nil, err
	}

	// Debt fully cleared by the scenario: payoff is immediate.
	if !modified.HasActiveDebt() {
		return &ScenarioDelta{
			Scenario:      scenario,
			MonthsDelta:   -baseline.TotalMonths,
			DaysDelta:     -baseline.TotalMonths * DaysPerMonth,
			NewPayoffDate: asOf,
			InterestDelta: baseline.exactInterest.Neg().Round2(),
			Baseline:      baseline,
		}, nil
	}

	reprojected, err := Project(modified, asOf)
	if err != nil {
		return nil, err
	}

	monthsDelta := reprojected.TotalMonths - baseline.TotalMonths
	return &ScenarioDelta{
		Scenario:      scenario,
		MonthsDelta:   monthsDelta,
		DaysDelta:     monthsDelta * DaysPerMonth,
		NewPayoffDate: reprojected.PayoffDate,
		InterestDelta: reprojected.exactInterest.Sub(baseline.exactInterest).Round2(),
		Baseline:      baseline,
		Modified:      reprojected,
	}, nil
}

// applyScenario derives the modified DebtState. Pure; the input state is
// a value and never mutated in place for the caller.
func applyScenario(state DebtState, scenario Scenario) (DebtState, error) {
	switch scenario.Type {
	case ScenarioExtraPayment:
		if !scenario.Value.IsPositive() {
			return state, &InvalidInputError{Field: "value", Reason: "extra payment must be > 0", Value: scenario.Value}
		}
		state.MonthlyPayment = state.MonthlyPayment.Add(Amount{Value: scenario.Value, Unit: state.MonthlyPayment.Unit})
		return state, nil

	case ScenarioLumpSum, ScenarioIncomeEvent:
		if !scenario.Value.IsPositive() {
			return state, &InvalidInputError{Field: "value", Reason: "amount must be > 0", Value: scenario.Value}
		}
		reduced := state.Principal.Sub(Amount{Value: scenario.Value, Unit: state.Principal.Unit})
		state.Principal = reduced.Max(state.Principal.Zero())
		return state, nil

	case ScenarioRateChange:
		if scenario.Value.IsNegative() || scenario.Value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return state, &InvalidInputError{Field: "value", Reason: "rate must be in [0, 1)", Value: scenario.Value}
		}
		state.MonthlyRate = scenario.Value
		return state, nil

	default:
		return state, &UnsupportedScenarioError{Type: scenario.Type}
	}
}
