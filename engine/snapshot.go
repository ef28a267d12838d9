/*
snapshot.go - Point-in-time financial state

PURPOSE:
  Combines the ledger summary, behavioral score, and payoff projection
  into one daily snapshot: the record the dashboard trendline and the
  snapshot scheduler persist. Still pure - callers supply the records,
  the debt state, and the date.

STATUS LADDER (from the ORBIT status model):
  critical   debt present and payments don't cover interest
  red        in debt, but amortizing
  yellow     no debt, spending at or above income
  green      no debt, saving
  excellent  no debt, saving and investing
*/
package engine

import (
	"errors"
	"time"
)

type Status string

const (
	StatusCritical  Status = "critical"
	StatusRed       Status = "red"
	StatusYellow    Status = "yellow"
	StatusGreen     Status = "green"
	StatusExcellent Status = "excellent"
)

// Snapshot is the computed financial state for one user on one day.
type Snapshot struct {
	UserID UserID
	Date   time.Time

	Balance       Amount // running net over the whole history
	MonthIncome   Amount // income in the snapshot's calendar month
	MonthExpenses Amount
	TotalDebt     Amount

	Score  int
	Tier   Tier
	Status Status

	// FreedomDate is nil when there is no active debt, or when the debt
	// is non-amortizing (no finite payoff exists).
	FreedomDate   *time.Time
	DaysToFreedom int // 0 when FreedomDate is nil
	NonAmortizing bool
}

// BuildSnapshot computes the snapshot for asOf. The debt parameter may be
// nil when the user has no registered debt.
func BuildSnapshot(userID UserID, records []TransactionRecord, debt *DebtState, asOf time.Time) Snapshot {
	summary := Summarize(records, nil)
	score := ScoreBehavior(records)

	snap := Snapshot{
		UserID:        userID,
		Date:          asOf,
		Balance:       summary.Net.Round2(),
		MonthIncome:   summary.TotalIncome.Zero(),
		MonthExpenses: summary.TotalExpenses.Zero(),
		TotalDebt:     summary.Net.Zero(),
		Score:         score.Score,
		Tier:          score.Tier,
	}

	current := MonthOf(asOf)
	for _, m := range summary.Months {
		if m.Month == current {
			snap.MonthIncome = m.Income.Round2()
			snap.MonthExpenses = m.Expenses.Round2()
			break
		}
	}

	if debt != nil && debt.HasActiveDebt() {
		snap.TotalDebt = debt.Principal.Round2()
		proj, err := Project(*debt, asOf)
		switch {
		case err == nil:
			d := proj.PayoffDate
			snap.FreedomDate = &d
			snap.DaysToFreedom = proj.RemainingDays(asOf)
		case errors.Is(err, ErrNonAmortizing):
			snap.NonAmortizing = true
		}
	}

	snap.Status = statusFor(snap, summary)
	return snap
}

func statusFor(snap Snapshot, summary Summary) Status {
	if snap.TotalDebt.IsPositive() {
		if snap.NonAmortizing {
			return StatusCritical
		}
		return StatusRed
	}
	if !summary.Net.IsPositive() {
		return StatusYellow
	}
	if invested, ok := summary.ByCategory[CategoryInvestment]; ok && invested.IsPositive() {
		return StatusExcellent
	}
	return StatusGreen
}
