/*
ledger.go - Monthly aggregation of transaction records

PURPOSE:
  Turns a flat list of TransactionRecords into per-month buckets and
  period totals. This is the shared read model for the behavioral scorer,
  the dashboard summary endpoints, and daily snapshots.

BUCKETING:
  Records are grouped by calendar month. The covered range runs from the
  first record's month through the last record's month, inclusive, with
  empty buckets materialized for gap months - a month with no activity is
  information (no debt payment made), not a hole in the data.

DIRECTION:
  All consumers expect chronological order (oldest first). SortRecords
  normalizes arbitrary input order; it is stable so same-day records keep
  their relative order.
*/
package engine

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MonthlySummary aggregates one calendar month of activity.
type MonthlySummary struct {
	Month         MonthKey
	Income        Amount
	Expenses      Amount // absolute value of outflows
	Net           Amount // income - expenses
	Discretionary Amount // outflows in discretionary categories
	DebtPayments  Amount // outflows in CategoryDebt
	ByCategory    map[Category]Amount
	Count         int
}

// Summary aggregates a whole history plus its monthly breakdown.
type Summary struct {
	TotalIncome   Amount
	TotalExpenses Amount
	Net           Amount
	ByCategory    map[Category]Amount

	// Months covers every calendar month from the first record to the
	// last, in order, including empty months.
	Months []MonthlySummary
}

// SortRecords sorts records chronologically, oldest first. Stable.
func SortRecords(records []TransactionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].At.Before(records[j].At)
	})
}

// Summarize buckets records by calendar month and computes totals. The
// input is treated as read-only; it does not need to be pre-sorted. The
// discretionary set defaults to DiscretionaryCategories when nil.
func Summarize(records []TransactionRecord, discretionary map[Category]bool) Summary {
	if discretionary == nil {
		discretionary = DiscretionaryCategories
	}

	unit := UnitBRL
	if len(records) > 0 {
		unit = records[0].Amount.Unit
	}
	zero := func() Amount { return Amount{Value: decimal.Zero, Unit: unit} }

	summary := Summary{
		TotalIncome:   zero(),
		TotalExpenses: zero(),
		Net:           zero(),
		ByCategory:    make(map[Category]Amount),
	}
	if len(records) == 0 {
		return summary
	}

	sorted := make([]TransactionRecord, len(records))
	copy(sorted, records)
	SortRecords(sorted)

	first := MonthOf(sorted[0].At)
	last := MonthOf(sorted[len(sorted)-1].At)

	buckets := make(map[MonthKey]*MonthlySummary)
	for k := first; !last.Before(k); k = k.Next() {
		buckets[k] = &MonthlySummary{
			Month:         k,
			Income:        zero(),
			Expenses:      zero(),
			Net:           zero(),
			Discretionary: zero(),
			DebtPayments:  zero(),
			ByCategory:    make(map[Category]Amount),
		}
	}

	for _, r := range sorted {
		b := buckets[MonthOf(r.At)]
		b.Count++

		abs := r.Amount.Abs()
		if cur, ok := b.ByCategory[r.Category]; ok {
			b.ByCategory[r.Category] = cur.Add(abs)
		} else {
			b.ByCategory[r.Category] = abs
		}
		if cur, ok := summary.ByCategory[r.Category]; ok {
			summary.ByCategory[r.Category] = cur.Add(abs)
		} else {
			summary.ByCategory[r.Category] = abs
		}

		if r.IsIncome() {
			b.Income = b.Income.Add(abs)
			summary.TotalIncome = summary.TotalIncome.Add(abs)
			continue
		}

		b.Expenses = b.Expenses.Add(abs)
		summary.TotalExpenses = summary.TotalExpenses.Add(abs)
		if discretionary[r.Category] {
			b.Discretionary = b.Discretionary.Add(abs)
		}
		if r.Category == CategoryDebt {
			b.DebtPayments = b.DebtPayments.Add(abs)
		}
	}

	for k := first; !last.Before(k); k = k.Next() {
		b := buckets[k]
		b.Net = b.Income.Sub(b.Expenses)
		summary.Months = append(summary.Months, *b)
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)
	return summary
}
