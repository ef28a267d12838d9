package engine_test

import (
	"testing"
	"time"

	"github.com/orbit/projection-engine/engine"
)

func TestBuildSnapshot_NoDebtPositiveNet_Green(t *testing.T) {
	records := []engine.TransactionRecord{
		rec(day(2026, time.August, 5), 4000, engine.RecordIncome, engine.CategorySalary),
		rec(day(2026, time.August, 10), 1500, engine.RecordExpense, engine.CategoryHousing),
	}

	snap := engine.BuildSnapshot("u1", records, nil, day(2026, time.August, 20))

	if snap.Status != engine.StatusGreen {
		t.Errorf("Status = %s, want green", snap.Status)
	}
	cents(t, "Balance", snap.Balance, "2500")
	cents(t, "MonthIncome", snap.MonthIncome, "4000")
	cents(t, "MonthExpenses", snap.MonthExpenses, "1500")
	if snap.FreedomDate != nil {
		t.Error("FreedomDate set with no debt")
	}
}

func TestBuildSnapshot_Investor_Excellent(t *testing.T) {
	records := []engine.TransactionRecord{
		rec(day(2026, time.August, 5), 6000, engine.RecordIncome, engine.CategorySalary),
		rec(day(2026, time.August, 20), 1000, engine.RecordExpense, engine.CategoryInvestment),
	}

	snap := engine.BuildSnapshot("u1", records, nil, day(2026, time.August, 25))
	if snap.Status != engine.StatusExcellent {
		t.Errorf("Status = %s, want excellent", snap.Status)
	}
}

func TestBuildSnapshot_NegativeNet_Yellow(t *testing.T) {
	records := []engine.TransactionRecord{
		rec(day(2026, time.August, 5), 1000, engine.RecordIncome, engine.CategorySalary),
		rec(day(2026, time.August, 10), 1500, engine.RecordExpense, engine.CategoryHousing),
	}

	snap := engine.BuildSnapshot("u1", records, nil, day(2026, time.August, 20))
	if snap.Status != engine.StatusYellow {
		t.Errorf("Status = %s, want yellow", snap.Status)
	}
}

func TestBuildSnapshot_AmortizingDebt_RedWithFreedomDate(t *testing.T) {
	debt := revolvingCard()
	snap := engine.BuildSnapshot("u1", nil, &debt, jan1())

	if snap.Status != engine.StatusRed {
		t.Errorf("Status = %s, want red", snap.Status)
	}
	cents(t, "TotalDebt", snap.TotalDebt, "5000")
	if snap.FreedomDate == nil {
		t.Fatal("FreedomDate missing for amortizing debt")
	}
	want := time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)
	if !snap.FreedomDate.Equal(want) {
		t.Errorf("FreedomDate = %v, want %v", snap.FreedomDate, want)
	}
	if snap.DaysToFreedom <= 0 {
		t.Errorf("DaysToFreedom = %d, want > 0", snap.DaysToFreedom)
	}
}

func TestBuildSnapshot_NonAmortizingDebt_Critical(t *testing.T) {
	debt := revolvingCard()
	debt.MonthlyPayment = brl(100)

	snap := engine.BuildSnapshot("u1", nil, &debt, jan1())

	if snap.Status != engine.StatusCritical {
		t.Errorf("Status = %s, want critical", snap.Status)
	}
	if !snap.NonAmortizing {
		t.Error("NonAmortizing flag not set")
	}
	if snap.FreedomDate != nil {
		t.Error("FreedomDate set for a debt that never pays off")
	}
}

func TestBuildSnapshot_MonthFieldsTrackAsOfMonth(t *testing.T) {
	// Income in July, asOf in August: month fields are zero even though
	// the running balance carries over.
	records := []engine.TransactionRecord{
		rec(day(2026, time.July, 5), 4000, engine.RecordIncome, engine.CategorySalary),
	}

	snap := engine.BuildSnapshot("u1", records, nil, day(2026, time.August, 20))
	if !snap.MonthIncome.IsZero() || !snap.MonthExpenses.IsZero() {
		t.Errorf("month fields not zero: income=%s expenses=%s",
			snap.MonthIncome.Value, snap.MonthExpenses.Value)
	}
	cents(t, "Balance", snap.Balance, "4000")
}
