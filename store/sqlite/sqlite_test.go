package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tx(id string, at time.Time, key string) engine.TransactionRecord {
	return engine.TransactionRecord{
		ID:             engine.RecordID(id),
		UserID:         "u1",
		Amount:         engine.NewAmount(99.90, engine.UnitBRL),
		Type:           engine.RecordExpense,
		Category:       engine.CategoryDelivery,
		At:             at,
		Source:         "manual",
		IdempotencyKey: key,
	}
}

func march(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func TestSQLite_TransactionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, tx("a", march(10), "")))
	require.NoError(t, s.Append(ctx, tx("b", march(2), "")))

	records, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Chronological, with decimals intact
	assert.Equal(t, engine.RecordID("b"), records[0].ID)
	assert.Equal(t, "99.9", records[0].Amount.Value.String())
	assert.Equal(t, engine.CategoryDelivery, records[0].Category)
	assert.Equal(t, "manual", records[0].Source)
}

func TestSQLite_IdempotencyKeyConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, tx("a", march(1), "key-1")))

	err := s.Append(ctx, tx("b", march(2), "key-1"))
	assert.ErrorIs(t, err, engine.ErrDuplicateIdempotencyKey)

	exists, err := s.Exists(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.Exists(ctx, "key-2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLite_AppendBatchRollsBackOnConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Append(ctx, tx("a", march(1), "taken")))

	err := s.AppendBatch(ctx, []engine.TransactionRecord{
		tx("b", march(2), ""),
		tx("c", march(3), "taken"),
	})
	require.Error(t, err)

	records, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSQLite_LoadRange(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.AppendBatch(ctx, []engine.TransactionRecord{
		tx("a", march(1), ""),
		tx("b", march(15), ""),
		tx("c", march(30), ""),
	}))

	records, err := s.LoadRange(ctx, "u1", march(10), march(20))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, engine.RecordID("b"), records[0].ID)
}

func TestSQLite_DebtsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	debt := sqlite.DebtRecord{
		ID:             "d1",
		UserID:         "u1",
		Name:           "Cartão",
		Kind:           "cartao",
		OriginalAmount: engine.MustParseDecimal("6200"),
		CurrentAmount:  engine.MustParseDecimal("5000"),
		MonthlyRate:    engine.MustParseDecimal("0.05"),
		MonthlyPayment: engine.MustParseDecimal("500"),
		Active:         true,
	}
	require.NoError(t, s.SaveDebt(ctx, debt))

	got, err := s.GetDebt(ctx, "d1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "0.05", got.MonthlyRate.String())

	state := got.DebtState()
	assert.Equal(t, "5000", state.Principal.Value.String())
}

func TestSQLite_GetActiveDebt_PicksLargest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	small := sqlite.DebtRecord{
		ID: "small", UserID: "u1", Name: "Consignado",
		OriginalAmount: engine.MustParseDecimal("1000"),
		CurrentAmount:  engine.MustParseDecimal("800"),
		MonthlyRate:    engine.MustParseDecimal("0.02"),
		MonthlyPayment: engine.MustParseDecimal("100"),
		Active:         true,
	}
	big := sqlite.DebtRecord{
		ID: "big", UserID: "u1", Name: "Cartão",
		OriginalAmount: engine.MustParseDecimal("5000"),
		CurrentAmount:  engine.MustParseDecimal("5000"),
		MonthlyRate:    engine.MustParseDecimal("0.05"),
		MonthlyPayment: engine.MustParseDecimal("500"),
		Active:         true,
	}
	paidOff := sqlite.DebtRecord{
		ID: "done", UserID: "u1", Name: "Antigo",
		OriginalAmount: engine.MustParseDecimal("9000"),
		CurrentAmount:  engine.MustParseDecimal("9000"),
		MonthlyRate:    engine.MustParseDecimal("0.03"),
		MonthlyPayment: engine.MustParseDecimal("300"),
		Active:         true, PaidOff: true,
	}
	for _, d := range []sqlite.DebtRecord{small, big, paidOff} {
		require.NoError(t, s.SaveDebt(ctx, d))
	}

	active, err := s.GetActiveDebt(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "big", active.ID)
}

func TestSQLite_SnapshotUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	d := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	freedom := time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)
	snap := engine.Snapshot{
		UserID:        "u1",
		Date:          d,
		Balance:       engine.NewAmount(2500, engine.UnitBRL),
		MonthIncome:   engine.NewAmount(4000, engine.UnitBRL),
		MonthExpenses: engine.NewAmount(1500, engine.UnitBRL),
		TotalDebt:     engine.NewAmount(5000, engine.UnitBRL),
		Score:         540,
		Tier:          engine.TierRegular,
		Status:        engine.StatusRed,
		FreedomDate:   &freedom,
		DaysToFreedom: 387,
	}
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	// Same day again: overwrite, not duplicate.
	snap.Score = 560
	require.NoError(t, s.SaveSnapshot(ctx, snap))

	got, err := s.GetSnapshot(ctx, "u1", d)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 560, got.Score)
	assert.Equal(t, engine.StatusRed, got.Status)
	require.NotNil(t, got.FreedomDate)
	assert.Equal(t, "2027-04-01", got.FreedomDate.Format("2006-01-02"))

	snaps, err := s.ListSnapshots(ctx, "u1", d.AddDate(0, 0, -1), d.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestSQLite_ResetWipesAllTables(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveUser(ctx, sqlite.User{ID: "u1", Name: "U", Email: "u@example.com"}))
	require.NoError(t, s.Append(ctx, tx("a", march(1), "")))
	require.NoError(t, s.Reset(ctx))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	records, err := s.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, records)
}
