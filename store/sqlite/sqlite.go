/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements engine.RecordStore and engine.SnapshotStore plus user and
  debt persistence using SQLite. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  The transactions table is append-only:
  - No UPDATE statements on transactions
  - No DELETE statements on transactions (outside full reset)
  - Corrections via compensating records only

KEY TABLES:
  users:        App users
  transactions: Immutable record of income/expenses (signed amounts)
  debts:        Registered debts with rate/payment terms
  snapshots:    One computed financial snapshot per user per day

MONEY COLUMNS:
  Decimal values are stored as TEXT and parsed with shopspring/decimal to
  avoid any float round-tripping.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/orbit.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/orbit/projection-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection; cap the pool at one
	// so every query sees the same schema.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	-- Transactions (append-only)
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		unit TEXT NOT NULL,
		tx_type TEXT NOT NULL,
		category TEXT NOT NULL,
		at TEXT NOT NULL,
		description TEXT,
		source TEXT,
		idempotency_key TEXT UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_user_at
		ON transactions(user_id, at);
	CREATE INDEX IF NOT EXISTS idx_transactions_category
		ON transactions(category);

	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		kind TEXT,
		original_amount TEXT NOT NULL,
		current_amount TEXT NOT NULL,
		monthly_rate TEXT NOT NULL,
		monthly_payment TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		paid_off INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_debts_user
		ON debts(user_id, active);

	CREATE TABLE IF NOT EXISTS snapshots (
		user_id TEXT NOT NULL,
		day TEXT NOT NULL,
		balance TEXT NOT NULL,
		month_income TEXT NOT NULL,
		month_expenses TEXT NOT NULL,
		total_debt TEXT NOT NULL,
		score INTEGER NOT NULL,
		tier TEXT NOT NULL,
		status TEXT NOT NULL,
		freedom_date TEXT,
		days_to_freedom INTEGER NOT NULL DEFAULT 0,
		non_amortizing INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, day)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Reset wipes all data. Used by demo scenario loaders only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"snapshots", "transactions", "debts", "users"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// USERS
// =============================================================================

type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}

func (s *Store) SaveUser(ctx context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email`,
		u.ID, u.Name, u.Email, u.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE id = ?`, id)

	var u User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// =============================================================================
// TRANSACTIONS - engine.RecordStore
// =============================================================================

// Append persists a transaction record. Append-only.
func (s *Store) Append(ctx context.Context, r engine.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendTx(ctx, s.db, r)
}

// AppendBatch persists records atomically.
func (s *Store) AppendBatch(ctx context.Context, records []engine.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := s.appendTx(ctx, tx, r); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) appendTx(ctx context.Context, db execer, r engine.TransactionRecord) error {
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	var key any
	if r.IdempotencyKey != "" {
		key = r.IdempotencyKey
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO transactions
		 (id, user_id, amount, unit, tx_type, category, at, description, source, idempotency_key, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), string(r.UserID), r.Amount.Value.String(), string(r.Amount.Unit),
		string(r.Type), string(r.Category), r.At.UTC().Format(time.RFC3339),
		r.Description, r.Source, key, createdAt.Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return engine.ErrDuplicateIdempotencyKey
	}
	return err
}

// Load returns all records for a user, chronological.
func (s *Store) Load(ctx context.Context, userID engine.UserID) ([]engine.TransactionRecord, error) {
	return s.query(ctx,
		`SELECT id, user_id, amount, unit, tx_type, category, at, description, source, idempotency_key, created_at
		 FROM transactions WHERE user_id = ? ORDER BY at, created_at`, string(userID))
}

// LoadRange returns records with At in [from, to], chronological.
func (s *Store) LoadRange(ctx context.Context, userID engine.UserID, from, to time.Time) ([]engine.TransactionRecord, error) {
	return s.query(ctx,
		`SELECT id, user_id, amount, unit, tx_type, category, at, description, source, idempotency_key, created_at
		 FROM transactions WHERE user_id = ? AND at >= ? AND at <= ? ORDER BY at, created_at`,
		string(userID), from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
}

// Exists checks whether an idempotency key has been written.
func (s *Store) Exists(ctx context.Context, idempotencyKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM transactions WHERE idempotency_key = ?`, idempotencyKey).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]engine.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.TransactionRecord
	for rows.Next() {
		var r engine.TransactionRecord
		var id, userID, amount, unit, txType, category, at, createdAt string
		var description, source, key sql.NullString
		if err := rows.Scan(&id, &userID, &amount, &unit, &txType, &category, &at, &description, &source, &key, &createdAt); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount for transaction %s: %w", id, err)
		}
		r.ID = engine.RecordID(id)
		r.UserID = engine.UserID(userID)
		r.Amount = engine.Amount{Value: value, Unit: engine.Unit(unit)}
		r.Type = engine.RecordType(txType)
		r.Category = engine.Category(category)
		r.At, _ = time.Parse(time.RFC3339, at)
		r.Description = description.String
		r.Source = source.String
		r.IdempotencyKey = key.String
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// =============================================================================
// DEBTS
// =============================================================================

// DebtRecord is the persisted form of a registered debt.
type DebtRecord struct {
	ID             string
	UserID         string
	Name           string
	Kind           string // cartao, emprestimo, financiamento
	OriginalAmount decimal.Decimal
	CurrentAmount  decimal.Decimal
	MonthlyRate    decimal.Decimal
	MonthlyPayment decimal.Decimal
	Active         bool
	PaidOff        bool
	CreatedAt      time.Time
}

// DebtState converts the record into the engine's input value.
func (d DebtRecord) DebtState() engine.DebtState {
	return engine.DebtState{
		Principal:      engine.Amount{Value: d.CurrentAmount, Unit: engine.UnitBRL},
		MonthlyRate:    d.MonthlyRate,
		MonthlyPayment: engine.Amount{Value: d.MonthlyPayment, Unit: engine.UnitBRL},
	}
}

func (s *Store) SaveDebt(ctx context.Context, d DebtRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO debts
		 (id, user_id, name, kind, original_amount, current_amount, monthly_rate, monthly_payment, active, paid_off, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   current_amount=excluded.current_amount,
		   monthly_rate=excluded.monthly_rate,
		   monthly_payment=excluded.monthly_payment,
		   active=excluded.active,
		   paid_off=excluded.paid_off`,
		d.ID, d.UserID, d.Name, d.Kind,
		d.OriginalAmount.String(), d.CurrentAmount.String(),
		d.MonthlyRate.String(), d.MonthlyPayment.String(),
		boolInt(d.Active), boolInt(d.PaidOff), d.CreatedAt.Format(time.RFC3339))
	return err
}

func (s *Store) GetDebt(ctx context.Context, id string) (*DebtRecord, error) {
	debts, err := s.queryDebts(ctx, `WHERE id = ?`, id)
	if err != nil || len(debts) == 0 {
		return nil, err
	}
	return &debts[0], nil
}

// ListDebts returns all debts for a user, active first.
func (s *Store) ListDebts(ctx context.Context, userID string) ([]DebtRecord, error) {
	return s.queryDebts(ctx, `WHERE user_id = ? ORDER BY active DESC, created_at`, userID)
}

// GetActiveDebt returns the user's largest active debt, or nil. The
// dashboard and impact flows project against this one.
func (s *Store) GetActiveDebt(ctx context.Context, userID string) (*DebtRecord, error) {
	debts, err := s.queryDebts(ctx,
		`WHERE user_id = ? AND active = 1 AND paid_off = 0 ORDER BY CAST(current_amount AS REAL) DESC LIMIT 1`,
		userID)
	if err != nil || len(debts) == 0 {
		return nil, err
	}
	return &debts[0], nil
}

func (s *Store) queryDebts(ctx context.Context, where string, args ...any) ([]DebtRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, name, kind, original_amount, current_amount, monthly_rate, monthly_payment, active, paid_off, created_at
		 FROM debts `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []DebtRecord
	for rows.Next() {
		var d DebtRecord
		var original, current, rate, payment, createdAt string
		var kind sql.NullString
		var active, paidOff int
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &kind, &original, &current, &rate, &payment, &active, &paidOff, &createdAt); err != nil {
			return nil, err
		}
		d.Kind = kind.String
		if d.OriginalAmount, err = decimal.NewFromString(original); err != nil {
			return nil, fmt.Errorf("corrupt original_amount for debt %s: %w", d.ID, err)
		}
		if d.CurrentAmount, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("corrupt current_amount for debt %s: %w", d.ID, err)
		}
		if d.MonthlyRate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("corrupt monthly_rate for debt %s: %w", d.ID, err)
		}
		if d.MonthlyPayment, err = decimal.NewFromString(payment); err != nil {
			return nil, fmt.Errorf("corrupt monthly_payment for debt %s: %w", d.ID, err)
		}
		d.Active = active == 1
		d.PaidOff = paidOff == 1
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// SNAPSHOTS - engine.SnapshotStore
// =============================================================================

const dayFormat = "2006-01-02"

// SaveSnapshot upserts the snapshot for user+day.
func (s *Store) SaveSnapshot(ctx context.Context, snap engine.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var freedom any
	if snap.FreedomDate != nil {
		freedom = snap.FreedomDate.UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots
		 (user_id, day, balance, month_income, month_expenses, total_debt, score, tier, status, freedom_date, days_to_freedom, non_amortizing)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET
		   balance=excluded.balance,
		   month_income=excluded.month_income,
		   month_expenses=excluded.month_expenses,
		   total_debt=excluded.total_debt,
		   score=excluded.score,
		   tier=excluded.tier,
		   status=excluded.status,
		   freedom_date=excluded.freedom_date,
		   days_to_freedom=excluded.days_to_freedom,
		   non_amortizing=excluded.non_amortizing`,
		string(snap.UserID), snap.Date.UTC().Format(dayFormat),
		snap.Balance.Value.String(), snap.MonthIncome.Value.String(),
		snap.MonthExpenses.Value.String(), snap.TotalDebt.Value.String(),
		snap.Score, string(snap.Tier), string(snap.Status),
		freedom, snap.DaysToFreedom, boolInt(snap.NonAmortizing))
	return err
}

// GetSnapshot returns the snapshot for user+day, or nil.
func (s *Store) GetSnapshot(ctx context.Context, userID engine.UserID, day time.Time) (*engine.Snapshot, error) {
	snaps, err := s.querySnapshots(ctx, `WHERE user_id = ? AND day = ?`,
		string(userID), day.UTC().Format(dayFormat))
	if err != nil || len(snaps) == 0 {
		return nil, err
	}
	return &snaps[0], nil
}

// ListSnapshots returns snapshots in [from, to], chronological.
func (s *Store) ListSnapshots(ctx context.Context, userID engine.UserID, from, to time.Time) ([]engine.Snapshot, error) {
	return s.querySnapshots(ctx, `WHERE user_id = ? AND day >= ? AND day <= ? ORDER BY day`,
		string(userID), from.UTC().Format(dayFormat), to.UTC().Format(dayFormat))
}

func (s *Store) querySnapshots(ctx context.Context, where string, args ...any) ([]engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, day, balance, month_income, month_expenses, total_debt, score, tier, status, freedom_date, days_to_freedom, non_amortizing
		 FROM snapshots `+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []engine.Snapshot
	for rows.Next() {
		var snap engine.Snapshot
		var userID, day, balance, income, expenses, debt, tier, status string
		var freedom sql.NullString
		var nonAmortizing int
		if err := rows.Scan(&userID, &day, &balance, &income, &expenses, &debt,
			&snap.Score, &tier, &status, &freedom, &snap.DaysToFreedom, &nonAmortizing); err != nil {
			return nil, err
		}
		snap.UserID = engine.UserID(userID)
		snap.Date, _ = time.Parse(dayFormat, day)
		snap.Balance = amountFromColumn(balance)
		snap.MonthIncome = amountFromColumn(income)
		snap.MonthExpenses = amountFromColumn(expenses)
		snap.TotalDebt = amountFromColumn(debt)
		snap.Tier = engine.Tier(tier)
		snap.Status = engine.Status(status)
		snap.NonAmortizing = nonAmortizing == 1
		if freedom.Valid {
			t, err := time.Parse(time.RFC3339, freedom.String)
			if err == nil {
				snap.FreedomDate = &t
			}
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func amountFromColumn(raw string) engine.Amount {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		value = decimal.Zero
	}
	return engine.Amount{Value: value, Unit: engine.UnitBRL}
}
