/*
store.go - Persistence interfaces consumed by the service layer

PURPOSE:
  The engine itself computes over explicit inputs and never touches
  storage. These interfaces define how the calling layer (API handlers,
  snapshot scheduler) fetches TransactionRecords and persists snapshots,
  so the same handlers run against SQLite in production and the in-memory
  store in tests.

APPEND-ONLY CONTRACT:
  RecordStore is append-only: no Update, no Delete. Mistaken entries are
  corrected by appending a compensating record. Every write may carry an
  idempotency key; duplicate keys are rejected so network retries and
  double-clicks can't double-count a purchase.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - engine/store/memory.go: In-memory for tests and dev
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// RECORD STORE - Append-only transaction persistence
// =============================================================================

// RecordStore persists transaction records per user.
type RecordStore interface {
	// Append persists one record. Returns ErrDuplicateIdempotencyKey if
	// the record's key was already written.
	Append(ctx context.Context, record TransactionRecord) error

	// AppendBatch persists records atomically: all or none.
	AppendBatch(ctx context.Context, records []TransactionRecord) error

	// Load returns all records for a user, chronological.
	Load(ctx context.Context, userID UserID) ([]TransactionRecord, error)

	// LoadRange returns records with At in [from, to], chronological.
	LoadRange(ctx context.Context, userID UserID, from, to time.Time) ([]TransactionRecord, error)

	// Exists checks whether an idempotency key has been written.
	Exists(ctx context.Context, idempotencyKey string) (bool, error)
}

// =============================================================================
// SNAPSHOT STORE - One snapshot per user per day
// =============================================================================

// SnapshotStore persists daily snapshots. Saving twice for the same
// user+date overwrites: a snapshot is a computed value, not a ledger entry.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error

	// GetSnapshot returns the snapshot for the given day, or nil.
	GetSnapshot(ctx context.Context, userID UserID, day time.Time) (*Snapshot, error)

	// ListSnapshots returns snapshots in [from, to], chronological.
	ListSnapshots(ctx context.Context, userID UserID, from, to time.Time) ([]Snapshot, error)
}
