// Package store provides in-memory implementations of the engine's
// persistence interfaces, for tests and dev servers.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/orbit/projection-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory RecordStore + SnapshotStore
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	records     map[engine.UserID][]engine.TransactionRecord
	idempotency map[string]bool
	snapshots   map[snapKey]engine.Snapshot
}

type snapKey struct {
	UserID engine.UserID
	Day    string // YYYY-MM-DD
}

func NewMemory() *Memory {
	return &Memory{
		records:     make(map[engine.UserID][]engine.TransactionRecord),
		idempotency: make(map[string]bool),
		snapshots:   make(map[snapKey]engine.Snapshot),
	}
}

// Append adds a single record. Append-only.
func (m *Memory) Append(_ context.Context, record engine.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(record)
}

// AppendBatch adds multiple records atomically.
func (m *Memory) AppendBatch(_ context.Context, records []engine.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Check all idempotency keys first (atomic check)
	for _, r := range records {
		if r.IdempotencyKey != "" && m.idempotency[r.IdempotencyKey] {
			return engine.ErrDuplicateIdempotencyKey
		}
	}

	for _, r := range records {
		if err := m.appendLocked(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) appendLocked(record engine.TransactionRecord) error {
	if record.IdempotencyKey != "" && m.idempotency[record.IdempotencyKey] {
		return engine.ErrDuplicateIdempotencyKey
	}

	list := m.records[record.UserID]

	// Binary search keeps the slice chronological on insert.
	i := sort.Search(len(list), func(i int) bool {
		return list[i].At.After(record.At)
	})
	list = append(list, engine.TransactionRecord{})
	copy(list[i+1:], list[i:])
	list[i] = record
	m.records[record.UserID] = list

	if record.IdempotencyKey != "" {
		m.idempotency[record.IdempotencyKey] = true
	}
	return nil
}

func (m *Memory) Load(_ context.Context, userID engine.UserID) ([]engine.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]engine.TransactionRecord, len(m.records[userID]))
	copy(result, m.records[userID])
	return result, nil
}

func (m *Memory) LoadRange(_ context.Context, userID engine.UserID, from, to time.Time) ([]engine.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.TransactionRecord
	for _, r := range m.records[userID] {
		if !r.At.Before(from) && !r.At.After(to) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *Memory) Exists(_ context.Context, idempotencyKey string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.idempotency[idempotencyKey], nil
}

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

func dayOf(t time.Time) string { return t.Format("2006-01-02") }

func (m *Memory) SaveSnapshot(_ context.Context, snap engine.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snapKey{UserID: snap.UserID, Day: dayOf(snap.Date)}] = snap
	return nil
}

func (m *Memory) GetSnapshot(_ context.Context, userID engine.UserID, day time.Time) (*engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snapshots[snapKey{UserID: userID, Day: dayOf(day)}]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (m *Memory) ListSnapshots(_ context.Context, userID engine.UserID, from, to time.Time) ([]engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []engine.Snapshot
	for k, s := range m.snapshots {
		if k.UserID != userID {
			continue
		}
		if !s.Date.Before(from) && !s.Date.After(to) {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
