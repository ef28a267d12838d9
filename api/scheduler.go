/*
scheduler.go - Automated daily snapshot scheduler

PURPOSE:
  Periodically computes and stores one financial snapshot per user per
  day. Snapshots feed the history endpoint and keep the dashboard's
  trend view cheap to serve.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Skips users that already have a snapshot for today
  - Recomputing a snapshot for the same day overwrites it (upsert),
    so an extra run is harmless

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewSnapshotScheduler(store, handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - engine/snapshot.go: BuildSnapshot
  - server.go: /api/admin/snapshots/run (manual trigger)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/store/sqlite"
)

// SnapshotScheduler computes daily snapshots for all users.
type SnapshotScheduler struct {
	Store         *sqlite.Store
	Handler       *Handler
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSnapshotScheduler creates a new scheduler.
func NewSnapshotScheduler(store *sqlite.Store, handler *Handler) *SnapshotScheduler {
	return &SnapshotScheduler{
		Store:         store,
		Handler:       handler,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ss *SnapshotScheduler) Start() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if !ss.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ss.ticker = time.NewTicker(ss.CheckInterval)
	ss.wg.Add(1)

	go ss.run()

	log.Printf("[Scheduler] Started with check interval: %v", ss.CheckInterval)
}

// Stop stops the scheduler.
func (ss *SnapshotScheduler) Stop() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.ticker != nil {
		ss.ticker.Stop()
		close(ss.stop)
		ss.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ss *SnapshotScheduler) run() {
	defer ss.wg.Done()

	// Run immediately on start
	ss.checkAndProcess()

	for {
		select {
		case <-ss.ticker.C:
			ss.checkAndProcess()
		case <-ss.stop:
			return
		}
	}
}

func (ss *SnapshotScheduler) checkAndProcess() {
	ctx := context.Background()
	today := time.Now().UTC()

	log.Printf("[Scheduler] Checking for pending snapshots at %v", today.Format("2006-01-02"))

	users, err := ss.Store.ListUsers(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing users: %v", err)
		return
	}

	processedCount := 0
	skippedCount := 0

	for _, user := range users {
		userID := engine.UserID(user.ID)

		existing, err := ss.Store.GetSnapshot(ctx, userID, today)
		if err != nil {
			log.Printf("[Scheduler] Error checking snapshot for %s: %v", user.ID, err)
			continue
		}
		if existing != nil {
			skippedCount++
			continue
		}

		if err := ss.snapshotUser(ctx, userID, today); err != nil {
			log.Printf("[Scheduler] Error snapshotting %s: %v", user.ID, err)
			continue
		}
		processedCount++
	}

	if processedCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Snapshots: %d processed, %d skipped", processedCount, skippedCount)
	}
}

// RunNow forces a snapshot run for all users, overwriting today's
// snapshots. Returns the number of users processed.
func (ss *SnapshotScheduler) RunNow(ctx context.Context) (int, error) {
	today := time.Now().UTC()

	users, err := ss.Store.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, user := range users {
		if err := ss.snapshotUser(ctx, engine.UserID(user.ID), today); err != nil {
			log.Printf("[Scheduler] Error snapshotting %s: %v", user.ID, err)
			continue
		}
		count++
	}
	return count, nil
}

func (ss *SnapshotScheduler) snapshotUser(ctx context.Context, userID engine.UserID, day time.Time) error {
	records, err := ss.Store.Load(ctx, userID)
	if err != nil {
		return err
	}

	var debtState *engine.DebtState
	active, err := ss.Store.GetActiveDebt(ctx, string(userID))
	if err != nil {
		return err
	}
	if active != nil {
		state := active.DebtState()
		debtState = &state
	}

	snap := engine.BuildSnapshot(userID, records, debtState, day)
	return ss.Store.SaveSnapshot(ctx, snap)
}
