/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the ORBIT Financial Projection Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Start the daily snapshot scheduler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: orbit.db)
             Use ":memory:" for in-memory database
  -snapshots Enable the daily snapshot scheduler (default: true)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the snapshot scheduler
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/orbit.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/orbit/projection-engine/api"
	"github.com/orbit/projection-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "orbit.db", "SQLite database path")
	snapshots := flag.Bool("snapshots", true, "enable the daily snapshot scheduler")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)

	// Snapshot scheduler
	scheduler := api.NewSnapshotScheduler(store, handler)
	scheduler.Enabled = *snapshots
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(handler, scheduler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
