/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the mobile/web app

ROUTE GROUPS:
  /api/projections/*    Stateless projection math
  /api/users/*          Users, ledgers, debts, dashboards
  /api/debts/*          Stored-debt projections
  /api/score            Ad-hoc scoring
  /api/scenarios/*      Demo scenarios
  /api/admin/*          Admin operations
  /api/reset            Database reset (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, scheduler *SnapshotScheduler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Stateless projection routes
		r.Route("/projections", func(r chi.Router) {
			r.Post("/payoff", h.ProjectPayoff)
			r.Post("/impact", h.EstimateImpact)
			r.Post("/scenario", h.SimulateScenario)
		})

		// User routes
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/{id}", h.GetUser)
			r.Get("/{id}/transactions", h.GetTransactions)
			r.Post("/{id}/transactions", h.CreateTransaction)
			r.Get("/{id}/debts", h.ListDebts)
			r.Post("/{id}/debts", h.CreateDebt)
			r.Get("/{id}/score", h.GetScore)
			r.Get("/{id}/dashboard", h.GetDashboard)
			r.Get("/{id}/freedom", h.GetFreedom)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/snapshots", h.ListSnapshots)
		})

		// Stored-debt routes
		r.Route("/debts", func(r chi.Router) {
			r.Get("/{id}/projection", h.ProjectDebt)
		})

		// Ad-hoc scoring
		r.Post("/score", h.ScoreBatch)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/snapshots/run", func(w http.ResponseWriter, req *http.Request) {
				if scheduler == nil {
					writeError(w, http.StatusServiceUnavailable, "Scheduler not running", nil)
					return
				}
				count, err := scheduler.RunNow(req.Context())
				if err != nil {
					writeError(w, http.StatusInternalServerError, "Snapshot run failed", err)
					return
				}
				writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "snapshots": count})
			})
		})

		r.Post("/reset", h.ResetDatabase)
	})

	// Health check for load balancers and uptime monitors
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
