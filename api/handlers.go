/*
handlers.go - HTTP API handlers for the financial projection engine

PURPOSE:
  Exposes the projection engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Projections (stateless):
    POST   /api/projections/payoff    Project a debt to payoff
    POST   /api/projections/impact    Estimate real cost of a new expense
    POST   /api/projections/scenario  Simulate a "what if" adjustment

  Users:
    GET    /api/users                 List all users
    POST   /api/users                 Create user
    GET    /api/users/{id}            Get user details
    GET    /api/users/{id}/dashboard  Aggregate home-screen view
    GET    /api/users/{id}/score      Behavioral score from ledger
    GET    /api/users/{id}/freedom    Debt-freedom countdown
    GET    /api/users/{id}/summary    Ledger summary by month/category
    GET    /api/users/{id}/snapshots  Historical daily snapshots

  Transactions:
    GET    /api/users/{id}/transactions  Ledger history
    POST   /api/users/{id}/transactions  Append record (idempotent)

  Debts:
    GET    /api/users/{id}/debts      List registered debts
    POST   /api/users/{id}/debts      Register a debt
    GET    /api/debts/{id}/projection Project a stored debt

  Score:
    POST   /api/score                 Score an ad-hoc record batch

  Scenarios:
    GET    /api/scenarios             List demo scenarios
    POST   /api/scenarios/load        Load a demo scenario

ERROR HANDLING:
  Engine errors map to HTTP status:
  - 400: Invalid input, unsupported scenario type
  - 404: User or debt not found
  - 409: Duplicate idempotency key
  - 422: Non-amortizing debt (payment <= first month's interest)
  - 500: Internal errors
  "No active debt" is NOT an error: projection-style endpoints return
  200 with {"no_debt": true} and a coach message.

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/orbit/projection-engine/coach"
	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/factory"
	"github.com/orbit/projection-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store          *sqlite.Store
	Coach          *coach.Coach
	ProfileFactory *factory.ProfileFactory

	// Scoring profile applied when a request names none.
	profile engine.ScoreProfile

	// profiles holds the registered named scoring profiles, selectable
	// per request via profile_id. Populated at startup; read-only after.
	profiles map[string]engine.ScoreProfile

	// Track currently loaded demo scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:          store,
		Coach:          coach.New(),
		ProfileFactory: factory.NewProfileFactory(),
		profile:        engine.DefaultScoreProfile(),
		profiles: map[string]engine.ScoreProfile{
			"default": engine.DefaultScoreProfile(),
		},
	}
}

// RegisterProfile parses a JSON profile document and makes it selectable
// via profile_id. Call during startup, before the server accepts traffic.
func (h *Handler) RegisterProfile(id, raw string) error {
	profile, err := h.ProfileFactory.Parse(raw)
	if err != nil {
		return err
	}
	h.profiles[id] = profile
	return nil
}

// resolveScoreProfile picks the profile for a score request: an inline
// document wins, then a registered profile_id, then the default.
func (h *Handler) resolveScoreProfile(profileID string, inline *factory.ProfileJSON) (engine.ScoreProfile, error) {
	if inline != nil {
		return h.ProfileFactory.Build(*inline)
	}
	if profileID == "" {
		return h.profile, nil
	}
	profile, ok := h.profiles[profileID]
	if !ok {
		return engine.ScoreProfile{}, fmt.Errorf("unknown score profile %q", profileID)
	}
	return profile, nil
}

// =============================================================================
// STATELESS PROJECTION ENDPOINTS
// =============================================================================

// ProjectPayoff projects a debt to payoff from a request-supplied state.
func (h *Handler) ProjectPayoff(w http.ResponseWriter, r *http.Request) {
	var req DebtStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	proj, err := engine.Project(req.DebtState(), asOf)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProjectionDTO(proj, true))
}

// EstimateImpact answers "what does this expense really cost me".
func (h *Handler) EstimateImpact(w http.ResponseWriter, r *http.Request) {
	var req ImpactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	asOf, err := parseAsOf(req.Debt.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	expense := engine.NewAmount(req.NewExpense, engine.UnitBRL)
	impact, err := engine.EstimateImpact(req.Debt.DebtState(), expense, asOf)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ImpactDTO{
		Expense:     impact.Expense.Value.InexactFloat64(),
		ExtraDays:   impact.ExtraDays,
		ExtraMonths: impact.ExtraMonths,
		RealCost:    impact.RealCost.Value.InexactFloat64(),
		TotalCost:   impact.TotalCost.Value.InexactFloat64(),
		Message:     h.Coach.ImpactMessage(impact),
	})
}

// SimulateScenario runs a "what if" adjustment against a debt.
func (h *Handler) SimulateScenario(w http.ResponseWriter, r *http.Request) {
	var req ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	asOf, err := parseAsOf(req.Debt.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	scenario := engine.Scenario{
		Type:  engine.ScenarioType(req.Type),
		Value: decimal.NewFromFloat(req.Value),
	}
	delta, err := engine.Simulate(req.Debt.DebtState(), scenario, asOf)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ScenarioResultDTO{
		Type:          req.Type,
		MonthsDelta:   delta.MonthsDelta,
		DaysDelta:     delta.DaysDelta,
		MonthsSaved:   delta.MonthsSaved(),
		NewPayoffDate: delta.NewPayoffDate.Format("2006-01-02"),
		InterestDelta: delta.InterestDelta.Value.InexactFloat64(),
		DebtCleared:   delta.Modified == nil,
		Message:       h.Coach.ScenarioMessage(delta),
		Baseline:      toProjectionDTO(delta.Baseline, false),
		Modified:      toProjectionDTO(delta.Modified, false),
	})
}

// =============================================================================
// USER ENDPOINTS
// =============================================================================

// ListUsers returns all users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toUserDTO(u))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetUser returns one user.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(*user))
}

// CreateUser registers a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "id, name and email are required", nil)
		return
	}

	user := sqlite.User{ID: req.ID, Name: req.Name, Email: req.Email, CreatedAt: time.Now().UTC()}
	if err := h.Store.SaveUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// =============================================================================
// TRANSACTION ENDPOINTS
// =============================================================================

// GetTransactions returns a user's ledger, chronological.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := engine.UserID(chi.URLParam(r, "id"))

	records, err := h.Store.Load(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}

	dtos := make([]TransactionDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toTransactionDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTransaction appends one record to a user's ledger.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := engine.UserID(chi.URLParam(r, "id"))

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	record, err := h.buildRecord(userID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if err := h.Store.Append(r.Context(), record); err != nil {
		if errors.Is(err, engine.ErrDuplicateIdempotencyKey) {
			writeError(w, http.StatusConflict, "Duplicate idempotency key", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to append transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(record))
}

func (h *Handler) buildRecord(userID engine.UserID, req CreateTransactionRequest) (engine.TransactionRecord, error) {
	at, err := parseWhen(req.At)
	if err != nil {
		return engine.TransactionRecord{}, fmt.Errorf("invalid at date: %s", req.At)
	}

	recordType := engine.RecordType(req.Type)
	if recordType != engine.RecordIncome && recordType != engine.RecordExpense {
		return engine.TransactionRecord{}, fmt.Errorf("type must be income or expense, got %q", req.Type)
	}
	if req.Amount <= 0 {
		return engine.TransactionRecord{}, fmt.Errorf("amount must be positive, got %v", req.Amount)
	}

	return engine.TransactionRecord{
		ID:             engine.RecordID(newRecordID()),
		UserID:         userID,
		Amount:         engine.NewAmount(req.Amount, engine.UnitBRL),
		Type:           recordType,
		Category:       engine.Category(req.Category),
		At:             at,
		Description:    req.Description,
		Source:         req.Source,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// =============================================================================
// DEBT ENDPOINTS
// =============================================================================

// ListDebts returns a user's registered debts.
func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	debts, err := h.Store.ListDebts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	dtos := make([]DebtDTO, 0, len(debts))
	for _, d := range debts {
		dtos = append(dtos, toDebtDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateDebt registers a new debt for a user.
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	var req CreateDebtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.Amount <= 0 || req.MonthlyPayment <= 0 {
		writeError(w, http.StatusBadRequest, "amount and monthly_payment must be positive", nil)
		return
	}
	if req.MonthlyRate < 0 || req.MonthlyRate >= 1 {
		writeError(w, http.StatusBadRequest, "monthly_rate must be in [0, 1)", nil)
		return
	}

	amount := decimal.NewFromFloat(req.Amount)
	debt := sqlite.DebtRecord{
		ID:             newRecordID(),
		UserID:         userID,
		Name:           req.Name,
		Kind:           req.Kind,
		OriginalAmount: amount,
		CurrentAmount:  amount,
		MonthlyRate:    decimal.NewFromFloat(req.MonthlyRate),
		MonthlyPayment: decimal.NewFromFloat(req.MonthlyPayment),
		Active:         true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.Store.SaveDebt(r.Context(), debt); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create debt", err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtDTO(debt))
}

// ProjectDebt projects a stored debt to payoff.
func (h *Handler) ProjectDebt(w http.ResponseWriter, r *http.Request) {
	debt, err := h.Store.GetDebt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get debt", err)
		return
	}
	if debt == nil {
		writeError(w, http.StatusNotFound, "Debt not found", nil)
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	proj, err := engine.Project(debt.DebtState(), asOf)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(proj, true))
}

// =============================================================================
// SCORE ENDPOINTS
// =============================================================================

// GetScore computes the behavioral score from a user's stored ledger.
func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	userID := engine.UserID(chi.URLParam(r, "id"))

	profile, err := h.resolveScoreProfile(r.URL.Query().Get("profile"), nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid score profile", err)
		return
	}

	records, err := h.Store.Load(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}

	score := engine.ScoreBehaviorWithProfile(records, profile)
	dto := toScoreDTO(score)
	dto.Message = h.Coach.TierMessage(score)
	writeJSON(w, http.StatusOK, dto)
}

// ScoreBatch scores an ad-hoc batch of records without persisting them.
func (h *Handler) ScoreBatch(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	profile, err := h.resolveScoreProfile(req.ProfileID, req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid score profile", err)
		return
	}

	records := make([]engine.TransactionRecord, 0, len(req.Records))
	for i, raw := range req.Records {
		rec, err := h.buildRecord("adhoc", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("record %d: %s", i, err.Error()), nil)
			return
		}
		records = append(records, rec)
	}

	score := engine.ScoreBehaviorWithProfile(records, profile)
	dto := toScoreDTO(score)
	dto.Message = h.Coach.TierMessage(score)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// DASHBOARD / SNAPSHOT ENDPOINTS
// =============================================================================

// GetDashboard builds the aggregate home-screen view for a user.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	user, err := h.Store.GetUser(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	records, err := h.Store.Load(ctx, engine.UserID(userID))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}
	debts, err := h.Store.ListDebts(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list debts", err)
		return
	}

	var debtState *engine.DebtState
	active, err := h.Store.GetActiveDebt(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get active debt", err)
		return
	}
	if active != nil {
		state := active.DebtState()
		debtState = &state
	}

	snap := engine.BuildSnapshot(engine.UserID(userID), records, debtState, asOf)
	score := engine.ScoreBehaviorWithProfile(records, h.profile)
	summary := engine.Summarize(records, h.profile.Discretionary)

	dashboard := DashboardDTO{
		Snapshot: toSnapshotDTO(snap),
		Score:    toScoreDTO(score),
		Summary:  toSummaryDTO(summary),
		Message:  h.Coach.StatusMessage(snap),
		Debts:    make([]DebtDTO, 0, len(debts)),
	}
	for _, d := range debts {
		dashboard.Debts = append(dashboard.Debts, toDebtDTO(d))
	}
	if freedom := h.freedomFor(debtState, asOf); freedom != nil {
		dashboard.Freedom = freedom
	}

	writeJSON(w, http.StatusOK, dashboard)
}

// GetFreedom returns the debt-freedom countdown for a user.
func (h *Handler) GetFreedom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "id")

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date (use YYYY-MM-DD)", err)
		return
	}

	active, err := h.Store.GetActiveDebt(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get active debt", err)
		return
	}
	if active == nil {
		writeJSON(w, http.StatusOK, NoDebtDTO{NoDebt: true, Message: h.Coach.NoDebtMessage()})
		return
	}

	state := active.DebtState()
	proj, err := engine.Project(state, asOf)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FreedomDTO{
		FreedomDate:   proj.PayoffDate.Format("2006-01-02"),
		DaysRemaining: proj.RemainingDays(asOf),
		TotalMonths:   proj.TotalMonths,
		TotalInterest: proj.TotalInterestPaid.Value.InexactFloat64(),
	})
}

// freedomFor projects the state and converts it into a countdown.
// Returns nil when there is no debt or the debt is non-amortizing.
func (h *Handler) freedomFor(state *engine.DebtState, asOf time.Time) *FreedomDTO {
	if state == nil {
		return nil
	}
	proj, err := engine.Project(*state, asOf)
	if err != nil {
		return nil
	}
	return &FreedomDTO{
		FreedomDate:   proj.PayoffDate.Format("2006-01-02"),
		DaysRemaining: proj.RemainingDays(asOf),
		TotalMonths:   proj.TotalMonths,
		TotalInterest: proj.TotalInterestPaid.Value.InexactFloat64(),
	}
}

// GetSummary returns the user's ledger summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := engine.UserID(chi.URLParam(r, "id"))

	records, err := h.Store.Load(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(engine.Summarize(records, h.profile.Discretionary)))
}

// ListSnapshots returns stored daily snapshots in a date range.
// Defaults to the trailing 30 days.
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	userID := engine.UserID(chi.URLParam(r, "id"))

	to, err := parseAsOf(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = parseAsOf(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
	}

	snaps, err := h.Store.ListSnapshots(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	dtos := make([]SnapshotDTO, 0, len(snaps))
	for _, snap := range snaps {
		dtos = append(dtos, toSnapshotDTO(snap))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResetDatabase wipes all data. Dev/demo only.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// writeEngineError maps domain errors to HTTP responses. No-debt is a
// 200-level signal, not a failure.
func (h *Handler) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoActiveDebt):
		writeJSON(w, http.StatusOK, NoDebtDTO{NoDebt: true, Message: h.Coach.NoDebtMessage()})
	case errors.Is(err, engine.ErrNonAmortizing):
		var na *engine.NonAmortizingError
		if errors.As(err, &na) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":           "Debt never amortizes with this payment",
				"minimum_payment": na.MinimumPayment.Round2().Value.InexactFloat64(),
				"message":         h.Coach.NonAmortizingMessage(na),
			})
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "Debt never amortizes with this payment", err)
	case errors.Is(err, engine.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case errors.Is(err, engine.ErrUnsupportedScenario):
		writeError(w, http.StatusBadRequest, "Unsupported scenario type", err)
	default:
		writeError(w, http.StatusInternalServerError, "Projection failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// parseAsOf parses a YYYY-MM-DD anchor date, defaulting to today (UTC).
func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", raw)
}

// parseWhen accepts YYYY-MM-DD or RFC3339 timestamps.
func parseWhen(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

var recordSeq atomic.Int64

// newRecordID generates a unique-enough ID for records and debts.
// SQLite's UNIQUE constraints catch the (unlikely) collision.
func newRecordID() string {
	return fmt.Sprintf("rec-%d-%d", time.Now().UnixNano(), recordSeq.Add(1))
}

func toUserDTO(u sqlite.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toDebtDTO(d sqlite.DebtRecord) DebtDTO {
	return DebtDTO{
		ID:             d.ID,
		UserID:         d.UserID,
		Name:           d.Name,
		Kind:           d.Kind,
		OriginalAmount: d.OriginalAmount.InexactFloat64(),
		CurrentAmount:  d.CurrentAmount.InexactFloat64(),
		MonthlyRate:    d.MonthlyRate.InexactFloat64(),
		MonthlyPayment: d.MonthlyPayment.InexactFloat64(),
		Active:         d.Active,
		PaidOff:        d.PaidOff,
	}
}
