/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates a user, ledger
	history, and debts that demonstrate specific engine behavior.

AVAILABLE SCENARIOS:

	fresh-start:        New user, empty ledger (neutral score)
	credit-card-crisis: Revolving credit card debt at 5% a.m.
	steady-payer:       Consistent payments, healthy habits
	big-spender:        High discretionary spending, volatile months
	debt-free:          No debt, investing monthly

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create user
 3. Register debts
 4. Append ledger history (batch, chronological)

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "credit-card-crisis"}

ADDING NEW SCENARIOS:
 1. Add to 'demoScenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, h)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - engine/score.go: Behavior the histories are shaped to exercise
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/store/sqlite"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var demoScenarios = []DemoScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "New user with an empty ledger and no debt",
		Category:    "onboarding",
	},
	{
		ID:          "credit-card-crisis",
		Name:        "Credit Card Crisis",
		Description: "R$5000 revolving at 5% a.m., paying R$500/month",
		Category:    "debt",
	},
	{
		ID:          "steady-payer",
		Name:        "Steady Payer",
		Description: "Consistent debt payments and positive savings every month",
		Category:    "debt",
	},
	{
		ID:          "big-spender",
		Name:        "Big Spender",
		Description: "High discretionary spending with volatile months",
		Category:    "behavior",
	},
	{
		ID:          "debt-free",
		Name:        "Debt Free",
		Description: "No debt, investing monthly",
		Category:    "behavior",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, demoScenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range demoScenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, DemoScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "fresh-start":
		err = loadFreshStartScenario(ctx, h)
	case "credit-card-crisis":
		err = loadCreditCardCrisisScenario(ctx, h)
	case "steady-payer":
		err = loadSteadyPayerScenario(ctx, h)
	case "big-spender":
		err = loadBigSpenderScenario(ctx, h)
	case "debt-free":
		err = loadDebtFreeScenario(ctx, h)
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// seedRecord builds one ledger record monthsAgo months in the past,
// on the given day of that month.
func seedRecord(userID string, monthsAgo, day int, amount float64, rt engine.RecordType, cat engine.Category, desc string) engine.TransactionRecord {
	now := time.Now().UTC()
	at := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC).AddDate(0, -monthsAgo, day-1)
	return engine.TransactionRecord{
		ID:          engine.RecordID(newRecordID()),
		UserID:      engine.UserID(userID),
		Amount:      engine.NewAmount(amount, engine.UnitBRL),
		Type:        rt,
		Category:    cat,
		At:          at,
		Description: desc,
		Source:      "import",
		CreatedAt:   now,
	}
}

func loadFreshStartScenario(ctx context.Context, h *Handler) error {
	return h.Store.SaveUser(ctx, sqlite.User{
		ID:    "maria",
		Name:  "Maria Santos",
		Email: "maria@example.com",
	})
}

// loadCreditCardCrisisScenario is the canonical projection demo: the
// numbers line up with a 15-month payoff and ~R$2105 of interest.
func loadCreditCardCrisisScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.SaveUser(ctx, sqlite.User{
		ID:    "carlos",
		Name:  "Carlos Oliveira",
		Email: "carlos@example.com",
	}); err != nil {
		return err
	}

	if err := h.Store.SaveDebt(ctx, sqlite.DebtRecord{
		ID:             "debt-cartao",
		UserID:         "carlos",
		Name:           "Cartão rotativo",
		Kind:           "cartao",
		OriginalAmount: engine.MustParseDecimal("6200"),
		CurrentAmount:  engine.MustParseDecimal("5000"),
		MonthlyRate:    engine.MustParseDecimal("0.05"),
		MonthlyPayment: engine.MustParseDecimal("500"),
		Active:         true,
	}); err != nil {
		return err
	}

	var records []engine.TransactionRecord
	for m := 3; m >= 1; m-- {
		records = append(records,
			seedRecord("carlos", m, 5, 3200, engine.RecordIncome, engine.CategorySalary, "Salário"),
			seedRecord("carlos", m, 8, 500, engine.RecordExpense, engine.CategoryDebt, "Pagamento cartão"),
			seedRecord("carlos", m, 10, 900, engine.RecordExpense, engine.CategoryHousing, "Aluguel"),
			seedRecord("carlos", m, 12, 650, engine.RecordExpense, engine.CategoryFood, "Mercado"),
			seedRecord("carlos", m, 15, 420, engine.RecordExpense, engine.CategoryDelivery, "iFood"),
			seedRecord("carlos", m, 20, 380, engine.RecordExpense, engine.CategoryLeisure, "Baladas"),
		)
	}
	return h.Store.AppendBatch(ctx, records)
}

func loadSteadyPayerScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.SaveUser(ctx, sqlite.User{
		ID:    "ana",
		Name:  "Ana Costa",
		Email: "ana@example.com",
	}); err != nil {
		return err
	}

	if err := h.Store.SaveDebt(ctx, sqlite.DebtRecord{
		ID:             "debt-emprestimo",
		UserID:         "ana",
		Name:           "Empréstimo pessoal",
		Kind:           "emprestimo",
		OriginalAmount: engine.MustParseDecimal("8000"),
		CurrentAmount:  engine.MustParseDecimal("3000"),
		MonthlyRate:    engine.MustParseDecimal("0.02"),
		MonthlyPayment: engine.MustParseDecimal("600"),
		Active:         true,
	}); err != nil {
		return err
	}

	var records []engine.TransactionRecord
	for m := 6; m >= 1; m-- {
		records = append(records,
			seedRecord("ana", m, 5, 5500, engine.RecordIncome, engine.CategorySalary, "Salário"),
			seedRecord("ana", m, 6, 600, engine.RecordExpense, engine.CategoryDebt, "Parcela empréstimo"),
			seedRecord("ana", m, 10, 1400, engine.RecordExpense, engine.CategoryHousing, "Aluguel"),
			seedRecord("ana", m, 12, 800, engine.RecordExpense, engine.CategoryFood, "Mercado"),
			seedRecord("ana", m, 18, 200, engine.RecordExpense, engine.CategoryLeisure, "Cinema"),
			seedRecord("ana", m, 25, 500, engine.RecordExpense, engine.CategoryInvestment, "Tesouro Direto"),
		)
	}
	return h.Store.AppendBatch(ctx, records)
}

func loadBigSpenderScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.SaveUser(ctx, sqlite.User{
		ID:    "pedro",
		Name:  "Pedro Lima",
		Email: "pedro@example.com",
	}); err != nil {
		return err
	}

	if err := h.Store.SaveDebt(ctx, sqlite.DebtRecord{
		ID:             "debt-rotativo",
		UserID:         "pedro",
		Name:           "Cartão estourado",
		Kind:           "cartao",
		OriginalAmount: engine.MustParseDecimal("4000"),
		CurrentAmount:  engine.MustParseDecimal("4000"),
		MonthlyRate:    engine.MustParseDecimal("0.12"),
		MonthlyPayment: engine.MustParseDecimal("400"),
		Active:         true,
	}); err != nil {
		return err
	}

	// Volatile discretionary spending, debt payment skipped some months.
	discretionary := []float64{2400, 300, 1800, 250, 2900, 400}
	var records []engine.TransactionRecord
	for i, spend := range discretionary {
		m := len(discretionary) - i
		records = append(records,
			seedRecord("pedro", m, 5, 4200, engine.RecordIncome, engine.CategorySalary, "Salário"),
			seedRecord("pedro", m, 9, 1100, engine.RecordExpense, engine.CategoryHousing, "Aluguel"),
			seedRecord("pedro", m, 14, spend, engine.RecordExpense, engine.CategoryLeisure, "Rolês"),
			seedRecord("pedro", m, 16, 700, engine.RecordExpense, engine.CategoryDelivery, "Delivery"),
		)
		if m%2 == 0 {
			records = append(records,
				seedRecord("pedro", m, 8, 400, engine.RecordExpense, engine.CategoryDebt, "Mínimo do cartão"))
		}
	}
	return h.Store.AppendBatch(ctx, records)
}

func loadDebtFreeScenario(ctx context.Context, h *Handler) error {
	if err := h.Store.SaveUser(ctx, sqlite.User{
		ID:    "julia",
		Name:  "Júlia Ferreira",
		Email: "julia@example.com",
	}); err != nil {
		return err
	}

	var records []engine.TransactionRecord
	for m := 6; m >= 1; m-- {
		records = append(records,
			seedRecord("julia", m, 1, 7000, engine.RecordIncome, engine.CategorySalary, "Salário"),
			seedRecord("julia", m, 8, 1800, engine.RecordExpense, engine.CategoryHousing, "Apartamento"),
			seedRecord("julia", m, 10, 900, engine.RecordExpense, engine.CategoryFood, "Mercado"),
			seedRecord("julia", m, 15, 350, engine.RecordExpense, engine.CategoryLeisure, "Lazer"),
			seedRecord("julia", m, 20, 1500, engine.RecordExpense, engine.CategoryInvestment, "Aportes"),
		)
	}
	return h.Store.AppendBatch(ctx, records)
}
