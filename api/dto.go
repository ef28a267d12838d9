/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY REPRESENTATION:
  Amounts cross the wire as JSON numbers (floats). They are converted to
  decimals at the handler boundary; all arithmetic happens on decimals.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Domain model these map from
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/orbit/projection-engine/engine"
	"github.com/orbit/projection-engine/factory"
)

// =============================================================================
// DEBT STATE INPUT
// =============================================================================

// DebtStateRequest is the wire form of a debt to project. Used standalone
// by the stateless projection endpoints and embedded by debt creation.
type DebtStateRequest struct {
	Principal           float64 `json:"principal"`
	MonthlyRate         float64 `json:"monthly_rate"`
	MonthlyPayment      float64 `json:"monthly_payment"`
	MonthlyContribution float64 `json:"monthly_contribution,omitempty"`

	// AsOf anchors calendar math. Defaults to today (UTC) when empty.
	// Format: YYYY-MM-DD.
	AsOf string `json:"as_of,omitempty"`
}

// DebtState converts the request into the engine's input value.
func (r DebtStateRequest) DebtState() engine.DebtState {
	return engine.DebtState{
		Principal:           engine.NewAmount(r.Principal, engine.UnitBRL),
		MonthlyRate:         decimal.NewFromFloat(r.MonthlyRate),
		MonthlyPayment:      engine.NewAmount(r.MonthlyPayment, engine.UnitBRL),
		MonthlyContribution: engine.NewAmount(r.MonthlyContribution, engine.UnitBRL),
	}
}

// =============================================================================
// PROJECTION RESPONSES
// =============================================================================

// MonthEntryDTO is one month of an amortization trajectory.
type MonthEntryDTO struct {
	Month    int     `json:"month"`
	Interest float64 `json:"interest"`
	Payment  float64 `json:"payment"`
	Balance  float64 `json:"balance"`
}

// ProjectionDTO is a payoff projection in API responses.
type ProjectionDTO struct {
	TotalMonths       int             `json:"total_months"`
	PayoffDate        string          `json:"payoff_date"`
	TotalInterestPaid float64         `json:"total_interest_paid"`
	TotalPaid         float64         `json:"total_paid"`
	MonthlyBalances   []MonthEntryDTO `json:"monthly_balances,omitempty"`
}

// ImpactRequest asks "what does this new expense really cost me".
type ImpactRequest struct {
	Debt       DebtStateRequest `json:"debt"`
	NewExpense float64          `json:"new_expense"`
}

// ImpactDTO is the impact estimate plus the coach's framing of it.
type ImpactDTO struct {
	Expense     float64 `json:"expense"`
	ExtraDays   int     `json:"extra_days"`
	ExtraMonths int     `json:"extra_months"`
	RealCost    float64 `json:"real_cost"`
	TotalCost   float64 `json:"total_cost"`
	Message     string  `json:"message"`
}

// ScenarioRequest asks for a "what if" simulation against a debt.
type ScenarioRequest struct {
	Debt  DebtStateRequest `json:"debt"`
	Type  string           `json:"type"`
	Value float64          `json:"value"`
}

// ScenarioResultDTO is the outcome of a simulation.
type ScenarioResultDTO struct {
	Type          string  `json:"type"`
	MonthsDelta   int     `json:"months_delta"`
	DaysDelta     int     `json:"days_delta"`
	MonthsSaved   int     `json:"months_saved"`
	NewPayoffDate string  `json:"new_payoff_date"`
	InterestDelta float64 `json:"interest_delta"`
	DebtCleared   bool    `json:"debt_cleared"`
	Message       string  `json:"message"`

	Baseline *ProjectionDTO `json:"baseline,omitempty"`
	Modified *ProjectionDTO `json:"modified,omitempty"`
}

// NoDebtDTO is returned (HTTP 200) when a projection-style operation is
// requested against a zero-principal state. Having no debt is a signal,
// not an error.
type NoDebtDTO struct {
	NoDebt  bool   `json:"no_debt"`
	Message string `json:"message"`
}

// =============================================================================
// USERS
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateUserRequest is the request to create a user.
type CreateUserRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// TransactionDTO represents a ledger record in API responses.
type TransactionDTO struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	At          string  `json:"at"`
	Description string  `json:"description,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// CreateTransactionRequest appends one record to a user's ledger.
type CreateTransactionRequest struct {
	Amount         float64 `json:"amount"`
	Type           string  `json:"type"`
	Category       string  `json:"category"`
	At             string  `json:"at"` // YYYY-MM-DD or RFC3339
	Description    string  `json:"description,omitempty"`
	Source         string  `json:"source,omitempty"`
	IdempotencyKey string  `json:"idempotency_key,omitempty"`
}

// =============================================================================
// DEBTS
// =============================================================================

// DebtDTO represents a registered debt in API responses.
type DebtDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	Kind           string  `json:"kind,omitempty"`
	OriginalAmount float64 `json:"original_amount"`
	CurrentAmount  float64 `json:"current_amount"`
	MonthlyRate    float64 `json:"monthly_rate"`
	MonthlyPayment float64 `json:"monthly_payment"`
	Active         bool    `json:"active"`
	PaidOff        bool    `json:"paid_off"`
}

// CreateDebtRequest registers a debt for a user.
type CreateDebtRequest struct {
	Name           string  `json:"name"`
	Kind           string  `json:"kind,omitempty"`
	Amount         float64 `json:"amount"`
	MonthlyRate    float64 `json:"monthly_rate"`
	MonthlyPayment float64 `json:"monthly_payment"`
}

// =============================================================================
// SCORE
// =============================================================================

// ScoreDTO is a behavioral score in API responses.
type ScoreDTO struct {
	Score     int            `json:"score"`
	Tier      string         `json:"tier"`
	Breakdown map[string]int `json:"breakdown"`
	Tips      []string       `json:"tips"`
	Message   string         `json:"message,omitempty"`
}

// ScoreRequest scores an ad-hoc batch of records without persisting them.
// ProfileID selects a registered scoring profile; Profile supplies an
// inline document instead and takes precedence when both are set.
type ScoreRequest struct {
	Records   []CreateTransactionRequest `json:"records"`
	ProfileID string                     `json:"profile_id,omitempty"`
	Profile   *factory.ProfileJSON       `json:"profile,omitempty"`
}

// =============================================================================
// DASHBOARD / SNAPSHOTS
// =============================================================================

// SnapshotDTO is one financial snapshot in API responses.
type SnapshotDTO struct {
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	Balance       float64 `json:"balance"`
	MonthIncome   float64 `json:"month_income"`
	MonthExpenses float64 `json:"month_expenses"`
	TotalDebt     float64 `json:"total_debt"`
	Score         int     `json:"score"`
	Tier          string  `json:"tier"`
	Status        string  `json:"status"`
	FreedomDate   *string `json:"freedom_date"`
	DaysToFreedom int     `json:"days_to_freedom"`
	NonAmortizing bool    `json:"non_amortizing"`
}

// DashboardDTO is the aggregate view the app's home screen renders.
type DashboardDTO struct {
	Snapshot SnapshotDTO    `json:"snapshot"`
	Debts    []DebtDTO      `json:"debts"`
	Score    ScoreDTO       `json:"score"`
	Freedom  *FreedomDTO    `json:"freedom,omitempty"`
	Summary  LedgerSummary  `json:"summary"`
	Message  string         `json:"message,omitempty"`
}

// FreedomDTO is the debt-freedom countdown.
type FreedomDTO struct {
	FreedomDate   string  `json:"freedom_date"`
	DaysRemaining int     `json:"days_remaining"`
	TotalMonths   int     `json:"total_months"`
	TotalInterest float64 `json:"total_interest"`
}

// MonthlySummaryDTO is one calendar month of ledger activity.
type MonthlySummaryDTO struct {
	Month         string  `json:"month"` // YYYY-MM
	Income        float64 `json:"income"`
	Expenses      float64 `json:"expenses"`
	Net           float64 `json:"net"`
	Discretionary float64 `json:"discretionary"`
	DebtPayments  float64 `json:"debt_payments"`
	Count         int     `json:"count"`
}

// LedgerSummary aggregates a user's whole history.
type LedgerSummary struct {
	TotalIncome   float64             `json:"total_income"`
	TotalExpenses float64             `json:"total_expenses"`
	Net           float64             `json:"net"`
	ByCategory    map[string]float64  `json:"by_category"`
	Months        []MonthlySummaryDTO `json:"months"`
}

// =============================================================================
// SCENARIOS (DEMO DATA)
// =============================================================================

// DemoScenarioDTO describes a loadable demo scenario.
type DemoScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// LoadScenarioRequest selects a demo scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toProjectionDTO(p *engine.DebtProjection, includeTrajectory bool) *ProjectionDTO {
	if p == nil {
		return nil
	}
	dto := &ProjectionDTO{
		TotalMonths:       p.TotalMonths,
		PayoffDate:        p.PayoffDate.Format("2006-01-02"),
		TotalInterestPaid: p.TotalInterestPaid.Value.InexactFloat64(),
		TotalPaid:         p.TotalPaid.Value.InexactFloat64(),
	}
	if includeTrajectory {
		dto.MonthlyBalances = make([]MonthEntryDTO, 0, len(p.MonthlyBalances))
		for _, e := range p.MonthlyBalances {
			dto.MonthlyBalances = append(dto.MonthlyBalances, MonthEntryDTO{
				Month:    e.Month,
				Interest: e.Interest.Round2().Value.InexactFloat64(),
				Payment:  e.Payment.Round2().Value.InexactFloat64(),
				Balance:  e.Balance.Round2().Value.InexactFloat64(),
			})
		}
	}
	return dto
}

func toSnapshotDTO(snap engine.Snapshot) SnapshotDTO {
	dto := SnapshotDTO{
		UserID:        string(snap.UserID),
		Date:          snap.Date.Format("2006-01-02"),
		Balance:       snap.Balance.Value.InexactFloat64(),
		MonthIncome:   snap.MonthIncome.Value.InexactFloat64(),
		MonthExpenses: snap.MonthExpenses.Value.InexactFloat64(),
		TotalDebt:     snap.TotalDebt.Value.InexactFloat64(),
		Score:         snap.Score,
		Tier:          string(snap.Tier),
		Status:        string(snap.Status),
		DaysToFreedom: snap.DaysToFreedom,
		NonAmortizing: snap.NonAmortizing,
	}
	if snap.FreedomDate != nil {
		s := snap.FreedomDate.Format("2006-01-02")
		dto.FreedomDate = &s
	}
	return dto
}

func toScoreDTO(score engine.BehavioralScore) ScoreDTO {
	return ScoreDTO{
		Score:     score.Score,
		Tier:      string(score.Tier),
		Breakdown: score.Breakdown,
		Tips:      score.Tips,
	}
}

func toSummaryDTO(s engine.Summary) LedgerSummary {
	out := LedgerSummary{
		TotalIncome:   s.TotalIncome.Value.InexactFloat64(),
		TotalExpenses: s.TotalExpenses.Value.InexactFloat64(),
		Net:           s.Net.Value.InexactFloat64(),
		ByCategory:    make(map[string]float64, len(s.ByCategory)),
		Months:        make([]MonthlySummaryDTO, 0, len(s.Months)),
	}
	for cat, amt := range s.ByCategory {
		out.ByCategory[string(cat)] = amt.Round2().Value.InexactFloat64()
	}
	for _, m := range s.Months {
		out.Months = append(out.Months, MonthlySummaryDTO{
			Month:         m.Month.String(),
			Income:        m.Income.Round2().Value.InexactFloat64(),
			Expenses:      m.Expenses.Round2().Value.InexactFloat64(),
			Net:           m.Net.Round2().Value.InexactFloat64(),
			Discretionary: m.Discretionary.Round2().Value.InexactFloat64(),
			DebtPayments:  m.DebtPayments.Round2().Value.InexactFloat64(),
			Count:         m.Count,
		})
	}
	return out
}

func toTransactionDTO(r engine.TransactionRecord) TransactionDTO {
	return TransactionDTO{
		ID:          string(r.ID),
		UserID:      string(r.UserID),
		Amount:      r.Amount.Value.InexactFloat64(),
		Type:        string(r.Type),
		Category:    string(r.Category),
		At:          r.At.Format(time.RFC3339),
		Description: r.Description,
		Source:      r.Source,
	}
}
