/*
Package engine provides the core financial projection engine.

PURPOSE:
  This package contains the pure computation layer of ORBIT: debt payoff
  projection, spending-impact estimation, behavioral scoring, and "what if"
  scenario simulation. Every operation is a stateless function over explicit
  inputs - no clock access, no I/O, no shared state - so results are
  deterministic and safe to call concurrently from any number of API workers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A monetary quantity with a currency unit
  - DebtState: The input snapshot for all projection operations
  - TransactionRecord: A single signed income/expense entry
  - DebtProjection / SpendingImpact / BehavioralScore / ScenarioDelta:
    The structured outputs consumed by the API and coach layers

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Determinism: The "current date" is always an injected parameter
  3. Explicit signaling: Degenerate inputs return typed conditions
     (see errors.go), never silent loops or NaNs

USAGE:
  state := engine.DebtState{
      Principal:      engine.NewAmount(5000, engine.UnitBRL),
      MonthlyRate:    decimal.NewFromFloat(0.05),
      MonthlyPayment: engine.NewAmount(500, engine.UnitBRL),
  }
  proj, err := engine.Project(state, asOf)

SEE ALSO:
  - amortization.go: Month-by-month balance trajectory
  - projection.go: Payoff date and total interest
  - score.go: Behavioral score from transaction history
  - scenario.go: "What if" simulations
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Monetary quantity with currency unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitBRL Unit = "BRL"
	UnitUSD Unit = "USD"
)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value)), Unit: unit}
}

func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg(), Unit: a.Unit} }
func (a Amount) Abs() Amount                  { return Amount{Value: a.Value.Abs(), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Min(b Amount) Amount {
	if a.LessThan(b) {
		return a
	}
	return b
}
func (a Amount) Max(b Amount) Amount {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Round2 quantizes to cents, half away from zero. Applied on output
// boundaries only; internal arithmetic keeps full precision.
func (a Amount) Round2() Amount { return Amount{Value: a.Value.Round(2), Unit: a.Unit} }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type DebtID string
type RecordID string

// =============================================================================
// DEBT STATE - Input snapshot for projection operations
// =============================================================================

// DebtState describes a single debt under fixed monthly payments. It is an
// immutable value object; the caller is responsible for loading it from
// storage and passing it in.
type DebtState struct {
	// Principal is the outstanding balance. Must be >= 0. Zero principal
	// means "no active debt" and is reported as a signal, not projected.
	Principal Amount

	// MonthlyRate is the compound interest rate per month, e.g. 0.05 for
	// 5% a.m. (credit-card revolving territory). Must be in [0, 1).
	MonthlyRate decimal.Decimal

	// MonthlyPayment is applied once per month after interest accrues.
	// Must be > 0 for a projection to terminate.
	MonthlyPayment Amount

	// MonthlyContribution is an optional extra amount that reduces the
	// balance directly each month (no interest accrual lag within the
	// month). Used by impact and simulation flows.
	MonthlyContribution Amount
}

// Validate checks the structural invariants on the input itself.
// Non-amortizing detection is separate: see Amortize.
func (s DebtState) Validate() error {
	if s.Principal.IsNegative() {
		return &InvalidInputError{Field: "principal", Reason: "must be >= 0", Value: s.Principal.Value}
	}
	if s.MonthlyRate.IsNegative() || s.MonthlyRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return &InvalidInputError{Field: "monthly_rate", Reason: "must be in [0, 1)", Value: s.MonthlyRate}
	}
	if !s.MonthlyPayment.IsPositive() {
		return &InvalidInputError{Field: "monthly_payment", Reason: "must be > 0", Value: s.MonthlyPayment.Value}
	}
	if s.MonthlyContribution.IsNegative() {
		return &InvalidInputError{Field: "monthly_contribution", Reason: "must be >= 0", Value: s.MonthlyContribution.Value}
	}
	return nil
}

// HasActiveDebt reports whether there is anything to project.
func (s DebtState) HasActiveDebt() bool { return s.Principal.IsPositive() }

// =============================================================================
// TRANSACTION RECORD - Read-only input to the scorer and summaries
// =============================================================================

type RecordType string

const (
	RecordIncome  RecordType = "income"
	RecordExpense RecordType = "expense"
)

type Category string

// Categories ported from the ORBIT transaction model. CategoryDebt marks
// scheduled debt payments and drives the consistency sub-score.
const (
	CategoryFood       Category = "alimentacao"
	CategoryTransport  Category = "transporte"
	CategoryHousing    Category = "moradia"
	CategoryHealth     Category = "saude"
	CategoryEducation  Category = "educacao"
	CategoryLeisure    Category = "lazer"
	CategoryClothing   Category = "vestuario"
	CategorySalary     Category = "salario"
	CategoryFreelance  Category = "freelance"
	CategoryInvestment Category = "investimento"
	CategoryDebt       Category = "divida"
	CategoryDelivery   Category = "delivery"
	CategoryStreaming  Category = "streaming"
	CategoryGames      Category = "jogos"
	CategoryLuxury     Category = "luxo"
	CategoryOther      Category = "outro"
)

// DiscretionaryCategories is the default set used by the spending-control
// sub-score. Overridable per deployment via factory.ScoreProfileJSON.
var DiscretionaryCategories = map[Category]bool{
	CategoryLeisure:   true,
	CategoryDelivery:  true,
	CategoryStreaming: true,
	CategoryGames:     true,
	CategoryLuxury:    true,
}

// TransactionRecord is a single ledger entry. Amount is signed: positive
// for income, negative for expenses. Scorer input must be chronological
// (oldest first); see SortRecords.
type TransactionRecord struct {
	ID       RecordID
	UserID   UserID
	Amount   Amount
	Type     RecordType
	Category Category
	At       time.Time

	Description string
	Source      string // manual, voice, ocr, import

	// IdempotencyKey guards against duplicate writes on retries.
	// Empty key disables the check.
	IdempotencyKey string

	CreatedAt time.Time
}

// IsExpense reports whether the record is an outflow.
func (r TransactionRecord) IsExpense() bool {
	return r.Type == RecordExpense || (r.Type == "" && r.Amount.IsNegative())
}

// IsIncome reports whether the record is an inflow.
func (r TransactionRecord) IsIncome() bool {
	return r.Type == RecordIncome || (r.Type == "" && r.Amount.IsPositive())
}

// =============================================================================
// PROJECTION OUTPUTS
// =============================================================================

// MonthEntry is one step of an amortization trajectory.
type MonthEntry struct {
	Month    int    // 1-based month index
	Interest Amount // interest accrued this month
	Payment  Amount // actual payment applied (clamped in final month)
	Balance  Amount // balance after payment, floored at zero
}

// DebtProjection is the result of projecting a DebtState to payoff.
type DebtProjection struct {
	State DebtState

	// TotalMonths is the index of the first month where the balance
	// reaches zero.
	TotalMonths int

	// PayoffDate is AsOf advanced by TotalMonths calendar months.
	PayoffDate time.Time

	TotalInterestPaid Amount
	TotalPaid         Amount

	// MonthlyBalances holds one entry per elapsed month, in order.
	MonthlyBalances []MonthEntry

	// exactInterest is TotalInterestPaid before cent rounding. Deltas
	// between two projections are diffed on this and rounded once, so
	// the two boundary roundings can never drift the delta by a cent.
	exactInterest Amount
}

// SpendingImpact quantifies the marginal cost of a proposed expense while
// in debt. Numeric fields only; the coach composes wording on top.
type SpendingImpact struct {
	Expense Amount

	// ExtraDays approximates ExtraMonths at 30 days per month. This is a
	// messaging approximation, not calendar arithmetic.
	ExtraDays   int
	ExtraMonths int

	// RealCost is the marginal interest attributable to the delay;
	// TotalCost is the expense plus that interest (the coach's headline
	// "what it really cost you" number).
	RealCost  Amount
	TotalCost Amount

	Baseline    *DebtProjection
	WithExpense *DebtProjection
}

// =============================================================================
// BEHAVIORAL SCORE
// =============================================================================

type Tier string

const (
	TierCritical  Tier = "Crítico"
	TierRegular   Tier = "Regular"
	TierGood      Tier = "Bom"
	TierExcellent Tier = "Excelente"
)

// Sub-metric names used as Breakdown keys.
const (
	MetricConsistency     = "consistency"
	MetricSavingsRate     = "savings_rate"
	MetricBalanceTrend    = "balance_trend"
	MetricSpendingControl = "spending_control"
)

// BehavioralScore summarizes financial habit quality on a 0-1000 scale.
type BehavioralScore struct {
	Score int
	Tier  Tier

	// Breakdown maps sub-metric name to its weighted contribution in
	// points. Contributions sum (within rounding) to Score.
	Breakdown map[string]int

	// Tips are rule-generated, ordered, short and neutral. Tone and
	// emoji are the coach package's concern.
	Tips []string
}

// =============================================================================
// SCENARIO SIMULATION
// =============================================================================

type ScenarioType string

const (
	ScenarioExtraPayment ScenarioType = "extra_payment"
	ScenarioIncomeEvent  ScenarioType = "income_event"
	ScenarioLumpSum      ScenarioType = "lump_sum"
	ScenarioRateChange   ScenarioType = "rate_change"
)

// Scenario is a typed hypothetical adjustment to a DebtState.
type Scenario struct {
	Type ScenarioType

	// Value meaning depends on Type: extra monthly payment, one-time
	// amount applied to principal, or the replacement monthly rate.
	Value decimal.Decimal
}

// ScenarioDelta reports the effect of a scenario relative to the
// unmodified projection. DaysDelta/MonthsDelta are negative when the
// scenario accelerates payoff.
type ScenarioDelta struct {
	Scenario Scenario

	MonthsDelta   int
	DaysDelta     int
	NewPayoffDate time.Time
	InterestDelta Amount

	Baseline *DebtProjection

	// Modified is nil when the scenario clears the debt outright
	// (principal driven to zero).
	Modified *DebtProjection
}

// MonthsSaved is a convenience accessor for presentation layers.
func (d ScenarioDelta) MonthsSaved() int {
	if d.MonthsDelta < 0 {
		return -d.MonthsDelta
	}
	return 0
}
