/*
errors.go - Centralized error types for the projection engine

PURPOSE:
  All conditions the engine can signal, in one place. The engine never
  logs, retries, or recovers - it has no side effects to retry. Callers
  decide user-facing wording; this file only guarantees explicit,
  distinguishable signaling.

ERROR CATEGORIES:
  1. Input errors       - Malformed DebtState or scenario values
  2. Structural signals - Non-amortizing debt, no active debt
  3. Scenario errors    - Unknown scenario type

USAGE:
  proj, err := engine.Project(state, asOf)
  if errors.Is(err, engine.ErrNonAmortizing) {
      // payment never covers interest: render the "not payable" path
  }

SEE ALSO:
  - amortization.go: Raises NonAmortizingError
  - impact.go: Raises ErrNoActiveDebt
  - scenario.go: Raises ErrUnsupportedScenario
*/
package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNonAmortizing is returned when the monthly payment never covers
	// accruing interest, so the balance can never reach zero. Detected up
	// front; the engine does not loop to the cap to find out.
	ErrNonAmortizing = errors.New("payment does not amortize debt")

	// ErrNoActiveDebt is a signal, not a failure: an impact or projection
	// was requested with zero principal. Callers switch behavior (the
	// coach changes tone) rather than surfacing an error.
	ErrNoActiveDebt = errors.New("no active debt")

	// ErrUnsupportedScenario is returned for unknown scenario types.
	// Unknown types fail loudly instead of silently no-op-ing.
	ErrUnsupportedScenario = errors.New("unsupported scenario type")

	// ErrInvalidInput is returned for structurally invalid inputs:
	// negative principal, rate outside [0,1), non-positive payment.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateIdempotencyKey is returned by stores when a record with
	// the same idempotency key already exists. Expected on retries.
	ErrDuplicateIdempotencyKey = errors.New("duplicate idempotency key")

	// ErrUserNotFound is returned when a referenced user doesn't exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrDebtNotFound is returned when a referenced debt doesn't exist.
	ErrDebtNotFound = errors.New("debt not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NonAmortizingError reports why a projection cannot terminate: the first
// month's interest meets or exceeds the payment.
type NonAmortizingError struct {
	Principal      Amount
	MonthlyRate    decimal.Decimal
	MonthlyPayment Amount

	// MinimumPayment is the first month's interest; any payment above it
	// amortizes.
	MinimumPayment Amount

	// CapReached is true when the condition was only detected by hitting
	// the MaxProjectionMonths guard (contribution dynamics can defeat the
	// up-front check).
	CapReached bool
}

func (e *NonAmortizingError) Error() string {
	if e.CapReached {
		return fmt.Sprintf("debt not payable within %d months under current terms", MaxProjectionMonths)
	}
	return fmt.Sprintf("payment %v does not cover monthly interest %v on principal %v",
		e.MonthlyPayment.Value, e.MinimumPayment.Value.Round(2), e.Principal.Value)
}

func (e *NonAmortizingError) Unwrap() error { return ErrNonAmortizing }

// InvalidInputError identifies which field violated its invariant.
type InvalidInputError struct {
	Field  string
	Reason string
	Value  decimal.Decimal
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// UnsupportedScenarioError carries the offending type for error payloads.
type UnsupportedScenarioError struct {
	Type ScenarioType
}

func (e *UnsupportedScenarioError) Error() string {
	return fmt.Sprintf("unsupported scenario type %q", e.Type)
}

func (e *UnsupportedScenarioError) Unwrap() error { return ErrUnsupportedScenario }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUnsupportedScenario) ||
		errors.Is(err, ErrDuplicateIdempotencyKey)
}

// IsSignal returns true for conditions that switch caller behavior rather
// than indicating a failure.
func IsSignal(err error) bool {
	return errors.Is(err, ErrNoActiveDebt)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrDebtNotFound)
}
