/*
score.go - Behavioral score (0-1000) from transaction history

PURPOSE:
  Summarizes financial habit quality as a bounded score with a tier label,
  a per-metric breakdown, and rule-generated tips. No free text here; the
  coach package layers tone on top.

SUB-SCORES (each clamped to [0,100] before weighting):
  consistency      did the covered months include debt payments?     400 pts
  savings_rate     (income - expenses) / income, clamped to [0,1]    300 pts
  balance_trend    share of months where the running net improved    200 pts
  spending_control discretionary share + volatility of that spend    100 pts

  Weights are expressed in points and must sum to 1000. The default split
  mirrors the 40/30/20/10 weighting of the original coach. Deployments can
  retune via a ScoreProfile (see the factory package).

INPUT DIRECTION:
  Chronological, oldest first. Summarize normalizes ordering internally,
  so callers may pass records in any order.

DEGENERATE CASE:
  An empty history yields a fixed neutral result - 500, "Regular", every
  sub-score at 50 - never a division-by-zero.
*/
package engine

import (
	"fmt"
	"math"
)

// =============================================================================
// SCORE PROFILE - Tunable weighting
// =============================================================================

// ScoreProfile carries the scorer's tunable knobs. The zero value is not
// usable; start from DefaultScoreProfile.
type ScoreProfile struct {
	// Weights maps sub-metric name to its weight in points. Must cover
	// all four metrics and sum to exactly 1000.
	Weights map[string]int

	// Discretionary overrides the category set for spending control.
	// Nil falls back to DiscretionaryCategories.
	Discretionary map[Category]bool
}

// DefaultScoreProfile returns the standard 400/300/200/100 weighting.
func DefaultScoreProfile() ScoreProfile {
	return ScoreProfile{
		Weights: map[string]int{
			MetricConsistency:     400,
			MetricSavingsRate:     300,
			MetricBalanceTrend:    200,
			MetricSpendingControl: 100,
		},
	}
}

// Validate checks that every metric is weighted and the total is 1000.
func (p ScoreProfile) Validate() error {
	metrics := []string{MetricConsistency, MetricSavingsRate, MetricBalanceTrend, MetricSpendingControl}
	total := 0
	for _, m := range metrics {
		w, ok := p.Weights[m]
		if !ok {
			return fmt.Errorf("score profile: missing weight for %q", m)
		}
		if w < 0 {
			return fmt.Errorf("score profile: negative weight for %q", m)
		}
		total += w
	}
	if total != 1000 {
		return fmt.Errorf("score profile: weights must sum to 1000, got %d", total)
	}
	return nil
}

// Tier thresholds are fixed; only weights are tunable.
const (
	tierRegularMin   = 400
	tierGoodMin      = 600
	tierExcellentMin = 800
)

// TierFor maps a score to its tier label.
func TierFor(score int) Tier {
	switch {
	case score >= tierExcellentMin:
		return TierExcellent
	case score >= tierGoodMin:
		return TierGood
	case score >= tierRegularMin:
		return TierRegular
	default:
		return TierCritical
	}
}

// =============================================================================
// SCORING
// =============================================================================

// ScoreBehavior scores a transaction history with the default profile.
func ScoreBehavior(records []TransactionRecord) BehavioralScore {
	return ScoreBehaviorWithProfile(records, DefaultScoreProfile())
}

// ScoreBehaviorWithProfile scores with custom weights. An invalid profile
// falls back to the default rather than producing a skewed score.
func ScoreBehaviorWithProfile(records []TransactionRecord, profile ScoreProfile) BehavioralScore {
	if err := profile.Validate(); err != nil {
		profile = DefaultScoreProfile()
	}

	if len(records) == 0 {
		return neutralScore(profile)
	}

	summary := Summarize(records, profile.Discretionary)

	subs := map[string]float64{
		MetricConsistency:     scoreConsistency(summary),
		MetricSavingsRate:     scoreSavingsRate(summary),
		MetricBalanceTrend:    scoreBalanceTrend(summary),
		MetricSpendingControl: scoreSpendingControl(summary),
	}

	breakdown := make(map[string]int, len(subs))
	total := 0
	for metric, sub := range subs {
		contribution := int(math.Round(float64(profile.Weights[metric]) * clamp01(sub/100)))
		breakdown[metric] = contribution
		total += contribution
	}
	if total < 0 {
		total = 0
	}
	if total > 1000 {
		total = 1000
	}

	return BehavioralScore{
		Score:     total,
		Tier:      TierFor(total),
		Breakdown: breakdown,
		Tips:      scoreTips(total, subs),
	}
}

// neutralScore is the documented default for an empty history: every
// sub-score at 50, which lands at exactly 500 under any valid profile.
// Odd weights don't halve evenly, so the leftover half-point is carried
// into the next metric (canonical order); the weights sum to 1000, so
// the carries always cancel out by the end.
func neutralScore(profile ScoreProfile) BehavioralScore {
	metrics := []string{MetricConsistency, MetricSavingsRate, MetricBalanceTrend, MetricSpendingControl}
	breakdown := make(map[string]int, len(metrics))
	total := 0
	carry := 0
	for _, metric := range metrics {
		weight := profile.Weights[metric] + carry
		contribution := weight / 2
		carry = weight % 2
		breakdown[metric] = contribution
		total += contribution
	}
	return BehavioralScore{
		Score:     total,
		Tier:      TierFor(total),
		Breakdown: breakdown,
		Tips:      []string{"Comece registrando suas transações para ter um score mais preciso."},
	}
}

// =============================================================================
// SUB-SCORES
// =============================================================================

// scoreConsistency measures how many covered months saw a debt payment.
// A history with no debt payments anywhere scores perfect: there is no
// evidence of a missed obligation.
func scoreConsistency(s Summary) float64 {
	paid := 0
	for _, m := range s.Months {
		if m.DebtPayments.IsPositive() {
			paid++
		}
	}
	if paid == 0 {
		return 100
	}
	return 100 * float64(paid) / float64(len(s.Months))
}

// scoreSavingsRate maps the savings rate, clamped to [0,1], onto [0,100].
// No recorded income scores a fixed low 30: spending with nothing coming
// in is a red flag, not a division error.
func scoreSavingsRate(s Summary) float64 {
	if !s.TotalIncome.IsPositive() {
		return 30
	}
	rate, _ := s.Net.Div(s.TotalIncome.Value).Value.Float64()
	return clamp01(rate) * 100
}

// scoreBalanceTrend rewards months where the running net balance improved
// over the previous month. A single covered month has no transitions and
// scores a neutral 60.
func scoreBalanceTrend(s Summary) float64 {
	if len(s.Months) < 2 {
		return 60
	}
	improving := 0
	running := s.Months[0].Net
	for _, m := range s.Months[1:] {
		next := running.Add(m.Net)
		if next.GreaterThan(running) {
			improving++
		}
		running = next
	}
	return 100 * float64(improving) / float64(len(s.Months)-1)
}

// scoreSpendingControl combines the discretionary share of total expenses
// (original coach rule: 100 - share*200) with a volatility penalty on the
// monthly discretionary series. No expenses at all scores a fixed 70.
func scoreSpendingControl(s Summary) float64 {
	if !s.TotalExpenses.IsPositive() {
		return 70
	}

	discretionary := 0.0
	series := make([]float64, 0, len(s.Months))
	for _, m := range s.Months {
		v, _ := m.Discretionary.Value.Float64()
		discretionary += v
		series = append(series, v)
	}

	expenses, _ := s.TotalExpenses.Value.Float64()
	share := discretionary / expenses
	base := clampRange(100-share*200, 0, 100)

	return clampRange(base-volatilityPenalty(series), 0, 100)
}

// volatilityPenalty converts the coefficient of variation of the monthly
// discretionary spend into up to 25 penalty points. Fewer than two months
// or no discretionary spend means no volatility evidence.
func volatilityPenalty(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))
	if mean <= 0 {
		return 0
	}
	variance := 0.0
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(series))
	cv := math.Sqrt(variance) / mean
	return math.Min(25, cv*25)
}

// =============================================================================
// TIPS - Rule-generated, ordered, neutral wording
// =============================================================================

func scoreTips(score int, subs map[string]float64) []string {
	var tips []string
	if score < 500 {
		tips = append(tips, "Priorize quitar as dívidas e corte gastos não essenciais.")
	}
	if subs[MetricSavingsRate] < 50 {
		tips = append(tips, "Despesas próximas ou acima das receitas. Hora de ajustar o orçamento.")
	}
	if subs[MetricSpendingControl] < 50 {
		tips = append(tips, "Gastos supérfluos elevados. Defina um teto mensal para lazer.")
	}
	if score >= 700 {
		tips = append(tips, "Bom ritmo. Mantenha e aumente sua reserva de emergência.")
	}
	if len(tips) == 0 {
		tips = append(tips, "Você está no caminho certo. Mantenha a consistência.")
	}
	return tips
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
