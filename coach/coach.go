/*
Package coach renders engine results as user-facing chat messages.

PURPOSE:
  The projection engine returns numbers; the coach turns them into the
  informal pt-BR wording the ORBIT chat uses. This is deliberately a
  separate, replaceable collaborator: swapping tone, language, or emoji
  never touches the calculation core, and the engine stays testable
  against exact numeric outputs.

MESSAGE FAMILIES:
  ImpactMessage    reaction to a new expense while in debt
  ScenarioMessage  motivational summary of a "what if" result
  NoDebtMessage    tone switch when there is nothing to project
  TierMessage      one-liner for the behavioral score tier

All formatting is pure string work over already-rounded amounts.
*/
package coach

import (
	"fmt"

	"github.com/orbit/projection-engine/engine"
)

// Coach formats engine outputs. The zero value is ready to use.
type Coach struct{}

func New() *Coach { return &Coach{} }

func money(a engine.Amount) string {
	return "R$" + a.Round2().Value.StringFixed(2)
}

// ImpactMessage mirrors the original coach's escalation by days of delay.
func (c *Coach) ImpactMessage(impact *engine.SpendingImpact) string {
	spent := money(impact.Expense)
	cost := money(impact.TotalCost)
	days := impact.ExtraDays

	switch {
	case days == 0:
		return fmt.Sprintf("Esse gasto de %s não muda muito sua situação. Tá safe!", spent)
	case days <= 3:
		return fmt.Sprintf("Aí não! Esse gasto de %s te custou %d dias a mais de dívida.", spent, days)
	case days <= 7:
		return fmt.Sprintf("Cara, %s virou %s com os juros. Uma semana a mais pagando banco!", spent, cost)
	case days <= 30:
		return fmt.Sprintf("Eita! Esse gasto te atrasou %d dias. Custo real: %s. Bora repensar?", days, cost)
	default:
		return fmt.Sprintf("Isso é sério. %s virou %d dias de dívida extra. Custo total: %s!", spent, days, cost)
	}
}

// ScenarioMessage picks wording per scenario type, like the original
// simulation messages.
func (c *Coach) ScenarioMessage(delta *engine.ScenarioDelta) string {
	value := money(engine.Amount{Value: delta.Scenario.Value, Unit: engine.UnitBRL})
	saved := delta.MonthsSaved()

	switch delta.Scenario.Type {
	case engine.ScenarioLumpSum:
		return fmt.Sprintf("Vendendo isso por %s, você economiza %d meses de dívida!", value, saved)
	case engine.ScenarioExtraPayment:
		return fmt.Sprintf("Pagando %s a mais por mês, você se livra %d meses antes!", value, saved)
	case engine.ScenarioIncomeEvent:
		return fmt.Sprintf("Com essa grana extra de %s, você adianta %d meses da sua liberdade!", value, saved)
	case engine.ScenarioRateChange:
		if delta.InterestDelta.IsNegative() {
			return fmt.Sprintf("Renegociando a taxa, você economiza %s em juros!", money(delta.InterestDelta.Neg()))
		}
		return fmt.Sprintf("Com essa taxa, os juros sobem %s. Melhor não.", money(delta.InterestDelta))
	default:
		return fmt.Sprintf("Essa mudança pode te economizar %d meses de dívida!", saved)
	}
}

// NoDebtMessage is the tone switch for the no-active-debt signal.
func (c *Coach) NoDebtMessage() string {
	return "Você não tem dívidas ativas. Bora falar de investimento então?"
}

// NonAmortizingMessage warns when payments never reduce the balance.
func (c *Coach) NonAmortizingMessage(na *engine.NonAmortizingError) string {
	return fmt.Sprintf("Alerta: pagando %s por mês você nunca quita. Os juros sozinhos são %s. Precisamos renegociar isso.",
		money(na.MonthlyPayment), money(na.MinimumPayment.Round2()))
}

// TierMessage is a one-line read of the behavioral score.
func (c *Coach) TierMessage(score engine.BehavioralScore) string {
	switch score.Tier {
	case engine.TierExcellent:
		return fmt.Sprintf("Score %d: mandou muito bem. Hora de fazer o dinheiro trabalhar.", score.Score)
	case engine.TierGood:
		return fmt.Sprintf("Score %d: tá indo bem, segue o jogo.", score.Score)
	case engine.TierRegular:
		return fmt.Sprintf("Score %d: dá pra melhorar. Pequenos ajustes fazem diferença.", score.Score)
	default:
		return fmt.Sprintf("Score %d: sinal vermelho. Foco total em sair do buraco.", score.Score)
	}
}

// StatusMessage describes the snapshot status color.
func (c *Coach) StatusMessage(snap engine.Snapshot) string {
	switch snap.Status {
	case engine.StatusCritical:
		return "Situação crítica: a dívida cresce mais rápido que os pagamentos."
	case engine.StatusRed:
		return fmt.Sprintf("No vermelho, mas pagando. Faltam %d dias para a liberdade.", snap.DaysToFreedom)
	case engine.StatusYellow:
		return "Equilibrado, mas sem folga. Atenção aos gastos."
	case engine.StatusGreen:
		return "Positivo e guardando. Continua assim!"
	default:
		return "Excelente: guardando e investindo. É disso que a gente gosta."
	}
}
