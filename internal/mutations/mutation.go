package mutations

import "pension-engine/internal/model"

// RateSource resolves per-scheme accrual rates for a set of policies. The
// returned map contains an entry for every distinct scheme id in the input.
type RateSource interface {
	AccrualRates(policies []model.Policy) map[string]float64
}

// defaultAccrualRate applies when no rate source is wired or a scheme id is
// missing from the resolved map.
const defaultAccrualRate = 0.02

// Handler is the contract for all mutation implementations. Execute validates
// the mutation against the current situation and, when the result is not
// critical, applies the state change in place. A handler returning a critical
// result must leave the situation untouched.
type Handler interface {
	Execute(situation *model.Situation, mutation *model.Mutation, rates RateSource) Result
}

// Result classifies the outcome of one mutation.
type Result struct {
	Messages []model.CalculationMessage
	Critical bool
}

func success() Result {
	return Result{}
}

func warnings(msgs []model.CalculationMessage) Result {
	return Result{Messages: msgs}
}

func critical(code, text string) Result {
	return Result{
		Messages: []model.CalculationMessage{{
			Level:   model.LevelCritical,
			Code:    code,
			Message: text,
		}},
		Critical: true,
	}
}

// criticalWith returns a critical result carrying earlier warnings alongside
// the critical message, preserving their production order.
func criticalWith(prior []model.CalculationMessage, code, text string) Result {
	msgs := append(prior, model.CalculationMessage{
		Level:   model.LevelCritical,
		Code:    code,
		Message: text,
	})
	return Result{Messages: msgs, Critical: true}
}
