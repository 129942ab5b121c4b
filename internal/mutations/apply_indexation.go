package mutations

import (
	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type applyIndexationProps struct {
	Percentage      float64 `json:"percentage"`
	SchemeID        string  `json:"scheme_id,omitempty"`
	EffectiveBefore string  `json:"effective_before,omitempty"`
}

type ApplyIndexationHandler struct{}

func (h *ApplyIndexationHandler) Execute(situation *model.Situation, mutation *model.Mutation, _ RateSource) Result {
	dossier := situation.Dossier
	if dossier == nil {
		return critical("DOSSIER_NOT_FOUND", "No dossier exists in the situation")
	}
	if len(dossier.Policies) == 0 {
		return critical("NO_POLICIES", "Dossier has no policies")
	}

	var props applyIndexationProps
	json.Unmarshal(mutation.MutationProperties, &props)

	hasFilter := props.SchemeID != "" || props.EffectiveBefore != ""

	var msgs []model.CalculationMessage
	matched := false
	for i := range dossier.Policies {
		if !matchesIndexationFilter(&dossier.Policies[i], &props) {
			continue
		}
		matched = true
		newSalary := dossier.Policies[i].Salary * (1 + props.Percentage)
		if newSalary < 0 {
			newSalary = 0
			msgs = append(msgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "NEGATIVE_SALARY_CLAMPED",
				Message: "Salary for policy " + dossier.Policies[i].PolicyID + " clamped to 0",
			})
		}
		dossier.Policies[i].Salary = newSalary
	}

	if hasFilter && !matched {
		msgs = append(msgs, model.CalculationMessage{
			Level:   model.LevelWarning,
			Code:    "NO_MATCHING_POLICIES",
			Message: "No policies match the provided filter criteria",
		})
	}

	return warnings(msgs)
}

func matchesIndexationFilter(p *model.Policy, props *applyIndexationProps) bool {
	if props.SchemeID != "" && p.SchemeID != props.SchemeID {
		return false
	}
	if props.EffectiveBefore != "" && p.EmploymentStartDate >= props.EffectiveBefore {
		return false
	}
	return true
}
