package mutations

import (
	"fmt"

	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type addPolicyProps struct {
	SchemeID            string  `json:"scheme_id"`
	EmploymentStartDate string  `json:"employment_start_date"`
	Salary              float64 `json:"salary"`
	PartTimeFactor      float64 `json:"part_time_factor"`
}

type AddPolicyHandler struct{}

func (h *AddPolicyHandler) Execute(situation *model.Situation, mutation *model.Mutation, _ RateSource) Result {
	dossier := situation.Dossier
	if dossier == nil {
		return critical("DOSSIER_NOT_FOUND", "No dossier exists in the situation")
	}

	var props addPolicyProps
	json.Unmarshal(mutation.MutationProperties, &props)

	if props.Salary < 0 {
		return critical("INVALID_SALARY", "Salary must be non-negative")
	}

	if props.PartTimeFactor < 0 || props.PartTimeFactor > 1 {
		return critical("INVALID_PART_TIME_FACTOR", "Part-time factor must be between 0 and 1")
	}

	// Same scheme and employment start: suspicious but allowed.
	var msgs []model.CalculationMessage
	for _, p := range dossier.Policies {
		if p.SchemeID == props.SchemeID && p.EmploymentStartDate == props.EmploymentStartDate {
			msgs = append(msgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "DUPLICATE_POLICY",
				Message: fmt.Sprintf("A policy with scheme_id %s and employment_start_date %s already exists", props.SchemeID, props.EmploymentStartDate),
			})
			break
		}
	}

	dossier.PolicySeq++
	dossier.Policies = append(dossier.Policies, model.Policy{
		PolicyID:            fmt.Sprintf("%s-%d", dossier.DossierID, dossier.PolicySeq),
		SchemeID:            props.SchemeID,
		EmploymentStartDate: props.EmploymentStartDate,
		Salary:              props.Salary,
		PartTimeFactor:      props.PartTimeFactor,
		AttainablePension:   nil,
		Projections:         nil,
	})

	return warnings(msgs)
}
