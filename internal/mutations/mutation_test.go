package mutations

import (
	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type stubRates map[string]float64

func (s stubRates) AccrualRates(policies []model.Policy) map[string]float64 {
	out := make(map[string]float64, len(policies))
	for _, p := range policies {
		if rate, ok := s[p.SchemeID]; ok {
			out[p.SchemeID] = rate
		} else {
			out[p.SchemeID] = defaultAccrualRate
		}
	}
	return out
}

func testMutation(props string) *model.Mutation {
	return &model.Mutation{
		MutationID:             "m-test",
		MutationDefinitionName: "test",
		MutationType:           "TEST",
		ActualAt:               "2020-01-01",
		MutationProperties:     json.RawMessage(props),
	}
}

func situationWithDossier(policies ...model.Policy) *model.Situation {
	return &model.Situation{
		Dossier: &model.Dossier{
			DossierID: "d-1",
			Status:    model.StatusActive,
			Persons: []model.Person{{
				PersonID:  "p-1",
				Role:      model.RoleParticipant,
				Name:      "Jane Doe",
				BirthDate: "1955-03-20",
			}},
			Policies:  policies,
			PolicySeq: len(policies),
		},
	}
}

func policy(id, schemeID, empStart string, salary, ptf float64) model.Policy {
	return model.Policy{
		PolicyID:            id,
		SchemeID:            schemeID,
		EmploymentStartDate: empStart,
		Salary:              salary,
		PartTimeFactor:      ptf,
	}
}

func firstCode(r Result) string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].Code
}
