package mutations

import (
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type createDossierProps struct {
	DossierID string `json:"dossier_id"`
	PersonID  string `json:"person_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date"`
}

type CreateDossierHandler struct{}

func (h *CreateDossierHandler) Execute(situation *model.Situation, mutation *model.Mutation, _ RateSource) Result {
	if situation.Dossier != nil {
		return critical("DOSSIER_ALREADY_EXISTS", "A dossier already exists in the situation")
	}

	var props createDossierProps
	json.Unmarshal(mutation.MutationProperties, &props)

	if strings.TrimSpace(props.Name) == "" {
		return critical("INVALID_NAME", "Name is empty or blank")
	}

	birthDate, ok := parseDate(props.BirthDate)
	if !ok {
		return critical("INVALID_BIRTH_DATE", "Birth date is not a valid date")
	}
	if birthDate.After(time.Now()) {
		return critical("INVALID_BIRTH_DATE", "Birth date is in the future")
	}

	situation.Dossier = &model.Dossier{
		DossierID:      props.DossierID,
		Status:         model.StatusActive,
		RetirementDate: nil,
		Persons: []model.Person{{
			PersonID:  props.PersonID,
			Role:      model.RoleParticipant,
			Name:      props.Name,
			BirthDate: props.BirthDate,
		}},
		Policies: []model.Policy{},
	}

	return success()
}
