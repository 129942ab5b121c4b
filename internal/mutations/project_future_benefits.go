package mutations

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type projectFutureBenefitsProps struct {
	ProjectionStartDate      string `json:"projection_start_date"`
	ProjectionEndDate        string `json:"projection_end_date"`
	ProjectionIntervalMonths int    `json:"projection_interval_months"`
}

type ProjectFutureBenefitsHandler struct{}

func (h *ProjectFutureBenefitsHandler) Execute(situation *model.Situation, mutation *model.Mutation, rates RateSource) Result {
	dossier := situation.Dossier
	if dossier == nil {
		return critical("DOSSIER_NOT_FOUND", "No dossier exists in the situation")
	}

	policies := dossier.Policies
	if len(policies) == 0 {
		return critical("NO_POLICIES", "Dossier has no policies")
	}

	var props projectFutureBenefitsProps
	json.Unmarshal(mutation.MutationProperties, &props)

	startDate, startOK := parseDate(props.ProjectionStartDate)
	endDate, endOK := parseDate(props.ProjectionEndDate)
	if !startOK || !endOK {
		return critical("INVALID_DATE_RANGE", "Projection start and end dates must be valid dates")
	}
	if !endDate.After(startDate) {
		return critical("INVALID_DATE_RANGE", "Projection end date must be after start date")
	}
	if props.ProjectionIntervalMonths < 1 {
		return critical("INVALID_INTERVAL", "projection_interval_months must be at least 1")
	}

	var warningMsgs []model.CalculationMessage
	for _, p := range policies {
		if props.ProjectionStartDate < p.EmploymentStartDate {
			warningMsgs = append(warningMsgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "PROJECTION_BEFORE_EMPLOYMENT",
				Message: fmt.Sprintf("Projection start date is before employment start date for policy %s", p.PolicyID),
			})
		}
	}

	accrualRates := resolveRates(rates, policies)

	n := len(policies)
	empStarts := make([]time.Time, n)
	effectiveSalaries := make([]float64, n)
	rateByPolicy := make([]float64, n)
	for i, p := range policies {
		empStarts[i], _ = parseDate(p.EmploymentStartDate)
		effectiveSalaries[i] = p.Salary * p.PartTimeFactor
		rateByPolicy[i] = accrualRates[p.SchemeID]
	}

	projections := make([][]model.Projection, n)
	for i := range projections {
		projections[i] = []model.Projection{}
	}

	years := make([]float64, n)

	// Each projection date is a hypothetical retirement date run through the
	// retirement-benefit formula.
	for projDate := startDate; !projDate.After(endDate); projDate = projDate.AddDate(0, props.ProjectionIntervalMonths, 0) {
		dateStr := projDate.Format(dateLayout)

		var totalYears, weightedSum float64
		for i := range policies {
			years[i] = serviceYears(empStarts[i], projDate)
			totalYears += years[i]
			weightedSum += effectiveSalaries[i] * years[i]
		}

		var weightedAvg float64
		if totalYears > 0 {
			weightedAvg = weightedSum / totalYears
		}

		for i := range policies {
			projected := 0.0
			if totalYears > 0 {
				projected = weightedAvg * years[i] * rateByPolicy[i]
			}
			projections[i] = append(projections[i], model.Projection{
				Date:             dateStr,
				ProjectedPension: projected,
			})
		}
	}

	// Replace each policy's series wholesale; stale projections never survive.
	for i := range dossier.Policies {
		dossier.Policies[i].Projections = projections[i]
	}

	return warnings(warningMsgs)
}
