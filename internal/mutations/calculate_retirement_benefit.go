package mutations

import (
	"fmt"

	json "github.com/goccy/go-json"

	"pension-engine/internal/model"
)

type calcRetirementProps struct {
	RetirementDate string `json:"retirement_date"`
}

type CalculateRetirementBenefitHandler struct{}

func (h *CalculateRetirementBenefitHandler) Execute(situation *model.Situation, mutation *model.Mutation, rates RateSource) Result {
	dossier := situation.Dossier
	if dossier == nil {
		return critical("DOSSIER_NOT_FOUND", "No dossier exists in the situation")
	}

	policies := dossier.Policies
	if len(policies) == 0 {
		return critical("NO_POLICIES", "Dossier has no policies")
	}

	var props calcRetirementProps
	json.Unmarshal(mutation.MutationProperties, &props)

	retirementDate, _ := parseDate(props.RetirementDate)

	n := len(policies)
	years := make([]float64, n)
	effectiveSalaries := make([]float64, n)
	var warningMsgs []model.CalculationMessage
	var totalYears float64

	// Single pass: years of service, effective salaries and ordering warnings.
	for i, p := range policies {
		empStart, _ := parseDate(p.EmploymentStartDate)
		if retirementDate.Before(empStart) {
			warningMsgs = append(warningMsgs, model.CalculationMessage{
				Level:   model.LevelWarning,
				Code:    "RETIREMENT_BEFORE_EMPLOYMENT",
				Message: fmt.Sprintf("Retirement date is before employment start date for policy %s", p.PolicyID),
			})
		}
		years[i] = serviceYears(empStart, retirementDate)
		effectiveSalaries[i] = p.Salary * p.PartTimeFactor
		totalYears += years[i]
	}

	// Eligibility: age >= 65 on the retirement date, or >= 40 years of service.
	birthDate, _ := parseDate(dossier.Persons[0].BirthDate)
	age := daysBetween(birthDate, retirementDate) / daysPerYear
	if age < 65 && totalYears < 40 {
		return criticalWith(warningMsgs, "NOT_ELIGIBLE",
			"Participant is under 65 years old and has less than 40 years of service")
	}

	accrualRates := resolveRates(rates, policies)

	var weightedSum float64
	for i := range policies {
		weightedSum += effectiveSalaries[i] * years[i]
	}
	var weightedAvg float64
	if totalYears > 0 {
		weightedAvg = weightedSum / totalYears
	}

	// Each policy carries its proportional share of the benefit at its own
	// scheme's accrual rate.
	for i := range dossier.Policies {
		pension := 0.0
		if totalYears > 0 {
			pension = weightedAvg * years[i] * accrualRates[dossier.Policies[i].SchemeID]
		}
		dossier.Policies[i].AttainablePension = &pension
	}

	dossier.Status = model.StatusRetired
	retirementDateStr := props.RetirementDate
	dossier.RetirementDate = &retirementDateStr

	return warnings(warningMsgs)
}

// resolveRates returns a complete scheme-id→rate map for the given policies,
// filling in the default rate when no source is wired.
func resolveRates(rates RateSource, policies []model.Policy) map[string]float64 {
	if rates != nil {
		resolved := rates.AccrualRates(policies)
		for _, p := range policies {
			if _, ok := resolved[p.SchemeID]; !ok {
				resolved[p.SchemeID] = defaultAccrualRate
			}
		}
		return resolved
	}
	resolved := make(map[string]float64, len(policies))
	for _, p := range policies {
		resolved[p.SchemeID] = defaultAccrualRate
	}
	return resolved
}
