package model

import json "github.com/goccy/go-json"

type CalculationRequest struct {
	TenantID                string                  `json:"tenant_id" validate:"required"`
	CalculationInstructions CalculationInstructions `json:"calculation_instructions"`
}

type CalculationInstructions struct {
	Mutations []Mutation `json:"mutations" validate:"required,min=1"`
}

type Mutation struct {
	MutationID             string          `json:"mutation_id"`
	MutationDefinitionName string          `json:"mutation_definition_name"`
	MutationType           string          `json:"mutation_type"`
	ActualAt               string          `json:"actual_at"`
	DossierID              string          `json:"dossier_id,omitempty"`
	MutationProperties     json.RawMessage `json:"mutation_properties"`
}
