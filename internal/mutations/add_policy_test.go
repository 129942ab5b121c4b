package mutations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pension-engine/internal/model"
)

func TestAddPolicyMintsSequentialIDs(t *testing.T) {
	h := &AddPolicyHandler{}
	situation := situationWithDossier()

	res := h.Execute(situation, testMutation(`{
		"scheme_id": "s-1",
		"employment_start_date": "1980-01-01",
		"salary": 60000,
		"part_time_factor": 1
	}`), nil)
	require.False(t, res.Critical)

	res = h.Execute(situation, testMutation(`{
		"scheme_id": "s-2",
		"employment_start_date": "1990-01-01",
		"salary": 40000,
		"part_time_factor": 0.5
	}`), nil)
	require.False(t, res.Critical)

	require.Len(t, situation.Dossier.Policies, 2)
	assert.Equal(t, "d-1-1", situation.Dossier.Policies[0].PolicyID)
	assert.Equal(t, "d-1-2", situation.Dossier.Policies[1].PolicyID)
	assert.Nil(t, situation.Dossier.Policies[0].AttainablePension)
	assert.Nil(t, situation.Dossier.Policies[0].Projections)
}

func TestAddPolicyValidation(t *testing.T) {
	tests := []struct {
		name     string
		props    string
		wantCode string
	}{
		{"negative salary", `{"scheme_id":"s-1","employment_start_date":"1980-01-01","salary":-1,"part_time_factor":1}`, "INVALID_SALARY"},
		{"part time factor above one", `{"scheme_id":"s-1","employment_start_date":"1980-01-01","salary":100,"part_time_factor":1.5}`, "INVALID_PART_TIME_FACTOR"},
		{"negative part time factor", `{"scheme_id":"s-1","employment_start_date":"1980-01-01","salary":100,"part_time_factor":-0.1}`, "INVALID_PART_TIME_FACTOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AddPolicyHandler{}
			situation := situationWithDossier()

			res := h.Execute(situation, testMutation(tt.props), nil)

			require.True(t, res.Critical)
			assert.Equal(t, tt.wantCode, firstCode(res))
			assert.Empty(t, situation.Dossier.Policies)
		})
	}
}

func TestAddPolicyWithoutDossier(t *testing.T) {
	h := &AddPolicyHandler{}
	res := h.Execute(&model.Situation{}, testMutation(`{"scheme_id":"s-1"}`), nil)

	require.True(t, res.Critical)
	assert.Equal(t, "DOSSIER_NOT_FOUND", firstCode(res))
}

func TestAddPolicyDuplicateWarnsButApplies(t *testing.T) {
	h := &AddPolicyHandler{}
	situation := situationWithDossier(policy("d-1-1", "s-1", "1980-01-01", 100, 1))

	res := h.Execute(situation, testMutation(`{
		"scheme_id": "s-1",
		"employment_start_date": "1980-01-01",
		"salary": 200,
		"part_time_factor": 1
	}`), nil)

	require.False(t, res.Critical)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, model.LevelWarning, res.Messages[0].Level)
	assert.Equal(t, "DUPLICATE_POLICY", res.Messages[0].Code)
	assert.Len(t, situation.Dossier.Policies, 2)
}
