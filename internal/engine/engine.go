// Package engine implements the calculation engine: it replays an ordered
// list of mutations against a fresh situation and assembles the auditable
// result.
package engine

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"pension-engine/internal/jsonpatch"
	"pension-engine/internal/model"
	"pension-engine/internal/mutations"
)

// Timestamps carry millisecond precision and a literal UTC marker.
const timestampLayout = "2006-01-02T15:04:05.000Z"

var emptyPatch = json.RawMessage("[]")

// Engine orchestrates calculation runs. It is stateless across runs and safe
// for concurrent use; each Process call owns its situation exclusively.
type Engine struct {
	registry *mutations.Registry
	rates    mutations.RateSource
}

func New(registry *mutations.Registry, rates mutations.RateSource) *Engine {
	return &Engine{registry: registry, rates: rates}
}

// Process replays the request's mutations in order. Processing halts at the
// first unknown mutation or critical result; mutations after the halt point
// appear nowhere in the response.
func (e *Engine) Process(req *model.CalculationRequest) *model.CalculationResponse {
	start := time.Now()
	startedAt := start.UTC()

	muts := req.CalculationInstructions.Mutations

	situation := &model.Situation{}
	allMessages := []model.CalculationMessage{}
	processed := make([]model.ProcessedMutation, 0, len(muts))

	// Last successfully applied mutation, defaulting to the first.
	lastMutationID := muts[0].MutationID
	lastMutationIndex := 0
	lastActualAt := muts[0].ActualAt

	failed := false

	for i, mut := range muts {
		handler, ok := e.registry.Handler(mut.MutationDefinitionName)
		if !ok {
			msg := model.CalculationMessage{
				ID:      len(allMessages),
				Level:   model.LevelCritical,
				Code:    "UNKNOWN_MUTATION",
				Message: fmt.Sprintf("Unknown mutation: %s", mut.MutationDefinitionName),
			}
			allMessages = append(allMessages, msg)
			processed = append(processed, model.ProcessedMutation{
				Mutation:                  mut,
				CalculationMessageIndexes: []int{msg.ID},
				ForwardPatch:              emptyPatch,
				BackwardPatch:             emptyPatch,
			})
			failed = true
			break
		}

		before := snapshot(situation)

		result := handler.Execute(situation, &mut, e.rates)

		msgIndexes := []int{}
		for _, m := range result.Messages {
			m.ID = len(allMessages)
			allMessages = append(allMessages, m)
			msgIndexes = append(msgIndexes, m.ID)
		}

		if result.Critical {
			// State is unchanged by contract, so both patches are empty.
			processed = append(processed, model.ProcessedMutation{
				Mutation:                  mut,
				CalculationMessageIndexes: msgIndexes,
				ForwardPatch:              emptyPatch,
				BackwardPatch:             emptyPatch,
			})
			failed = true
			break
		}

		after := snapshot(situation)
		fwd, bwd := jsonpatch.DiffBoth(before, after, "")

		processed = append(processed, model.ProcessedMutation{
			Mutation:                  mut,
			CalculationMessageIndexes: msgIndexes,
			ForwardPatch:              marshalPatch(fwd),
			BackwardPatch:             marshalPatch(bwd),
		})

		lastMutationID = mut.MutationID
		lastMutationIndex = i
		lastActualAt = mut.ActualAt
	}

	outcome := model.OutcomeSuccess
	if failed {
		outcome = model.OutcomeFailure
	}

	elapsed := time.Since(start)

	return &model.CalculationResponse{
		CalculationMetadata: model.CalculationMetadata{
			CalculationID:          uuid.New().String(),
			TenantID:               req.TenantID,
			CalculationStartedAt:   startedAt.Format(timestampLayout),
			CalculationCompletedAt: startedAt.Add(elapsed).Format(timestampLayout),
			CalculationDurationMs:  elapsed.Milliseconds(),
			CalculationOutcome:     outcome,
		},
		CalculationResult: model.CalculationResult{
			Messages:  allMessages,
			Mutations: processed,
			EndSituation: model.SituationEnvelope{
				MutationID:    lastMutationID,
				MutationIndex: lastMutationIndex,
				ActualAt:      lastActualAt,
				Situation:     *situation,
			},
			InitialSituation: model.InitialSituation{
				ActualAt:  muts[0].ActualAt,
				Situation: model.Situation{},
			},
		},
	}
}

// snapshot serializes the situation into a generic JSON tree for diffing.
func snapshot(s *model.Situation) any {
	b, _ := json.Marshal(s)
	var v any
	_ = json.Unmarshal(b, &v)
	return v
}

func marshalPatch(ops []jsonpatch.Operation) json.RawMessage {
	if len(ops) == 0 {
		return emptyPatch
	}
	b, _ := json.Marshal(ops)
	return b
}
