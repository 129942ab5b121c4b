package server

import (
	"io"
	"log/slog"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"pension-engine/internal/engine"
	"pension-engine/internal/model"
	"pension-engine/internal/mutations"
)

func newTestServer() *Server {
	eng := engine.New(mutations.NewRegistry(), nil)
	return New(eng, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serve(t *testing.T, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	newTestServer().Handler()(ctx)
	return ctx
}

func TestCalculationRequestSuccess(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculation-requests", `{
		"tenant_id": "t-1",
		"calculation_instructions": {
			"mutations": [{
				"mutation_id": "m-1",
				"mutation_definition_name": "create_dossier",
				"mutation_type": "DOSSIER_CREATION",
				"actual_at": "2020-01-01",
				"mutation_properties": {
					"dossier_id": "d-1",
					"person_id": "p-1",
					"name": "Jane Doe",
					"birth_date": "1955-03-20"
				}
			}]
		}
	}`)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp model.CalculationResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, model.OutcomeSuccess, resp.CalculationMetadata.CalculationOutcome)
	assert.Equal(t, "t-1", resp.CalculationMetadata.TenantID)
	require.Len(t, resp.CalculationResult.Mutations, 1)
	assert.NotNil(t, resp.CalculationResult.EndSituation.Situation.Dossier)
}

func TestMalformedBody(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculation-requests", `{not json`)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &errResp))
	assert.Equal(t, fasthttp.StatusBadRequest, errResp.Status)
}

func TestMissingTenantID(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculation-requests", `{
		"calculation_instructions": {"mutations": [{"mutation_id": "m-1"}]}
	}`)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &errResp))
	assert.Equal(t, "tenant_id is required", errResp.Message)
}

func TestEmptyMutations(t *testing.T) {
	ctx := serve(t, fasthttp.MethodPost, "/calculation-requests", `{
		"tenant_id": "t-1",
		"calculation_instructions": {"mutations": []}
	}`)

	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &errResp))
	assert.Equal(t, "At least one mutation is required", errResp.Message)
}

func TestMethodNotAllowed(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/calculation-requests", "")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestUnknownRoute(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/nope", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestHealth(t *testing.T) {
	ctx := serve(t, fasthttp.MethodGet, "/health", "")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}
