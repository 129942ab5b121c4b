// Package server is the HTTP adapter in front of the calculation engine.
package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"pension-engine/internal/engine"
	"pension-engine/internal/metrics"
	"pension-engine/internal/model"
)

type Server struct {
	engine         *engine.Engine
	validate       *validator.Validate
	log            *slog.Logger
	metricsHandler fasthttp.RequestHandler
}

func New(eng *engine.Engine, log *slog.Logger) *Server {
	return &Server{
		engine:         eng,
		validate:       validator.New(),
		log:            log,
		metricsHandler: fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()),
	}
}

// Handler returns the root request handler with all routes wired.
func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/calculation-requests":
			if !ctx.IsPost() {
				writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
				return
			}
			s.handleCalculation(ctx)
		case "/health":
			ctx.SetContentType("application/json")
			ctx.SetBodyString(`{"status":"ok"}`)
		case "/metrics":
			s.metricsHandler(ctx)
		default:
			writeError(ctx, fasthttp.StatusNotFound, "Not found")
		}
	}
}

func (s *Server) handleCalculation(ctx *fasthttp.RequestCtx) {
	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, validationMessage(err))
		return
	}

	start := time.Now()
	resp := s.engine.Process(&req)
	elapsed := time.Since(start)

	outcome := resp.CalculationMetadata.CalculationOutcome
	metrics.CalculationsTotal.WithLabelValues(outcome).Inc()
	metrics.CalculationDuration.Observe(elapsed.Seconds())

	s.log.Info("calculation completed",
		"calculation_id", resp.CalculationMetadata.CalculationID,
		"tenant_id", req.TenantID,
		"outcome", outcome,
		"mutations", len(req.CalculationInstructions.Mutations),
		"duration_ms", elapsed.Milliseconds(),
	)

	body, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("response marshal failed", "error", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Internal server error")
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// validationMessage maps a request-validation error onto the boundary's
// error wording.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "TenantID":
			return "tenant_id is required"
		case "Mutations":
			return "At least one mutation is required"
		}
	}
	return "Invalid request"
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(model.ErrorResponse{Status: status, Message: message})
	ctx.SetBody(body)
}
