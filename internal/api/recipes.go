package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "github.com/socialchef/hogwarts-kitchen/internal/errors"
	"github.com/socialchef/hogwarts-kitchen/internal/logger"
	"github.com/socialchef/hogwarts-kitchen/internal/metrics"
	"github.com/socialchef/hogwarts-kitchen/internal/middleware"
	"github.com/socialchef/hogwarts-kitchen/internal/sentry"
	"github.com/socialchef/hogwarts-kitchen/internal/services/ai"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"github.com/socialchef/hogwarts-kitchen/internal/services/recipe"
	"github.com/socialchef/hogwarts-kitchen/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// GenericErrorMessage is the only error text clients ever see.
const GenericErrorMessage = "Unexpected error occured"

// Route labels for the two recipe endpoints.
const (
	RouteAxios   = "axios"
	RoutePortkey = "portkey"
)

// maxRequestBody caps the ingredients payload.
const maxRequestBody = 1 << 20

type RecipeRequest struct {
	Ingredients string `json:"ingredients"`
}

// HandleRecipes builds the recipe prompt, makes exactly one gateway call
// through c and relays choices[0].message as the gateway returned it.
// Every failure becomes a 400 with GenericErrorMessage.
func (s *Server) HandleRecipes(route string, c portkey.Completer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()
		outcome := "error"
		defer func() {
			attrs := metric.WithAttributes(
				attribute.String("route", route),
				attribute.String("outcome", outcome),
			)
			metrics.RecipeRequestsTotal.Add(ctx, 1, attrs)
			metrics.RecipeDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}()

		var req RecipeRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
			s.fail(ctx, w, route, apperrors.NewValidationError(
				"invalid request body: "+err.Error(), "INVALID_REQUEST_BODY",
				`Send a JSON object such as {"ingredients":"flour, eggs"}.`))
			return
		}

		traceID, _ := middleware.GetTraceID(ctx)
		ctx, span := telemetry.Tracer("hogwarts-kitchen/api").Start(ctx, "recipe.generate",
			trace.WithAttributes(attribute.String("route", route), attribute.String("trace_id", traceID)))
		defer span.End()

		resp, err := c.Complete(ctx, portkey.Request{
			Messages: []portkey.Message{
				portkey.SystemMessage(ai.SystemRole),
				portkey.UserMessage(ai.BuildRecipePrompt(req.Ingredients, recipe.DefaultRecipeSample())),
			},
			TraceID: traceID,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "gateway call failed")
			s.fail(ctx, w, route, err)
			return
		}

		choice, err := resp.FirstChoice()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "no choices")
			s.fail(ctx, w, route, err)
			return
		}

		outcome = classify(choice.Message.Content)
		span.SetAttributes(attribute.String("outcome", outcome))
		s.logger.InfoContext(ctx, "Recipe completion relayed",
			"route", route,
			"outcome", outcome,
			"trace_id", traceID,
			"finish_reason", choice.FinishReason,
			logger.WithTraceContext(ctx),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(choice.Raw)
	}
}

// classify labels the content for metrics. It never affects the response.
func classify(content string) string {
	result, err := recipe.ParseContent(content)
	if err != nil {
		return "unparseable"
	}
	return result.Kind.String()
}

func (s *Server) fail(ctx context.Context, w http.ResponseWriter, route string, err error) {
	attrs := []any{"route", route, "error", err, logger.WithTraceContext(ctx)}
	if id, ok := middleware.GetTraceID(ctx); ok {
		attrs = append(attrs, "trace_id", id)
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		attrs = append(attrs, "error_code", appErr.Code())
	}
	if appErr == nil || appErr.Type != apperrors.ErrorTypeValidation {
		attrs = append(attrs, "failure", portkey.ClassifyError(err, route).Type)
		sentry.CaptureError(ctx, err)
	}

	s.logger.ErrorContext(ctx, "Recipe request failed", attrs...)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusBadRequest)
	io.WriteString(w, GenericErrorMessage)
}
