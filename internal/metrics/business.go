package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	meter = otel.Meter("hogwarts-kitchen/business")

	noopMeter = noop.NewMeterProvider().Meter("hogwarts-kitchen/noop")

	// Recipe endpoint metrics
	RecipeRequestsTotal metric.Int64Counter     = mustNoopCounter("recipe.requests.total")
	RecipeDuration      metric.Float64Histogram = mustNoopHistogram("recipe.request.duration")

	// Gateway metrics
	GatewayCallsTotal metric.Int64Counter     = mustNoopCounter("gateway.calls.total")
	GatewayDuration   metric.Float64Histogram = mustNoopHistogram("gateway.duration")
)

// Init binds the instruments to the global meter provider. Until it is
// called every instrument is a no-op, so packages can record unconditionally.
func Init() error {
	var err error

	RecipeRequestsTotal, err = meter.Int64Counter(
		"recipe.requests.total",
		metric.WithDescription("Total number of recipe requests by route and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeDuration, err = meter.Float64Histogram(
		"recipe.request.duration",
		metric.WithDescription("Duration of recipe requests including the gateway call"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	GatewayCallsTotal, err = meter.Int64Counter(
		"gateway.calls.total",
		metric.WithDescription("Total number of LLM gateway calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	GatewayDuration, err = meter.Float64Histogram(
		"gateway.duration",
		metric.WithDescription("Duration of LLM gateway calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	return nil
}

func mustNoopCounter(name string) metric.Int64Counter {
	c, _ := noopMeter.Int64Counter(name)
	return c
}

func mustNoopHistogram(name string) metric.Float64Histogram {
	h, _ := noopMeter.Float64Histogram(name)
	return h
}
