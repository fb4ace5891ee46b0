package portkey

import (
	"context"
	"time"

	"github.com/socialchef/hogwarts-kitchen/internal/config"
	"github.com/socialchef/hogwarts-kitchen/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Kind selects a Completer implementation.
type Kind string

const (
	// KindChatComplete posts to the gateway's native /chatComplete endpoint.
	KindChatComplete Kind = "chatComplete"
	// KindProxy uses the gateway's OpenAI-compatible proxy through the SDK.
	KindProxy Kind = "proxy"
)

// Route labels used on gateway metrics.
const (
	RouteChatComplete = "chat_complete"
	RouteProxy        = "proxy"
)

// NewCompleter returns the Completer for kind. Unknown kinds fall back to
// the native endpoint.
func NewCompleter(cfg config.GatewayConfig, kind Kind, openAIKey, portkeyKey string) Completer {
	switch kind {
	case KindProxy:
		return NewProxyClient(cfg, openAIKey, portkeyKey)
	default:
		return NewChatCompleteClient(cfg, openAIKey, portkeyKey)
	}
}

func recordCall(ctx context.Context, route string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = ClassifyError(err, route).Type
	}
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("outcome", outcome),
	)
	metrics.GatewayDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	metrics.GatewayCallsTotal.Add(ctx, 1, attrs)
}
