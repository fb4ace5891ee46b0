package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"github.com/socialchef/hogwarts-kitchen/internal/middleware"
	"github.com/socialchef/hogwarts-kitchen/internal/sentry"
	"github.com/socialchef/hogwarts-kitchen/internal/services/portkey"
	"go.opentelemetry.io/otel"
)

// Routes holds the per-route gateway clients and the static asset handler.
type Routes struct {
	Axios   portkey.Completer
	Portkey portkey.Completer
	// Static serves the home page and its assets. Nil disables it.
	Static http.Handler
}

// NewRouter wires middleware and endpoints. serviceName labels HTTP telemetry.
func NewRouter(serviceName string, s *Server, routes Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(otelchi.Middleware(serviceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(serviceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", portkey.HeaderTraceID},
		ExposedHeaders: []string{portkey.HeaderTraceID},
	}))

	r.Use(middleware.TraceID)
	r.Use(sentry.HTTPMiddleware)

	r.Get("/health", s.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/axios/recipes", s.HandleRecipes(RouteAxios, routes.Axios))
		r.Post("/portkey/recipes", s.HandleRecipes(RoutePortkey, routes.Portkey))
	})

	if routes.Static != nil {
		r.Handle("/*", routes.Static)
	}

	return r
}
