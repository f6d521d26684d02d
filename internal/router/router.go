package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/GregMSThompson/decision-backend/docs"
	"github.com/GregMSThompson/decision-backend/internal/handlers"
	"github.com/GregMSThompson/decision-backend/internal/middleware"
)

type Options struct {
	ProjectID    string
	CORSOrigins  []string
	RateRPS      float64
	RateBurst    int
	AuthDisabled bool
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log, opts.ProjectID)
	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Cloud-Trace-Context"},
		MaxAge:         300,
	}))

	hh := handlers.NewHealthHandlers(deps)
	r.Get("/healthz", hh.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(docs.OpenAPI)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	auth := middleware.NewMiddleware(deps.Firebase, opts.AuthDisabled)

	dh := handlers.NewDecisionHandlers(deps)
	mh := handlers.NewMediaHandlers(deps)
	ch := handlers.NewChatHandlers(deps)
	eh := handlers.NewExplainHandlers(deps)
	hsh := handlers.NewHistoryHandlers(deps)
	ph := handlers.NewPreferencesHandlers(deps)

	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.FirebaseAuth)
		r.Use(middleware.RateLimit(opts.RateRPS, opts.RateBurst, deps.ResponseHandler))

		r.Mount("/decisions", dh.DecisionRoutes())
		r.Mount("/media", mh.MediaRoutes())
		r.Mount("/chat", ch.ChatRoutes())
		r.Mount("/explain", eh.ExplainRoutes())
		r.Mount("/history", hsh.HistoryRoutes())
		r.Mount("/preferences", ph.PreferencesRoutes())
	})

	return r
}
