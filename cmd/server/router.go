package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/scoutiq/landscape-api/internal/api"
	apiMiddleware "github.com/scoutiq/landscape-api/internal/api/middleware"
)

// setupRouter configures all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{app.config.Security.CORSOrigin},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))

	analysisHandler := api.NewAnalysisHandler(
		app.dispatcher,
		app.engine,
		app.analysisStore,
		app.config.Server.IsProduction(),
	)
	jobHandler := api.NewJobHandler(app.dispatcher)
	workerHandler := api.NewWorkerHandler(app.dispatcher, app.engine, app.logger)
	healthHandler := api.NewHealthHandler(app.db, app.config.Database.Backend, app.config.Tasks.Enabled)
	auth := apiMiddleware.NewAPIKeyAuth(app.config.Security.APIKey, app.config.Server.IsProduction())

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(
			app.config.RateLimit.MaxRequests,
			time.Duration(app.config.RateLimit.WindowSeconds)*time.Second,
		))
		r.Use(auth.Authenticate)

		r.Route("/competitive-landscape", func(r chi.Router) {
			r.Post("/analyze", analysisHandler.Analyze)
			r.Post("/analyze-sync", analysisHandler.AnalyzeSync)
			r.Get("/", analysisHandler.List)
			r.Get("/{analysisID}", analysisHandler.GetByID)
			r.Get("/{analysisID}/competitors", analysisHandler.ListCompetitors)
		})
		r.Get("/jobs/{jobID}", jobHandler.GetByID)
	})

	// Task executor callback. Reached by the queue's OIDC-authenticated
	// push, not by API clients, so it sits outside the /api group.
	r.Post("/process-job", workerHandler.ProcessJob)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/detailed", healthHandler.DetailedHealth)

	return r
}
