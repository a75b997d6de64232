// Package rest wires the HTTP surface of the API.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"mtp-backend/application/services"
	"mtp-backend/infrastructure/config"
	"mtp-backend/interfaces/http/rest/handlers"
	"mtp-backend/interfaces/http/rest/middleware"
	"mtp-backend/pkg/auth"
	"mtp-backend/pkg/observability"
)

// Router creates and configures the HTTP router
type Router struct {
	notes      *services.NoteService
	strategies *services.StrategyService
	reports    *services.ReportService
	resolver   *auth.Resolver
	collector  *observability.Collector
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	notes *services.NoteService,
	strategies *services.StrategyService,
	reports *services.ReportService,
	resolver *auth.Resolver,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		notes:      notes,
		strategies: strategies,
		reports:    reports,
		resolver:   resolver,
		collector:  collector,
		cfg:        cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware. Metrics sits first so its latency sample spans
	// the whole chain.
	router.Use(middleware.Metrics(rt.collector))
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Recoverer(rt.logger))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", rt.cfg.DevUserHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondRouterMessage(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondRouterMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Route("/v1", func(r chi.Router) {
		// Operational endpoints stay open
		systemHandler := handlers.NewSystemHandler(rt.collector, rt.cfg)
		r.Get("/health", systemHandler.Health)
		r.Get("/metrics", systemHandler.Metrics)

		// Everything else requires a resolved identity
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(rt.resolver))

			r.Route("/notes", func(r chi.Router) {
				noteHandler := handlers.NewNoteHandler(rt.notes, rt.logger)
				r.Post("/", noteHandler.Create)
				r.Get("/", noteHandler.List)
				r.Get("/{noteID}", noteHandler.Get)
				r.Put("/{noteID}", noteHandler.Update)
				r.Patch("/{noteID}", noteHandler.Update)
				r.Delete("/{noteID}", noteHandler.Delete)
			})

			r.Route("/strategies", func(r chi.Router) {
				strategyHandler := handlers.NewStrategyHandler(rt.strategies, rt.logger)
				r.Post("/", strategyHandler.Create)
				r.Get("/", strategyHandler.List)
				r.Get("/{strategyID}", strategyHandler.Get)
				r.Put("/{strategyID}", strategyHandler.Update)
				r.Patch("/{strategyID}", strategyHandler.Update)
				r.Delete("/{strategyID}", strategyHandler.Delete)
			})

			reportHandler := handlers.NewReportHandler(rt.reports, rt.logger)
			r.Get("/reports/notes-summary", reportHandler.NotesSummary)
		})
	})

	return router
}

// respondRouterMessage writes a plain {"message": ...} body for routing
// level failures that never reach a handler.
func respondRouterMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + message + `"}`))
}
