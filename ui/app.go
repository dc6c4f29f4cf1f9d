package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"nullsim/app"
	"nullsim/internal"
)

// App is the HTTP surface of the test service: a JSON API for running tests
// and fetching persisted runs and reports.
type App struct {
	router  *chi.Mux
	service *app.TestService
	logger  *internal.Logger
}

// NewApp creates the HTTP application and wires its routes
func NewApp(service *app.TestService, logger *internal.Logger) *App {
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}
	a.setupRoutes()
	return a
}

func (a *App) setupRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/health", a.handleHealth)

	a.router.Route("/api", func(r chi.Router) {
		r.Post("/tests", a.handleRunTest)
		r.Post("/tests/batch", a.handleRunBatch)
		r.Get("/tests", a.handleListRuns)
		r.Get("/tests/{id}", a.handleGetRun)
		r.Get("/tests/{id}/report", a.handleReport)
	})
}

// Router returns the HTTP handler for embedding in a server
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port, blocking until it exits
func (a *App) Start(port string) error {
	a.logger.Info("HTTP server listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
