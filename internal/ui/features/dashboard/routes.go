package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
)

// SetupRoutes configures routes for the dashboard feature.
func SetupRoutes(
	router chi.Router,
	source Source,
	sessionStore sessions.Store,
	opts dashview.Options,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(source, sessionStore, opts, logger, isDev)

	router.Get("/", handlers.DashboardPage)
	router.Get("/healthz", handlers.Health)

	router.Route("/api", func(r chi.Router) {
		r.Post("/dashboard/render", handlers.RenderSSE) // widget change
		r.Get("/figure", handlers.FigureJSON)           // plotly.js figure
		r.Get("/chart.{format}", handlers.ChartImage)   // png or svg export
	})

	return nil
}
