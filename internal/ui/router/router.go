// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	dashboardFeature "github.com/leapstack-labs/moviescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/moviescope/internal/ui/notifier"
	"github.com/leapstack-labs/moviescope/internal/ui/resources"
)

// Deps are the shared dependencies of every feature.
type Deps struct {
	Source       dashboardFeature.Source
	SessionStore sessions.Store
	Options      dashview.Options
	Notifier     *notifier.Notifier
	Logger       *slog.Logger
	IsDev        bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router, deps.Notifier)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	return dashboardFeature.SetupRoutes(router, deps.Source, deps.SessionStore, deps.Options, deps.Logger, deps.IsDev)
}

// setupReload wires the browser half of hot reload. Every open tab holds a
// /reload stream; a hit on /hotreload reloads all of them. The first stream
// after a restart reloads at once so a rebuilt binary is picked up.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var firstConnect sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		updates, cancel := notify.Subscribe()
		defer cancel()

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		firstConnect.Do(reload)
		select {
		case <-updates:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
