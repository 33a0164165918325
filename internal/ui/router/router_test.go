package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/testutil"
	"github.com/leapstack-labs/moviescope/internal/ui/features"
	dashboardFeature "github.com/leapstack-labs/moviescope/internal/ui/features/dashboard"
	"github.com/leapstack-labs/moviescope/internal/ui/notifier"
)

func setup(t *testing.T, isDev bool) (chi.Router, *notifier.Notifier) {
	t.Helper()
	fixture := features.SetupTestFixture(t, testutil.MoviesCSV)
	notify := notifier.New()
	r := chi.NewRouter()
	require.NoError(t, SetupRoutes(r, Deps{
		Source:       dashboardFeature.CacheSource(fixture.Cache, fixture.DataPath),
		SessionStore: fixture.SessionStore,
		Options:      dashview.DefaultOptions(),
		Notifier:     notify,
		Logger:       testutil.NewTestLogger(t),
		IsDev:        isDev,
	}))
	return r, notify
}

func TestSetupRoutes(t *testing.T) {
	r, _ := setup(t, false)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/static/app.css", http.StatusOK},
		{http.MethodGet, "/api/figure?kind=bar&y=popularity", http.StatusOK},
		{http.MethodGet, "/hotreload", http.StatusNotFound},
		{http.MethodGet, "/api/dashboard/render", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHotReload(t *testing.T) {
	r, notify := setup(t, true)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reload", nil))
	}()

	require.Eventually(t, func() bool { return notify.Len() == 1 }, time.Second, 5*time.Millisecond)

	hot := httptest.NewRecorder()
	r.ServeHTTP(hot, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, hot.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reload stream did not finish after hot reload")
	}
	// Once for the first connection after start, once for the hot reload.
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "window.location.reload()"))
	assert.Equal(t, 0, notify.Len())
}
