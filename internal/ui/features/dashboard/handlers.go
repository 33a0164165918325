package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/moviescope/internal/chart"
	dashview "github.com/leapstack-labs/moviescope/internal/dashboard"
	"github.com/leapstack-labs/moviescope/internal/dataset"
	"github.com/leapstack-labs/moviescope/internal/ui/features/dashboard/components"
)

const (
	sessionName = "moviescope"
	stateKey    = "state"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	source       Source
	sessionStore sessions.Store
	opts         dashview.Options
	logger       *slog.Logger
	isDev        bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(source Source, sessionStore sessions.Store, opts dashview.Options, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		source:       source,
		sessionStore: sessionStore,
		opts:         opts,
		logger:       logger,
		isDev:        isDev,
	}
}

// DashboardPage renders the full page from the session's widget state.
func (h *Handlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ds, err := h.source.Dataset(r.Context())
	if err != nil {
		h.logger.Error("dataset unavailable", "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_ = components.Page(dashview.PageTitle, h.isDev, nil, components.ErrorBanner(err.Error())).Render(r.Context(), w)
		return
	}

	view, err := dashview.Render(ds, h.loadState(r), h.opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := components.Page(dashview.PageTitle, h.isDev, view.State, components.Dashboard(view)).Render(r.Context(), &buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// RenderSSE re-renders the dashboard from the posted widget signals using the
// fat morph pattern, then sends the normalized signals back.
func (h *Handlers) RenderSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var state dashview.State
	if err := datastar.ReadSignals(r, &state); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(fmt.Errorf("failed to read signals: %w", err))
		return
	}

	ds, err := h.source.Dataset(r.Context())
	if err != nil {
		h.logger.Error("dataset unavailable", "error", err)
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(components.ErrorBanner(err.Error()))
		return
	}

	view, err := dashview.Render(ds, state, h.opts)
	if err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.ConsoleError(err)
		return
	}

	// The cookie has to be written before the SSE stream sends its headers.
	if err := h.saveState(w, r, view.State); err != nil {
		h.logger.Warn("failed to save widget state", "error", err)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Dashboard(view)); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.MarshalAndPatchSignals(view.State); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// FigureJSON returns the plotly.js figure for the chart named by the query.
// Bar, line and area charts plot the Top-N subset; scatters plot every row.
func (h *Handlers) FigureJSON(w http.ResponseWriter, r *http.Request) {
	ds, req, ok := h.chartRequest(w, r)
	if !ok {
		return
	}

	fig, err := chart.Build(ds, req)
	if err != nil {
		http.Error(w, err.Error(), chartErrorStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(fig); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = buf.WriteTo(w)
}

// ChartImage renders the chart named by the query as PNG or SVG.
func (h *Handlers) ChartImage(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	contentType, ok := imageTypes[format]
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %q", chart.ErrUnsupportedFormat, format), http.StatusNotFound)
		return
	}

	ds, req, ok := h.chartRequest(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderImage(ds, req, format, &buf); err != nil {
		http.Error(w, err.Error(), chartErrorStatus(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	_, _ = buf.WriteTo(w)
}

// Health reports whether the dataset is loaded.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ds, err := h.source.Dataset(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(Health{Status: "error", Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(Health{Status: "ok", Rows: ds.Len()})
}

var imageTypes = map[string]string{
	chart.FormatPNG: "image/png",
	chart.FormatSVG: "image/svg+xml",
}

// chartRequest loads the dataset and parses the chart query. It writes the
// error response itself and reports false on failure.
func (h *Handlers) chartRequest(w http.ResponseWriter, r *http.Request) (*dataset.Dataset, chart.Request, bool) {
	req, err := parseChartQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, req, false
	}

	ds, err := h.source.Dataset(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, req, false
	}

	if req.Kind.Categorical() {
		if req.X == "" {
			req.X = dataset.ColumnTitle
		}
		ds, err = dataset.TopN(ds, dataset.ColumnPopularity, h.topN())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return nil, req, false
		}
	}
	return ds, req, true
}

func (h *Handlers) topN() int {
	if h.opts.TopN > 0 {
		return h.opts.TopN
	}
	return dataset.DefaultTopN
}

func parseChartQuery(q url.Values) (chart.Request, error) {
	kind := chart.Bar
	if s := q.Get("kind"); s != "" {
		k, err := chart.ParseKind(s)
		if err != nil {
			return chart.Request{}, err
		}
		kind = k
	}
	return chart.Request{
		Kind:  kind,
		X:     q.Get("x"),
		Y:     q.Get("y"),
		Z:     q.Get("z"),
		Title: q.Get("title"),
	}, nil
}

func chartErrorStatus(err error) int {
	switch {
	case errors.Is(err, chart.ErrUnknownKind),
		errors.Is(err, chart.ErrUnknownColumn),
		errors.Is(err, chart.ErrNotNumeric),
		errors.Is(err, chart.ErrUnsupportedImage),
		errors.Is(err, chart.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// loadState returns the widget state stored in the session, or the zero
// state, which Render normalizes to the defaults.
func (h *Handlers) loadState(r *http.Request) dashview.State {
	var state dashview.State
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil {
		return state
	}
	raw, ok := session.Values[stateKey].(string)
	if !ok {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return dashview.State{}
	}
	return state
}

func (h *Handlers) saveState(w http.ResponseWriter, r *http.Request, state dashview.State) error {
	session, err := h.sessionStore.Get(r, sessionName)
	if err != nil && session == nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	session.Values[stateKey] = string(raw)
	return session.Save(r, w)
}
