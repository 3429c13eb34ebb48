package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/songsearch/internal/domain"
	"github.com/kailas-cloud/songsearch/internal/domain/function"
	"github.com/kailas-cloud/songsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/songsearch/internal/domain/search/request"
	"github.com/kailas-cloud/songsearch/internal/logger"
	filtersuc "github.com/kailas-cloud/songsearch/internal/usecase/filters"
	healthuc "github.com/kailas-cloud/songsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/songsearch/internal/usecase/search"
)

// TransportHTTP labels events delivered over the Events API.
const TransportHTTP = "http"

// maxBodyBytes caps inbound request bodies.
const maxBodyBytes = 1 << 20

// Error codes returned in errorResponse.Code.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeInternal     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// EventDispatcher routes an inner platform event, acknowledging it exactly once.
type EventDispatcher interface {
	Dispatch(ctx context.Context, transport string, raw json.RawMessage, ack func()) error
}

// Server serves the direct query API, the Events API endpoint, health and metrics.
type Server struct {
	filters       *filtersuc.Service
	search        *searchuc.Service
	events        EventDispatcher
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	filters *filtersuc.Service,
	search *searchuc.Service,
	events EventDispatcher,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		filters: filters,
		search:  search,
		events:  events,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrMalformedEvent, http.StatusBadRequest, CodeBadRequest),
	}
	return s
}

// Routes mounts the server's handlers. apiMiddleware wraps the direct query API,
// eventMiddleware wraps the Events API endpoint.
func (s *Server) Routes(r chi.Router, apiMiddleware, eventMiddleware func(http.Handler) http.Handler) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(orPassThrough(apiMiddleware))
		r.Get("/filters", s.ListFilters)
		r.Get("/search", s.SearchQuery)
		r.Post("/search", s.Search)
	})

	r.With(orPassThrough(eventMiddleware)).Post("/slack/events", s.SlackEvents)
}

func orPassThrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

// ListFilters handles GET /api/v1/filters.
func (s *Server) ListFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		function.OutputFilters: s.filters.List(r.Context()),
	})
}

type searchRequest struct {
	Filters map[string]any `json:"filters"`
}

// Search handles POST /api/v1/search. An empty body means no selection.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	sel := request.Parse(req.Filters, s.search.Dimensions())
	s.writeResults(w, r, sel)
}

// SearchQuery handles GET /api/v1/search. Multi-select dimensions take repeated
// parameters (?bands=Queen&bands=AC/DC), toggles take booleans (?is_single=true).
// Values that fail to bind leave the dimension inactive.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	dims := s.search.Dimensions()
	query := r.URL.Query()
	raw := make(map[string]any, len(dims))

	for _, d := range dims {
		if !query.Has(d.Name()) {
			continue
		}
		switch d.Kind() {
		case filter.Toggle:
			var on *bool
			if err := runtime.BindQueryParameter("form", true, false, d.Name(), query, &on); err != nil {
				logger.FromContext(r.Context()).Debug("ignoring query parameter",
					zap.String("param", d.Name()), zap.Error(err))
				continue
			}
			if on != nil {
				raw[d.Name()] = *on
			}
		case filter.MultiSelect:
			var values *[]string
			if err := runtime.BindQueryParameter("form", true, false, d.Name(), query, &values); err != nil {
				logger.FromContext(r.Context()).Debug("ignoring query parameter",
					zap.String("param", d.Name()), zap.Error(err))
				continue
			}
			if values != nil {
				raw[d.Name()] = *values
			}
		}
	}

	s.writeResults(w, r, request.Parse(raw, dims))
}

func (s *Server) writeResults(w http.ResponseWriter, r *http.Request, sel request.Selection) {
	logger.FromContext(r.Context()).Debug("search", zap.Strings("active_filters", sel.Active()))
	writeJSON(w, http.StatusOK, map[string]any{
		function.OutputSearchResult: s.search.Search(r.Context(), sel),
	})
}

// eventEnvelope is the outer Events API request body.
type eventEnvelope struct {
	Type      string          `json:"type"`
	Challenge string          `json:"challenge,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
	TeamID    string          `json:"team_id,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// SlackEvents handles POST /slack/events.
// The 200 response is the acknowledgment; it is written once the event is dispatched.
func (s *Server) SlackEvents(w http.ResponseWriter, r *http.Request) {
	var env eventEnvelope
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	switch env.Type {
	case "url_verification":
		writeJSON(w, http.StatusOK, map[string]string{"challenge": env.Challenge})
		return
	case "event_callback":
	default:
		logger.FromContext(r.Context()).Debug("ignoring envelope", zap.String("type", env.Type))
		w.WriteHeader(http.StatusOK)
		return
	}

	ctx := logger.With(r.Context(), zap.String("event_id", env.EventID))
	err := s.events.Dispatch(ctx, TransportHTTP, env.Event, func() {})
	if err != nil && errors.Is(err, domain.ErrMalformedEvent) {
		s.handleDomainError(w, err)
		return
	}
	if err != nil {
		// the event was handled; a failed completion call is not the sender's problem
		logger.FromContext(ctx).Warn("event dispatch failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusOK)
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMalformedEvent,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
