// Package server exposes the event service over HTTP as a JSON API.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/campus-events/internal/service"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campus_events_http_requests_total",
	Help: "Number of HTTP requests served, by route and status code.",
}, []string{"method", "route", "code"})

// Server routes HTTP requests to the event service.
type Server struct {
	svc     *service.Service
	handler http.Handler
}

// New builds the server and its routes around the given service.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc}

	r := errRouter{Router: mux.NewRouter()}
	r.Use(observeMiddleware)

	v1 := errRouter{Router: r.PathPrefix("/v1").Subrouter()}
	v1.HandleFuncE("/events/upcoming", s.handleUpcoming).Methods(http.MethodGet)
	v1.HandleFuncE("/events/search", s.handleSearch).Methods(http.MethodGet)
	v1.HandleFuncE("/events/date/{date}", s.handleByDate).Methods(http.MethodGet)
	v1.HandleFuncE("/events/range", s.handleByRange).Methods(http.MethodGet)
	v1.HandleFuncE("/events/timeofday", s.handleByTimeOfDay).Methods(http.MethodGet)
	v1.HandleFuncE("/events/week", s.handleWeek).Methods(http.MethodGet)
	v1.HandleFuncE("/events/weekend", s.handleWeekend).Methods(http.MethodGet)
	v1.HandleFuncE("/events/category/{name}", s.handleByCategory).Methods(http.MethodGet)
	v1.HandleFuncE("/events/detail", s.handleDetail).Methods(http.MethodGet)
	v1.HandleFuncE("/events/{id}/calendar.ics", s.handleCalendar).Methods(http.MethodGet)
	v1.HandleFuncE("/categories", s.handleCategories).Methods(http.MethodGet)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	s.handler = handlers.RecoveryHandler()(handlers.CompressHandler(r))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// writeJSON encodes data as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	return nil
}

// handlerFuncE is an http.HandlerFunc that returns its error instead of
// writing it, so error rendering lives in one place.
type handlerFuncE func(w http.ResponseWriter, r *http.Request) error

func (f handlerFuncE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := f(w, r)
	if err == nil {
		return
	}

	ae := coerce(err)
	if ae.Status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if werr := writeJSON(w, ae.Status, map[string]*apiError{"error": ae}); werr != nil {
		slog.Error("writing error response", "error", werr)
	}
}

// errRouter attaches handlers that return errors.
type errRouter struct {
	*mux.Router
}

func (r errRouter) HandleFuncE(path string, f handlerFuncE) *mux.Route {
	return r.Handle(path, f)
}

// observeMiddleware logs each request and records it in the request counter
// under its route template.
func observeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		writer := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(writer, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequests.WithLabelValues(r.Method, route, fmt.Sprint(writer.code)).Inc()
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", writer.code,
			"duration", time.Since(start),
		)
	})
}

// statusWriter traps the response status code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// queryParam fetches a required query string parameter.
func queryParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", errInvalid(fmt.Sprintf("missing query parameter %q", name))
	}
	return v, nil
}
