// Package server exposes a route table over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dunglas/go-routematch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the resolve service.
type Config struct {
	// Namespace is the metrics namespace (default: "routematch").
	Namespace string

	// Registry registers and gathers the metrics.
	// Default: a new registry owned by the server.
	Registry *prometheus.Registry

	// Logger receives request logs (default: slog.Default()).
	Logger *slog.Logger
}

// Option configures the resolve service.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Server resolves URLs against a route table.
type Server struct {
	table   *routematch.Table
	logger  *slog.Logger
	metrics *metrics
	router  chi.Router
}

// Resolution is the body of a successful /resolve response.
type Resolution struct {
	Route    string            `json:"route"`
	Pattern  string            `json:"pattern"`
	Captures map[string]string `json:"captures"`
	Params   []Param           `json:"params"`
}

// Param is a capture in match order, named or not.
type Param struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value"`
}

// RouteInfo describes an entry of the table.
type RouteInfo struct {
	Name     string   `json:"name"`
	Pattern  string   `json:"pattern"`
	Captures []string `json:"captures"`
}

type errorBody struct {
	Error string `json:"error"`
}

// New creates a resolve service for table.
func New(table *routematch.Table, options ...Option) *Server {
	config := Config{Namespace: "routematch"}
	for _, o := range options {
		o(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &Server{
		table:   table,
		logger:  config.Logger,
		metrics: newMetrics(config.Namespace, config.Registry),
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Get("/resolve", s.resolve)
	r.Get("/routes", s.routes)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

const requestIDHeader = "X-Request-Id"

// requestID tags every request with a UUID, reusing the one sent by the client if any.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		s.metrics.errorsTotal.WithLabelValues("missing_url").Inc()
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "missing url parameter"})
		return
	}

	start := time.Now()
	m, ok, err := s.table.LookupURL(rawURL)
	s.metrics.resolveDuration.Observe(time.Since(start).Seconds())

	id := w.Header().Get(requestIDHeader)
	if err != nil {
		s.metrics.errorsTotal.WithLabelValues("invalid_url").Inc()
		s.logger.Debug("invalid url", "request_id", id, "url", rawURL, "error", err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	if !ok {
		s.metrics.missesTotal.Inc()
		s.logger.Debug("no route matches", "request_id", id, "url", rawURL)
		writeJSON(w, http.StatusNotFound, errorBody{Error: "no route matches"})
		return
	}

	s.metrics.resolutionsTotal.WithLabelValues(m.Name).Inc()
	s.logger.Debug("resolved", "request_id", id, "url", rawURL, "route", m.Name)

	res := Resolution{
		Route:    m.Name,
		Pattern:  m.Matcher.String(),
		Captures: m.Captures.Map(),
		Params:   make([]Param, 0, len(m.Captures)),
	}
	for _, p := range m.Captures {
		res.Params = append(res.Params, Param{Index: p.Index, Name: p.Name, Value: p.Value})
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) routes(w http.ResponseWriter, _ *http.Request) {
	routes := s.table.Routes()

	infos := make([]RouteInfo, 0, len(routes))
	for _, r := range routes {
		infos = append(infos, RouteInfo{Name: r.Name, Pattern: r.Matcher.String(), Captures: r.Matcher.CaptureNames()})
	}

	writeJSON(w, http.StatusOK, infos)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
