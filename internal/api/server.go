// Package api serves word-cloud layouts over HTTP.
//
// Routes:
//
//	POST /v1/layouts                  compute a layout, returns its id and placements
//	GET  /v1/layouts/{id}             the JSON snapshot
//	GET  /v1/layouts/{id}/image.png   PNG rendering (?scale=, ?background=)
//	GET  /v1/layouts/{id}/image.svg   SVG rendering (?background=, ?font_family=)
//	GET  /v1/layouts/{id}/hit?x=&y=   the entry under a canvas point
//	GET  /healthz                     liveness and build information
//
// Layouts are stored as JSON snapshots in a [cache.Cache] under a random id,
// so a Redis store lets several instances share them. Errors are returned as
// JSON objects with a code and a message.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultStoreTTL     = 24 * time.Hour
	DefaultMaxBodyBytes = 8 << 20
	DefaultMaxWords     = 2000
	decodedLayouts      = 64
)

// Config configures a [Server].
type Config struct {
	// Runner computes and renders layouts. Its cache holds artifacts.
	Runner *pipeline.Runner

	// Store keeps layout snapshots by id. Defaults to an in-memory LRU.
	Store cache.Cache

	// StoreTTL is how long a stored layout stays retrievable.
	StoreTTL time.Duration

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64

	// MaxWords bounds the number of entries per request.
	MaxWords int

	Logger *log.Logger
}

// Server handles API requests.
type Server struct {
	runner  *pipeline.Runner
	store   cache.Cache
	ttl     time.Duration
	maxBody int64
	maxWord int
	logger  *log.Logger

	// decoded holds recently used layouts so hit tests and renders skip
	// snapshot decoding.
	decoded *lru.Cache[string, *pipeline.Layout]
}

// New creates a server from cfg, filling in defaults.
func New(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Store == nil {
		store, err := cache.NewMemoryCache(cache.DefaultMemoryEntries)
		if err != nil {
			return nil, err
		}
		cfg.Store = store
	}
	if cfg.StoreTTL == 0 {
		cfg.StoreTTL = DefaultStoreTTL
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxWords == 0 {
		cfg.MaxWords = DefaultMaxWords
	}
	decoded, err := lru.New[string, *pipeline.Layout](decodedLayouts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create layout cache")
	}
	return &Server{
		runner:  cfg.Runner,
		store:   cfg.Store,
		ttl:     cfg.StoreTTL,
		maxBody: cfg.MaxBodyBytes,
		maxWord: cfg.MaxWords,
		logger:  cfg.Logger,
		decoded: decoded,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handle(s.handleHealth))
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handle(s.handleCreate))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handle(s.handleSnapshot))
			r.Get("/image.png", s.handle(s.handleImage(pipeline.FormatPNG)))
			r.Get("/image.svg", s.handle(s.handleImage(pipeline.FormatSVG)))
			r.Get("/hit", s.handle(s.handleHit))
		})
	})
	r.NotFound(s.handle(func(http.ResponseWriter, *http.Request) error {
		return errors.New(errors.ErrCodeNotFound, "no such route")
	}))
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: r.Method + " not allowed"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}
