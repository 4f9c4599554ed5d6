package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/wordcloud/pkg/buildinfo"
	"github.com/matzehuels/wordcloud/pkg/cache"
	"github.com/matzehuels/wordcloud/pkg/errors"
	"github.com/matzehuels/wordcloud/pkg/fonts"
	"github.com/matzehuels/wordcloud/pkg/layout"
	"github.com/matzehuels/wordcloud/pkg/observability"
	"github.com/matzehuels/wordcloud/pkg/pipeline"
	"github.com/matzehuels/wordcloud/pkg/words"
)

// =============================================================================
// Request and Response Types
// =============================================================================

// CreateRequest is the body of POST /v1/layouts.
type CreateRequest struct {
	Entries []words.Entry    `json:"entries"`
	Options pipeline.Options `json:"options"`
}

// CreateResponse describes a stored layout.
type CreateResponse struct {
	ID         string             `json:"id"`
	Hash       string             `json:"hash"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	Placements []layout.Placement `json:"placements"`
	Unplaced   []int              `json:"unplaced,omitempty"`
	Skipped    []int              `json:"skipped,omitempty"`
	Cached     bool               `json:"cached"`
}

// HitResponse is the entry under a queried point.
type HitResponse struct {
	Index     int               `json:"index"`
	Entry     words.Entry       `json:"entry"`
	Placement *layout.Placement `json:"placement,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
	return nil
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) error {
	var req CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Entries) > s.maxWord {
		return errors.New(errors.ErrCodeInvalidInput, "too many entries: %d (max %d)", len(req.Entries), s.maxWord)
	}
	opts := req.Options
	if opts.Font != "" {
		if _, ok := fonts.Builtin(opts.Font); !ok {
			return errors.New(errors.ErrCodeInvalidInput, "unknown font %q", opts.Font)
		}
	}
	opts.Logger = s.logger

	l, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), req.Entries, opts)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	if err := s.store.Set(r.Context(), storeKey(id), l.Snapshot, s.ttl); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store layout")
	}
	s.decoded.Add(id, l)
	s.logger.Debug("stored layout", "id", id, "placed", len(l.Result.Placements), "cached", hit)

	res := l.Result
	w.Header().Set("Location", "/v1/layouts/"+id)
	writeJSON(w, http.StatusCreated, CreateResponse{
		ID:         id,
		Hash:       l.Hash,
		Width:      res.Width,
		Height:     res.Height,
		Placements: nonNil(res.Placements),
		Unplaced:   res.Unplaced,
		Skipped:    res.Skipped,
		Cached:     hit,
	})
	return nil
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) error {
	l, err := s.load(r)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", strconv.Quote(l.Hash))
	_, _ = w.Write(l.Snapshot)
	return nil
}

func (s *Server) handleImage(format string) func(http.ResponseWriter, *http.Request) error {
	return func(w http.ResponseWriter, r *http.Request) error {
		l, err := s.load(r)
		if err != nil {
			return err
		}
		q := r.URL.Query()
		opts := pipeline.Options{
			Formats:    []string{format},
			Background: q.Get("background"),
			FontFamily: q.Get("font_family"),
			Logger:     s.logger,
		}
		if v := q.Get("scale"); v != "" {
			if opts.Scale, err = strconv.Atoi(v); err != nil || opts.Scale < 1 || opts.Scale > maxScale {
				return errors.New(errors.ErrCodeInvalidInput, "scale must be an integer in 1..%d, got %q", maxScale, v)
			}
		}

		artifacts, err := s.runner.Render(r.Context(), l, opts)
		if err != nil {
			return err
		}
		switch format {
		case pipeline.FormatPNG:
			w.Header().Set("Content-Type", "image/png")
		case pipeline.FormatSVG:
			w.Header().Set("Content-Type", "image/svg+xml")
		}
		_, _ = w.Write(artifacts[format])
		return nil
	}
}

const maxScale = 8

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) error {
	l, err := s.load(r)
	if err != nil {
		return err
	}
	x, err := intParam(r, "x")
	if err != nil {
		return err
	}
	y, err := intParam(r, "y")
	if err != nil {
		return err
	}

	i, ok := l.Result.Lookup(x, y)
	if !ok || i >= len(l.Result.Entries) {
		return errors.New(errors.ErrCodeNotFound, "no word at (%d, %d)", x, y)
	}
	resp := HitResponse{Index: i, Entry: l.Result.Entries[i]}
	if p, ok := l.Result.Placement(i); ok {
		resp.Placement = &p
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

// load resolves the {id} route parameter to a stored layout.
func (s *Server) load(r *http.Request) (*pipeline.Layout, error) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
	}
	if l, ok := s.decoded.Get(id); ok {
		return l, nil
	}

	data, err := cache.Fetch(r.Context(), s.store, storeKey(id))
	if stderrors.Is(err, cache.ErrCacheMiss) {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load layout")
	}
	l, err := pipeline.LayoutFromSnapshot(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode layout %s", id)
	}
	s.decoded.Add(id, l)
	return l, nil
}

func storeKey(id string) string { return "api:layout:" + id }

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "query parameter %s must be an integer, got %q", name, v)
	}
	return n, nil
}

func nonNil(p []layout.Placement) []layout.Placement {
	if p == nil {
		return []layout.Placement{}
	}
	return p
}

// handle adapts an error-returning handler, reporting request events to the
// HTTP hooks and writing errors as JSON.
func (s *Server) handle(fn func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		route := r.URL.Path
		if rc := chi.RouteContext(ctx); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		if err := fn(ww, r); err != nil {
			hooks.OnError(ctx, r.Method, route, err)
			status := errors.HTTPStatus(err)
			if status >= http.StatusInternalServerError {
				s.logger.Error("request failed", "method", r.Method, "route", route,
					"request_id", middleware.GetReqID(ctx), "error", err)
			}
			writeError(ww, status, err)
		}
		hooks.OnResponse(ctx, r.Method, route, ww.Status(), time.Since(start))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status >= http.StatusInternalServerError {
		msg = fmt.Sprintf("internal error (%s)", code)
	}
	writeJSON(w, status, errorBody{Code: code, Message: msg})
}
