// Package server exposes filter tags over HTTP: an HTML preview, a JSON view
// of the active tags, and a dismiss endpoint returning the resubmitted query.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-filtertags/pkg/orchestrator"
	"github.com/goliatone/go-filtertags/pkg/render"
	"github.com/goliatone/go-filtertags/pkg/renderers/vanilla"
)

// DefaultShutdownGrace bounds graceful shutdown.
const DefaultShutdownGrace = 5 * time.Second

// RequestIDHeader carries the request id echoed on every response.
const RequestIDHeader = "X-Request-Id"

// Control parameters start with an underscore and never reach the form state.
const (
	paramRenderer = "_renderer"
	paramLocale   = "_locale"
	paramFields   = "_fields"
	paramKinds    = "_kinds"
	paramExclude  = "_exclude"
)

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAction sets the path dismiss links point at. Defaults to "/tags" so
// the preview navigates to itself.
func WithAction(action string) Option {
	return func(s *Server) {
		s.action = action
	}
}

// WithShutdownGrace overrides DefaultShutdownGrace.
func WithShutdownGrace(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.grace = d
		}
	}
}

// Server serves tags derived by an orchestrator.
type Server struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
	action string
	grace  time.Duration
}

// New constructs a server.
func New(orch *orchestrator.Orchestrator, options ...Option) *Server {
	s := &Server{
		orch:   orch,
		logger: zap.NewNop(),
		action: "/tags",
		grace:  DefaultShutdownGrace,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tags", s.handleTags)
	mux.HandleFunc("GET /api/tags", s.handleAPITags)
	mux.HandleFunc("POST /api/dismiss", s.handleDismiss)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("listening", zap.String("addr", listener.Addr().String()))
	if ready != nil {
		ready <- listener.Addr().String()
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	req := s.request(r.URL.RawQuery)
	out, err := s.orch.Generate(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", out.ContentType)
	_, _ = w.Write(out.Body)
}

// TagsResponse is the body of GET /api/tags.
type TagsResponse struct {
	Query string      `json:"query"`
	View  render.View `json:"view"`
}

func (s *Server) handleAPITags(w http.ResponseWriter, r *http.Request) {
	req := s.request(r.URL.RawQuery)
	prepared, err := s.orch.Prepare(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, TagsResponse{
		Query: req.Query,
		View:  render.BuildView(prepared.Tags, prepared.Options),
	})
}

// DismissRequest is the body of POST /api/dismiss.
type DismissRequest struct {
	Query  string   `json:"query"`
	Keys   []string `json:"keys"`
	Locale string   `json:"locale,omitempty"`
}

// DismissResponse is the resubmitted form state.
type DismissResponse struct {
	Query     string      `json:"query"`
	Href      string      `json:"href"`
	Dismissed []string    `json:"dismissed"`
	View      render.View `json:"view"`
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	var body DismissRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(body.Keys) == 0 {
		s.writeError(w, http.StatusBadRequest, errors.New("keys are required"))
		return
	}

	req := s.request(body.Query)
	if body.Locale != "" {
		req.Locale = body.Locale
	}
	result, err := s.orch.Dismiss(r.Context(), req, body.Keys...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	dismissed := make([]string, 0, len(result.Dismissed))
	for _, tag := range result.Dismissed {
		dismissed = append(dismissed, tag.Key)
	}
	s.writeJSON(w, http.StatusOK, DismissResponse{
		Query:     result.Query,
		Href:      hrefFor(s.action, result.Query),
		Dismissed: dismissed,
		View:      render.BuildView(result.Remaining, result.Options),
	})
}

// request splits control parameters from the form state query.
func (s *Server) request(rawQuery string) orchestrator.Request {
	state, control := splitQuery(rawQuery)
	return orchestrator.Request{
		Query:    state,
		Locale:   control.Get(paramLocale),
		Renderer: control.Get(paramRenderer),
		RenderOptions: render.RenderOptions{
			Action: s.action,
			Subset: render.ParseTagSubset(control.Get(paramFields), control.Get(paramKinds), control.Get(paramExclude)),
		},
	}
}

func splitQuery(rawQuery string) (string, url.Values) {
	control := url.Values{}
	var kept []string
	for _, pair := range strings.Split(strings.TrimPrefix(rawQuery, "?"), "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err == nil && strings.HasPrefix(key, "_") {
			value, _ := url.QueryUnescape(rawValue)
			control.Add(key, value)
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&"), control
}

func hrefFor(action, query string) string {
	if query == "" {
		return action
	}
	return action + "?" + query
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, orchestrator.ErrTagNotFound):
		status = http.StatusNotFound
	case errors.Is(err, render.ErrUnknownRenderer):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	s.writeError(w, status, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("request_id", id),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
