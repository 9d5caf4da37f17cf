// Package server implements the easel HTTP API.
//
// The API exposes board CRUD, node placement and movement, connector
// geometry, cached image delivery, and export listings over a chi router.
// Boards are loaded from the store per request, mutated through the canvas
// manager, and written back, so the server itself stays stateless and any
// board store backend (file or Mongo) works unchanged.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/easelkit/easel/pkg/board"
	easelerrors "github.com/easelkit/easel/pkg/errors"
	"github.com/easelkit/easel/pkg/imagecache"
)

// Server serves the easel HTTP API.
type Server struct {
	boards board.Store
	cache  *imagecache.Cache
	logger *log.Logger
	addr   string
}

// Options configures a Server.
type Options struct {
	Addr   string
	Boards board.Store
	Cache  *imagecache.Cache
	Logger *log.Logger
}

// New creates a Server. Boards is required; a nil cache disables the
// image endpoint's local delivery (every request redirects).
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cache := opts.Cache
	if cache == nil {
		cache = imagecache.New(nil, nil, logger)
	}
	addr := opts.Addr
	if addr == "" {
		addr = ":8478"
	}
	return &Server{
		boards: opts.Boards,
		cache:  cache,
		logger: logger,
		addr:   addr,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/image", s.handleImage)

		r.Route("/boards", func(r chi.Router) {
			r.Post("/", s.handleBoardCreate)
			r.Get("/", s.handleBoardList)

			r.Route("/{boardID}", func(r chi.Router) {
				r.Get("/", s.handleBoardGet)
				r.Delete("/", s.handleBoardDelete)
				r.Get("/exports", s.handleExports)
				r.Post("/connectors", s.handleConnectors)

				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", s.handleNodeCreate)
					r.Patch("/{nodeID}", s.handleNodeMove)
					r.Delete("/{nodeID}", s.handleNodeClose)
				})
			})
		})
	})

	return r
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Response helpers
// =============================================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps error codes to HTTP statuses and writes a JSON body.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := easelerrors.GetCode(err)

	switch {
	case errors.Is(err, board.ErrNotFound):
		status = http.StatusNotFound
		code = easelerrors.ErrCodeBoardNotFound
	case code == easelerrors.ErrCodeAnchorUnavailable:
		status = http.StatusUnprocessableEntity
	case code == easelerrors.ErrCodeInvalidInput,
		code == easelerrors.ErrCodeInvalidBoard,
		code == easelerrors.ErrCodeInvalidRatio:
		status = http.StatusBadRequest
	case code == easelerrors.ErrCodeNotFound,
		code == easelerrors.ErrCodeNodeNotFound,
		code == easelerrors.ErrCodeBoardNotFound:
		status = http.StatusNotFound
	case code == easelerrors.ErrCodeUnauthorized,
		code == easelerrors.ErrCodeSessionExpired:
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	respondJSON(w, status, errorResponse{Error: easelerrors.UserMessage(err), Code: string(code)})
}
