// Package httpserver exposes live sessions over a JSON HTTP API.
//
// Routes:
//   - POST /sessions                     start a session for a player
//   - GET  /sessions/{id}                current snapshot
//   - DELETE /sessions/{id}              drop a session
//   - POST /sessions/{id}/select         select a cell (may swap)
//   - POST /sessions/{id}/deselect       clear the selection
//   - POST /sessions/{id}/swap           swap two adjacent cells
//   - POST /sessions/{id}/new-game       restart
//   - POST /sessions/{id}/items/{item}   use an item
//   - POST /sessions/{id}/skills/{skill} use a skill, optionally on a cell
//   - GET  /leaderboard                  top results
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"

	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/ranking"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server bundles the router, the session hub and the leaderboard.
type Server struct {
	r      *chi.Mux
	hub    *hub.Hub
	board  ranking.Board
	logger *log.Logger
	http   *http.Server
}

// New constructs a Server, installs middleware and registers routes.
// board may be nil, in which case /leaderboard answers 503.
func New(h *hub.Hub, board ranking.Board, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{r: chi.NewRouter(), hub: h, board: board, logger: logger.WithPrefix("http")}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(s.requestLog)

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.hub.Count()})
	})

	s.r.Post("/sessions", s.handleCreate)
	s.r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.handleGet)
		r.Delete("/", s.handleDelete)
		r.Post("/select", s.handleSelect)
		r.Post("/deselect", s.handleDeselect)
		r.Post("/swap", s.handleSwap)
		r.Post("/new-game", s.handleNewGame)
		r.Post("/items/{item}", s.handleItem)
		r.Post("/skills/{skill}", s.handleSkill)
	})
	s.r.Get("/leaderboard", s.handleLeaderboard)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
	s.r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return s
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.r
}

// ListenAndServe serves HTTP on addr until Shutdown. A clean shutdown returns nil.
func (s *Server) ListenAndServe(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("starting HTTP server", "address", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// jsonContentType sets a JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLog logs each request at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	//nolint:errcheck // Client went away
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
