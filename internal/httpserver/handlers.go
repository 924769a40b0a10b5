package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/breadcrush/internal/engine"
	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/session"
)

const (
	defaultLeaderboard = 10
	maxLeaderboard     = 100
)

type ctxSessionKey struct{}

type createReq struct {
	Player string `json:"player"`
	Seed   int64  `json:"seed"`
}

type swapReq struct {
	From engine.Position `json:"from"`
	To   engine.Position `json:"to"`
}

// actionRes answers every session action with what happened and the
// resulting snapshot.
type actionRes struct {
	OK      bool             `json:"ok"`
	Result  string           `json:"result,omitempty"`
	Session session.Snapshot `json:"session"`
}

func swapResultName(r session.SwapResult) string {
	switch r {
	case session.SwapAccepted:
		return "accepted"
	case session.SwapRejected:
		return "rejected"
	}
	return "ignored"
}

// decode reads a JSON body. An empty body leaves v unchanged when
// optional is set.
func decode(r *http.Request, v any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// withSession resolves {id} and stores the session in the request context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, ok := s.hub.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "unknown session "+id)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*session.Session)
	return sess
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if err := decode(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Player = strings.TrimSpace(req.Player)
	if req.Player == "" {
		writeError(w, http.StatusBadRequest, "player is required")
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	sess, err := s.hub.Create(r.Context(), req.Player, req.Seed)
	if errors.Is(err, hub.ErrFull) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("create session", "player", req.Player, "error", err)
		writeError(w, http.StatusInternalServerError, "create failed")
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.hub.Remove(sessionFrom(r).ID())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var p engine.Position
	if err := decode(r, &p, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess := sessionFrom(r)
	res := sess.SelectCell(p)
	snap := sess.Snapshot()
	// A plain selection reports ignored; it still succeeded if the cell is now selected.
	ok := res != session.SwapIgnored || (snap.Selected != nil && *snap.Selected == p)
	writeJSON(w, http.StatusOK, actionRes{OK: ok, Result: swapResultName(res), Session: snap})
}

func (s *Server) handleDeselect(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	sess.Deselect()
	writeJSON(w, http.StatusOK, actionRes{OK: true, Session: sess.Snapshot()})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapReq
	if err := decode(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess := sessionFrom(r)
	res := sess.TrySwap(req.From, req.To)
	writeJSON(w, http.StatusOK, actionRes{
		OK:      res == session.SwapAccepted,
		Result:  swapResultName(res),
		Session: sess.Snapshot(),
	})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	ok := sess.NewGame()
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, actionRes{OK: ok, Session: sess.Snapshot()})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	item, err := session.ParseItem(chi.URLParam(r, "item"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess := sessionFrom(r)
	ok := sess.UseItem(item)
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, actionRes{OK: ok, Result: item.String(), Session: sess.Snapshot()})
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	skill, err := session.ParseSkill(chi.URLParam(r, "skill"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var target engine.Position
	if err := decode(r, &target, !skill.NeedsTarget()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sess := sessionFrom(r)
	ok := sess.UseSkill(skill, target)
	status := http.StatusOK
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, actionRes{OK: ok, Result: skill.String(), Session: sess.Snapshot()})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.board == nil {
		writeError(w, http.StatusServiceUnavailable, "leaderboard disabled")
		return
	}
	limit := defaultLeaderboard
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLeaderboard)
	}
	top, err := s.board.Top(r.Context(), limit)
	if err != nil {
		s.logger.Error("leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "leaderboard unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": top})
}
