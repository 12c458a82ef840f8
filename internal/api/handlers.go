package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/newsdesk-hq/newsdesk-go/internal/agui"
	"github.com/newsdesk-hq/newsdesk-go/internal/assistant"
	"github.com/newsdesk-hq/newsdesk-go/internal/chat"
	"github.com/newsdesk-hq/newsdesk-go/internal/session"
	"github.com/newsdesk-hq/newsdesk-go/internal/views"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string     `json:"role"`
		View views.View `json:"view,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Role == "" {
		writeError(w, http.StatusBadRequest, "'role' field is required")
		return
	}

	sess, err := s.sessions.Create(body.Role, body.View)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.List())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.sessions.Delete(id)
	if s.limiter != nil {
		s.limiter.Forget(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	if s.limiter != nil && !s.limiter.Allow(sess.ID) {
		writeError(w, http.StatusTooManyRequests, "turn rate limit exceeded, slow down")
		return
	}
	if s.budget != nil {
		if err := s.budget.Check(sess.Role); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Message == "" {
		writeError(w, http.StatusBadRequest, "'message' field is required")
		return
	}

	outcome, err := sess.ProcessMessage(r.Context(), body.Message)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if s.budget != nil {
		s.budget.Record(sess.Role)
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleMountView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var body struct {
		View views.View `json:"view"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := sess.MountView(body.View); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"view": sess.View()})
}

func (s *Server) handleUpdateContext(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var payload chat.ContextPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess.UpdateContext(payload)
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	outcome, err := sess.Confirm(r.Context())
	switch {
	case errors.Is(err, assistant.ErrNoPendingConfirmation):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	outcome, err := sess.Cancel(r.Context())
	switch {
	case errors.Is(err, assistant.ErrNoPendingConfirmation):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	agui.ServeStream(w, r, sess.Bus(), s.stream)
}

// lookup resolves the {id} path value to a live session, writing a 404
// when it is missing or expired.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id required")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
