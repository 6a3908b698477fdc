package server

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/careerpilot/resume-studio/internal/document"
	"github.com/careerpilot/resume-studio/internal/enhance"
	"github.com/careerpilot/resume-studio/internal/server/middleware"
	"github.com/careerpilot/resume-studio/internal/types"
)

// sessionResponse is the session envelope returned to the dashboard.
type sessionResponse struct {
	SessionID uuid.UUID             `json:"session_id"`
	State     document.State        `json:"state"`
	Error     string                `json:"error,omitempty"`
	Document  *types.ResumeDocument `json:"document,omitempty"`
}

// sessionFromRequest resolves the {id} path value to the caller's session.
func (s *Server) sessionFromRequest(r *http.Request) (*session, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, err
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrSessionNotFound{}
	}
	sess, ok := s.sessions.get(sessionID, userID)
	if !ok {
		return nil, &ErrSessionNotFound{SessionID: sessionID}
	}
	return sess, nil
}

func (s *Server) sessionEnvelope(sess *session) sessionResponse {
	return sessionResponse{
		SessionID: sess.id,
		State:     sess.store.State(),
		Error:     sess.store.Err(),
		Document:  sess.store.Document(),
	}
}

// handleCreateSession starts an editing session: it loads the resume and
// its rendered persona view into a fresh store.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := &session{
		id:        uuid.New(),
		userID:    userID,
		resumeID:  req.ResumeID,
		store:     document.NewStore(s.api),
		createdAt: time.Now(),
	}

	if err := sess.store.Load(r.Context(), req.ResumeID); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.sessions.add(sess)
	s.jsonResponse(w, http.StatusCreated, s.sessionEnvelope(sess))
}

// handleGetDocument returns the current in-memory document.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleDeleteSession discards the session. The in-memory document is lost
// unless it was saved; that mirrors navigating away in the dashboard. The
// persisted draft snapshot goes with it.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if s.db != nil {
		if err := s.db.DeleteSnapshot(r.Context(), sess.id); err != nil {
			log.Printf("[server] failed to delete snapshot for session %s: %v", sess.id, err)
		}
	}
	s.sessions.remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

// handleGetSnapshot returns the last persisted draft for the session so a
// crashed or reconnecting client can recover unsaved work.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "draft snapshots are not enabled")
		return
	}

	raw, err := s.db.GetSnapshot(r.Context(), sess.id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	if raw == nil {
		s.errorResponse(w, http.StatusNotFound, "no snapshot for session")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		log.Printf("[server] failed to write snapshot response: %v", err)
	}
}

// handleSave persists the document through the remote API and, when a
// database is configured, snapshots the draft for recovery.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := sess.store.Save(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if s.db != nil {
		if err := s.db.SaveSnapshot(r.Context(), sess.id, sess.resumeID, sess.store.Document()); err != nil {
			// Snapshot failures never fail the save; the remote API is the
			// system of record.
			log.Printf("[server] snapshot failed for session %s: %v", sess.id, err)
		}
	}

	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleAnalyze refreshes the ATS score from the scoring service.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := sess.store.AnalyzeATS(r.Context()); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleDownload streams the rendered artifact to the client.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	contentType := "application/pdf"
	if format == "docx" {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	// Buffer the artifact so a failed download never emits a partial
	// response with a success status.
	var buf bytes.Buffer
	filename, err := sess.store.Download(r.Context(), format, &buf)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[server] failed to write download response: %v", err)
	}
}

// handleDismissError clears the session's error banner.
func (s *Server) handleDismissError(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	sess.store.DismissError()
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handlePatchSection shallow-merges a partial update into one section.
func (s *Server) handlePatchSection(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var patch types.SectionPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := sess.store.UpdateSection(r.PathValue("section_id"), patch); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleReorderSections applies a drag-reorder permutation.
func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.store.ReorderSections(req.ActiveID, req.OverID)
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleToggleVisibility flips one section's visibility flag.
func (s *Server) handleToggleVisibility(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	sess.store.ToggleSectionVisibility(r.PathValue("section_id"))
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// ensurePanel lazily creates the session's enhancement panel.
func (s *Server) ensurePanel(sess *session) *enhance.Panel {
	if sess.panel == nil {
		sess.panel = enhance.NewPanel(s.suggester, sess.store)
	}
	return sess.panel
}
