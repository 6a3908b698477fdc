package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/careerpilot/resume-studio/internal/db"
	"github.com/careerpilot/resume-studio/internal/enhance"
	"github.com/careerpilot/resume-studio/internal/types"
)

// enhancementsResponse carries the panel state to the dashboard.
type enhancementsResponse struct {
	Suggestions  []types.AISuggestion  `json:"suggestions"`
	Confirmation *enhance.Confirmation `json:"confirmation,omitempty"`
}

// handleFetchEnhancements requests suggestions for one piece of section
// text. Re-posting the same open panel is a no-op on the provider.
func (s *Server) handleFetchEnhancements(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.FetchEnhancementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	panel := s.ensurePanel(sess)
	if err := panel.Fetch(r.Context(), req.Text, req.Kind); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, enhancementsResponse{Suggestions: panel.Suggestions()})
}

// handleRegenerateEnhancements forces a fresh suggestion list.
func (s *Server) handleRegenerateEnhancements(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.FetchEnhancementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	panel := s.ensurePanel(sess)
	if err := panel.Regenerate(r.Context(), req.Text, req.Kind); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, enhancementsResponse{Suggestions: panel.Suggestions()})
}

// handleListEnhancements returns the current suggestion list and any open
// confirmation step.
func (s *Server) handleListEnhancements(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	panel := s.ensurePanel(sess)
	s.jsonResponse(w, http.StatusOK, enhancementsResponse{
		Suggestions:  panel.Suggestions(),
		Confirmation: panel.Pending(),
	})
}

// handleApplySuggestion applies one suggestion, or opens the confirmation
// step when the suggestion needs confirmation.
func (s *Server) handleApplySuggestion(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid suggestion index")
		return
	}

	var req types.ApplySuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	panel := s.ensurePanel(sess)
	confirmation, err := panel.Apply(index, req.SectionID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if confirmation != nil {
		s.jsonResponse(w, http.StatusOK, enhancementsResponse{
			Suggestions:  panel.Suggestions(),
			Confirmation: confirmation,
		})
		return
	}

	s.auditApplied(r, sess, panel, index, req.SectionID)
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleConfirmMetrics answers the open confirmation step and commits the
// suggestion.
func (s *Server) handleConfirmMetrics(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.ConfirmMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	panel := s.ensurePanel(sess)
	pending := panel.Pending()
	if err := panel.ConfirmMetrics(req.Responses); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if pending != nil {
		s.auditApplied(r, sess, panel, pending.SuggestionIndex, pending.SectionID)
	}
	s.jsonResponse(w, http.StatusOK, s.sessionEnvelope(sess))
}

// handleListAppliedSuggestions returns the audit trail of suggestions
// committed into this session's document.
func (s *Server) handleListAppliedSuggestions(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if s.db == nil {
		s.errorResponse(w, http.StatusNotFound, "suggestion audit is not enabled")
		return
	}

	records, err := s.db.ListAppliedSuggestions(r.Context(), sess.id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load applied suggestions")
		return
	}
	if records == nil {
		records = []db.AppliedSuggestion{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"applied": records})
}

// handleClosePanel discards the suggestion list.
func (s *Server) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromRequest(r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if sess.panel != nil {
		sess.panel.Close()
	}
	w.WriteHeader(http.StatusNoContent)
}

// auditApplied best-effort records a committed suggestion. Audit failures
// never fail the user action.
func (s *Server) auditApplied(r *http.Request, sess *session, panel *enhance.Panel, index int, sectionID string) {
	if s.db == nil {
		return
	}
	suggestions := panel.Suggestions()
	if index < 0 || index >= len(suggestions) {
		return
	}
	sug := suggestions[index]
	rec := db.AppliedSuggestion{
		SessionID:    sess.id,
		ResumeID:     sess.resumeID,
		SectionID:    sectionID,
		OriginalText: sug.OriginalText,
		EnhancedText: sug.EnhancedText,
		Status:       string(sug.VerificationStatus),
	}
	if err := s.db.RecordAppliedSuggestion(r.Context(), rec); err != nil {
		log.Printf("[server] failed to audit applied suggestion: %v", err)
	}
}
