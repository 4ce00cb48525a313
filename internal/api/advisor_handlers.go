package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func (s *Server) handleListAdvisees(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	advisees, err := s.repo.ListAdvisees(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("failed to list advisees", "error", err, "advisor", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list advisees")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"students": advisees,
		"total":    len(advisees),
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "student id is required")
		return
	}

	notes, err := s.repo.ListNotes(r.Context(), sess.UserID, studentID)
	if err != nil {
		slog.Error("failed to list notes", "error", err, "advisor", sess.UserID, "student", studentID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list notes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"total": len(notes),
	})
}

// createNoteRequest is the body of POST /advisor/students/{studentId}/notes
type createNoteRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	studentID := chi.URLParam(r, "studentId")
	if studentID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "student id is required")
		return
	}

	var req createNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if strings.TrimSpace(req.Body) == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "note body is required")
		return
	}

	note := &models.AdvisorNote{
		ID:        uuid.New().String(),
		AdvisorID: sess.UserID,
		StudentID: studentID,
		Body:      req.Body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateNote(r.Context(), note); err != nil {
		slog.Error("failed to create note", "error", err, "advisor", sess.UserID, "student", studentID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create note")
		return
	}

	respondJSON(w, http.StatusCreated, note)
}
