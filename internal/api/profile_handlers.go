package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/storage"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	profile, err := s.repo.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		slog.Error("failed to get profile", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := s.repo.UpdateProfile(r.Context(), sess.UserID, req); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "profile not found")
			return
		}
		slog.Error("failed to update profile", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	profile, err := s.repo.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		slog.Error("failed to reload profile", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListCompletedCourses(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	profile, err := s.repo.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"completedCourses": []models.CompletedCourse{},
				"total":            0,
			})
			return
		}
		slog.Error("failed to get completed courses", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get completed courses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"completedCourses": profile.CompletedCourses,
		"total":            len(profile.CompletedCourses),
	})
}

func (s *Server) handleReplaceCompletedCourses(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var courses []models.CompletedCourse
	if err := json.NewDecoder(r.Body).Decode(&courses); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	for _, c := range courses {
		if c.CourseID == "" || c.CourseCode == "" {
			respondError(w, http.StatusBadRequest, "validation_error", "courseId and courseCode are required")
			return
		}
	}

	if err := s.repo.ReplaceCompletedCourses(r.Context(), sess.UserID, courses); err != nil {
		slog.Error("failed to replace completed courses", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save completed courses")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"completedCourses": courses,
		"total":            len(courses),
	})
}

func (s *Server) handleListAdvisors(w http.ResponseWriter, r *http.Request) {
	advisors, err := s.repo.ListAdvisors(r.Context())
	if err != nil {
		slog.Error("failed to list advisors", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list advisors")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"advisors": advisors,
		"total":    len(advisors),
	})
}
