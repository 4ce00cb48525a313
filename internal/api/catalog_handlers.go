package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// handleSearchCourses runs a simple query-string search over the catalog
func (s *Server) handleSearchCourses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := models.CourseFilters{
		SearchQuery: q.Get("q"),
	}

	if dept := q.Get("department"); dept != "" {
		filters.Departments = strings.Split(dept, ",")
	}

	if creditsStr := q.Get("credits"); creditsStr != "" {
		for _, part := range strings.Split(creditsStr, ",") {
			if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
				filters.Credits = append(filters.Credits, n)
			}
		}
	}

	if sem := q.Get("semester"); sem != "" {
		filters.Semesters = []models.Semester{models.Semester(sem)}
	}

	if q.Get("hasSeats") == "true" {
		filters.HasSeatsAvailable = true
	}

	var sortBy *models.SortOption
	if field := q.Get("sort"); field != "" {
		sortBy = &models.SortOption{
			Field:     field,
			Direction: q.Get("direction"),
		}
	}

	courses := s.catalog.Search(filters, sortBy)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

// advancedSearchRequest is the body of POST /courses/search
type advancedSearchRequest struct {
	Filters models.CourseFilters `json:"filters"`
	SortBy  *models.SortOption   `json:"sortBy,omitempty"`
}

// handleSearchCoursesAdvanced accepts the full filter set as JSON
func (s *Server) handleSearchCoursesAdvanced(w http.ResponseWriter, r *http.Request) {
	var req advancedSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if tr := req.Filters.TimeRange; tr != nil {
		if tr.Start == "" || tr.End == "" {
			respondError(w, http.StatusBadRequest, "validation_error", "timeRange requires both start and end")
			return
		}
	}

	courses := s.catalog.Search(req.Filters, req.SortBy)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"courses": courses,
		"total":   len(courses),
	})
}

func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "course id is required")
		return
	}

	course := s.catalog.Get(id)
	if course == nil {
		course = s.catalog.GetByCode(id)
	}
	if course == nil {
		respondError(w, http.StatusNotFound, "not_found", "course not found")
		return
	}

	respondJSON(w, http.StatusOK, course)
}

func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	departments := s.catalog.Departments()

	slog.Debug("listed departments", "count", len(departments))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"departments": departments,
		"total":       len(departments),
	})
}
