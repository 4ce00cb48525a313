package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/requirements"
	"github.com/schemer-edu/schemer-server/internal/scheduling"
)

func (s *Server) handleRequirementsProgress(w http.ResponseWriter, r *http.Request) {
	var req models.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if len(req.Requirements) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "requirements are required")
		return
	}

	// An absent completedCourses key is rejected; an explicit empty array
	// is a legitimate blank history.
	if req.CompletedCourses == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "completedCourses is required")
		return
	}

	report := requirements.ComputeProgress(req.Requirements, req.CompletedCourses, req.ScheduledCourses)
	respondJSON(w, http.StatusOK, report)
}

// recommendationLimit caps how many courses one response suggests
const recommendationLimit = 5

// handleRecommendations suggests catalog courses that advance unmet
// requirements and can actually be added to the current schedule. The
// selection is deterministic: catalog load order, first fit wins.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.StudentProfile == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "studentProfile is required")
		return
	}

	var scheduled []models.ScheduledCourse
	if req.CurrentSchedule != nil {
		scheduled = req.CurrentSchedule.Courses
	}

	unmet := make(map[models.RequirementCategory]bool)
	for _, requirement := range req.RemainingRequirements {
		if !requirement.Completed {
			unmet[requirement.Category] = true
		}
	}

	var recommended []models.Course
	for _, course := range s.catalog.List() {
		if len(recommended) >= recommendationLimit {
			break
		}

		if len(unmet) > 0 && !fulfillsAny(course.Fulfills, unmet) {
			continue
		}

		if decision := scheduling.CanAddCourse(course, scheduled, req.StudentProfile); !decision.CanAdd {
			continue
		}

		recommended = append(recommended, *course)
	}

	var warnings []string
	for _, conflict := range scheduling.DetectScheduleConflicts(scheduled, req.StudentProfile) {
		warnings = append(warnings, conflict.Message)
	}

	reasoning := fmt.Sprintf(
		"Selected %d course(s) that fulfill outstanding requirement categories and fit the current schedule without conflicts.",
		len(recommended),
	)

	respondJSON(w, http.StatusOK, models.RecommendationResponse{
		RecommendedCourses: recommended,
		Reasoning:          reasoning,
		Warnings:           warnings,
	})
}

func fulfillsAny(categories []models.RequirementCategory, unmet map[models.RequirementCategory]bool) bool {
	for _, category := range categories {
		if unmet[category] {
			return true
		}
	}
	return false
}
