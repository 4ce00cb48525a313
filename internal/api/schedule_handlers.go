package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/scheduling"
	"github.com/schemer-edu/schemer-server/internal/storage"
)

// cartTTL is how long a shopping cart survives without updates
const cartTTL = 7 * 24 * time.Hour

// handleValidateSchedule runs the full conflict audit on a caller-supplied
// schedule. The engine is pure; this handler only guards the boundary.
func (s *Server) handleValidateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	// A nil slice means the key was absent or null; an explicit empty
	// array is a valid (trivially conflict-free) schedule.
	if req.Courses == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "courses is required")
		return
	}

	if req.StudentProfile == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "studentProfile is required")
		return
	}

	for _, sc := range req.Courses {
		for _, slot := range sc.Course.MeetingTimes {
			if err := slot.Validate(); err != nil {
				respondError(w, http.StatusBadRequest, "validation_error",
					"invalid meeting time on "+sc.Course.Code+": "+err.Error())
				return
			}
		}
	}

	report := scheduling.BuildValidationReport(req.Courses, req.StudentProfile)
	respondJSON(w, http.StatusOK, report)
}

// handleCanAdd answers the single-candidate gate question
func (s *Server) handleCanAdd(w http.ResponseWriter, r *http.Request) {
	var req models.CanAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Course == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "course is required")
		return
	}

	if req.StudentProfile == nil {
		respondError(w, http.StatusBadRequest, "validation_error", "studentProfile is required")
		return
	}

	decision := scheduling.CanAddCourse(req.Course, req.ScheduledCourses, req.StudentProfile)
	respondJSON(w, http.StatusOK, decision)
}

// termFromQuery reads the semester/year pair every schedule route needs
func termFromQuery(r *http.Request) (models.Semester, int, error) {
	semester := models.Semester(r.URL.Query().Get("semester"))
	switch semester {
	case models.Fall, models.Spring, models.Summer:
	default:
		return "", 0, errors.New("semester must be Fall, Spring, or Summer")
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 1900 {
		return "", 0, errors.New("year is required")
	}

	return semester, year, nil
}

// loadSchedule rehydrates a student's persisted term schedule from the catalog.
// Entries whose course has left the catalog are skipped.
func (s *Server) loadSchedule(ctx context.Context, studentID string, semester models.Semester, year int) ([]models.ScheduledCourse, error) {
	entries, err := s.repo.ListScheduleEntries(ctx, studentID, semester, year)
	if err != nil {
		return nil, err
	}

	scheduled := make([]models.ScheduledCourse, 0, len(entries))
	for _, entry := range entries {
		course := s.catalog.Get(entry.CourseID)
		if course == nil {
			slog.Warn("scheduled course missing from catalog", "course", entry.CourseID, "student", studentID)
			continue
		}
		scheduled = append(scheduled, models.ScheduledCourse{
			Course:  *course,
			AddedAt: entry.AddedAt,
			Status:  entry.Status,
		})
	}

	return scheduled, nil
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	semester, year, err := termFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	scheduled, err := s.loadSchedule(r.Context(), sess.UserID, semester, year)
	if err != nil {
		slog.Error("failed to load schedule", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load schedule")
		return
	}

	profile, err := s.repo.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to load profile", "error", err, "user", sess.UserID)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load schedule")
			return
		}
		profile = &models.StudentProfile{ID: sess.UserID}
	}

	report := scheduling.BuildValidationReport(scheduled, profile)

	respondJSON(w, http.StatusOK, models.SemesterSchedule{
		Semester:     semester,
		Year:         year,
		Courses:      scheduled,
		TotalCredits: report.TotalCredits,
		Conflicts:    report.Conflicts,
	})
}

func (s *Server) handleAddScheduledCourse(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req models.AddCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	candidate := s.catalog.Get(req.CourseID)
	if candidate == nil {
		respondError(w, http.StatusNotFound, "not_found", "course not found")
		return
	}

	profile, err := s.repo.GetProfile(r.Context(), sess.UserID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("failed to load profile", "error", err, "user", sess.UserID)
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to add course")
			return
		}
		profile = &models.StudentProfile{ID: sess.UserID}
	}

	scheduled, err := s.loadSchedule(r.Context(), sess.UserID, candidate.Semester, candidate.Year)
	if err != nil {
		slog.Error("failed to load schedule", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add course")
		return
	}

	decision := scheduling.CanAddCourse(candidate, scheduled, profile)
	if !decision.CanAdd {
		respondError(w, http.StatusConflict, "cannot_add", decision.Reason)
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusConfirmed
	}

	entry := &models.ScheduleEntry{
		StudentID: sess.UserID,
		CourseID:  candidate.ID,
		Semester:  candidate.Semester,
		Year:      candidate.Year,
		Status:    status,
		AddedAt:   time.Now().UTC(),
	}

	if err := s.repo.AddScheduleEntry(r.Context(), entry); err != nil {
		slog.Error("failed to add schedule entry", "error", err, "user", sess.UserID, "course", candidate.ID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add course")
		return
	}

	slog.Info("course added to schedule", "user", sess.UserID, "course", candidate.ID)
	respondJSON(w, http.StatusCreated, models.ScheduledCourse{
		Course:  *candidate,
		AddedAt: entry.AddedAt,
		Status:  entry.Status,
	})
}

func (s *Server) handleRemoveScheduledCourse(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	courseID := chi.URLParam(r, "courseId")
	if courseID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "course id is required")
		return
	}

	semester, year, err := termFromQuery(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	if err := s.repo.RemoveScheduleEntry(r.Context(), sess.UserID, courseID, semester, year); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "course not in schedule")
			return
		}
		slog.Error("failed to remove schedule entry", "error", err, "user", sess.UserID, "course", courseID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove course")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "course removed",
	})
}

// Cart handlers

// saveCartRequest is the body of PUT /me/cart
type saveCartRequest struct {
	TargetSemester models.Semester `json:"targetSemester"`
	TargetYear     int             `json:"targetYear"`
	CourseIDs      []string        `json:"courseIds"`
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	cart, err := s.repo.GetCart(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no cart saved")
			return
		}
		slog.Error("failed to get cart", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to get cart")
		return
	}

	if cart.IsExpired() {
		respondError(w, http.StatusNotFound, "not_found", "cart has expired")
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (s *Server) handleSaveCart(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())

	var req saveCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	switch req.TargetSemester {
	case models.Fall, models.Spring, models.Summer:
	default:
		respondError(w, http.StatusBadRequest, "validation_error", "targetSemester must be Fall, Spring, or Summer")
		return
	}

	for _, id := range req.CourseIDs {
		if s.catalog.Get(id) == nil {
			respondError(w, http.StatusBadRequest, "validation_error", "unknown course in cart: "+id)
			return
		}
	}

	now := time.Now().UTC()
	cart := &models.CourseCart{
		ID:             uuid.New().String(),
		StudentID:      sess.UserID,
		TargetSemester: req.TargetSemester,
		TargetYear:     req.TargetYear,
		CourseIDs:      req.CourseIDs,
		UpdatedAt:      now,
		ExpiresAt:      now.Add(cartTTL),
	}

	if err := s.repo.UpsertCart(r.Context(), cart); err != nil {
		slog.Error("failed to save cart", "error", err, "user", sess.UserID)
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save cart")
		return
	}

	respondJSON(w, http.StatusOK, cart)
}
