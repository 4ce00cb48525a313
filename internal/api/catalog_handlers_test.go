package api

import (
	"net/http"
	"testing"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func TestSearchCoursesQuery(t *testing.T) {
	server, _ := newTestServer(t)

	body := doJSON(t, server, "GET", "/api/v1/courses/?q=cs", "", nil, http.StatusOK)

	var result struct {
		Courses []models.Course `json:"courses"`
		Total   int             `json:"total"`
	}
	decodeData(t, body, &result)

	if result.Total != 2 {
		t.Fatalf("got %d courses for %q, want 2", result.Total, "cs")
	}
}

func TestSearchCoursesAdvanced(t *testing.T) {
	server, _ := newTestServer(t)

	body := doJSON(t, server, "POST", "/api/v1/courses/search", "", advancedSearchRequest{
		Filters: models.CourseFilters{
			DaysOfWeek: []models.DayOfWeek{models.Tuesday},
		},
	}, http.StatusOK)

	var result struct {
		Courses []models.Course `json:"courses"`
		Total   int             `json:"total"`
	}
	decodeData(t, body, &result)

	if result.Total != 1 || result.Courses[0].ID != "cs201" {
		t.Fatalf("unexpected Tuesday courses: %+v", result.Courses)
	}

	// Half-specified time range is rejected
	doJSON(t, server, "POST", "/api/v1/courses/search", "", advancedSearchRequest{
		Filters: models.CourseFilters{
			TimeRange: &models.TimeRange{Start: "09:00"},
		},
	}, http.StatusBadRequest)
}

func TestGetCourseByIDAndCode(t *testing.T) {
	server, _ := newTestServer(t)

	body := doJSON(t, server, "GET", "/api/v1/courses/cs101", "", nil, http.StatusOK)
	var course models.Course
	decodeData(t, body, &course)
	if course.Code != "CS 101" {
		t.Fatalf("got code %q, want CS 101", course.Code)
	}

	// Catalog codes resolve too
	body = doJSON(t, server, "GET", "/api/v1/courses/CS%20101", "", nil, http.StatusOK)
	decodeData(t, body, &course)
	if course.ID != "cs101" {
		t.Fatalf("got id %q, want cs101", course.ID)
	}

	doJSON(t, server, "GET", "/api/v1/courses/unknown", "", nil, http.StatusNotFound)
}

func TestListDepartments(t *testing.T) {
	server, _ := newTestServer(t)

	body := doJSON(t, server, "GET", "/api/v1/courses/departments", "", nil, http.StatusOK)

	var result struct {
		Departments []string `json:"departments"`
		Total       int      `json:"total"`
	}
	decodeData(t, body, &result)

	if result.Total != 1 || result.Departments[0] != "Computer Science" {
		t.Fatalf("unexpected departments: %+v", result.Departments)
	}
}
