package scheduling

import (
	"fmt"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// Eligibility predicates. Prerequisites and corequisites are both
// checked against the union of completed and currently scheduled course
// ids: the catalog does not distinguish "prior only" from "prior or
// concurrent", so neither does this check.

// MeetsPrerequisites reports whether every prerequisite of the course
// appears among the student's completed courses or the current schedule.
// An empty prerequisite list is trivially satisfied.
func MeetsPrerequisites(course *models.Course, profile *models.StudentProfile, schedule []*models.Course) bool {
	return satisfied(course.Prerequisites, completedIDs(profile), scheduledIDs(schedule))
}

// MeetsCorequisites applies the same rule to the course's corequisites
func MeetsCorequisites(course *models.Course, profile *models.StudentProfile, schedule []*models.Course) bool {
	return satisfied(course.Corequisites, completedIDs(profile), scheduledIDs(schedule))
}

// HasCompletedCourse reports whether the course id appears in the
// student's completed-course history.
func HasCompletedCourse(profile *models.StudentProfile, courseID string) bool {
	for _, c := range profile.CompletedCourses {
		if c.CourseID == courseID {
			return true
		}
	}
	return false
}

// CanAddCourse is the single-candidate gate. Checks run in a fixed
// precedence order and stop at the first failure, so the caller always
// gets exactly one reason:
//
//	time conflict > prerequisites > corequisites > capacity >
//	already scheduled > already completed
func CanAddCourse(candidate *models.Course, scheduled []models.ScheduledCourse, profile *models.StudentProfile) models.AddDecision {
	courses := coursesOf(scheduled)

	for _, existing := range courses {
		if CoursesOverlap(candidate, existing) {
			return models.AddDecision{
				Reason: fmt.Sprintf("Time conflict with %s", existing.Code),
			}
		}
	}

	if !MeetsPrerequisites(candidate, profile, courses) {
		return models.AddDecision{Reason: "Prerequisites not met"}
	}

	if !MeetsCorequisites(candidate, profile, courses) {
		return models.AddDecision{Reason: "Corequisites not met"}
	}

	if candidate.CurrentEnrollment >= candidate.MaxEnrollment {
		return models.AddDecision{Reason: "Course is full"}
	}

	for _, existing := range courses {
		if existing.ID == candidate.ID {
			return models.AddDecision{Reason: "Course already in schedule"}
		}
	}

	if HasCompletedCourse(profile, candidate.ID) {
		return models.AddDecision{Reason: "Course already completed"}
	}

	return models.AddDecision{CanAdd: true}
}

func completedIDs(profile *models.StudentProfile) map[string]struct{} {
	ids := make(map[string]struct{}, len(profile.CompletedCourses))
	for _, c := range profile.CompletedCourses {
		ids[c.CourseID] = struct{}{}
	}
	return ids
}

func scheduledIDs(courses []*models.Course) map[string]struct{} {
	ids := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		ids[c.ID] = struct{}{}
	}
	return ids
}

func satisfied(required []string, completed, scheduled map[string]struct{}) bool {
	for _, id := range required {
		if _, ok := completed[id]; ok {
			continue
		}
		if _, ok := scheduled[id]; ok {
			continue
		}
		return false
	}
	return true
}
