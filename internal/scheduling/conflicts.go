package scheduling

import (
	"fmt"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// MaxRecommendedCredits is the per-term credit load above which the
// validator reports an overload warning.
const MaxRecommendedCredits = 18

// FindTimeConflicts returns one time conflict per colliding pair of
// courses. Pairs are enumerated in input order (i increasing, j > i), so
// output order is deterministic for a given input ordering. Multiple
// overlapping slot pairs between the same two courses still yield a
// single conflict.
func FindTimeConflicts(courses []*models.Course) []models.ScheduleConflict {
	var conflicts []models.ScheduleConflict

	for i := 0; i < len(courses); i++ {
		for j := i + 1; j < len(courses); j++ {
			if CoursesOverlap(courses[i], courses[j]) {
				conflicts = append(conflicts, models.ScheduleConflict{
					Type:      models.ConflictTime,
					CourseIDs: []string{courses[i].ID, courses[j].ID},
					Message:   fmt.Sprintf("Time conflict between %s and %s", courses[i].Code, courses[j].Code),
					Severity:  models.SeverityError,
				})
			}
		}
	}

	return conflicts
}

// DetectScheduleConflicts is the full-schedule audit. Unlike CanAddCourse
// it never short-circuits: it reports every pairwise time conflict, one
// prerequisite and one corequisite error per offending course, and an
// overload warning when the term exceeds MaxRecommendedCredits.
func DetectScheduleConflicts(scheduled []models.ScheduledCourse, profile *models.StudentProfile) []models.ScheduleConflict {
	courses := coursesOf(scheduled)
	conflicts := FindTimeConflicts(courses)

	completed := completedIDs(profile)
	inSchedule := scheduledIDs(courses)

	for _, course := range courses {
		if !satisfied(course.Prerequisites, completed, inSchedule) {
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:      models.ConflictPrerequisite,
				CourseIDs: []string{course.ID},
				Message:   fmt.Sprintf("Missing prerequisite for %s", course.Code),
				Severity:  models.SeverityError,
			})
		}
	}

	for _, course := range courses {
		if !satisfied(course.Corequisites, completed, inSchedule) {
			conflicts = append(conflicts, models.ScheduleConflict{
				Type:      models.ConflictCorequisite,
				CourseIDs: []string{course.ID},
				Message:   fmt.Sprintf("Missing corequisite for %s. Must be taken concurrently or previously.", course.Code),
				Severity:  models.SeverityError,
			})
		}
	}

	if total := TotalCredits(courses); total > MaxRecommendedCredits {
		ids := make([]string, len(courses))
		for i, c := range courses {
			ids[i] = c.ID
		}
		conflicts = append(conflicts, models.ScheduleConflict{
			Type:      models.ConflictOverload,
			CourseIDs: ids,
			Message:   fmt.Sprintf("Credit overload: %d credits (maximum recommended: %d)", total, MaxRecommendedCredits),
			Severity:  models.SeverityWarning,
		})
	}

	return conflicts
}

// BuildValidationReport runs the full audit and splits the result into
// the response shape the validation endpoint returns. A schedule is
// valid iff it has no error-severity conflicts; warnings alone do not
// invalidate it.
func BuildValidationReport(scheduled []models.ScheduledCourse, profile *models.StudentProfile) models.ScheduleValidation {
	conflicts := DetectScheduleConflicts(scheduled, profile)

	warnings := []models.ScheduleConflict{}
	errors := []models.ScheduleConflict{}
	for _, c := range conflicts {
		if c.IsError() {
			errors = append(errors, c)
		} else {
			warnings = append(warnings, c)
		}
	}

	if conflicts == nil {
		conflicts = []models.ScheduleConflict{}
	}

	return models.ScheduleValidation{
		Valid:        len(errors) == 0,
		Conflicts:    conflicts,
		TotalCredits: TotalCredits(coursesOf(scheduled)),
		Warnings:     warnings,
		Errors:       errors,
	}
}

// TotalCredits sums the credit load of a course list
func TotalCredits(courses []*models.Course) int {
	total := 0
	for _, c := range courses {
		total += c.Credits
	}
	return total
}

func coursesOf(scheduled []models.ScheduledCourse) []*models.Course {
	courses := make([]*models.Course, len(scheduled))
	for i := range scheduled {
		courses[i] = &scheduled[i].Course
	}
	return courses
}
