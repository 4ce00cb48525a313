package scheduling

import (
	"reflect"
	"testing"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func course(id, code string, credits int, slots ...models.TimeSlot) models.Course {
	return models.Course{
		ID:            id,
		Code:          code,
		Credits:       credits,
		MaxEnrollment: 30,
		MeetingTimes:  slots,
	}
}

func scheduledList(courses ...models.Course) []models.ScheduledCourse {
	out := make([]models.ScheduledCourse, len(courses))
	for i, c := range courses {
		out[i] = models.ScheduledCourse{Course: c, Status: models.StatusConfirmed}
	}
	return out
}

func emptyProfile() *models.StudentProfile {
	return &models.StudentProfile{ID: "stu1", Name: "Test Student"}
}

func TestFindTimeConflictsPairLevelDedup(t *testing.T) {
	// Two courses colliding on Monday AND Wednesday: still one conflict.
	a := course("cs231", "CMSC 231", 1,
		slot(models.Monday, "09:00", "10:00"),
		slot(models.Wednesday, "09:00", "10:00"))
	b := course("math216", "MATH 216", 1,
		slot(models.Monday, "09:30", "10:30"),
		slot(models.Wednesday, "09:30", "10:30"))

	conflicts := FindTimeConflicts([]*models.Course{&a, &b})

	if len(conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d", len(conflicts))
	}
	c := conflicts[0]
	if c.Type != models.ConflictTime {
		t.Errorf("expected type time, got %s", c.Type)
	}
	if c.Severity != models.SeverityError {
		t.Errorf("expected severity error, got %s", c.Severity)
	}
	if !reflect.DeepEqual(c.CourseIDs, []string{"cs231", "math216"}) {
		t.Errorf("unexpected course ids: %v", c.CourseIDs)
	}
	if c.Message != "Time conflict between CMSC 231 and MATH 216" {
		t.Errorf("unexpected message: %q", c.Message)
	}
}

func TestFindTimeConflictsEnumerationOrder(t *testing.T) {
	nine := slot(models.Monday, "09:00", "10:00")
	a := course("a", "A 1", 1, nine)
	b := course("b", "B 1", 1, nine)
	c := course("c", "C 1", 1, nine)

	conflicts := FindTimeConflicts([]*models.Course{&a, &b, &c})

	want := [][]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}
	if len(conflicts) != len(want) {
		t.Fatalf("expected %d conflicts, got %d", len(want), len(conflicts))
	}
	for i, pair := range want {
		if !reflect.DeepEqual(conflicts[i].CourseIDs, pair) {
			t.Errorf("conflict %d: got %v, want %v", i, conflicts[i].CourseIDs, pair)
		}
	}
}

func TestDetectScheduleConflictsOverloadWarning(t *testing.T) {
	// 19 credits, no other problems: exactly one overload warning.
	scheduled := scheduledList(
		course("a", "A 1", 5),
		course("b", "B 1", 5),
		course("c", "C 1", 5),
		course("d", "D 1", 4),
	)

	conflicts := DetectScheduleConflicts(scheduled, emptyProfile())

	if len(conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d: %v", len(conflicts), conflicts)
	}
	c := conflicts[0]
	if c.Type != models.ConflictOverload {
		t.Errorf("expected overload, got %s", c.Type)
	}
	if c.Severity != models.SeverityWarning {
		t.Errorf("overload must be a warning, got %s", c.Severity)
	}
	if len(c.CourseIDs) != 4 {
		t.Errorf("overload must name all course ids, got %v", c.CourseIDs)
	}
	if c.Message != "Credit overload: 19 credits (maximum recommended: 18)" {
		t.Errorf("unexpected message: %q", c.Message)
	}
}

func TestDetectScheduleConflictsNoOverloadAtThreshold(t *testing.T) {
	scheduled := scheduledList(
		course("a", "A 1", 9),
		course("b", "B 1", 9),
	)

	if conflicts := DetectScheduleConflicts(scheduled, emptyProfile()); len(conflicts) != 0 {
		t.Errorf("18 credits is not an overload, got %v", conflicts)
	}
}

func TestDetectScheduleConflictsMissingPrerequisite(t *testing.T) {
	needy := course("cs231", "CMSC 231", 1)
	needy.Prerequisites = []string{"cs106"}

	conflicts := DetectScheduleConflicts(scheduledList(needy), emptyProfile())

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	if conflicts[0].Type != models.ConflictPrerequisite || conflicts[0].Severity != models.SeverityError {
		t.Errorf("unexpected conflict: %+v", conflicts[0])
	}
	if conflicts[0].Message != "Missing prerequisite for CMSC 231" {
		t.Errorf("unexpected message: %q", conflicts[0].Message)
	}
}

func TestDetectScheduleConflictsOnePerCourse(t *testing.T) {
	// Two missing prerequisites on the same course: one conflict entry.
	needy := course("cs360", "CMSC 360", 1)
	needy.Prerequisites = []string{"cs231", "math215"}

	conflicts := DetectScheduleConflicts(scheduledList(needy), emptyProfile())

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict for 2 missing prereqs, got %d", len(conflicts))
	}
}

func TestDetectScheduleConflictsPrereqSatisfiedByScheduled(t *testing.T) {
	intro := course("cs106", "CMSC 106", 1, slot(models.Monday, "09:00", "10:00"))
	next := course("cs231", "CMSC 231", 1, slot(models.Tuesday, "09:00", "10:00"))
	next.Prerequisites = []string{"cs106"}

	if conflicts := DetectScheduleConflicts(scheduledList(intro, next), emptyProfile()); len(conflicts) != 0 {
		t.Errorf("prerequisite scheduled in same term should satisfy, got %v", conflicts)
	}
}

func TestDetectScheduleConflictsCorequisite(t *testing.T) {
	lab := course("phys105l", "PHYS 105L", 1)
	lab.Corequisites = []string{"phys105"}

	conflicts := DetectScheduleConflicts(scheduledList(lab), emptyProfile())
	if len(conflicts) != 1 || conflicts[0].Type != models.ConflictCorequisite {
		t.Fatalf("expected one corequisite conflict, got %v", conflicts)
	}

	// Completed corequisite also satisfies: the check does not require
	// same-term concurrency.
	profile := emptyProfile()
	profile.CompletedCourses = []models.CompletedCourse{{CourseID: "phys105", Credits: 1}}
	if conflicts := DetectScheduleConflicts(scheduledList(lab), profile); len(conflicts) != 0 {
		t.Errorf("completed corequisite should satisfy, got %v", conflicts)
	}
}

func TestDetectScheduleConflictsIdempotent(t *testing.T) {
	needy := course("cs231", "CMSC 231", 1, slot(models.Monday, "09:00", "10:00"))
	needy.Prerequisites = []string{"cs106"}
	other := course("math113", "MATH 113", 9, slot(models.Monday, "09:30", "10:30"))
	extra := course("engl101", "ENGL 101", 9)
	scheduled := scheduledList(needy, other, extra)
	profile := emptyProfile()

	first := DetectScheduleConflicts(scheduled, profile)
	second := DetectScheduleConflicts(scheduled, profile)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("detection is not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestBuildValidationReport(t *testing.T) {
	// Time conflict (error) plus overload (warning): invalid.
	a := course("a", "A 1", 10, slot(models.Monday, "09:00", "10:00"))
	b := course("b", "B 1", 10, slot(models.Monday, "09:30", "10:30"))

	report := BuildValidationReport(scheduledList(a, b), emptyProfile())

	if report.Valid {
		t.Error("schedule with a time conflict must be invalid")
	}
	if report.TotalCredits != 20 {
		t.Errorf("expected 20 total credits, got %d", report.TotalCredits)
	}
	if len(report.Errors) != 1 || len(report.Warnings) != 1 {
		t.Errorf("expected 1 error and 1 warning, got %d/%d", len(report.Errors), len(report.Warnings))
	}
	if len(report.Conflicts) != 2 {
		t.Errorf("expected 2 conflicts, got %d", len(report.Conflicts))
	}
}

func TestBuildValidationReportWarningOnlyIsValid(t *testing.T) {
	report := BuildValidationReport(scheduledList(
		course("a", "A 1", 10),
		course("b", "B 1", 9),
	), emptyProfile())

	if !report.Valid {
		t.Error("overload warning alone must not invalidate a schedule")
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Type != models.ConflictOverload {
		t.Errorf("expected single overload warning, got %v", report.Warnings)
	}
}

func TestBuildValidationReportEmptySchedule(t *testing.T) {
	report := BuildValidationReport(nil, emptyProfile())

	if !report.Valid {
		t.Error("empty schedule must be valid")
	}
	if report.Conflicts == nil || report.Errors == nil || report.Warnings == nil {
		t.Error("report slices must be non-nil for JSON encoding")
	}
	if report.TotalCredits != 0 {
		t.Errorf("expected 0 credits, got %d", report.TotalCredits)
	}
}
