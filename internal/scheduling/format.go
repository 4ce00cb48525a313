package scheduling

import (
	"fmt"
	"strings"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// Display helpers for the presentation layer. Cosmetic only.

// FormatTime renders an "HH:MM" 24-hour string as 12-hour with AM/PM.
// Malformed input is returned unchanged.
func FormatTime(t string) string {
	minutes := timeToMinutes(t)
	if minutes < 0 {
		return t
	}

	hours := minutes / 60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	displayHours := hours % 12
	if displayHours == 0 {
		displayHours = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHours, minutes%60, period)
}

// FormatTimeSlot renders a slot like "Mon 10:00 AM-11:00 AM"
func FormatTimeSlot(slot models.TimeSlot) string {
	day := string(slot.Day)
	if len(day) > 3 {
		day = day[:3]
	}
	return fmt.Sprintf("%s %s-%s", day, FormatTime(slot.StartTime), FormatTime(slot.EndTime))
}

// FormatCourseTimes renders all meeting times of a course, grouping days
// that share the same time window, e.g. "MonWedFri 10:00 AM-11:00 AM".
// Courses without meeting times render as "TBA".
func FormatCourseTimes(course *models.Course) string {
	if len(course.MeetingTimes) == 0 {
		return "TBA"
	}

	type group struct {
		start, end string
		days       []string
	}

	var groups []*group
	index := make(map[string]*group)

	for _, slot := range course.MeetingTimes {
		key := slot.StartTime + "-" + slot.EndTime
		day := string(slot.Day)
		if len(day) > 3 {
			day = day[:3]
		}

		g, ok := index[key]
		if !ok {
			g = &group{start: slot.StartTime, end: slot.EndTime}
			index[key] = g
			groups = append(groups, g)
		}
		if !contains(g.days, day) {
			g.days = append(g.days, day)
		}
	}

	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%s %s-%s", strings.Join(g.days, ""), FormatTime(g.start), FormatTime(g.end))
	}
	return strings.Join(parts, ", ")
}

// GroupCoursesByDay maps each weekday to the courses meeting on it.
// A course appears at most once per day even with multiple slots.
func GroupCoursesByDay(courses []*models.Course) map[models.DayOfWeek][]*models.Course {
	grouped := make(map[models.DayOfWeek][]*models.Course)

	for _, course := range courses {
		for _, slot := range course.MeetingTimes {
			if !containsCourse(grouped[slot.Day], course) {
				grouped[slot.Day] = append(grouped[slot.Day], course)
			}
		}
	}

	return grouped
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsCourse(list []*models.Course, c *models.Course) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}
