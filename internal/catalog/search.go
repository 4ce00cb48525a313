package catalog

import (
	"sort"
	"strings"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// Search filters the catalog and optionally sorts the result. With no
// filters set it returns the whole catalog in load order.
func (l *Loader) Search(filters models.CourseFilters, sortBy *models.SortOption) []*models.Course {
	courses := l.List()

	result := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		if matches(c, filters) {
			result = append(result, c)
		}
	}

	if sortBy != nil && sortBy.Field != "" {
		sortCourses(result, *sortBy)
	}

	return result
}

func matches(c *models.Course, f models.CourseFilters) bool {
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(c.Code), q) &&
			!strings.Contains(strings.ToLower(c.Title), q) &&
			!strings.Contains(strings.ToLower(c.Instructor), q) &&
			!strings.Contains(strings.ToLower(c.Description), q) {
			return false
		}
	}

	if len(f.Departments) > 0 && !containsString(f.Departments, c.Department) {
		return false
	}

	if len(f.Credits) > 0 && !containsInt(f.Credits, c.Credits) {
		return false
	}

	if len(f.Semesters) > 0 {
		found := false
		for _, s := range f.Semesters {
			if s == c.Semester {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.DaysOfWeek) > 0 {
		found := false
		for _, slot := range c.MeetingTimes {
			for _, d := range f.DaysOfWeek {
				if slot.Day == d {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	if f.TimeRange != nil {
		// Lexicographic comparison is correct for zero-padded HH:MM.
		found := false
		for _, slot := range c.MeetingTimes {
			if slot.StartTime >= f.TimeRange.Start && slot.EndTime <= f.TimeRange.End {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.FulfillsRequirements) > 0 {
		found := false
		for _, cat := range c.Fulfills {
			for _, want := range f.FulfillsRequirements {
				if cat == want {
					found = true
					break
				}
			}
		}
		if !found {
			return false
		}
	}

	if f.HasSeatsAvailable && !c.HasSeats() {
		return false
	}

	return true
}

func sortCourses(courses []*models.Course, opt models.SortOption) {
	desc := opt.Direction == "desc"

	sort.SliceStable(courses, func(i, j int) bool {
		a, b := courses[i], courses[j]
		if desc {
			a, b = b, a
		}

		switch opt.Field {
		case "title":
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case "credits":
			return a.Credits < b.Credits
		case "enrollment":
			return a.CurrentEnrollment < b.CurrentEnrollment
		case "department":
			return strings.ToLower(a.Department) < strings.ToLower(b.Department)
		default: // code
			return strings.ToLower(a.Code) < strings.ToLower(b.Code)
		}
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
