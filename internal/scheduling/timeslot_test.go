package scheduling

import (
	"testing"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func slot(day models.DayOfWeek, start, end string) models.TimeSlot {
	return models.TimeSlot{Day: day, StartTime: start, EndTime: end}
}

func TestSlotsOverlap(t *testing.T) {
	cases := []struct {
		name string
		a, b models.TimeSlot
		want bool
	}{
		{
			name: "different days never overlap",
			a:    slot(models.Monday, "09:00", "10:00"),
			b:    slot(models.Tuesday, "09:00", "10:00"),
			want: false,
		},
		{
			name: "touching boundary is not overlap",
			a:    slot(models.Monday, "09:00", "10:00"),
			b:    slot(models.Monday, "10:00", "11:00"),
			want: false,
		},
		{
			name: "partial overlap",
			a:    slot(models.Monday, "09:00", "10:00"),
			b:    slot(models.Monday, "09:30", "10:30"),
			want: true,
		},
		{
			name: "containment is overlap",
			a:    slot(models.Monday, "09:00", "11:00"),
			b:    slot(models.Monday, "10:00", "10:30"),
			want: true,
		},
		{
			name: "identical slots overlap",
			a:    slot(models.Wednesday, "13:00", "14:30"),
			b:    slot(models.Wednesday, "13:00", "14:30"),
			want: true,
		},
		{
			name: "zero-width slot never overlaps",
			a:    slot(models.Monday, "10:00", "10:00"),
			b:    slot(models.Monday, "09:00", "11:00"),
			want: false,
		},
		{
			name: "inverted slot never overlaps",
			a:    slot(models.Monday, "11:00", "09:00"),
			b:    slot(models.Monday, "09:00", "12:00"),
			want: false,
		},
		{
			name: "malformed start time never overlaps",
			a:    slot(models.Monday, "9am", "10:00"),
			b:    slot(models.Monday, "09:00", "11:00"),
			want: false,
		},
		{
			name: "out-of-range hour never overlaps",
			a:    slot(models.Monday, "25:00", "26:00"),
			b:    slot(models.Monday, "09:00", "11:00"),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SlotsOverlap(tc.a, tc.b); got != tc.want {
				t.Errorf("SlotsOverlap(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// Overlap must be symmetric
			if got := SlotsOverlap(tc.b, tc.a); got != tc.want {
				t.Errorf("SlotsOverlap(%v, %v) = %v, want %v (symmetry)", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:30", 570},
		{"23:59", 1439},
		{"", -1},
		{"10", -1},
		{"10:5x", -1},
		{"24:00", -1},
		{"12:60", -1},
	}

	for _, tc := range cases {
		if got := timeToMinutes(tc.in); got != tc.want {
			t.Errorf("timeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCoursesOverlap(t *testing.T) {
	a := &models.Course{
		ID:   "cs231",
		Code: "CMSC 231",
		MeetingTimes: []models.TimeSlot{
			slot(models.Monday, "09:00", "10:00"),
			slot(models.Wednesday, "09:00", "10:00"),
		},
	}
	b := &models.Course{
		ID:   "math216",
		Code: "MATH 216",
		MeetingTimes: []models.TimeSlot{
			slot(models.Tuesday, "09:00", "10:00"),
			slot(models.Wednesday, "09:30", "10:30"),
		},
	}
	c := &models.Course{
		ID:           "engl101",
		Code:         "ENGL 101",
		MeetingTimes: []models.TimeSlot{slot(models.Friday, "13:00", "14:00")},
	}

	if !CoursesOverlap(a, b) {
		t.Error("expected overlap on Wednesday slots")
	}
	if CoursesOverlap(a, c) {
		t.Error("expected no overlap between disjoint courses")
	}
	if CoursesOverlap(c, &models.Course{ID: "online", Code: "ONLN 1"}) {
		t.Error("course without meeting times must not overlap anything")
	}
}
