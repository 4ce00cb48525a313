package scheduling

import (
	"testing"

	"github.com/schemer-edu/schemer-server/internal/models"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"09:00", "9:00 AM"},
		{"00:30", "12:30 AM"},
		{"12:00", "12:00 PM"},
		{"13:05", "1:05 PM"},
		{"23:59", "11:59 PM"},
		{"garbage", "garbage"},
	}

	for _, tc := range cases {
		if got := FormatTime(tc.in); got != tc.want {
			t.Errorf("FormatTime(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatTimeSlot(t *testing.T) {
	got := FormatTimeSlot(slot(models.Wednesday, "10:00", "11:30"))
	if got != "Wed 10:00 AM-11:30 AM" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestFormatCourseTimes(t *testing.T) {
	c := course("cs106", "CMSC 106", 1,
		slot(models.Monday, "10:00", "11:00"),
		slot(models.Wednesday, "10:00", "11:00"),
		slot(models.Friday, "10:00", "11:00"),
		slot(models.Thursday, "14:00", "15:30"),
	)

	got := FormatCourseTimes(&c)
	want := "MonWedFri 10:00 AM-11:00 AM, Thu 2:00 PM-3:30 PM"
	if got != want {
		t.Errorf("FormatCourseTimes = %q, want %q", got, want)
	}

	empty := course("onln1", "ONLN 1", 1)
	if got := FormatCourseTimes(&empty); got != "TBA" {
		t.Errorf("expected TBA for no meeting times, got %q", got)
	}
}

func TestGroupCoursesByDay(t *testing.T) {
	a := course("a", "A 1", 1,
		slot(models.Monday, "09:00", "10:00"),
		slot(models.Monday, "14:00", "15:00"), // second Monday slot, same course
		slot(models.Wednesday, "09:00", "10:00"),
	)
	b := course("b", "B 1", 1, slot(models.Monday, "11:00", "12:00"))

	grouped := GroupCoursesByDay([]*models.Course{&a, &b})

	if len(grouped[models.Monday]) != 2 {
		t.Errorf("expected 2 courses on Monday, got %d", len(grouped[models.Monday]))
	}
	if len(grouped[models.Wednesday]) != 1 {
		t.Errorf("expected 1 course on Wednesday, got %d", len(grouped[models.Wednesday]))
	}
	if len(grouped[models.Friday]) != 0 {
		t.Errorf("expected no courses on Friday")
	}
}
