package scheduling

import (
	"strconv"
	"strings"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// timeToMinutes converts a strict "HH:MM" string to minutes since
// midnight. Anything else returns -1, which downstream comparisons treat
// as a zero-width slot. Strict validation of catalog data happens at the
// ingestion boundary (models.TimeSlot.Validate), never here: every
// function in this package is total over its input.
func timeToMinutes(t string) int {
	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return -1
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return -1
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return -1
	}
	return hours*60 + minutes
}

// SlotsOverlap reports whether two weekly meeting slots intersect.
// Overlap is half-open: a slot ending at 10:00 does not collide with one
// starting at 10:00. Slots on different days, zero-width slots, and
// slots with malformed times never overlap.
func SlotsOverlap(a, b models.TimeSlot) bool {
	if a.Day != b.Day {
		return false
	}

	startA := timeToMinutes(a.StartTime)
	endA := timeToMinutes(a.EndTime)
	startB := timeToMinutes(b.StartTime)
	endB := timeToMinutes(b.EndTime)

	if startA < 0 || endA < 0 || startB < 0 || endB < 0 {
		return false
	}

	return startA < endB && startB < endA
}

// CoursesOverlap reports whether any pair of meeting slots between the
// two courses collides.
func CoursesOverlap(a, b *models.Course) bool {
	for _, slotA := range a.MeetingTimes {
		for _, slotB := range b.MeetingTimes {
			if SlotsOverlap(slotA, slotB) {
				return true
			}
		}
	}
	return false
}
