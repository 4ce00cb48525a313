package models

import (
	"errors"
	"regexp"
)

// DayOfWeek is a weekday on which a course can meet (Monday through Friday)
type DayOfWeek string

const (
	Monday    DayOfWeek = "Monday"
	Tuesday   DayOfWeek = "Tuesday"
	Wednesday DayOfWeek = "Wednesday"
	Thursday  DayOfWeek = "Thursday"
	Friday    DayOfWeek = "Friday"
)

// IsValid returns true for a recognized weekday
func (d DayOfWeek) IsValid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return true
	}
	return false
}

// Semester identifies an academic term
type Semester string

const (
	Fall   Semester = "Fall"
	Spring Semester = "Spring"
	Summer Semester = "Summer"
)

// ErrInvalidTimeFormat is returned when a time string is not strict "HH:MM"
var ErrInvalidTimeFormat = errors.New("time must be in HH:MM 24-hour format")

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// TimeSlot is a single weekly recurring meeting period.
// Times are wall-clock "HH:MM" 24-hour strings, same-day only.
type TimeSlot struct {
	Day       DayOfWeek `json:"day" yaml:"day"`
	StartTime string    `json:"startTime" yaml:"start_time"`
	EndTime   string    `json:"endTime" yaml:"end_time"`
}

// Validate enforces the HH:MM format at the ingestion boundary.
// The scheduling engine itself never rejects input; malformed times
// simply behave as zero-width slots there.
func (ts TimeSlot) Validate() error {
	if !ts.Day.IsValid() {
		return errors.New("day must be Monday through Friday")
	}
	if !clockPattern.MatchString(ts.StartTime) || !clockPattern.MatchString(ts.EndTime) {
		return ErrInvalidTimeFormat
	}
	return nil
}

// Course is a catalog entry. Prerequisites and corequisites reference
// other courses by id.
type Course struct {
	ID                string                `json:"id" yaml:"id"`
	Code              string                `json:"code" yaml:"code"`
	Title             string                `json:"title" yaml:"title"`
	Description       string                `json:"description" yaml:"description"`
	Credits           int                   `json:"credits" yaml:"credits"`
	Department        string                `json:"department" yaml:"department"`
	Instructor        string                `json:"instructor" yaml:"instructor"`
	MeetingTimes      []TimeSlot            `json:"meetingTimes" yaml:"meeting_times"`
	Prerequisites     []string              `json:"prerequisites" yaml:"prerequisites"`
	Corequisites      []string              `json:"corequisites" yaml:"corequisites"`
	Fulfills          []RequirementCategory `json:"fulfills" yaml:"fulfills"`
	Semester          Semester              `json:"semester" yaml:"semester"`
	Year              int                   `json:"year" yaml:"year"`
	MaxEnrollment     int                   `json:"maxEnrollment" yaml:"max_enrollment"`
	CurrentEnrollment int                   `json:"currentEnrollment" yaml:"current_enrollment"`
	Location          string                `json:"location" yaml:"location"`
}

// HasSeats reports whether the enrollment snapshot still has capacity
func (c *Course) HasSeats() bool {
	return c.CurrentEnrollment < c.MaxEnrollment
}

// TimeRange is an inclusive wall-clock window used by search filters
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CourseFilters holds the advanced-search criteria. Zero values mean
// "no filter".
type CourseFilters struct {
	SearchQuery          string                `json:"searchQuery,omitempty"`
	Departments          []string              `json:"departments,omitempty"`
	Credits              []int                 `json:"credits,omitempty"`
	Semesters            []Semester            `json:"semesters,omitempty"`
	DaysOfWeek           []DayOfWeek           `json:"daysOfWeek,omitempty"`
	TimeRange            *TimeRange            `json:"timeRange,omitempty"`
	FulfillsRequirements []RequirementCategory `json:"fulfillsRequirements,omitempty"`
	HasSeatsAvailable    bool                  `json:"hasSeatsAvailable,omitempty"`
}

// SortOption orders search results
type SortOption struct {
	Field     string `json:"field"`     // code | title | credits | enrollment | department
	Direction string `json:"direction"` // asc | desc
}
