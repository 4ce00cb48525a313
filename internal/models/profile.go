package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// RequirementCategory is a degree-requirement bucket a course can fulfill
type RequirementCategory string

const (
	MajorCore        RequirementCategory = "Major Core"
	MajorElective    RequirementCategory = "Major Elective"
	GeneralEducation RequirementCategory = "General Education"
	Humanities       RequirementCategory = "Humanities"
	SocialSciences   RequirementCategory = "Social Sciences"
	NaturalSciences  RequirementCategory = "Natural Sciences"
	Quantitative     RequirementCategory = "Quantitative"
	Writing          RequirementCategory = "Writing"
	Language         RequirementCategory = "Language"
	FreeElective     RequirementCategory = "Free Elective"
)

// UserType distinguishes account roles
type UserType string

const (
	UserStudent UserType = "student"
	UserAdvisor UserType = "advisor"
)

// Account is a login identity backed by the profiles table.
// The password hash never leaves the server.
type Account struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"fullName"`
	UserType     UserType   `json:"userType"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// CompletedCourse records a finished course. It feeds prerequisite and
// corequisite checks but never time-conflict detection.
type CompletedCourse struct {
	CourseID    string                `json:"courseId"`
	CourseCode  string                `json:"courseCode"`
	CourseTitle string                `json:"courseTitle"`
	Credits     int                   `json:"credits"`
	Semester    Semester              `json:"semester"`
	Year        int                   `json:"year"`
	Grade       string                `json:"grade,omitempty"`
	Fulfills    []RequirementCategory `json:"fulfills"`
}

// GraduationTarget is the expected graduation term
type GraduationTarget struct {
	Semester Semester `json:"semester"`
	Year     int      `json:"year"`
}

// StudentProfile aggregates identity, program metadata, and the
// completed-course history. The scheduling engine reads it, never
// mutates it.
type StudentProfile struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Email                 string            `json:"email"`
	Major                 string            `json:"major"`
	Minor                 string            `json:"minor,omitempty"`
	CurrentYear           int               `json:"currentYear"` // 1-4
	CurrentSemester       Semester          `json:"currentSemester"`
	ExpectedGraduation    GraduationTarget  `json:"expectedGraduation"`
	AdvisorID             string            `json:"advisorId,omitempty"`
	CompletedCourses      []CompletedCourse `json:"completedCourses"`
	TotalCreditsCompleted int               `json:"totalCreditsCompleted"`
}

// Requirement tracks progress toward one degree-requirement category
type Requirement struct {
	ID               string              `json:"id"`
	Category         RequirementCategory `json:"category"`
	Description      string              `json:"description"`
	CreditsRequired  int                 `json:"creditsRequired"`
	CreditsCompleted int                 `json:"creditsCompleted"`
	CoursesRequired  int                 `json:"coursesRequired,omitempty"`
	CoursesCompleted int                 `json:"coursesCompleted,omitempty"`
	SpecificCourses  []string            `json:"specificCourses,omitempty"`
	Completed        bool                `json:"completed"`
}

// AdvisorNote is an advisor's annotation on one of their advisees
type AdvisorNote struct {
	ID        string    `json:"id"`
	AdvisorID string    `json:"advisorId"`
	StudentID string    `json:"studentId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// GenerateSessionToken creates a cryptographically random 48-char hex token
func GenerateSessionToken() (string, error) {
	bytes := make([]byte, 24)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
