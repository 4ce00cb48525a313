package models

import "time"

// EnrollmentStatus is the state of a course within a student's term schedule
type EnrollmentStatus string

const (
	StatusConfirmed EnrollmentStatus = "confirmed"
	StatusWaitlist  EnrollmentStatus = "waitlist"
	StatusShopping  EnrollmentStatus = "shopping"
)

// ScheduledCourse wraps a catalog course with enrollment state for one term
type ScheduledCourse struct {
	Course  Course           `json:"course"`
	AddedAt time.Time        `json:"addedAt"`
	Status  EnrollmentStatus `json:"status"`
}

// ScheduleEntry is the persisted form of a scheduled course: a row
// linking a student to a catalog course for one term. Course details
// are rehydrated from the catalog at read time.
type ScheduleEntry struct {
	StudentID string           `json:"studentId"`
	CourseID  string           `json:"courseId"`
	Semester  Semester         `json:"semester"`
	Year      int              `json:"year"`
	Status    EnrollmentStatus `json:"status"`
	AddedAt   time.Time        `json:"addedAt"`
}

// ConflictType is the closed set of problems the validator can report
type ConflictType string

const (
	ConflictTime         ConflictType = "time"
	ConflictPrerequisite ConflictType = "prerequisite"
	ConflictCorequisite  ConflictType = "corequisite"
	ConflictOverload     ConflictType = "overload"
)

// ConflictSeverity distinguishes blocking errors from advisory warnings
type ConflictSeverity string

const (
	SeverityError   ConflictSeverity = "error"
	SeverityWarning ConflictSeverity = "warning"
)

// ScheduleConflict describes one detected problem in a schedule.
// Conflicts are derived values, recomputed on every validation; they are
// never persisted.
type ScheduleConflict struct {
	Type      ConflictType     `json:"type"`
	CourseIDs []string         `json:"courseIds"`
	Message   string           `json:"message"`
	Severity  ConflictSeverity `json:"severity"`
}

// IsError reports whether the conflict invalidates the schedule
func (c ScheduleConflict) IsError() bool {
	return c.Severity == SeverityError
}

// AddDecision is the outcome of the single-candidate gate.
// Reason is set only when CanAdd is false.
type AddDecision struct {
	CanAdd bool   `json:"canAdd"`
	Reason string `json:"reason,omitempty"`
}

// ScheduleValidation is the full-audit response shape for the
// validation endpoint and the live socket.
type ScheduleValidation struct {
	Valid        bool               `json:"valid"`
	Conflicts    []ScheduleConflict `json:"conflicts"`
	TotalCredits int                `json:"totalCredits"`
	Warnings     []ScheduleConflict `json:"warnings"`
	Errors       []ScheduleConflict `json:"errors"`
}

// SemesterSchedule groups one term's scheduled courses
type SemesterSchedule struct {
	Semester     Semester           `json:"semester"`
	Year         int                `json:"year"`
	Courses      []ScheduledCourse  `json:"courses"`
	TotalCredits int                `json:"totalCredits"`
	Conflicts    []ScheduleConflict `json:"conflicts"`
}

// CourseCart is a student's shopping selection for an upcoming term.
// Carts expire and are reaped by the cleanup worker.
type CourseCart struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"studentId"`
	TargetSemester Semester  `json:"targetSemester"`
	TargetYear     int       `json:"targetYear"`
	CourseIDs      []string  `json:"courseIds"`
	UpdatedAt      time.Time `json:"updatedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// IsExpired checks if the cart has passed its expiry
func (c *CourseCart) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// --- Request/response DTOs ---

// RegisterRequest creates an account
type RegisterRequest struct {
	FullName string   `json:"fullName" validate:"required"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	UserType UserType `json:"userType" validate:"required,oneof=student advisor"`
}

// LoginRequest authenticates an account
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the session token and basic identity
type LoginResponse struct {
	Token    string   `json:"token"`
	UserID   string   `json:"userId"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	UserType UserType `json:"userType"`
}

// UpdateProfileRequest mutates the program metadata on a profile
type UpdateProfileRequest struct {
	Major           string            `json:"major"`
	Minor           string            `json:"minor"`
	CurrentYear     int               `json:"currentYear" validate:"omitempty,min=1,max=4"`
	CurrentSemester Semester          `json:"currentSemester"`
	Graduation      *GraduationTarget `json:"expectedGraduation,omitempty"`
	AdvisorID       string            `json:"advisorId"`
}

// ValidateScheduleRequest is the body of POST /schedule/validate
type ValidateScheduleRequest struct {
	Courses        []ScheduledCourse `json:"courses"`
	StudentProfile *StudentProfile   `json:"studentProfile"`
}

// CanAddRequest is the body of POST /schedule/can-add
type CanAddRequest struct {
	Course           *Course           `json:"course"`
	ScheduledCourses []ScheduledCourse `json:"scheduledCourses"`
	StudentProfile   *StudentProfile   `json:"studentProfile"`
}

// AddCourseRequest adds a catalog course to the caller's schedule
type AddCourseRequest struct {
	CourseID string           `json:"courseId" validate:"required"`
	Status   EnrollmentStatus `json:"status" validate:"omitempty,oneof=confirmed waitlist shopping"`
}

// ProgressRequest is the body of POST /requirements/progress
type ProgressRequest struct {
	Requirements     []Requirement     `json:"requirements"`
	CompletedCourses []CompletedCourse `json:"completedCourses"`
	ScheduledCourses []Course          `json:"scheduledCourses,omitempty"`
}

// RecommendationRequest mirrors the future AI integration surface
type RecommendationRequest struct {
	StudentProfile        *StudentProfile   `json:"studentProfile"`
	CurrentSchedule       *SemesterSchedule `json:"currentSchedule"`
	RemainingRequirements []Requirement     `json:"remainingRequirements"`
}

// AlternativePath is one suggested course sequence
type AlternativePath struct {
	Description string   `json:"description"`
	Courses     []Course `json:"courses"`
}

// RecommendationResponse is the structured stub reply
type RecommendationResponse struct {
	RecommendedCourses []Course          `json:"recommendedCourses"`
	Reasoning          string            `json:"reasoning"`
	AlternativePaths   []AlternativePath `json:"alternativePaths,omitempty"`
	Warnings           []string          `json:"warnings,omitempty"`
}
