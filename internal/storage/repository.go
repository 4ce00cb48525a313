package storage

import (
	"context"
	"errors"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is taken
var ErrDuplicateEmail = errors.New("email already registered")

// Repository defines the interface for course-planner persistence
type Repository interface {
	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id string) (*models.Account, error)
	TouchLastLogin(ctx context.Context, id string) error
	ListAdvisors(ctx context.Context) ([]*models.Account, error)

	// Student profiles
	GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	UpdateProfile(ctx context.Context, studentID string, req models.UpdateProfileRequest) error
	ListAdvisees(ctx context.Context, advisorID string) ([]*models.StudentProfile, error)

	// Completed courses
	ReplaceCompletedCourses(ctx context.Context, studentID string, courses []models.CompletedCourse) error

	// Term schedules
	AddScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error
	RemoveScheduleEntry(ctx context.Context, studentID, courseID string, semester models.Semester, year int) error
	ListScheduleEntries(ctx context.Context, studentID string, semester models.Semester, year int) ([]*models.ScheduleEntry, error)

	// Advisor notes
	CreateNote(ctx context.Context, note *models.AdvisorNote) error
	ListNotes(ctx context.Context, advisorID, studentID string) ([]*models.AdvisorNote, error)

	// Course carts
	UpsertCart(ctx context.Context, cart *models.CourseCart) error
	GetCart(ctx context.Context, studentID string) (*models.CourseCart, error)
	DeleteExpiredCarts(ctx context.Context) (int64, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
