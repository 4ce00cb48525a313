package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Accounts ---

// CreateAccount inserts a profile row for a new account
func (r *PostgresRepository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, full_name, user_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		string(account.UserType),
		account.CreatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "profiles_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByEmail retrieves an account by email
func (r *PostgresRepository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getAccount(ctx, "email = $1", email)
}

// GetAccountByID retrieves an account by id
func (r *PostgresRepository) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getAccount(ctx, "id = $1", id)
}

func (r *PostgresRepository) getAccount(ctx context.Context, where string, arg any) (*models.Account, error) {
	query := `
		SELECT id, email, password_hash, full_name, user_type, created_at, last_login_at
		FROM profiles
		WHERE ` + where

	var account models.Account
	var userType string
	var lastLogin sql.NullTime

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FullName,
		&userType,
		&account.CreatedAt,
		&lastLogin,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.UserType = models.UserType(userType)
	if lastLogin.Valid {
		account.LastLoginAt = &lastLogin.Time
	}

	return &account, nil
}

// TouchLastLogin records a successful login
func (r *PostgresRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE profiles SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// ListAdvisors returns all advisor accounts
func (r *PostgresRepository) ListAdvisors(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT id, email, full_name, created_at
		FROM profiles
		WHERE user_type = 'advisor'
		ORDER BY full_name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisors: %w", err)
	}
	defer rows.Close()

	var advisors []*models.Account
	for rows.Next() {
		account := models.Account{UserType: models.UserAdvisor}
		if err := rows.Scan(&account.ID, &account.Email, &account.FullName, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advisor: %w", err)
		}
		advisors = append(advisors, &account)
	}

	return advisors, rows.Err()
}

// --- Student profiles ---

// GetProfile builds a full student profile: program metadata plus the
// completed-course history.
func (r *PostgresRepository) GetProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	query := `
		SELECT id, full_name, email, major, minor, current_year, current_semester,
		       grad_semester, grad_year, advisor_id
		FROM profiles
		WHERE id = $1 AND user_type = 'student'
	`

	var profile models.StudentProfile
	var minor, currentSemester, gradSemester, advisorID sql.NullString
	var currentYear, gradYear sql.NullInt32

	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Major,
		&minor,
		&currentYear,
		&currentSemester,
		&gradSemester,
		&gradYear,
		&advisorID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.Minor = minor.String
	profile.CurrentYear = int(currentYear.Int32)
	profile.CurrentSemester = models.Semester(currentSemester.String)
	profile.ExpectedGraduation = models.GraduationTarget{
		Semester: models.Semester(gradSemester.String),
		Year:     int(gradYear.Int32),
	}
	profile.AdvisorID = advisorID.String

	completed, err := r.listCompletedCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	profile.CompletedCourses = completed
	for _, c := range completed {
		profile.TotalCreditsCompleted += c.Credits
	}

	return &profile, nil
}

// UpdateProfile mutates the program metadata on a student profile
func (r *PostgresRepository) UpdateProfile(ctx context.Context, studentID string, req models.UpdateProfileRequest) error {
	query := `
		UPDATE profiles
		SET major = $2, minor = $3, current_year = $4, current_semester = $5,
		    grad_semester = $6, grad_year = $7, advisor_id = $8
		WHERE id = $1 AND user_type = 'student'
	`

	var gradSemester any
	var gradYear any
	if req.Graduation != nil {
		gradSemester = string(req.Graduation.Semester)
		gradYear = req.Graduation.Year
	}

	result, err := r.pool.Exec(ctx, query,
		studentID,
		req.Major,
		nullString(req.Minor),
		req.CurrentYear,
		nullString(string(req.CurrentSemester)),
		gradSemester,
		gradYear,
		nullString(req.AdvisorID),
	)

	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListAdvisees returns the student profiles assigned to an advisor
func (r *PostgresRepository) ListAdvisees(ctx context.Context, advisorID string) ([]*models.StudentProfile, error) {
	query := `
		SELECT id FROM profiles
		WHERE user_type = 'student' AND advisor_id = $1
		ORDER BY full_name
	`

	rows, err := r.pool.Query(ctx, query, advisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisees: %w", err)
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan advisee: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advisees: %w", err)
	}

	var advisees []*models.StudentProfile
	for _, id := range ids {
		profile, err := r.GetProfile(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load advisee %s: %w", id, err)
		}
		advisees = append(advisees, profile)
	}

	return advisees, nil
}

// --- Completed courses ---

func (r *PostgresRepository) listCompletedCourses(ctx context.Context, studentID string) ([]models.CompletedCourse, error) {
	query := `
		SELECT course_id, course_code, course_title, credits, semester, year, grade, fulfills
		FROM completed_courses
		WHERE student_id = $1
		ORDER BY year, semester, course_code
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed courses: %w", err)
	}
	defer rows.Close()

	var courses []models.CompletedCourse
	for rows.Next() {
		var c models.CompletedCourse
		var semester string
		var grade sql.NullString
		var fulfillsJSON []byte

		if err := rows.Scan(&c.CourseID, &c.CourseCode, &c.CourseTitle, &c.Credits, &semester, &c.Year, &grade, &fulfillsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan completed course: %w", err)
		}

		c.Semester = models.Semester(semester)
		c.Grade = grade.String
		if err := json.Unmarshal(fulfillsJSON, &c.Fulfills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fulfills: %w", err)
		}

		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// ReplaceCompletedCourses overwrites a student's completed-course history
func (r *PostgresRepository) ReplaceCompletedCourses(ctx context.Context, studentID string, courses []models.CompletedCourse) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM completed_courses WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("failed to clear completed courses: %w", err)
	}

	query := `
		INSERT INTO completed_courses (student_id, course_id, course_code, course_title, credits, semester, year, grade, fulfills)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, c := range courses {
		fulfillsJSON, err := json.Marshal(c.Fulfills)
		if err != nil {
			return fmt.Errorf("failed to marshal fulfills: %w", err)
		}

		if _, err := tx.Exec(ctx, query,
			studentID,
			c.CourseID,
			c.CourseCode,
			c.CourseTitle,
			c.Credits,
			string(c.Semester),
			c.Year,
			nullString(c.Grade),
			fulfillsJSON,
		); err != nil {
			return fmt.Errorf("failed to insert completed course %s: %w", c.CourseID, err)
		}
	}

	return tx.Commit(ctx)
}

// --- Term schedules ---

// AddScheduleEntry inserts one scheduled course row
func (r *PostgresRepository) AddScheduleEntry(ctx context.Context, entry *models.ScheduleEntry) error {
	query := `
		INSERT INTO scheduled_courses (student_id, course_id, semester, year, status, added_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.StudentID,
		entry.CourseID,
		string(entry.Semester),
		entry.Year,
		string(entry.Status),
		entry.AddedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to add schedule entry: %w", err)
	}

	return nil
}

// RemoveScheduleEntry deletes one scheduled course row
func (r *PostgresRepository) RemoveScheduleEntry(ctx context.Context, studentID, courseID string, semester models.Semester, year int) error {
	query := `
		DELETE FROM scheduled_courses
		WHERE student_id = $1 AND course_id = $2 AND semester = $3 AND year = $4
	`

	result, err := r.pool.Exec(ctx, query, studentID, courseID, string(semester), year)
	if err != nil {
		return fmt.Errorf("failed to remove schedule entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListScheduleEntries returns a student's schedule rows for one term
func (r *PostgresRepository) ListScheduleEntries(ctx context.Context, studentID string, semester models.Semester, year int) ([]*models.ScheduleEntry, error) {
	query := `
		SELECT student_id, course_id, semester, year, status, added_at
		FROM scheduled_courses
		WHERE student_id = $1 AND semester = $2 AND year = $3
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, query, studentID, string(semester), year)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		var semesterStr, status string

		if err := rows.Scan(&e.StudentID, &e.CourseID, &semesterStr, &e.Year, &status, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}

		e.Semester = models.Semester(semesterStr)
		e.Status = models.EnrollmentStatus(status)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// --- Advisor notes ---

// CreateNote inserts an advisor note
func (r *PostgresRepository) CreateNote(ctx context.Context, note *models.AdvisorNote) error {
	query := `
		INSERT INTO advisor_notes (id, advisor_id, student_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, note.ID, note.AdvisorID, note.StudentID, note.Body, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// ListNotes returns an advisor's notes on one student, newest first
func (r *PostgresRepository) ListNotes(ctx context.Context, advisorID, studentID string) ([]*models.AdvisorNote, error) {
	query := `
		SELECT id, advisor_id, student_id, body, created_at
		FROM advisor_notes
		WHERE advisor_id = $1 AND student_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, advisorID, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.AdvisorNote
	for rows.Next() {
		var n models.AdvisorNote
		if err := rows.Scan(&n.ID, &n.AdvisorID, &n.StudentID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &n)
	}

	return notes, rows.Err()
}

// --- Course carts ---

// UpsertCart creates or replaces a student's shopping cart
func (r *PostgresRepository) UpsertCart(ctx context.Context, cart *models.CourseCart) error {
	courseIDsJSON, err := json.Marshal(cart.CourseIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal course ids: %w", err)
	}

	query := `
		INSERT INTO carts (id, student_id, target_semester, target_year, course_ids, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id) DO UPDATE
		SET target_semester = $3, target_year = $4, course_ids = $5, updated_at = $6, expires_at = $7
	`

	_, err = r.pool.Exec(ctx, query,
		cart.ID,
		cart.StudentID,
		string(cart.TargetSemester),
		cart.TargetYear,
		courseIDsJSON,
		cart.UpdatedAt,
		cart.ExpiresAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

// GetCart retrieves a student's cart
func (r *PostgresRepository) GetCart(ctx context.Context, studentID string) (*models.CourseCart, error) {
	query := `
		SELECT id, student_id, target_semester, target_year, course_ids, updated_at, expires_at
		FROM carts
		WHERE student_id = $1
	`

	var cart models.CourseCart
	var semester string
	var courseIDsJSON []byte

	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&cart.ID,
		&cart.StudentID,
		&semester,
		&cart.TargetYear,
		&courseIDsJSON,
		&cart.UpdatedAt,
		&cart.ExpiresAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart.TargetSemester = models.Semester(semester)
	if err := json.Unmarshal(courseIDsJSON, &cart.CourseIDs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal course ids: %w", err)
	}

	return &cart, nil
}

// DeleteExpiredCarts removes carts past their expiry, returning the count
func (r *PostgresRepository) DeleteExpiredCarts(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired carts: %w", err)
	}
	return result.RowsAffected(), nil
}

// --- helpers ---

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
