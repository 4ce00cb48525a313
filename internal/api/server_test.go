package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/schemer-edu/schemer-server/internal/auth"
	"github.com/schemer-edu/schemer-server/internal/catalog"
	"github.com/schemer-edu/schemer-server/internal/config"
	"github.com/schemer-edu/schemer-server/internal/models"
	"github.com/schemer-edu/schemer-server/internal/session"
	"github.com/schemer-edu/schemer-server/internal/storage"
)

// fakeRepo is an in-memory storage.Repository for handler tests
type fakeRepo struct {
	accounts  map[string]*models.Account
	byEmail   map[string]*models.Account
	profiles  map[string]*models.StudentProfile
	completed map[string][]models.CompletedCourse
	entries   []*models.ScheduleEntry
	notes     []*models.AdvisorNote
	carts     map[string]*models.CourseCart
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		accounts:  make(map[string]*models.Account),
		byEmail:   make(map[string]*models.Account),
		profiles:  make(map[string]*models.StudentProfile),
		completed: make(map[string][]models.CompletedCourse),
		carts:     make(map[string]*models.CourseCart),
	}
}

func (f *fakeRepo) CreateAccount(_ context.Context, account *models.Account) error {
	if _, exists := f.byEmail[account.Email]; exists {
		return storage.ErrDuplicateEmail
	}
	f.accounts[account.ID] = account
	f.byEmail[account.Email] = account
	return nil
}

func (f *fakeRepo) GetAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	if account, ok := f.byEmail[email]; ok {
		return account, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) GetAccountByID(_ context.Context, id string) (*models.Account, error) {
	if account, ok := f.accounts[id]; ok {
		return account, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) TouchLastLogin(_ context.Context, id string) error { return nil }

func (f *fakeRepo) ListAdvisors(_ context.Context) ([]*models.Account, error) {
	var advisors []*models.Account
	for _, account := range f.accounts {
		if account.UserType == models.UserAdvisor {
			advisors = append(advisors, account)
		}
	}
	return advisors, nil
}

func (f *fakeRepo) GetProfile(_ context.Context, studentID string) (*models.StudentProfile, error) {
	if profile, ok := f.profiles[studentID]; ok {
		return profile, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) UpdateProfile(_ context.Context, studentID string, req models.UpdateProfileRequest) error {
	profile, ok := f.profiles[studentID]
	if !ok {
		return storage.ErrNotFound
	}
	profile.Major = req.Major
	profile.Minor = req.Minor
	if req.CurrentYear != 0 {
		profile.CurrentYear = req.CurrentYear
	}
	return nil
}

func (f *fakeRepo) ListAdvisees(_ context.Context, advisorID string) ([]*models.StudentProfile, error) {
	var advisees []*models.StudentProfile
	for _, profile := range f.profiles {
		if profile.AdvisorID == advisorID {
			advisees = append(advisees, profile)
		}
	}
	return advisees, nil
}

func (f *fakeRepo) ReplaceCompletedCourses(_ context.Context, studentID string, courses []models.CompletedCourse) error {
	f.completed[studentID] = courses
	if profile, ok := f.profiles[studentID]; ok {
		profile.CompletedCourses = courses
	}
	return nil
}

func (f *fakeRepo) AddScheduleEntry(_ context.Context, entry *models.ScheduleEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeRepo) RemoveScheduleEntry(_ context.Context, studentID, courseID string, semester models.Semester, year int) error {
	for i, e := range f.entries {
		if e.StudentID == studentID && e.CourseID == courseID && e.Semester == semester && e.Year == year {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (f *fakeRepo) ListScheduleEntries(_ context.Context, studentID string, semester models.Semester, year int) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, e := range f.entries {
		if e.StudentID == studentID && e.Semester == semester && e.Year == year {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateNote(_ context.Context, note *models.AdvisorNote) error {
	f.notes = append(f.notes, note)
	return nil
}

func (f *fakeRepo) ListNotes(_ context.Context, advisorID, studentID string) ([]*models.AdvisorNote, error) {
	var out []*models.AdvisorNote
	for _, n := range f.notes {
		if n.AdvisorID == advisorID && n.StudentID == studentID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpsertCart(_ context.Context, cart *models.CourseCart) error {
	f.carts[cart.StudentID] = cart
	return nil
}

func (f *fakeRepo) GetCart(_ context.Context, studentID string) (*models.CourseCart, error) {
	if cart, ok := f.carts[studentID]; ok {
		return cart, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeRepo) DeleteExpiredCarts(_ context.Context) (int64, error) {
	var deleted int64
	for id, cart := range f.carts {
		if cart.IsExpired() {
			delete(f.carts, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

// --- test fixtures ---

func testCourse(id, code string, credits int, slots ...models.TimeSlot) *models.Course {
	return &models.Course{
		ID:            id,
		Code:          code,
		Title:         code,
		Credits:       credits,
		Department:    "Computer Science",
		MeetingTimes:  slots,
		Semester:      models.Fall,
		Year:          2026,
		MaxEnrollment: 30,
	}
}

func newTestServer(t *testing.T) (*Server, *fakeRepo) {
	t.Helper()

	loader := catalog.NewLoader()
	courses := []*models.Course{
		testCourse("cs101", "CS 101", 4, models.TimeSlot{Day: models.Monday, StartTime: "10:00", EndTime: "10:50"}),
		testCourse("cs201", "CS 201", 4, models.TimeSlot{Day: models.Tuesday, StartTime: "09:30", EndTime: "10:45"}),
		testCourse("math120", "MATH 120", 4, models.TimeSlot{Day: models.Monday, StartTime: "10:30", EndTime: "11:20"}),
	}
	courses[1].Prerequisites = []string{"cs101"}
	for _, c := range courses {
		if err := loader.Add(c); err != nil {
			t.Fatalf("failed to add course %s: %v", c.ID, err)
		}
	}

	repo := newFakeRepo()
	server := NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 8080}, repo, session.NewMemoryStore(), loader, time.Hour)
	return server, repo
}

// registerAndLogin creates an account and returns its session token
func registerAndLogin(t *testing.T, server *Server, repo *fakeRepo, email string, userType models.UserType) (string, string) {
	t.Helper()

	hash, err := auth.HashPassword("hunter2-hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	account := &models.Account{
		ID:           "user-" + email,
		Email:        email,
		FullName:     "Test User",
		UserType:     userType,
		PasswordHash: hash,
	}
	if err := repo.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	body := doJSON(t, server, "POST", "/api/v1/auth/login", "", models.LoginRequest{
		Email:    email,
		Password: "hunter2-hunter2",
	}, http.StatusOK)

	var resp models.LoginResponse
	decodeData(t, body, &resp)
	return resp.Token, account.ID
}

// doJSON performs a request against the router and asserts the status
func doJSON(t *testing.T, server *Server, method, path, token string, body interface{}, wantStatus int) []byte {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: got status %d, want %d (body: %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	return rec.Body.Bytes()
}

// decodeData unwraps the response envelope into out
func decodeData(t *testing.T, body []byte, out interface{}) {
	t.Helper()

	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("failed to decode data: %v", err)
	}
}

// --- tests ---

func TestAllowedOriginsFromConfig(t *testing.T) {
	loader := catalog.NewLoader()
	repo := newFakeRepo()
	server := NewServer(config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           8080,
		AllowedOrigins: []string{"https://plan.example.edu"},
	}, repo, session.NewMemoryStore(), loader, time.Hour)

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "https://plan.example.edu")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://plan.example.edu" {
		t.Fatalf("got Access-Control-Allow-Origin %q, want the configured origin", got)
	}

	req = httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin must not be allowed, got %q", got)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	doJSON(t, server, "GET", "/health", "", nil, http.StatusOK)
	doJSON(t, server, "GET", "/ready", "", nil, http.StatusOK)
}

func TestRegisterAndLogin(t *testing.T) {
	server, _ := newTestServer(t)

	body := doJSON(t, server, "POST", "/api/v1/auth/register", "", models.RegisterRequest{
		FullName: "Dana Whitfield",
		Email:    "dana@example.edu",
		Password: "a-long-password",
		UserType: models.UserStudent,
	}, http.StatusCreated)

	var account models.Account
	decodeData(t, body, &account)
	if account.ID == "" {
		t.Fatal("expected account id to be set")
	}
	if account.PasswordHash != "" {
		t.Fatal("password hash must not appear in responses")
	}

	// Duplicate email is rejected
	doJSON(t, server, "POST", "/api/v1/auth/register", "", models.RegisterRequest{
		FullName: "Dana Again",
		Email:    "dana@example.edu",
		Password: "a-long-password",
		UserType: models.UserStudent,
	}, http.StatusConflict)

	body = doJSON(t, server, "POST", "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "dana@example.edu",
		Password: "a-long-password",
	}, http.StatusOK)

	var login models.LoginResponse
	decodeData(t, body, &login)
	if login.Token == "" {
		t.Fatal("expected a session token")
	}

	// Token works on an authenticated route
	doJSON(t, server, "GET", "/api/v1/auth/me", login.Token, nil, http.StatusOK)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server, repo := newTestServer(t)
	registerAndLogin(t, server, repo, "sam@example.edu", models.UserStudent)

	doJSON(t, server, "POST", "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "sam@example.edu",
		Password: "wrong-password",
	}, http.StatusUnauthorized)
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	server, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", rec.Code)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	server, repo := newTestServer(t)
	token, _ := registerAndLogin(t, server, repo, "lee@example.edu", models.UserStudent)

	doJSON(t, server, "POST", "/api/v1/auth/logout", token, nil, http.StatusOK)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d after logout, want 401", rec.Code)
	}
}

func TestAdvisorRoutesRejectStudents(t *testing.T) {
	server, repo := newTestServer(t)
	token, _ := registerAndLogin(t, server, repo, "student@example.edu", models.UserStudent)

	req := httptest.NewRequest("GET", "/api/v1/advisor/students", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got status %d, want 403", rec.Code)
	}
}

func TestAdvisorNotesFlow(t *testing.T) {
	server, repo := newTestServer(t)
	token, advisorID := registerAndLogin(t, server, repo, "advisor@example.edu", models.UserAdvisor)

	repo.profiles["stu-1"] = &models.StudentProfile{ID: "stu-1", Name: "Advisee", AdvisorID: advisorID}

	body := doJSON(t, server, "POST", "/api/v1/advisor/students/stu-1/notes", token,
		map[string]string{"body": "Discussed spring plan"}, http.StatusCreated)

	var note models.AdvisorNote
	decodeData(t, body, &note)
	if note.AdvisorID != advisorID || note.StudentID != "stu-1" {
		t.Fatalf("note has wrong ids: %+v", note)
	}

	body = doJSON(t, server, "GET", "/api/v1/advisor/students/stu-1/notes", token, nil, http.StatusOK)
	var listed struct {
		Notes []models.AdvisorNote `json:"notes"`
		Total int                  `json:"total"`
	}
	decodeData(t, body, &listed)
	if listed.Total != 1 {
		t.Fatalf("got %d notes, want 1", listed.Total)
	}

	// Empty note body is rejected
	doJSON(t, server, "POST", "/api/v1/advisor/students/stu-1/notes", token,
		map[string]string{"body": "   "}, http.StatusBadRequest)
}
