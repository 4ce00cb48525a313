package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// Loader holds the in-memory course catalog. Courses are read-only once
// loaded; the engine and the search layer only ever read from it.
type Loader struct {
	mu      sync.RWMutex
	byID    map[string]*models.Course
	byCode  map[string]*models.Course
	ordered []*models.Course // load order, keeps listings deterministic
}

// NewLoader creates an empty catalog
func NewLoader() *Loader {
	return &Loader{
		byID:   make(map[string]*models.Course),
		byCode: make(map[string]*models.Course),
	}
}

// LoadFromDir loads every department file in a directory: YAML files
// (one per department) and CSV files (bulk exports from the registrar).
func (l *Loader) LoadFromDir(dir string) error {
	slog.Info("loading course catalog", "dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog directory: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		var loadErr error

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			loadErr = l.LoadFromYAML(path)
		case ".csv":
			loadErr = l.LoadFromCSV(path)
		default:
			continue
		}

		if loadErr != nil {
			slog.Warn("failed to load catalog file", "file", path, "error", loadErr)
			continue
		}
		loaded++
	}

	slog.Info("course catalog loaded", "files", loaded, "courses", l.Count())
	return nil
}

// departmentFile is the YAML structure of a department catalog file
type departmentFile struct {
	Department string          `yaml:"department"`
	Courses    []models.Course `yaml:"courses"`
}

// LoadFromYAML loads one department's courses from a YAML file
func (l *Loader) LoadFromYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var df departmentFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range df.Courses {
		course := df.Courses[i]
		if course.Department == "" {
			course.Department = df.Department
		}
		if err := l.add(&course); err != nil {
			slog.Warn("skipping invalid course", "file", path, "course", course.ID, "error", err)
		}
	}

	return nil
}

// courseRow is the flat CSV representation of a course. List-valued
// columns use compact encodings: meeting times as
// "Monday 09:00-10:00;Wednesday 09:00-10:00", id lists comma-separated.
type courseRow struct {
	ID                string `csv:"id"`
	Code              string `csv:"code"`
	Title             string `csv:"title"`
	Description       string `csv:"description"`
	Credits           int    `csv:"credits"`
	Department        string `csv:"department"`
	Instructor        string `csv:"instructor"`
	MeetingTimes      string `csv:"meeting_times"`
	Prerequisites     string `csv:"prerequisites"`
	Corequisites      string `csv:"corequisites"`
	Fulfills          string `csv:"fulfills"`
	Semester          string `csv:"semester"`
	Year              int    `csv:"year"`
	MaxEnrollment     int    `csv:"max_enrollment"`
	CurrentEnrollment int    `csv:"current_enrollment"`
	Location          string `csv:"location"`
}

// LoadFromCSV loads courses from a registrar CSV export
func (l *Loader) LoadFromCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	var rows []*courseRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}

	for _, row := range rows {
		course, err := row.toCourse()
		if err != nil {
			slog.Warn("skipping invalid course row", "file", path, "course", row.ID, "error", err)
			continue
		}
		if err := l.add(course); err != nil {
			slog.Warn("skipping invalid course", "file", path, "course", course.ID, "error", err)
		}
	}

	return nil
}

func (row *courseRow) toCourse() (*models.Course, error) {
	course := &models.Course{
		ID:                row.ID,
		Code:              row.Code,
		Title:             row.Title,
		Description:       row.Description,
		Credits:           row.Credits,
		Department:        row.Department,
		Instructor:        row.Instructor,
		Prerequisites:     splitList(row.Prerequisites),
		Corequisites:      splitList(row.Corequisites),
		Semester:          models.Semester(row.Semester),
		Year:              row.Year,
		MaxEnrollment:     row.MaxEnrollment,
		CurrentEnrollment: row.CurrentEnrollment,
		Location:          row.Location,
	}

	for _, cat := range splitList(row.Fulfills) {
		course.Fulfills = append(course.Fulfills, models.RequirementCategory(cat))
	}

	for _, raw := range strings.Split(row.MeetingTimes, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		slot, err := parseSlot(raw)
		if err != nil {
			return nil, fmt.Errorf("meeting time %q: %w", raw, err)
		}
		course.MeetingTimes = append(course.MeetingTimes, slot)
	}

	return course, nil
}

// parseSlot parses "Monday 09:00-10:00"
func parseSlot(raw string) (models.TimeSlot, error) {
	day, window, ok := strings.Cut(raw, " ")
	if !ok {
		return models.TimeSlot{}, fmt.Errorf("expected \"Day HH:MM-HH:MM\"")
	}
	start, end, ok := strings.Cut(window, "-")
	if !ok {
		return models.TimeSlot{}, fmt.Errorf("expected \"Day HH:MM-HH:MM\"")
	}

	slot := models.TimeSlot{
		Day:       models.DayOfWeek(day),
		StartTime: strings.TrimSpace(start),
		EndTime:   strings.TrimSpace(end),
	}
	return slot, slot.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// add validates and registers a course. Time validation happens here, at
// the ingestion boundary, so the scheduling engine never sees input it
// has to reject.
func (l *Loader) add(course *models.Course) error {
	if course.ID == "" {
		return fmt.Errorf("course id is required")
	}
	if course.Code == "" {
		return fmt.Errorf("course code is required")
	}
	for _, slot := range course.MeetingTimes {
		if err := slot.Validate(); err != nil {
			return fmt.Errorf("meeting time on %s: %w", slot.Day, err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byID[course.ID]; exists {
		return fmt.Errorf("duplicate course id %q", course.ID)
	}

	l.byID[course.ID] = course
	l.byCode[course.Code] = course
	l.ordered = append(l.ordered, course)
	return nil
}

// Add programmatically registers a course (used by tests)
func (l *Loader) Add(course *models.Course) error {
	return l.add(course)
}

// Get retrieves a course by id
func (l *Loader) Get(id string) *models.Course {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byID[id]
}

// GetByCode retrieves a course by its catalog code (e.g. "CMSC 106")
func (l *Loader) GetByCode(code string) *models.Course {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byCode[code]
}

// List returns all courses in load order
func (l *Loader) List() []*models.Course {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*models.Course, len(l.ordered))
	copy(result, l.ordered)
	return result
}

// Departments returns the distinct department names in load order
func (l *Loader) Departments() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	seen := make(map[string]bool)
	var result []string
	for _, c := range l.ordered {
		if c.Department != "" && !seen[c.Department] {
			seen[c.Department] = true
			result = append(result, c.Department)
		}
	}
	return result
}

// Count returns the number of loaded courses
func (l *Loader) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ordered)
}
