package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/schemer-edu/schemer-server/internal/models"
)

// Client is a Go SDK for the schemer-server API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the session token used for authenticated endpoints
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new schemer-server client. The token is optional;
// the validation and catalog endpoints are public.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Login authenticates and stores the returned token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.post(ctx, "/api/v1/auth/login", models.LoginRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}

	c.token = out.Token
	return &out, nil
}

// ValidateSchedule runs the full conflict audit on a schedule
func (c *Client) ValidateSchedule(ctx context.Context, req models.ValidateScheduleRequest) (*models.ScheduleValidation, error) {
	var out models.ScheduleValidation
	if err := c.post(ctx, "/api/v1/schedule/validate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CanAdd asks whether a single course can join a schedule
func (c *Client) CanAdd(ctx context.Context, req models.CanAddRequest) (*models.AddDecision, error) {
	var out models.AddDecision
	if err := c.post(ctx, "/api/v1/schedule/can-add", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchCourses runs a simple query-string search
func (c *Client) SearchCourses(ctx context.Context, query string) ([]models.Course, error) {
	path := "/api/v1/courses/"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var out struct {
		Courses []models.Course `json:"courses"`
		Total   int             `json:"total"`
	}
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// SearchCoursesAdvanced runs the full filter set
func (c *Client) SearchCoursesAdvanced(ctx context.Context, filters models.CourseFilters, sortBy *models.SortOption) ([]models.Course, error) {
	body := struct {
		Filters models.CourseFilters `json:"filters"`
		SortBy  *models.SortOption   `json:"sortBy,omitempty"`
	}{Filters: filters, SortBy: sortBy}

	var out struct {
		Courses []models.Course `json:"courses"`
		Total   int             `json:"total"`
	}
	if err := c.post(ctx, "/api/v1/courses/search", body, &out); err != nil {
		return nil, err
	}
	return out.Courses, nil
}

// GetCourse fetches one catalog course by id or code
func (c *Client) GetCourse(ctx context.Context, id string) (*models.Course, error) {
	var out models.Course
	if err := c.get(ctx, "/api/v1/courses/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSchedule fetches the caller's schedule for one term
func (c *Client) GetSchedule(ctx context.Context, semester models.Semester, year int) (*models.SemesterSchedule, error) {
	path := fmt.Sprintf("/api/v1/me/schedule/?semester=%s&year=%d", url.QueryEscape(string(semester)), year)

	var out models.SemesterSchedule
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCourse adds a catalog course to the caller's schedule
func (c *Client) AddCourse(ctx context.Context, req models.AddCourseRequest) (*models.ScheduledCourse, error) {
	var out models.ScheduledCourse
	if err := c.post(ctx, "/api/v1/me/schedule/courses", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCourse removes a course from the caller's schedule
func (c *Client) RemoveCourse(ctx context.Context, courseID string, semester models.Semester, year int) error {
	path := fmt.Sprintf("/api/v1/me/schedule/courses/%s?semester=%s&year=%d",
		url.PathEscape(courseID), url.QueryEscape(string(semester)), year)

	resp, err := c.doRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := c.doRequest(ctx, "GET", "/health", nil)
	return err
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	resp, err := c.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.doRequest(ctx, "POST", path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return decodeEnvelope(resp, out)
}

func decodeEnvelope(resp []byte, out interface{}) error {
	var env apiEnvelope
	if err := json.Unmarshal(resp, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("API error: %s - %s", env.Error.Code, env.Error.Message)
		}
		return fmt.Errorf("API error: request failed")
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response data: %w", err)
	}
	return nil
}

// doRequest performs an HTTP request
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Error statuses still carry the envelope; surface its message.
	if resp.StatusCode >= 400 {
		var env apiEnvelope
		if jsonErr := json.Unmarshal(respBody, &env); jsonErr == nil && env.Error != nil {
			return nil, fmt.Errorf("HTTP %d: %s - %s", resp.StatusCode, env.Error.Code, env.Error.Message)
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
