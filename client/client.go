// Package client provides an HTTP client for the EduRate REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edurate/concurrent"
	"edurate/models"
	"edurate/services"
	"edurate/vote"
)

// Client is an HTTP client for the EduRate API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ vote.Voter = (*Client)(nil)

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-success answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// ListCourses returns courses newest first, narrowed by f.
func (c *Client) ListCourses(ctx context.Context, f services.Filter) ([]models.Course, error) {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.Department != "" {
		params.Set("department", f.Department)
	}
	path := "/api/courses"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var courses []models.Course
	if err := c.get(ctx, path, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Departments(ctx context.Context) ([]string, error) {
	var departments []string
	if err := c.get(ctx, "/api/courses/departments", &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := c.get(ctx, fmt.Sprintf("/api/courses/%d", id), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// ListReviews returns a course's reviews, newest first.
func (c *Client) ListReviews(ctx context.Context, courseID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.get(ctx, fmt.Sprintf("/api/courses/%d/reviews", courseID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CourseDetails fetches a course and its reviews in parallel.
func (c *Client) CourseDetails(ctx context.Context, id int64) (*models.Course, []models.Review, error) {
	return concurrent.Pair(ctx,
		func(ctx context.Context) (*models.Course, error) { return c.GetCourse(ctx, id) },
		func(ctx context.Context) ([]models.Review, error) { return c.ListReviews(ctx, id) },
	)
}

// SubmitReview posts a review. An empty name is sent as absent so the server
// records the review anonymously.
func (c *Client) SubmitReview(ctx context.Context, courseID int64, rating float64, comment, name string) (*models.Review, error) {
	body := map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}
	if name != "" {
		body["student_name"] = name
	}

	var created models.Review
	if err := c.post(ctx, fmt.Sprintf("/api/courses/%d/reviews", courseID), body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Vote sends one up or down vote. A non-empty switchFrom retracts that earlier
// vote in the same request.
func (c *Client) Vote(ctx context.Context, courseID, reviewID int64, dir, switchFrom vote.Direction) (*models.Review, error) {
	if dir != vote.Up && dir != vote.Down {
		return nil, fmt.Errorf("invalid vote direction %q", string(dir))
	}

	var body interface{}
	if switchFrom != vote.None {
		body = map[string]string{"switch_from": string(switchFrom)}
	}

	var updated models.Review
	path := fmt.Sprintf("/api/courses/%d/reviews/%d/%svote", courseID, reviewID, dir)
	if err := c.post(ctx, path, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post sends body as JSON. A nil body sends no payload.
func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, result)
}

// do executes req and unpacks the response envelope into result.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode >= 400 || (decodeErr == nil && !env.Success) {
		msg := env.Error
		if decodeErr != nil || msg == "" {
			msg = "server error: " + http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decoding response: %w", decodeErr)
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
