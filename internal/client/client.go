// Package client talks to the learning API and assembles snapshots for the
// views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"nihongo_backend/internal/model"
	"nihongo_backend/internal/util"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// Client is safe for concurrent use. After Login it sends the caller's
// identity, and the session token when the server issued one, on every
// request.
type Client struct {
	baseURL string
	http    *http.Client

	mu       sync.RWMutex
	username string
	role     model.UserRole
	token    string
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Identity returns the logged-in username and role.
func (c *Client) Identity() (string, model.UserRole) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username, c.role
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (http.Header, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.RLock()
	if c.username != "" {
		req.Header.Set(util.UsernameHeader, c.username)
		req.Header.Set(util.RoleHeader, string(c.role))
	}
	if c.token != "" {
		req.Header.Set(util.SessionTokenHeader, c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e util.ErrorResponse
		if json.Unmarshal(data, &e) != nil || e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}
	return resp.Header, nil
}

func (c *Client) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	_, err := c.do(ctx, http.MethodGet, "/api/lessons", nil, &lessons)
	return lessons, err
}

func (c *Client) CreateLesson(ctx context.Context, lesson model.Lesson) (*model.Lesson, error) {
	if lesson.Content == nil {
		lesson.Content = []model.ContentItem{}
	}
	in := map[string]interface{}{
		"title":       lesson.Title,
		"description": lesson.Description,
		"content":     lesson.Content,
	}
	var created model.Lesson
	if _, err := c.do(ctx, http.MethodPost, "/api/lessons", in, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateLesson(ctx context.Context, id, title string, content []model.ContentItem) (*model.Lesson, error) {
	in := map[string]interface{}{"title": title, "content": content}
	var updated model.Lesson
	if _, err := c.do(ctx, http.MethodPut, "/api/lessons/"+url.PathEscape(id), in, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteLesson(ctx context.Context, id string) (*model.DeleteLessonResponse, error) {
	var out model.DeleteLessonResponse
	if _, err := c.do(ctx, http.MethodDelete, "/api/lessons/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	_, err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

// Login logs in or registers and remembers the stored identity for later
// requests.
func (c *Client) Login(ctx context.Context, username string, role model.UserRole) (*model.User, error) {
	var user model.User
	header, err := c.do(ctx, http.MethodPost, "/api/login", map[string]interface{}{
		"username": username,
		"role":     role,
	}, &user)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.username = user.Username
	c.role = user.Role
	c.token = header.Get(util.SessionTokenHeader)
	c.mu.Unlock()
	return &user, nil
}

func (c *Client) Logout() {
	c.mu.Lock()
	c.username, c.role, c.token = "", "", ""
	c.mu.Unlock()
}

func (c *Client) SubmitResult(ctx context.Context, result model.Result) (*model.Result, error) {
	var stored model.Result
	if _, err := c.do(ctx, http.MethodPost, "/api/results", result, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (c *Client) ListResults(ctx context.Context) ([]model.Result, error) {
	var results []model.Result
	_, err := c.do(ctx, http.MethodGet, "/api/results", nil, &results)
	return results, err
}

// StudentResults returns an empty list, not an error, for a student with no
// results.
func (c *Client) StudentResults(ctx context.Context, username string) ([]model.StudentResult, error) {
	var results []model.StudentResult
	_, err := c.do(ctx, http.MethodGet, "/api/results/student/"+url.PathEscape(username), nil, &results)
	if IsNotFound(err) {
		return []model.StudentResult{}, nil
	}
	return results, err
}

func (c *Client) ListActivities(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	_, err := c.do(ctx, http.MethodGet, "/api/activities", nil, &activities)
	return activities, err
}

func (c *Client) DeleteUser(ctx context.Context, username string) (string, error) {
	var out util.MessageResponse
	_, err := c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(username), nil, &out)
	return out.Message, err
}

func (c *Client) ResetSystem(ctx context.Context) (string, error) {
	var out util.MessageResponse
	_, err := c.do(ctx, http.MethodPost, "/api/system/reset", nil, &out)
	return out.Message, err
}

// ToggleBookmark returns "added" or "removed".
func (c *Client) ToggleBookmark(ctx context.Context, b model.Bookmark) (string, error) {
	var out model.ToggleBookmarkResponse
	_, err := c.do(ctx, http.MethodPost, "/api/bookmarks/toggle", map[string]string{
		"username": b.Username,
		"lessonId": b.LessonID,
		"q":        b.Q,
		"a":        b.A,
	}, &out)
	return out.Action, err
}

func (c *Client) Bookmarks(ctx context.Context, username string) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	_, err := c.do(ctx, http.MethodGet, "/api/bookmarks/"+url.PathEscape(username), nil, &bookmarks)
	return bookmarks, err
}
