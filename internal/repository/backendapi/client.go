package backendapi

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

	"github.com/yourusername/quizsetup-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
)

// Client talks to the quiz backend over HTTP and implements
// repository.BackendClient.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend API client. baseURL must not be empty.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetCategory returns category metadata by ID.
func (c *Client) GetCategory(ctx context.Context, id string) (*entity.Category, error) {
	body, err := c.get(ctx, "/api/categories/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	var category entity.Category
	if err := unwrapData(body, &category); err != nil {
		return nil, fmt.Errorf("failed to parse category response: %w", err)
	}
	if category.ID == "" {
		category.ID = id
	}
	return &category, nil
}

// GetQuestionStats returns aggregate question counts for a category.
func (c *Client) GetQuestionStats(ctx context.Context, categoryID string) (*entity.QuestionStats, error) {
	body, err := c.get(ctx, "/api/categories/"+url.PathEscape(categoryID)+"/question-stats")
	if err != nil {
		return nil, err
	}
	var stats entity.QuestionStats
	if err := unwrapData(body, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse question stats response: %w", err)
	}
	return &stats, nil
}

// GetQuizHistory returns past sessions for a category. Accepts both
// {"sessions": [...]} and a bare array.
func (c *Client) GetQuizHistory(ctx context.Context, categoryID string) ([]entity.QuizHistoryEntry, error) {
	body, err := c.get(ctx, "/api/categories/"+url.PathEscape(categoryID)+"/quiz-history")
	if err != nil {
		return nil, err
	}
	var history []entity.QuizHistoryEntry
	if err := unwrapList(body, "sessions", &history); err != nil {
		return nil, fmt.Errorf("failed to parse quiz history response: %w", err)
	}
	return history, nil
}

// GetChapters returns the chapter list for a category. Accepts both
// {"chapters": [...]} and a bare array.
func (c *Client) GetChapters(ctx context.Context, categoryID string) ([]string, error) {
	body, err := c.get(ctx, "/api/categories/"+url.PathEscape(categoryID)+"/chapters")
	if err != nil {
		return nil, err
	}
	var chapters []string
	if err := unwrapList(body, "chapters", &chapters); err != nil {
		return nil, fmt.Errorf("failed to parse chapters response: %w", err)
	}
	return chapters, nil
}

// CreateQuizSession posts the full settings object and returns the new
// session identifier. The settings JSON shape is the API contract — all
// fields go out regardless of the active selection/timer mode.
func (c *Client) CreateQuizSession(ctx context.Context, categoryID string, settings entity.QuizSettings) (string, error) {
	payload, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("failed to marshal quiz settings: %w", err)
	}

	endpoint := c.baseURL + "/api/categories/" + url.PathEscape(categoryID) + "/quiz-sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: quiz backend unreachable: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read session response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", backendError(resp.StatusCode, body)
	}

	var created struct {
		SessionID flexibleID `json:"session_id"`
	}
	if err := unwrapData(body, &created); err != nil {
		return "", fmt.Errorf("failed to parse session response: %w", err)
	}
	if created.SessionID == "" {
		return "", fmt.Errorf("session_id missing in backend response")
	}
	return string(created.SessionID), nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: quiz backend unreachable: %v", apperrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp.StatusCode, body)
	}
	return body, nil
}

// backendError maps a non-2xx backend response onto the app error taxonomy,
// preserving the backend-provided message when one is present.
func backendError(status int, body []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Error
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("quiz backend returned status %d", status)
	}

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, msg)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", apperrors.ErrConflict, msg)
	case status >= 400 && status < 500:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msg)
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrUnavailable, msg)
	}
}
