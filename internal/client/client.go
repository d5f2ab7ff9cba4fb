// Package client talks to the FitHome REST API. A cookie jar keeps the
// server-side session so the home screen suggestion and the generated plan
// follow the caller across requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/claude/fithome/internal/home"
	"github.com/claude/fithome/internal/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrGenerationFailed = errors.New(home.GenerateFailedMessage)
)

// User mirrors the server's caller identity.
type User struct {
	ID          int    `json:"id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

// HomeResponse is the mounted home screen plus the toasts raised while loading it.
type HomeResponse struct {
	View   home.View `json:"view"`
	Toasts []string  `json:"toasts"`
}

// StartResult is the outcome of starting the suggested workout.
type StartResult struct {
	Navigation *home.Navigation `json:"navigation,omitempty"`
	Toasts     []string         `json:"toasts"`
	Error      string           `json:"error,omitempty"`
}

// Client calls the FitHome API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client targeting the given base URL.
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
			Jar:     jar,
		},
	}
}

// statusError is a non-2xx response.
type statusError struct {
	path   string
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("client: %s returned %d: %s", e.path, e.status, bytes.TrimSpace(e.body))
}

func (c *Client) do(ctx context.Context, method, path string, in any) ([]byte, int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, 0, fmt.Errorf("client: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("client: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("client: read body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// call performs a request and decodes a 2xx JSON response into out.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	data, status, err := c.do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("client: %s: %w", path, ErrNotFound)
	}
	if status < 200 || status > 299 {
		return &statusError{path: path, status: status, body: data}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// Me returns the caller's identity.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/api/v1/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateDisplayName changes the caller's display name.
func (c *Client) UpdateDisplayName(ctx context.Context, name string) (*User, error) {
	var u User
	err := c.call(ctx, http.MethodPut, "/api/v1/me", map[string]string{"display_name": name}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Home mounts the home screen for this client's session.
func (c *Client) Home(ctx context.Context) (*HomeResponse, error) {
	var resp HomeResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/home", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartSuggested generates the suggested workout shown by the last Home call.
// A failed generation returns the toasts alongside ErrGenerationFailed.
func (c *Client) StartSuggested(ctx context.Context) (*StartResult, error) {
	const path = "/api/v1/home/suggested/start"
	data, status, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusBadGateway:
		var res StartResult
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("client: decode %s: %w", path, err)
		}
		if status == http.StatusBadGateway {
			return &res, ErrGenerationFailed
		}
		return &res, nil
	case http.StatusConflict:
		return nil, home.ErrAlreadyGenerating
	default:
		return nil, &statusError{path: path, status: status, body: data}
	}
}

// SuggestedPlan reads back the last generated suggested workout.
func (c *Client) SuggestedPlan(ctx context.Context) (*home.GeneratedRecord, error) {
	var rec home.GeneratedRecord
	if err := c.call(ctx, http.MethodGet, "/api/v1/home/suggested/plan", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Stats returns the statistics snapshot.
func (c *Client) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := c.call(ctx, http.MethodGet, "/api/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Routines returns saved routines, oldest first.
func (c *Client) Routines(ctx context.Context) ([]models.Routine, error) {
	var routines []models.Routine
	if err := c.call(ctx, http.MethodGet, "/api/v1/routines", nil, &routines); err != nil {
		return nil, err
	}
	return routines, nil
}

// Routine returns one saved routine.
func (c *Client) Routine(ctx context.Context, id uuid.UUID) (*models.Routine, error) {
	var r models.Routine
	if err := c.call(ctx, http.MethodGet, "/api/v1/routines/"+id.String(), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveRoutine stores a plan under a name.
func (c *Client) SaveRoutine(ctx context.Context, name string, prefs models.Preferences, plan models.Plan) (*models.Routine, error) {
	in := map[string]any{"name": name, "preferences": prefs, "plan": plan}
	var r models.Routine
	if err := c.call(ctx, http.MethodPost, "/api/v1/routines", in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// LogWorkout records a completed workout.
func (c *Client) LogWorkout(ctx context.Context, routineID *uuid.UUID, duration time.Duration) error {
	in := map[string]any{"routine_id": routineID, "duration_sec": int(duration.Seconds())}
	return c.call(ctx, http.MethodPost, "/api/v1/workouts/log", in, nil)
}

// NextChallenge returns the nearest uncompleted achievement tier, or nil.
func (c *Client) NextChallenge(ctx context.Context) (*models.NextChallenge, error) {
	var next *models.NextChallenge
	if err := c.call(ctx, http.MethodGet, "/api/v1/challenges/next", nil, &next); err != nil {
		return nil, err
	}
	return next, nil
}

// Achievements returns every achievement definition.
func (c *Client) Achievements(ctx context.Context) ([]models.Achievement, error) {
	var defs []models.Achievement
	if err := c.call(ctx, http.MethodGet, "/api/v1/achievements", nil, &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// GeneratePlan asks the server for a plan matching prefs.
func (c *Client) GeneratePlan(ctx context.Context, prefs models.Preferences) (*models.Plan, error) {
	var plan models.Plan
	if err := c.call(ctx, http.MethodPost, "/api/v1/plans/generate", prefs, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
