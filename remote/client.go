// Package remote talks to the authoritative tracking service: account
// operations, per-day log writes, and full-snapshot reads. The service owns
// the data; this process only mirrors it.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ichika06/ojt-tracker/timelog"
)

// ErrUnauthorized reports a rejected credential or an expired session.
var ErrUnauthorized = errors.New("remote: unauthorized")

// User is the identity the auth endpoints return. Verified mirrors the
// service's email-verification flag; the session layer refuses to treat an
// unverified identity as authenticated.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Token    string `json:"token"`
}

// Client defines the remote operations the rest of the application consumes.
// Reads deliver full snapshots, never deltas.
type Client interface {
	SignUp(ctx context.Context, email, password string) (User, error)
	SignIn(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context) error

	FetchLogEntries(ctx context.Context, userID string) ([]timelog.Entry, error)
	FetchGoal(ctx context.Context, userID string) (float64, error)
	WriteLogEntry(ctx context.Context, userID string, entry timelog.Entry) error
	DeleteLogEntry(ctx context.Context, userID, date string) error
	WriteGoal(ctx context.Context, userID string, goal float64) error
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	AuthToken  string
	UserAgent  string
	HTTPClient httpDoer
}

// HTTPClient is the JSON-over-HTTP implementation of Client.
type HTTPClient struct {
	baseURL    string
	authToken  string
	userAgent  string
	httpClient httpDoer
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		authToken:  strings.TrimSpace(cfg.AuthToken),
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

// SetAuthToken installs the session token for subsequent requests.
func (c *HTTPClient) SetAuthToken(token string) {
	c.authToken = strings.TrimSpace(token)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User User `json:"user"`
}

type logEntriesResponse struct {
	Entries []timelog.Entry `json:"entries"`
}

type goalPayload struct {
	TotalGoal float64 `json:"totalGoal"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, password string) (User, error) {
	var out authResponse
	body := credentialsRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return User{}, err
	}
	return out.User, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, email, password string) (User, error) {
	var out authResponse
	body := credentialsRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/signin", body, &out); err != nil {
		return User{}, err
	}
	c.authToken = out.User.Token
	return out.User, nil
}

func (c *HTTPClient) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/signout", nil, nil)
	c.authToken = ""
	return err
}

func (c *HTTPClient) FetchLogEntries(ctx context.Context, userID string) ([]timelog.Entry, error) {
	var out logEntriesResponse
	path := fmt.Sprintf("/api/users/%s/timelogs", url.PathEscape(userID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *HTTPClient) FetchGoal(ctx context.Context, userID string) (float64, error) {
	var out goalPayload
	path := fmt.Sprintf("/api/users/%s/goal", url.PathEscape(userID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return 0, err
	}
	return out.TotalGoal, nil
}

func (c *HTTPClient) WriteLogEntry(ctx context.Context, userID string, entry timelog.Entry) error {
	path := fmt.Sprintf(
		"/api/users/%s/timelogs/%s",
		url.PathEscape(userID),
		url.PathEscape(entry.Date),
	)
	return c.doJSON(ctx, http.MethodPut, path, entry, nil)
}

func (c *HTTPClient) DeleteLogEntry(ctx context.Context, userID, date string) error {
	path := fmt.Sprintf(
		"/api/users/%s/timelogs/%s",
		url.PathEscape(userID),
		url.PathEscape(date),
	)
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) WriteGoal(ctx context.Context, userID string, goal float64) error {
	path := fmt.Sprintf("/api/users/%s/goal", url.PathEscape(userID))
	return c.doJSON(ctx, http.MethodPut, path, goalPayload{TotalGoal: goal}, nil)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, endpointPath string, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpointPath, bodyReader)
	if err != nil {
		return fmt.Errorf("create request %s %s: %w", method, endpointPath, err)
	}

	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, endpointPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s", ErrUnauthorized, strings.TrimSpace(string(responseBody)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf(
			"request %s %s failed with status %d: %s",
			method,
			endpointPath,
			resp.StatusCode,
			strings.TrimSpace(string(responseBody)),
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response %s %s: %w", method, endpointPath, err)
	}
	return nil
}
