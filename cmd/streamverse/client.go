package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/streamverse/internal/account"
	"github.com/vmunix/streamverse/internal/lists"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Client wraps HTTP calls to the streamverse server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client. token may be empty.
func NewClient(serverURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(serverURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal error: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// do sends the request and decodes a 2xx body into result when result is non-nil.
func (c *Client) do(method, path string, body, result any) error {
	req, err := c.newRequest(method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}

func (c *Client) get(path string, result any) error {
	return c.do(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body, result any) error {
	return c.do(http.MethodPost, path, body, result)
}

func (c *Client) patch(path string, body, result any) error {
	return c.do(http.MethodPatch, path, body, result)
}

func (c *Client) delete(path string, result any) error {
	return c.do(http.MethodDelete, path, nil, result)
}

// StatusResponse is the server health summary.
type StatusResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	SSOEnabled bool   `json:"sso_enabled"`
	Catalog    bool   `json:"catalog"`
	Streams    bool   `json:"streams"`
}

// Identity is the signed-in user.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// SessionResponse is returned by login and register.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Identity  `json:"user"`
}

// ListItem is a watch-later entry, possibly not yet confirmed by the store.
type ListItem struct {
	lists.Item
	Pending bool `json:"pending,omitempty"`
}

// ListResponse is the watch-later list.
type ListResponse struct {
	Items     []ListItem `json:"items"`
	Total     int        `json:"total"`
	FetchedAt *time.Time `json:"fetchedAt,omitempty"`
}

// HistoryResponse is the viewing history.
type HistoryResponse struct {
	Items []lists.Item `json:"items"`
	Total int          `json:"total"`
}

// Indicator is the watch-later badge state for one title.
type Indicator struct {
	Member bool `json:"member"`
	Busy   bool `json:"busy"`
}

// Notification is a user-facing message emitted by list operations.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ToggleResponse is the outcome of a watch-later toggle.
type ToggleResponse struct {
	Indicator    Indicator     `json:"indicator"`
	Notification *Notification `json:"notification"`
}

// EventResponse is one persisted event.
type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt string          `json:"occurred_at"`
}

// EventsResponse is a page of the caller's events.
type EventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(email, password string) (*SessionResponse, error) {
	var resp SessionResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post("/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(email, password, name string) (*SessionResponse, error) {
	var resp SessionResponse
	body := map[string]string{"email": email, "password": password, "displayName": name}
	if err := c.post("/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout() error {
	return c.post("/api/v1/auth/logout", nil, nil)
}

func (c *Client) Me() (*account.Profile, error) {
	var resp account.Profile
	if err := c.get("/api/v1/auth/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) WatchLater(query string, refresh bool) (*ListResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if refresh {
		params.Set("refresh", "true")
	}
	path := "/api/v1/watchlater"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp ListResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AddWatchLater(item lists.NewItem) (*lists.Item, error) {
	var resp lists.Item
	if err := c.post("/api/v1/watchlater", item, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveWatchLater(itemID string) error {
	return c.delete("/api/v1/watchlater/items/"+url.PathEscape(itemID), nil)
}

func (c *Client) CheckWatchLater(contentID int64) (*Indicator, error) {
	var resp Indicator
	if err := c.get("/api/v1/watchlater/"+strconv.FormatInt(contentID, 10), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ToggleWatchLater(show lists.Show) (*ToggleResponse, error) {
	var resp ToggleResponse
	body := map[string]any{"show": show}
	if err := c.post("/api/v1/watchlater/toggle", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) History(query string, limit int) (*HistoryResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/history"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp HistoryResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ClearHistory() (int64, error) {
	var resp struct {
		Removed int64 `json:"removed"`
	}
	if err := c.delete("/api/v1/history", &resp); err != nil {
		return 0, err
	}
	return resp.Removed, nil
}

func (c *Client) RemoveHistory(itemID string) error {
	return c.delete("/api/v1/history/"+url.PathEscape(itemID), nil)
}

func (c *Client) Settings() (*account.Settings, error) {
	var resp account.Settings
	if err := c.get("/api/v1/settings", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateSettings(patch account.SettingsPatch) (*account.Settings, error) {
	var resp account.Settings
	if err := c.patch("/api/v1/settings", patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Events(limit int) (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.get(fmt.Sprintf("/api/v1/events?limit=%d", limit), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
