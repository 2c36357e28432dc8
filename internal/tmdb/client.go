package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/streamverse/pkg/title"
)

const defaultBaseURL = "https://api.themoviedb.org"
const defaultCacheTTL = time.Hour

var (
	// ErrNotFound is returned when a show doesn't exist in TMDB.
	ErrNotFound = errors.New("show not found")

	// ErrInvalidRequest is returned for row or show requests TMDB can't answer.
	ErrInvalidRequest = errors.New("invalid tmdb request")
)

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithCacheTTL sets the response cache TTL. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Prune drops expired cached responses.
func (c *Client) Prune() int {
	return c.cache.prune()
}

// get fetches path and decodes the JSON body into dest, using the cache.
func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	if query == nil {
		query = url.Values{}
	}
	key := path + "?" + query.Encode()

	if body, ok := c.cache.get(key); ok {
		return json.Unmarshal(body, dest)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("TMDB API error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.cache.set(key, body)
	return nil
}

// Show fetches a movie or series with its genres and videos.
func (c *Client) Show(ctx context.Context, mediaType MediaType, id int64) (*Show, error) {
	if !mediaType.Valid() {
		return nil, fmt.Errorf("%w: media type %q", ErrInvalidRequest, mediaType)
	}
	path := fmt.Sprintf("/3/%s/%d", mediaType, id)
	query := url.Values{"append_to_response": {"videos"}}

	var show Show
	if err := c.get(ctx, path, query, &show); err != nil {
		return nil, fmt.Errorf("get %s %d: %w", mediaType, id, err)
	}
	show.MediaType = mediaType
	return &show, nil
}

// Search runs a multi search and returns movies and series, closest title first.
func (c *Client) Search(ctx context.Context, query string, page int) ([]Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Show{}, nil
	}
	if page <= 0 {
		page = 1
	}

	var res Page
	q := url.Values{
		"query":         {query},
		"page":          {strconv.Itoa(page)},
		"include_adult": {"false"},
	}
	if err := c.get(ctx, "/3/search/multi", q, &res); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	shows := make([]Show, 0, len(res.Results))
	titles := make([]string, 0, len(res.Results))
	for _, s := range res.Results {
		if !s.MediaType.Valid() {
			continue // people
		}
		shows = append(shows, s)
		titles = append(titles, s.DisplayTitle())
	}

	out := make([]Show, len(shows))
	for i, r := range title.Rank(query, titles) {
		out[i] = shows[r.Index]
	}
	return out, nil
}
