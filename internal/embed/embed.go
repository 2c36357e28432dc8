// Package embed resolves the player URL for a movie or episode.
package embed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/streamverse/pkg/title"
)

var (
	// ErrNoStream means neither the provider nor any template produced a URL.
	ErrNoStream = errors.New("no working stream found")

	// ErrInvalidSlug is returned when a slug doesn't end in a numeric id.
	ErrInvalidSlug = errors.New("invalid watch slug")
)

// MsgNoStream is shown to the user in place of the player when ErrNoStream is returned.
const MsgNoStream = "Sorry, we couldn't find a working stream for this title."

// Defaults used when configuration leaves them empty.
const (
	DefaultProviderURL = "https://streamverse-providers-17iy.onrender.com"
	DefaultMovieURL    = "https://embed.su/embed/movie/{id}"
	DefaultTVURL       = "https://vidbinge.dev/embed/tv/{id}/{season}/{episode}"
)

// Media types accepted by Resolve.
const (
	Movie = "movie"
	TV    = "tv"
)

// ParseSlug returns the id after the last '-' of a watch slug such as
// "dune-part-two-693134". A bare id is also accepted.
func ParseSlug(slug string) (int64, error) {
	idx := strings.LastIndex(slug, "-")
	id, err := strconv.ParseInt(slug[idx+1:], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	return id, nil
}

// Slug builds the watch slug for a show, e.g. Slug(693134, "Dune: Part Two")
// is "dune-part-two-693134".
func Slug(id int64, showTitle string) string {
	s := title.Slug(showTitle)
	if s == "" {
		return strconv.FormatInt(id, 10)
	}
	return s + "-" + strconv.FormatInt(id, 10)
}

// Stream is a resolved player URL.
type Stream struct {
	URL    string `json:"url"`
	Source string `json:"source"` // "provider" or "template"
}

// Config configures a Resolver.
type Config struct {
	ProviderURL    string   // empty disables the provider lookup
	MovieTemplates []string // tried in order; {id}
	TVTemplates    []string // tried in order; {id} {season} {episode}
}

// Resolver finds an embeddable stream URL.
type Resolver struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) { r.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver.
func NewResolver(cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cfg.ProviderURL = strings.TrimRight(r.cfg.ProviderURL, "/")
	return r
}

// Resolve returns the player URL for a movie, or for an episode of a series.
// Movies ask the provider service first. Episode numbers below 1 become 1.
func (r *Resolver) Resolve(ctx context.Context, mediaType string, id int64, season, episode int) (*Stream, error) {
	switch mediaType {
	case Movie:
		if r.cfg.ProviderURL != "" {
			url, err := r.fromProvider(ctx, id)
			if err != nil {
				r.logger.Warn("embed provider failed", "id", id, "error", err)
			} else if url != "" {
				return &Stream{URL: url, Source: "provider"}, nil
			}
		}
		return r.fromTemplates(r.cfg.MovieTemplates, id, 0, 0)
	case TV:
		return r.fromTemplates(r.cfg.TVTemplates, id, max(season, 1), max(episode, 1))
	}
	return nil, fmt.Errorf("unsupported media type %q", mediaType)
}

func (r *Resolver) fromProvider(ctx context.Context, id int64) (string, error) {
	url := fmt.Sprintf("%s/api/embed/%d", r.cfg.ProviderURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider error: %s", resp.Status)
	}
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.URL, nil
}

func (r *Resolver) fromTemplates(templates []string, id int64, season, episode int) (*Stream, error) {
	for _, tmpl := range templates {
		if tmpl == "" {
			continue
		}
		url := strings.NewReplacer(
			"{id}", strconv.FormatInt(id, 10),
			"{season}", strconv.Itoa(season),
			"{episode}", strconv.Itoa(episode),
		).Replace(tmpl)
		return &Stream{URL: url, Source: "template"}, nil
	}
	return nil, ErrNoStream
}
