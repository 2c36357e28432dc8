// Package catalog assembles the browse pages from TMDB rows and caches them.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/streamverse/internal/tmdb"
)

// DefaultRowTTL matches the browse pages' hourly revalidation.
const DefaultRowTTL = time.Hour

// ErrUnknownPage is returned for page names not in Pages.
var ErrUnknownPage = errors.New("unknown catalog page")

// Source is the metadata backend. *tmdb.Client implements it.
type Source interface {
	Row(ctx context.Context, req tmdb.RowRequest) ([]tmdb.Show, error)
	Show(ctx context.Context, mediaType tmdb.MediaType, id int64) (*tmdb.Show, error)
	Search(ctx context.Context, query string, page int) ([]tmdb.Show, error)
}

// Row is a rendered row.
type Row struct {
	Title string      `json:"title"`
	Shows []tmdb.Show `json:"shows"`
}

// PageResult is a rendered browse page.
type PageResult struct {
	Name     string     `json:"name"`
	Featured *tmdb.Show `json:"featured,omitempty"`
	Rows     []Row      `json:"rows"`
}

// Service builds catalog pages.
type Service struct {
	source      Source
	cache       *Cache
	ttl         time.Duration
	concurrency int
	logger      *slog.Logger
	pick        func(n int) int
}

// NewService creates a catalog service. cache may be nil to disable row caching.
func NewService(source Source, cache *Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultRowTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:      source,
		cache:       cache,
		ttl:         ttl,
		concurrency: 4,
		logger:      logger.With("component", "catalog"),
		pick:        rand.IntN,
	}
}

// Page renders the named page. Rows that fail to load are logged and left out.
func (s *Service) Page(ctx context.Context, name string) (*PageResult, error) {
	specs, ok := Pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}

	rows := make([]*Row, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			shows, err := s.Row(gctx, spec.Request)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				s.logger.Warn("row failed", "page", name, "row", spec.Title, "error", err)
				return nil
			}
			rows[i] = &Row{Title: spec.Title, Shows: shows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &PageResult{Name: name, Rows: make([]Row, 0, len(rows))}
	for _, r := range rows {
		if r != nil && len(r.Shows) > 0 {
			result.Rows = append(result.Rows, *r)
		}
	}
	result.Featured = s.featured(result.Rows)
	return result, nil
}

// featured picks a random show with a backdrop from the first row.
func (s *Service) featured(rows []Row) *tmdb.Show {
	if len(rows) == 0 {
		return nil
	}
	var candidates []tmdb.Show
	for _, show := range rows[0].Shows {
		if show.BackdropPath != "" {
			candidates = append(candidates, show)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	show := candidates[s.pick(len(candidates))]
	return &show
}

func rowKey(req tmdb.RowRequest) string {
	return fmt.Sprintf("row:%s:%s:%d:%d:%d", req.Kind, req.MediaType, req.Genre, req.ShowID, req.Page)
}

// Row returns one row, from the cache when fresh.
func (s *Service) Row(ctx context.Context, req tmdb.RowRequest) ([]tmdb.Show, error) {
	key := rowKey(req)
	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, key); ok {
			var shows []tmdb.Show
			if err := json.Unmarshal(data, &shows); err == nil {
				return shows, nil
			}
			s.logger.Debug("discarding undecodable cached row", "key", key)
		}
	}

	shows, err := s.source.Row(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(shows); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
				s.logger.Warn("row cache write failed", "key", key, "error", err)
			}
		}
	}
	return shows, nil
}

// Show returns one show with the rows shown on its detail page.
func (s *Service) Show(ctx context.Context, mediaType tmdb.MediaType, id int64) (*tmdb.Show, []tmdb.Show, error) {
	show, err := s.source.Show(ctx, mediaType, id)
	if err != nil {
		return nil, nil, err
	}
	similar, err := s.Row(ctx, tmdb.RowRequest{Kind: tmdb.RowSimilar, MediaType: mediaType, ShowID: id})
	if err != nil {
		s.logger.Warn("similar row failed", "media_type", mediaType, "id", id, "error", err)
		similar = []tmdb.Show{}
	}
	return show, similar, nil
}

// Search finds shows by title.
func (s *Service) Search(ctx context.Context, query string, page int) ([]tmdb.Show, error) {
	return s.source.Search(ctx, query, page)
}

// Prune drops expired cached rows.
func (s *Service) Prune(ctx context.Context) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.Prune(ctx)
}
