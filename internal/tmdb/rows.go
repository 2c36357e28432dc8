package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// RowKind selects which TMDB list backs a row.
type RowKind string

const (
	RowTrending RowKind = "TRENDING"
	RowTopRated RowKind = "TOP_RATED"
	RowNetflix  RowKind = "NETFLIX"
	RowPopular  RowKind = "POPULAR"
	RowGenre    RowKind = "GENRE"
	RowSimilar  RowKind = "SIMILAR"
	RowKorean   RowKind = "KOREAN"
)

// RowRequest describes one row of shows.
type RowRequest struct {
	Kind      RowKind   `json:"kind"`
	MediaType MediaType `json:"mediaType"`
	Genre     int       `json:"genre,omitempty"`  // GENRE, optional for KOREAN
	ShowID    int64     `json:"showId,omitempty"` // SIMILAR
	Page      int       `json:"page,omitempty"`
}

// endpoint maps the request to a TMDB path and query.
func (r RowRequest) endpoint() (string, url.Values, error) {
	if !r.MediaType.Valid() {
		return "", nil, fmt.Errorf("%w: media type %q", ErrInvalidRequest, r.MediaType)
	}
	q := url.Values{}
	if r.Page > 0 {
		q.Set("page", strconv.Itoa(r.Page))
	}

	discover := "/3/discover/" + string(r.MediaType)
	switch r.Kind {
	case RowTrending:
		return "/3/trending/" + string(r.MediaType) + "/week", q, nil
	case RowTopRated:
		return "/3/" + string(r.MediaType) + "/top_rated", q, nil
	case RowPopular:
		return "/3/" + string(r.MediaType) + "/popular", q, nil
	case RowNetflix:
		q.Set("with_networks", strconv.Itoa(NetflixNetworkID))
		return discover, q, nil
	case RowGenre:
		if r.Genre == 0 {
			return "", nil, fmt.Errorf("%w: genre row without genre", ErrInvalidRequest)
		}
		q.Set("with_genres", strconv.Itoa(r.Genre))
		return discover, q, nil
	case RowKorean:
		q.Set("with_original_language", "ko")
		if r.Genre != 0 {
			q.Set("with_genres", strconv.Itoa(r.Genre))
		}
		return discover, q, nil
	case RowSimilar:
		if r.ShowID == 0 {
			return "", nil, fmt.Errorf("%w: similar row without show id", ErrInvalidRequest)
		}
		return fmt.Sprintf("/3/%s/%d/similar", r.MediaType, r.ShowID), q, nil
	}
	return "", nil, fmt.Errorf("%w: row kind %q", ErrInvalidRequest, r.Kind)
}

// Row fetches the shows for a row. Results carry the request's media type.
func (c *Client) Row(ctx context.Context, req RowRequest) ([]Show, error) {
	path, query, err := req.endpoint()
	if err != nil {
		return nil, err
	}

	var page Page
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, fmt.Errorf("row %s %s: %w", req.Kind, req.MediaType, err)
	}
	for i := range page.Results {
		if page.Results[i].MediaType == "" {
			page.Results[i].MediaType = req.MediaType
		}
	}
	return page.Results, nil
}
