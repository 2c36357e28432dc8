package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vmunix/streamverse/internal/catalog"
	"github.com/vmunix/streamverse/internal/embed"
	"github.com/vmunix/streamverse/internal/tmdb"
)

type showResponse struct {
	Show    *tmdb.Show  `json:"show"`
	Similar []tmdb.Show `json:"similar"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Page    int         `json:"page"`
	Results []tmdb.Show `json:"results"`
}

func (s *Server) writeCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPage):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Page not found")
	case errors.Is(err, tmdb.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Show not found")
	case errors.Is(err, tmdb.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		s.logger.Error("catalog request failed", "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
	}
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	page, err := s.deps.Catalog.Page(r.Context(), r.PathValue("page"))
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) getShow(w http.ResponseWriter, r *http.Request) {
	mt := tmdb.MediaType(r.PathValue("type"))
	if !mt.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or tv")
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	show, similar, err := s.deps.Catalog.Show(r.Context(), mt, id)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	if similar == nil {
		similar = []tmdb.Show{}
	}
	writeJSON(w, http.StatusOK, showResponse{Show: show, Similar: similar})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", "q is required")
		return
	}
	page := max(queryInt(r, "page", 1), 1)

	results, err := s.deps.Catalog.Search(r.Context(), q, page)
	if err != nil {
		s.writeCatalogError(w, err)
		return
	}
	if results == nil {
		results = []tmdb.Show{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: q, Page: page, Results: results})
}

// getEmbed resolves the player for /embed/{type}/{slug}. Episodes take
// season and episode query parameters.
func (s *Server) getEmbed(w http.ResponseWriter, r *http.Request) {
	mediaType := r.PathValue("type")
	if mediaType != embed.Movie && mediaType != embed.TV {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be movie or tv")
		return
	}
	id, err := embed.ParseSlug(r.PathValue("slug"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_SLUG", err.Error())
		return
	}

	stream, err := s.deps.Streams.Resolve(r.Context(), mediaType, id, queryInt(r, "season", 1), queryInt(r, "episode", 1))
	if err != nil {
		if errors.Is(err, embed.ErrNoStream) {
			writeError(w, http.StatusNotFound, "NO_STREAM", embed.MsgNoStream)
			return
		}
		s.logger.Error("stream resolve failed", "type", mediaType, "id", id, "error", err)
		writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stream)
}
