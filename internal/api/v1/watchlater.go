package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/vmunix/streamverse/internal/lists"
)

// listItemResponse is a list item plus whether it was read back from the store yet.
type listItemResponse struct {
	lists.Item
	Pending bool `json:"pending,omitempty"`
}

type listResponse struct {
	Items     []listItemResponse `json:"items"`
	Total     int                `json:"total"`
	FetchedAt *time.Time         `json:"fetchedAt,omitempty"`
}

type toggleRequest struct {
	Show lists.Show `json:"show"`
	// Member is the indicator the client is showing. When omitted the
	// server checks membership itself first.
	Member *bool `json:"member,omitempty"`
}

func entriesResponse(entries []lists.Entry) []listItemResponse {
	out := make([]listItemResponse, len(entries))
	for i, e := range entries {
		out[i] = listItemResponse{Item: e.Item, Pending: e.Pending()}
	}
	return out
}

// writeListError maps list errors onto HTTP responses.
func (s *Server) writeListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, lists.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "List item not found")
	case errors.Is(err, lists.ErrInvalidItem), errors.Is(err, lists.ErrInvalidProgress):
		writeError(w, http.StatusBadRequest, "INVALID_ITEM", err.Error())
	case errors.Is(err, lists.ErrBusy):
		writeError(w, http.StatusConflict, "BUSY", err.Error())
	default:
		s.logger.Error("list operation failed", "error", err)
		writeError(w, http.StatusBadGateway, "STORE_ERROR", err.Error())
	}
}

func (s *Server) listWatchLater(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	entries, err := s.deps.WatchLater.Get(r.Context(), uid, queryBool(r, "refresh"))
	if err != nil {
		s.writeListError(w, err)
		return
	}
	if q := r.URL.Query().Get("q"); q != "" {
		entries = lists.Filter(entries, q)
	}

	resp := listResponse{Items: entriesResponse(entries), Total: len(entries)}
	if _, fetchedAt, ok := s.deps.WatchLater.Peek(uid); ok {
		resp.FetchedAt = &fetchedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addWatchLater(w http.ResponseWriter, r *http.Request) {
	var req lists.NewItem
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := s.deps.WatchLater.Add(r.Context(), userID(r), req)
	if err != nil {
		s.writeListError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) checkWatchLater(w http.ResponseWriter, r *http.Request) {
	contentID, err := pathID(r, "contentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Toggler.Check(r.Context(), userID(r), contentID))
}

func (s *Server) removeWatchLater(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if err := s.deps.WatchLater.Remove(r.Context(), userID(r), itemID); err != nil {
		s.writeListError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) refreshWatchLater(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.WatchLater.Refresh(r.Context(), userID(r))
	if err != nil {
		s.writeListError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: entriesResponse(entries), Total: len(entries)})
}

func (s *Server) toggleWatchLater(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Show.ID <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ITEM", "show.id must be positive")
		return
	}

	uid := userID(r)
	var ind lists.Indicator
	if req.Member != nil {
		ind.Member = *req.Member
	} else {
		ind = s.deps.Toggler.Check(r.Context(), uid, req.Show.ID)
	}

	res, err := s.deps.Toggler.Toggle(r.Context(), ind, uid, req.Show)
	if err != nil {
		s.writeListError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
