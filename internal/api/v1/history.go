package v1

import (
	"net/http"

	"github.com/vmunix/streamverse/internal/lists"
)

type historyResponse struct {
	Items []lists.Item `json:"items"`
	Total int          `json:"total"`
}

type progressRequest struct {
	Progress int `json:"progress"`
}

type clearResponse struct {
	Removed int64 `json:"removed"`
}

// listHistory returns the newest entries, or fuzzy matches when q is set.
func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	var (
		items []lists.Item
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		items, err = s.deps.History.Search(r.Context(), userID(r), q)
	} else {
		items, err = s.deps.History.List(r.Context(), userID(r), queryInt(r, "limit", 0))
	}
	if err != nil {
		s.writeListError(w, err)
		return
	}
	if items == nil {
		items = []lists.Item{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Items: items, Total: len(items)})
}

func (s *Server) addHistory(w http.ResponseWriter, r *http.Request) {
	var req lists.NewItem
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := s.deps.History.Add(r.Context(), userID(r), req)
	if err != nil {
		s.writeListError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	n, err := s.deps.History.Clear(r.Context(), userID(r))
	if err != nil {
		s.writeListError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clearResponse{Removed: n})
}

func (s *Server) removeHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.History.Remove(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeListError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.deps.History.UpdateProgress(r.Context(), userID(r), r.PathValue("id"), req.Progress); err != nil {
		s.writeListError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
