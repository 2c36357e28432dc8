// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// Server is the v1 API server.
type Server struct {
	deps    ServerDeps
	logger  *slog.Logger
	started time.Time
}

// New creates a new v1 API server with the given dependencies.
func New(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		deps:    deps,
		logger:  logger.With("component", "api"),
		started: time.Now(),
	}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Auth
	mux.HandleFunc("POST /api/v1/auth/register", s.register)
	mux.HandleFunc("POST /api/v1/auth/login", s.login)
	mux.HandleFunc("POST /api/v1/auth/logout", s.logout)
	mux.HandleFunc("GET /api/v1/auth/me", s.requireAuth(s.me))
	mux.HandleFunc("GET /api/v1/auth/oidc/login", s.oidcLogin)
	mux.HandleFunc("GET /api/v1/auth/oidc/callback", s.oidcCallback)

	// Watch later
	mux.HandleFunc("GET /api/v1/watchlater", s.requireAuth(s.listWatchLater))
	mux.HandleFunc("POST /api/v1/watchlater", s.requireAuth(s.addWatchLater))
	mux.HandleFunc("GET /api/v1/watchlater/{contentID}", s.optionalAuth(s.checkWatchLater))
	mux.HandleFunc("DELETE /api/v1/watchlater/items/{id}", s.requireAuth(s.removeWatchLater))
	mux.HandleFunc("POST /api/v1/watchlater/refresh", s.requireAuth(s.refreshWatchLater))
	mux.HandleFunc("POST /api/v1/watchlater/toggle", s.optionalAuth(s.toggleWatchLater))

	// History
	mux.HandleFunc("GET /api/v1/history", s.requireAuth(s.listHistory))
	mux.HandleFunc("POST /api/v1/history", s.requireAuth(s.addHistory))
	mux.HandleFunc("DELETE /api/v1/history", s.requireAuth(s.clearHistory))
	mux.HandleFunc("DELETE /api/v1/history/{id}", s.requireAuth(s.removeHistory))
	mux.HandleFunc("PUT /api/v1/history/{id}/progress", s.requireAuth(s.updateProgress))

	// Account
	mux.HandleFunc("GET /api/v1/settings", s.requireAuth(s.getSettings))
	mux.HandleFunc("PATCH /api/v1/settings", s.requireAuth(s.updateSettings))
	mux.HandleFunc("GET /api/v1/profile", s.requireAuth(s.getProfile))
	mux.HandleFunc("PATCH /api/v1/profile", s.requireAuth(s.updateProfile))

	// Catalog
	mux.HandleFunc("GET /api/v1/catalog/{page}", s.requireCatalog(s.getPage))
	mux.HandleFunc("GET /api/v1/shows/{type}/{id}", s.requireCatalog(s.getShow))
	mux.HandleFunc("GET /api/v1/search", s.requireCatalog(s.search))
	mux.HandleFunc("GET /api/v1/embed/{type}/{slug}", s.requireStreams(s.getEmbed))

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireAuth(s.listEvents))
	mux.HandleFunc("GET /api/v1/events/stream", s.requireAuth(s.streamEvents))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

const maxBodyBytes = 1 << 20

// decodeJSON reads a JSON request body into dest, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", "request body is empty")
			return false
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return false
	}
	return true
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, idStr)
	}
	return id, nil
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryBool treats "1", "true" and "yes" as true.
func queryBool(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

type statusResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version,omitempty"`
	Uptime     string `json:"uptime"`
	SSOEnabled bool   `json:"sso_enabled"`
	Catalog    bool   `json:"catalog"`
	Streams    bool   `json:"streams"`
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:     "ok",
		Version:    s.deps.Version,
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		SSOEnabled: s.deps.Auth.SSOEnabled(),
		Catalog:    s.deps.Catalog != nil,
		Streams:    s.deps.Streams != nil,
	})
}
