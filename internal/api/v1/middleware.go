package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/vmunix/streamverse/internal/auth"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "streamverse_session"

type sessionKey struct{}

// sessionFrom returns the authenticated session, or nil for anonymous requests.
func sessionFrom(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(sessionKey{}).(*auth.Session)
	return s
}

// userID returns the authenticated user's id, or "" for anonymous requests.
func userID(r *http.Request) string {
	if s := sessionFrom(r.Context()); s != nil {
		return s.UserID
	}
	return ""
}

// bearerToken reads the Authorization header, falling back to the session cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) authenticate(r *http.Request) (*auth.Session, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return s.deps.Auth.Authenticate(r.Context(), token)
}

// requireAuth wraps a handler and returns 401 unless the request carries a valid session.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", auth.Message(err))
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	}
}

// optionalAuth attaches the session when one is present and valid, and lets
// anonymous requests through otherwise.
func (s *Server) optionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, err := s.authenticate(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess))
		}
		next(w, r)
	}
}

// requireCatalog wraps a handler and returns 503 if the catalog is not configured.
func (s *Server) requireCatalog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Catalog == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Catalog not configured")
			return
		}
		next(w, r)
	}
}

// requireStreams wraps a handler and returns 503 if stream resolution is not configured.
func (s *Server) requireStreams(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Streams == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Streams not configured")
			return
		}
		next(w, r)
	}
}
