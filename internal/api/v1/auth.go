package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/vmunix/streamverse/internal/auth"
)

// stateCookie holds the OIDC state between the login redirect and the callback.
const stateCookie = "streamverse_oidc_state"

const (
	stateTTL  = 10 * time.Minute
	statePath = "/api/v1/auth/oidc"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	User      auth.Identity `json:"user"`
}

func toSessionResponse(sess *auth.Session) sessionResponse {
	return sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt, User: sess.Identity()}
}

// authStatus maps auth errors to HTTP status and code.
func authStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict, "USER_EXISTS"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS"
	case errors.Is(err, auth.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS"
	case errors.Is(err, auth.ErrStateMismatch):
		return http.StatusBadRequest, "STATE_MISMATCH"
	case errors.Is(err, auth.ErrOIDCDisabled):
		return http.StatusNotFound, "OIDC_DISABLED"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	}
	return http.StatusInternalServerError, "AUTH_ERROR"
}

func (s *Server) writeAuthError(w http.ResponseWriter, err error) {
	status, code := authStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("auth failed", "error", err)
	}
	writeError(w, status, code, auth.Message(err))
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.deps.Auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// logout is idempotent: a missing or unknown token still clears the cookie.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := s.deps.Auth.Logout(token); err != nil {
			s.logger.Warn("logout failed", "error", err)
		}
	}
	s.clearCookie(w, SessionCookie, "/")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	p, err := s.deps.Accounts.Get(r.Context(), sess.UserID)
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) oidcLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "AUTH_ERROR", "could not start login")
		return
	}
	target, err := s.deps.Auth.SSOAuthURL(state)
	if err != nil {
		s.writeAuthError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     statePath,
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) oidcCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		// Provider-side cancel or denial.
		s.logger.Info("oidc login aborted", "error", e)
		writeError(w, http.StatusBadRequest, "STATE_MISMATCH", auth.Message(auth.ErrStateMismatch))
		return
	}

	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != q.Get("state") {
		s.writeAuthError(w, auth.ErrStateMismatch)
		return
	}
	s.clearCookie(w, stateCookie, statePath)

	sess, err := s.deps.Auth.LoginSSO(r.Context(), q.Get("code"))
	if err != nil {
		s.writeAuthError(w, err)
		return
	}
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}
