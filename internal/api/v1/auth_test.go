package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/account"
	"github.com/vmunix/streamverse/internal/auth"
)

type fakeSSO struct {
	claims *auth.Claims
	code   string
}

func (f *fakeSSO) AuthURL(state string) string {
	return "https://idp.example.com/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeSSO) Exchange(_ context.Context, code string) (*auth.Claims, error) {
	f.code = code
	return f.claims, nil
}

func withSSO(t *testing.T, x auth.Exchanger) func(*ServerDeps) {
	return func(d *ServerDeps) {
		sessions, err := auth.OpenBoltSessions(filepath.Join(t.TempDir(), "sso.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = sessions.Close() })
		d.Auth = auth.NewManager(d.Accounts, sessions, auth.WithSSO(x), auth.WithManagerLogger(discardLogger()))
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/register", registerRequest{
		Email: "New@Example.com", Password: "hunter22", DisplayName: "Newbie",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[sessionResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "new@example.com", resp.User.Email)
	assert.Equal(t, "Newbie", resp.User.Name)

	c := findCookie(w, SessionCookie)
	require.NotNil(t, c)
	assert.Equal(t, resp.Token, c.Value)
	assert.True(t, c.HttpOnly)
}

func TestRegister_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "taken@example.com")

	tests := []struct {
		name    string
		req     registerRequest
		status  int
		code    string
		message string
	}{
		{"bad email", registerRequest{Email: "nope", Password: "hunter22"}, http.StatusBadRequest, "INVALID_INPUT", "Invalid email format"},
		{"weak password", registerRequest{Email: "a@example.com", Password: "123"}, http.StatusBadRequest, "INVALID_INPUT", "Password should be at least 6 characters"},
		{"duplicate", registerRequest{Email: "taken@example.com", Password: "hunter22"}, http.StatusConflict, "USER_EXISTS", "An account with this email already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/api/v1/auth/register", tt.req, "")
			assert.Equal(t, tt.status, w.Code)
			resp := decode[errorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.message, resp.Error)
		})
	}
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "login@example.com")

	w := ts.do(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "login@example.com", Password: "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, w))

	w = ts.do(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "login@example.com", Password: "hunter22"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	sess := decode[sessionResponse](t, w)

	w = ts.do(t, http.MethodGet, "/api/v1/auth/me", nil, sess.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test User", decode[account.Profile](t, w).Name)
}

func TestLogin_Throttled(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "slow@example.com")

	var w *httptest.ResponseRecorder
	for range 6 {
		w = ts.do(t, http.MethodPost, "/api/v1/auth/login", loginRequest{Email: "slow@example.com", Password: "bad-pass"}, "")
	}
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TOO_MANY_ATTEMPTS", errorCode(t, w))
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	sess := ts.register(t, "bye@example.com")

	w := ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil, sess.Token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	c := findCookie(w, SessionCookie)
	require.NotNil(t, c)
	assert.Equal(t, -1, c.MaxAge)

	w = ts.do(t, http.MethodGet, "/api/v1/auth/me", nil, sess.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code, "logout without a session is a no-op")
}

func TestOIDC_Disabled(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/v1/auth/oidc/login", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "OIDC_DISABLED", errorCode(t, w))
}

func TestOIDC_Flow(t *testing.T) {
	sso := &fakeSSO{claims: &auth.Claims{Subject: "sub-1", Email: "sso@example.com", Name: "SSO User", Picture: "https://img/p.png"}}
	ts := newTestServer(t, withSSO(t, sso))

	w := ts.do(t, http.MethodGet, "/api/v1/auth/oidc/login", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	state := findCookie(w, stateCookie)
	require.NotNil(t, state)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "idp.example.com", loc.Host)
	assert.Equal(t, state.Value, loc.Query().Get("state"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oidc/callback?code=abc&state="+url.QueryEscape(state.Value), nil)
	req.AddCookie(state)
	w = httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "abc", sso.code)
	resp := decode[sessionResponse](t, w)
	assert.Equal(t, "sso@example.com", resp.User.Email)
	assert.Equal(t, "https://img/p.png", resp.User.PhotoURL)
	assert.NotNil(t, findCookie(w, SessionCookie))
}

func TestOIDC_StateMismatch(t *testing.T) {
	sso := &fakeSSO{claims: &auth.Claims{Email: "sso@example.com"}}
	ts := newTestServer(t, withSSO(t, sso))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oidc/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "real"})
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "STATE_MISMATCH", errorCode(t, w))
	assert.Empty(t, sso.code, "code must not be redeemed")

	w = ts.do(t, http.MethodGet, "/api/v1/auth/oidc/callback?error=access_denied", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
