package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/vmunix/streamverse/internal/account"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Failed password logins per email within loginWindow before ErrTooManyAttempts.
const (
	maxFailedLogins = 5
	loginWindow     = 15 * time.Minute
)

// Accounts is the profile storage the manager needs. *account.Store implements it.
type Accounts interface {
	Create(ctx context.Context, p *account.Profile, passwordHash string) error
	Get(ctx context.Context, id string) (*account.Profile, error)
	Credentials(ctx context.Context, email string) (*account.Profile, string, error)
}

// Manager handles authentication operations.
type Manager struct {
	accounts Accounts
	sessions SessionStore
	cache    *SessionCache
	sso      Exchanger
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
	onLogin  func(context.Context, Identity)

	mu       sync.Mutex
	failures map[string]*failedLogins
}

type failedLogins struct {
	count int
	first time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithSessionTTL sets the session lifetime.
func WithSessionTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSSO enables single sign-on through x.
func WithSSO(x Exchanger) ManagerOption {
	return func(m *Manager) { m.sso = x }
}

// WithLoginHook runs fn after every successful login or registration.
func WithLoginHook(fn func(context.Context, Identity)) ManagerOption {
	return func(m *Manager) { m.onLogin = fn }
}

// WithManagerLogger sets the logger.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// WithManagerClock sets the time source (for testing).
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
		m.cache.now = now
	}
}

// NewManager creates an authentication manager.
func NewManager(accounts Accounts, sessions SessionStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		accounts: accounts,
		sessions: sessions,
		cache:    NewSessionCache(DefaultSessionCacheTTL),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		logger:   slog.Default(),
		failures: make(map[string]*failedLogins),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "auth")
	return m
}

// Register creates a password account and logs it in.
func (m *Manager) Register(ctx context.Context, email, password, name string) (*Session, error) {
	email = account.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &account.Profile{Email: email, Name: strings.TrimSpace(name)}
	if err := m.accounts.Create(ctx, p, hash); err != nil {
		if errors.Is(err, account.ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	m.logger.Info("user registered", "user_id", p.ID)
	return m.startSession(ctx, p)
}

// Login checks email and password and starts a session.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	email = account.NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if m.throttled(email) {
		return nil, ErrTooManyAttempts
	}

	p, hash, err := m.accounts.Credentials(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			m.recordFailure(email)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, hash) {
		m.recordFailure(email)
		return nil, ErrInvalidCredentials
	}

	m.clearFailures(email)
	return m.startSession(ctx, p)
}

// SSOEnabled reports whether single sign-on is configured.
func (m *Manager) SSOEnabled() bool { return m.sso != nil }

// SSOAuthURL returns the provider login URL for state.
func (m *Manager) SSOAuthURL(state string) (string, error) {
	if m.sso == nil {
		return "", ErrOIDCDisabled
	}
	return m.sso.AuthURL(state), nil
}

// LoginSSO redeems an authorization code, creating the profile on first login.
// Stored profile fields win over the provider's.
func (m *Manager) LoginSSO(ctx context.Context, code string) (*Session, error) {
	if m.sso == nil {
		return nil, ErrOIDCDisabled
	}
	claims, err := m.sso.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.Join(ErrInvalidToken, errors.New("no email claim"))
	}

	p, _, err := m.accounts.Credentials(ctx, claims.Email)
	switch {
	case errors.Is(err, account.ErrNotFound):
		p = &account.Profile{Email: claims.Email, Name: claims.Name, PhotoURL: claims.Picture}
		if err := m.accounts.Create(ctx, p, ""); err != nil {
			return nil, fmt.Errorf("create sso user: %w", err)
		}
		m.logger.Info("user registered via sso", "user_id", p.ID)
	case err != nil:
		return nil, err
	default:
		if p.Name == "" {
			p.Name = claims.Name
		}
		if p.PhotoURL == "" {
			p.PhotoURL = claims.Picture
		}
	}
	return m.startSession(ctx, p)
}

// Authenticate resolves a session token.
func (m *Manager) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	if s, ok := m.cache.Get(token); ok {
		return s, nil
	}

	s, err := m.sessions.Get(token)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.now()) {
		if err := m.sessions.Delete(token); err != nil {
			m.logger.Warn("delete expired session failed", "error", err)
		}
		return nil, ErrTokenExpired
	}
	m.cache.Set(s)
	return s, nil
}

// Logout ends the session for token.
func (m *Manager) Logout(token string) error {
	m.cache.Delete(token)
	if err := m.sessions.Delete(token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Cleanup drops expired sessions from the store and the cache.
func (m *Manager) Cleanup(ctx context.Context) (int, error) {
	m.cache.Cleanup()
	n, err := m.sessions.CleanExpired(m.now())
	if err != nil {
		return 0, fmt.Errorf("clean sessions: %w", err)
	}
	if n > 0 {
		m.logger.Debug("expired sessions removed", "count", n)
	}
	return n, nil
}

func (m *Manager) startSession(ctx context.Context, p *account.Profile) (*Session, error) {
	token, err := GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	now := m.now()
	s := &Session{
		Token:     token,
		UserID:    p.ID,
		Email:     p.Email,
		Name:      p.Name,
		PhotoURL:  p.PhotoURL,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.sessions.Create(s); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	m.cache.Set(s)

	if m.onLogin != nil {
		m.onLogin(ctx, s.Identity())
	}
	return s, nil
}

func (m *Manager) throttled(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.failures[email]
	if !ok {
		return false
	}
	if m.now().Sub(f.first) > loginWindow {
		delete(m.failures, email)
		return false
	}
	return f.count >= maxFailedLogins
}

func (m *Manager) recordFailure(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.failures[email]
	if !ok || m.now().Sub(f.first) > loginWindow {
		m.failures[email] = &failedLogins{count: 1, first: m.now()}
		return
	}
	f.count++
}

func (m *Manager) clearFailures(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.failures, email)
}
