// Package auth handles password and single sign-on logins and the sessions
// that identify API callers.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrWeakPassword       = errors.New("password too short")
	ErrTooManyAttempts    = errors.New("too many login attempts")
	ErrOIDCDisabled       = errors.New("single sign-on not configured")
	ErrStateMismatch      = errors.New("oauth state mismatch")
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// Identity is the authenticated user as the rest of the server sees it.
// List caches are keyed by ID.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// Session represents an active login.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity returns the user the session belongs to.
func (s *Session) Identity() Identity {
	return Identity{ID: s.UserID, Email: s.Email, Name: s.Name, PhotoURL: s.PhotoURL}
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateToken returns 32 random bytes, hex encoded.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Message returns the text shown to a user for a login or registration error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrTooManyAttempts):
		return "Too many login attempts. Please try again later."
	case errors.Is(err, ErrInvalidEmail):
		return "Invalid email format"
	case errors.Is(err, ErrUserExists):
		return "An account with this email already exists"
	case errors.Is(err, ErrWeakPassword):
		return "Password should be at least 6 characters"
	case errors.Is(err, ErrStateMismatch):
		return "Login request was cancelled. Please try again."
	case errors.Is(err, ErrOIDCDisabled):
		return "Failed to login with Google"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired):
		return "Your session has expired. Please log in again."
	}
	return "Failed to login"
}
