// Package account stores user profiles, password credentials, and
// per-user playback settings.
package account

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the user doesn't exist.
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken indicates another profile already uses the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidTheme is returned for unknown theme names.
	ErrInvalidTheme = errors.New("theme must be light, dark, or system")
)

// Profile is a user's public account data.
type Profile struct {
	ID        string    `json:"uid"`
	Email     string    `json:"email"`
	Name      string    `json:"displayName"`
	PhotoURL  string    `json:"photoURL"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfilePatch carries the fields to change. Nil fields are left alone.
type ProfilePatch struct {
	Name     *string `json:"displayName,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
}

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Settings are per-user preferences.
type Settings struct {
	Theme              Theme `json:"theme"`
	EmailNotifications bool  `json:"emailNotifications"`
	Autoplay           bool  `json:"autoplay"`
}

// DefaultSettings is returned for users who never saved any.
func DefaultSettings() Settings {
	return Settings{
		Theme:              ThemeSystem,
		EmailNotifications: true,
		Autoplay:           true,
	}
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Theme              *Theme `json:"theme,omitempty"`
	EmailNotifications *bool  `json:"emailNotifications,omitempty"`
	Autoplay           *bool  `json:"autoplay,omitempty"`
}

// Apply merges p into s.
func (p SettingsPatch) Apply(s Settings) (Settings, error) {
	if p.Theme != nil {
		if !p.Theme.Valid() {
			return s, ErrInvalidTheme
		}
		s.Theme = *p.Theme
	}
	if p.EmailNotifications != nil {
		s.EmailNotifications = *p.EmailNotifications
	}
	if p.Autoplay != nil {
		s.Autoplay = *p.Autoplay
	}
	return s, nil
}
