package account

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/streamverse/internal/database"
)

// Store persists profiles in the users table.
type Store struct {
	db *database.DB
}

// NewStore creates a profile store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

func mapError(err error) error {
	err = database.MapError(err)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrDuplicate):
		return ErrEmailTaken
	}
	return err
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a profile with an optional bcrypt password hash.
// An empty p.ID gets a new UUID. Sets ID, CreatedAt, and UpdatedAt.
func (s *Store) Create(ctx context.Context, p *Profile, passwordHash string) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Email = NormalizeEmail(p.Email)
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, email, name, photo_url, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.Email, p.Name, p.PhotoURL, passwordHash, now, now,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", mapError(err))
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

// Get returns the profile with id.
// Returns ErrNotFound if the user does not exist.
func (s *Store) Get(ctx context.Context, id string) (*Profile, error) {
	p := &Profile{}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, email, name, photo_url, created_at, updated_at
		FROM users WHERE id = ?`), id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, mapError(err))
	}
	return p, nil
}

// Credentials returns the profile and password hash for email.
// The hash is empty for accounts created through single sign-on.
func (s *Store) Credentials(ctx context.Context, email string) (*Profile, string, error) {
	p := &Profile{}
	var hash string
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, email, name, photo_url, password_hash, created_at, updated_at
		FROM users WHERE email = ?`), NormalizeEmail(email),
	).Scan(&p.ID, &p.Email, &p.Name, &p.PhotoURL, &hash, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("get user by email: %w", mapError(err))
	}
	return p, hash, nil
}

// Update applies patch to the profile and returns the result.
func (s *Store) Update(ctx context.Context, id string, patch ProfilePatch) (*Profile, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.PhotoURL != nil {
		p.PhotoURL = *patch.PhotoURL
	}
	p.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET name = ?, photo_url = ?, updated_at = ? WHERE id = ?`),
		p.Name, p.PhotoURL, p.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, mapError(err))
	}
	return p, nil
}

// Settings returns the user's settings, or DefaultSettings if none were saved.
func (s *Store) Settings(ctx context.Context, id string) (Settings, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT settings FROM users WHERE id = ?`), id).Scan(&raw)
	if err != nil {
		return Settings{}, fmt.Errorf("get settings %s: %w", id, mapError(err))
	}
	if !raw.Valid || raw.String == "" {
		return DefaultSettings(), nil
	}

	settings := DefaultSettings()
	if err := json.Unmarshal([]byte(raw.String), &settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings %s: %w", id, err)
	}
	return settings, nil
}

// UpdateSettings merges patch into the current settings and saves them.
func (s *Store) UpdateSettings(ctx context.Context, id string, patch SettingsPatch) (Settings, error) {
	current, err := s.Settings(ctx, id)
	if err != nil {
		return Settings{}, err
	}
	next, err := patch.Apply(current)
	if err != nil {
		return Settings{}, err
	}

	data, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET settings = ?, updated_at = ? WHERE id = ?`),
		string(data), time.Now().UTC(), id,
	)
	if err != nil {
		return Settings{}, fmt.Errorf("save settings %s: %w", id, mapError(err))
	}
	return next, nil
}
