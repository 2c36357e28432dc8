package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamverse/internal/database"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func ptr[T any](v T) *T { return &v }

func TestStore_CreateGet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p := &Profile{Email: "  Ada@Example.com ", Name: "Ada"}
	require.NoError(t, s.Create(ctx, p, "hash"))
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)

	_, hash, err := s.Credentials(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
}

func TestStore_DuplicateEmail(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &Profile{Email: "a@example.com"}, ""))
	err := s.Create(ctx, &Profile{Email: "A@example.com"}, "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestStore_GetNotFound(t *testing.T) {
	s := setupStore(t)

	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "user not found")

	_, _, err = s.Credentials(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Update(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p := &Profile{Email: "a@example.com", Name: "Old", PhotoURL: "http://img/1"}
	require.NoError(t, s.Create(ctx, p, ""))

	got, err := s.Update(ctx, p.ID, ProfilePatch{Name: ptr(" New ")})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, "http://img/1", got.PhotoURL, "unset fields are kept")

	_, err = s.Update(ctx, "missing", ProfilePatch{Name: ptr("x")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_SettingsDefaultsAndMerge(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p := &Profile{Email: "a@example.com"}
	require.NoError(t, s.Create(ctx, p, ""))

	got, err := s.Settings(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)

	got, err = s.UpdateSettings(ctx, p.ID, SettingsPatch{Theme: ptr(ThemeDark)})
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: ThemeDark, EmailNotifications: true, Autoplay: true}, got)

	got, err = s.UpdateSettings(ctx, p.ID, SettingsPatch{Autoplay: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, Settings{Theme: ThemeDark, EmailNotifications: true, Autoplay: false}, got)

	reread, err := s.Settings(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, got, reread)
}

func TestStore_SettingsInvalidTheme(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	p := &Profile{Email: "a@example.com"}
	require.NoError(t, s.Create(ctx, p, ""))

	_, err := s.UpdateSettings(ctx, p.ID, SettingsPatch{Theme: ptr(Theme("neon"))})
	require.ErrorIs(t, err, ErrInvalidTheme)

	_, err = s.Settings(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
