package lists

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/streamverse/internal/database"
)

// SQLStore implements Store on the list_items table.
type SQLStore struct {
	db  *database.DB
	now func() time.Time
}

// NewSQLStore creates a store backed by db.
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func mapError(err error) error {
	err = database.MapError(err)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// List returns items newest first.
func (s *SQLStore) List(ctx context.Context, userID string, c Collection, limit int) ([]Item, error) {
	query := `
		SELECT id, movie_id, title, poster_path, media_type, added_at, progress
		FROM list_items
		WHERE user_id = ? AND collection = ?
		ORDER BY added_at DESC, id`
	args := []any{userID, string(c)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, mapError(err))
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var (
			it       Item
			media    string
			progress sql.NullInt64
		)
		if err := rows.Scan(&it.ID, &it.ContentID, &it.Title, &it.PosterPath, &media, &it.AddedAt, &progress); err != nil {
			return nil, fmt.Errorf("scan %s item: %w", c, err)
		}
		it.MediaType = MediaType(media)
		if progress.Valid {
			p := int(progress.Int64)
			it.Progress = &p
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Exists runs an equality query on movie_id.
func (s *SQLStore) Exists(ctx context.Context, userID string, c Collection, contentID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT 1 FROM list_items
		WHERE user_id = ? AND collection = ? AND movie_id = ?
		LIMIT 1`),
		userID, string(c), contentID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s: %w", c, mapError(err))
	}
	return true, nil
}

// Insert adds a document with a fresh UUID.
func (s *SQLStore) Insert(ctx context.Context, userID string, c Collection, n NewItem) (Item, error) {
	if err := n.Validate(); err != nil {
		return Item{}, err
	}

	it := Item{
		ID:         uuid.NewString(),
		ContentID:  n.ContentID,
		Title:      n.Title,
		PosterPath: n.PosterPath,
		MediaType:  n.MediaType,
		AddedAt:    s.now().UTC(),
		Progress:   n.Progress,
	}

	var progress sql.NullInt64
	if it.Progress != nil {
		progress = sql.NullInt64{Int64: int64(*it.Progress), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO list_items (id, user_id, collection, movie_id, title, poster_path, media_type, added_at, progress)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		it.ID, userID, string(c), it.ContentID, it.Title, it.PosterPath, string(it.MediaType), it.AddedAt, progress,
	)
	if err != nil {
		return Item{}, fmt.Errorf("insert %s item: %w", c, mapError(err))
	}
	return it, nil
}

// Delete removes one document.
func (s *SQLStore) Delete(ctx context.Context, userID string, c Collection, itemID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM list_items WHERE user_id = ? AND collection = ? AND id = ?`),
		userID, string(c), itemID,
	)
	if err != nil {
		return fmt.Errorf("delete %s item %s: %w", c, itemID, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s item %s: %w", c, itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s item %s: %w", c, itemID, ErrNotFound)
	}
	return nil
}

// DeleteAll removes the whole collection in one transaction.
func (s *SQLStore) DeleteAll(ctx context.Context, userID string, c Collection) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM list_items WHERE user_id = ? AND collection = ?`),
		userID, string(c),
	)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", c, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", c, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit clear %s: %w", c, err)
	}
	return n, nil
}

// UpdateProgress sets progress and updated_at.
func (s *SQLStore) UpdateProgress(ctx context.Context, userID string, c Collection, itemID string, progress int) error {
	if err := ValidateProgress(progress); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE list_items SET progress = ?, updated_at = ?
		WHERE user_id = ? AND collection = ? AND id = ?`),
		progress, s.now().UTC(), userID, string(c), itemID,
	)
	if err != nil {
		return fmt.Errorf("update progress %s: %w", itemID, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update progress %s: %w", itemID, err)
	}
	if n == 0 {
		return fmt.Errorf("update progress %s: %w", itemID, ErrNotFound)
	}
	return nil
}
