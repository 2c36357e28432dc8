package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/vmunix/streamverse/internal/database"
)

// Cache is a SQL-backed TTL cache for rendered catalog rows.
type Cache struct {
	db  *database.DB
	now func() time.Time
}

// NewCache creates a catalog cache on the catalog_cache table.
func NewCache(db *database.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// Get retrieves a cached value by key.
// Returns nil, false if not found or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value string
	var expiresAt time.Time

	err := c.db.QueryRowContext(ctx, c.db.Rebind(
		"SELECT value, expires_at FROM catalog_cache WHERE key = ?"), key,
	).Scan(&value, &expiresAt)

	if err != nil || c.now().After(expiresAt) {
		return nil, false
	}
	return []byte(value), true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now().UTC()
	_, err := c.db.ExecContext(ctx, c.db.Rebind(
		`INSERT INTO catalog_cache (key, value, expires_at, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`),
		key, string(value), now.Add(ttl), now,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", database.MapError(err))
	}
	return nil
}

// Delete removes a cached value.
func (c *Cache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, c.db.Rebind("DELETE FROM catalog_cache WHERE key = ?"), key)
	if err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Prune removes all expired entries.
// Returns the number of entries removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, c.db.Rebind(
		"DELETE FROM catalog_cache WHERE expires_at < ?"), c.now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
