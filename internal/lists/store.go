package lists

import "context"

// Store is the remote list store. Implementations must return List results
// ordered by AddedAt descending.
type Store interface {
	// List returns up to limit items (all when limit <= 0), newest first.
	List(ctx context.Context, userID string, c Collection, limit int) ([]Item, error)
	// Exists reports whether any item in the collection has the content id.
	Exists(ctx context.Context, userID string, c Collection, contentID int64) (bool, error)
	// Insert stores a new item and returns it with its store-assigned ID and timestamp.
	Insert(ctx context.Context, userID string, c Collection, item NewItem) (Item, error)
	// Delete removes one item. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, userID string, c Collection, itemID string) error
	// DeleteAll removes every item in the collection and returns how many were removed.
	DeleteAll(ctx context.Context, userID string, c Collection) (int64, error)
	// UpdateProgress sets the progress of one item.
	UpdateProgress(ctx context.Context, userID string, c Collection, itemID string, progress int) error
}

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
