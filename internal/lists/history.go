package lists

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultHistoryLimit is how many history entries List returns when no limit is given.
const DefaultHistoryLimit = 20

// History manages the watch history collection. It is not cached.
type History struct {
	store  Store
	limit  int
	logger *slog.Logger
}

// NewHistory creates a History over store. limit <= 0 means DefaultHistoryLimit.
func NewHistory(store Store, limit int, logger *slog.Logger) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &History{store: store, limit: limit, logger: logger.With("component", "history")}
}

// List returns the most recently watched items first.
func (h *History) List(ctx context.Context, userID string, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = h.limit
	}
	items, err := h.store.List(ctx, userID, WatchHistory, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return items, nil
}

// Add records a watch.
func (h *History) Add(ctx context.Context, userID string, n NewItem) (Item, error) {
	ctx = context.WithoutCancel(ctx)
	item, err := h.store.Insert(ctx, userID, WatchHistory, n)
	if err != nil {
		return Item{}, fmt.Errorf("add history: %w", err)
	}
	h.logger.Debug("history item added", "user_id", userID, "content_id", item.ContentID)
	return item, nil
}

// Remove deletes one history item.
func (h *History) Remove(ctx context.Context, userID, itemID string) error {
	ctx = context.WithoutCancel(ctx)
	if err := h.store.Delete(ctx, userID, WatchHistory, itemID); err != nil {
		return fmt.Errorf("remove history item: %w", err)
	}
	return nil
}

// Clear deletes the user's entire history and returns how many items were removed.
func (h *History) Clear(ctx context.Context, userID string) (int64, error) {
	ctx = context.WithoutCancel(ctx)
	n, err := h.store.DeleteAll(ctx, userID, WatchHistory)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	h.logger.Info("history cleared", "user_id", userID, "count", n)
	return n, nil
}

// UpdateProgress sets the playback percentage of a history item.
func (h *History) UpdateProgress(ctx context.Context, userID, itemID string, progress int) error {
	if err := ValidateProgress(progress); err != nil {
		return err
	}
	if err := h.store.UpdateProgress(context.WithoutCancel(ctx), userID, WatchHistory, itemID, progress); err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// Search fuzzy-matches query against the titles of the user's recent history.
func (h *History) Search(ctx context.Context, userID, query string) ([]Item, error) {
	items, err := h.List(ctx, userID, 0)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return items, nil
	}

	titles := make([]string, len(items))
	for i, it := range items {
		titles[i] = it.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]Item, len(ranks))
	for i, r := range ranks {
		out[i] = items[r.OriginalIndex]
	}
	return out, nil
}
