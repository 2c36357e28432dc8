package lists

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/streamverse/internal/events"
)

// DefaultTTL is how long a fetched list is served without revalidation.
const DefaultTTL = 2 * time.Minute

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the time source (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// WithPublisher emits list events on p.
func WithPublisher(p events.Publisher) Option {
	return func(c *Cache) {
		c.pub = p
	}
}

// WithCollection selects the cached collection. Defaults to WatchLater.
func WithCollection(col Collection) Option {
	return func(c *Cache) {
		c.collection = col
	}
}

type cacheEntry struct {
	entries   []Entry // never mutated in place
	fetchedAt time.Time
}

// Cache keeps one list per user in memory in front of a Store.
//
// A cached list is served while it is younger than the TTL. Older lists are
// ignored, not purged, and are still used as a fallback when the store fails.
// The mutex only guards the map; it is never held across store calls, so
// concurrent mutations for one user interleave and the last write wins.
type Cache struct {
	store      Store
	collection Collection
	ttl        time.Duration
	now        func() time.Time
	log        *slog.Logger
	pub        events.Publisher

	mu        sync.Mutex
	entries   map[string]*cacheEntry
	preloaded map[string]bool

	bg sync.WaitGroup
}

// NewCache creates an empty cache over store.
func NewCache(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		collection: WatchLater,
		ttl:        DefaultTTL,
		now:        time.Now,
		log:        slog.Default(),
		entries:    make(map[string]*cacheEntry),
		preloaded:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the freshness window.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) lookup(userID string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	return e, ok
}

// Peek returns the cached entries and fetch time for userID without any I/O,
// regardless of freshness.
func (c *Cache) Peek(userID string) ([]Entry, time.Time, bool) {
	e, ok := c.lookup(userID)
	if !ok {
		return nil, time.Time{}, false
	}
	return cloneEntries(e.entries), e.fetchedAt, true
}

// Get returns the user's list, newest first.
//
// Unless force is set, a cached list younger than the TTL is returned without
// touching the store. Otherwise the list is read from the store and cached with
// the time the call started. If that read fails, a cached list of any age is
// returned instead; with nothing cached the error is returned.
func (c *Cache) Get(ctx context.Context, userID string, force bool) ([]Entry, error) {
	start := c.now()
	cached, ok := c.lookup(userID)
	if !force && ok && start.Sub(cached.fetchedAt) < c.ttl {
		c.log.Debug("list cache hit", "user_id", userID, "collection", c.collection, "count", len(cached.entries))
		return cloneEntries(cached.entries), nil
	}

	c.log.Debug("list cache miss, reading store", "user_id", userID, "collection", c.collection, "force", force)

	items, err := c.store.List(ctx, userID, c.collection, 0)
	if err != nil {
		if ok {
			c.log.Warn("list read failed, serving stale cache",
				"user_id", userID,
				"collection", c.collection,
				"age", start.Sub(cached.fetchedAt),
				"error", err)
			return cloneEntries(cached.entries), nil
		}
		return nil, fmt.Errorf("get %s: %w", c.collection, err)
	}

	entries := confirmed(items)
	c.mu.Lock()
	c.entries[userID] = &cacheEntry{entries: entries, fetchedAt: start}
	c.mu.Unlock()

	c.publish(ctx, &events.ListRefreshed{
		BaseEvent:  events.NewBaseEvent(events.EventListRefreshed, "list", 0, userID),
		Collection: string(c.collection),
		Count:      len(entries),
	})

	return cloneEntries(entries), nil
}

// Refresh re-reads the list from the store unconditionally.
func (c *Cache) Refresh(ctx context.Context, userID string) ([]Entry, error) {
	return c.Get(ctx, userID, true)
}

// Contains reports whether contentID is on the user's list.
//
// A match in the cached list (of any age) is trusted without asking the store.
// Without a cached match the store is queried. This can report an item that
// another device removed within the staleness window.
func (c *Cache) Contains(ctx context.Context, userID string, contentID int64) (bool, error) {
	if userID == "" {
		return false, nil
	}

	if cached, ok := c.lookup(userID); ok {
		for _, e := range cached.entries {
			if e.ContentID == contentID {
				return true, nil
			}
		}
	}

	found, err := c.store.Exists(ctx, userID, c.collection, contentID)
	if err != nil {
		return false, fmt.Errorf("check %s: %w", c.collection, err)
	}
	return found, nil
}

// Lookup finds the list item for contentID through a non-forced Get.
func (c *Cache) Lookup(ctx context.Context, userID string, contentID int64) (Item, bool, error) {
	entries, err := c.Get(ctx, userID, false)
	if err != nil {
		return Item{}, false, err
	}
	for _, e := range entries {
		if e.ContentID == contentID {
			return e.Item, true, nil
		}
	}
	return Item{}, false, nil
}

// Add inserts item into the store. On success, and only when the user already
// has a cached list, a pending entry is put at the front of it. Duplicates are
// not checked. The insert runs to completion even if ctx is cancelled.
func (c *Cache) Add(ctx context.Context, userID string, n NewItem) (Item, error) {
	ctx = context.WithoutCancel(ctx)
	item, err := c.store.Insert(ctx, userID, c.collection, n)
	if err != nil {
		return Item{}, fmt.Errorf("add to %s: %w", c.collection, err)
	}

	local := Entry{
		Item: Item{
			ID:         item.ID,
			ContentID:  n.ContentID,
			Title:      n.Title,
			PosterPath: n.PosterPath,
			MediaType:  n.MediaType,
			AddedAt:    item.AddedAt,
			Progress:   n.Progress,
		},
		State: Pending,
	}
	if local.AddedAt.IsZero() {
		local.AddedAt = c.now()
	}

	c.mu.Lock()
	if cur, ok := c.entries[userID]; ok {
		updated := make([]Entry, 0, len(cur.entries)+1)
		updated = append(updated, local)
		updated = append(updated, cur.entries...)
		c.entries[userID] = &cacheEntry{entries: updated, fetchedAt: c.now()}
	}
	c.mu.Unlock()

	c.publish(ctx, &events.ListItemAdded{
		BaseEvent:  events.NewBaseEvent(events.EventListItemAdded, "list_item", item.ContentID, userID),
		ItemID:     item.ID,
		Collection: string(c.collection),
		Title:      item.Title,
	})

	return item, nil
}

// Remove drops itemID from the cached list first, then deletes it from the
// store. A failed delete does not put the item back. Like Add, the delete
// ignores cancellation of ctx.
func (c *Cache) Remove(ctx context.Context, userID, itemID string) error {
	ctx = context.WithoutCancel(ctx)
	var contentID int64

	c.mu.Lock()
	if cur, ok := c.entries[userID]; ok {
		filtered := make([]Entry, 0, len(cur.entries))
		for _, e := range cur.entries {
			if e.ID == itemID {
				contentID = e.ContentID
				continue
			}
			filtered = append(filtered, e)
		}
		c.entries[userID] = &cacheEntry{entries: filtered, fetchedAt: c.now()}
	}
	c.mu.Unlock()

	if err := c.store.Delete(ctx, userID, c.collection, itemID); err != nil {
		return fmt.Errorf("remove from %s: %w", c.collection, err)
	}

	c.publish(ctx, &events.ListItemRemoved{
		BaseEvent:  events.NewBaseEvent(events.EventListItemRemoved, "list_item", contentID, userID),
		ItemID:     itemID,
		Collection: string(c.collection),
	})
	return nil
}

// Preload warms the user's list once. Failures are logged and retried on the next call.
func (c *Cache) Preload(ctx context.Context, userID string) {
	c.mu.Lock()
	done := c.preloaded[userID]
	c.mu.Unlock()
	if done {
		return
	}

	if _, err := c.Get(ctx, userID, false); err != nil {
		c.log.Warn("preload failed", "user_id", userID, "collection", c.collection, "error", err)
		return
	}

	c.mu.Lock()
	c.preloaded[userID] = true
	c.mu.Unlock()
}

// PreloadAsync runs Preload in a tracked goroutine detached from ctx's
// cancellation. Wait drains it.
func (c *Cache) PreloadAsync(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		c.Preload(ctx, userID)
	}()
}

// Wait blocks until background preloads have finished.
func (c *Cache) Wait() {
	c.bg.Wait()
}

func (c *Cache) publish(ctx context.Context, e events.Event) {
	if c.pub == nil {
		return
	}
	if err := c.pub.Publish(ctx, e); err != nil {
		c.log.Warn("publish event failed", "type", e.EventType(), "error", err)
	}
}

func cloneEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
