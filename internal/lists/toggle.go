package lists

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/vmunix/streamverse/internal/events"
)

// ErrBusy is returned when a toggle arrives while membership is still being checked.
var ErrBusy = errors.New("membership check in progress")

// Notification messages shown for watch-later toggles.
const (
	MsgLoginRequired = "Please login to add to Watch Later"
	MsgRemoved       = "Removed from Watch Later"
	MsgNotInList     = "Could not find this show in your Watch Later list"
	MsgRemoveFailed  = "Failed to remove from Watch Later list"
	MsgAdded         = "Added to Watch Later"
	MsgUpdateFailed  = "Failed to update Watch Later list"
	defaultShowTitle = "Unknown"
	defaultMediaType = MediaMovie
)

// Show is the content a toggle acts on, as the catalog describes it.
// Movies carry Title, series carry Name.
type Show struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title,omitempty"`
	Name         string    `json:"name,omitempty"`
	PosterPath   string    `json:"poster_path,omitempty"`
	BackdropPath string    `json:"backdrop_path,omitempty"`
	MediaType    MediaType `json:"media_type,omitempty"`
}

// NewItem converts the show into an insert, filling defaults for missing fields.
func (s Show) NewItem() NewItem {
	title := s.Title
	if title == "" {
		title = s.Name
	}
	if title == "" {
		title = defaultShowTitle
	}
	poster := s.PosterPath
	if poster == "" {
		poster = s.BackdropPath
	}
	mt := s.MediaType
	if mt == "" {
		mt = defaultMediaType
	}
	return NewItem{
		ContentID:  s.ID,
		Title:      title,
		PosterPath: poster,
		MediaType:  mt,
	}
}

// Indicator is the membership flag as displayed to the user.
type Indicator struct {
	Member bool `json:"member"`
	Busy   bool `json:"busy"`
}

// ToggleResult is the indicator after a toggle plus the notification to show.
type ToggleResult struct {
	Indicator    Indicator            `json:"indicator"`
	Notification *events.Notification `json:"notification"`
}

type busyKey struct {
	userID    string
	contentID int64
}

// Toggler runs the optimistic add/remove flow for the watch-later indicator.
type Toggler struct {
	cache *Cache
	pub   events.Publisher
	log   *slog.Logger

	mu   sync.Mutex
	busy map[busyKey]int

	wg sync.WaitGroup
}

// NewToggler creates a Toggler over cache. pub may be nil.
func NewToggler(cache *Cache, pub events.Publisher, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		cache: cache,
		pub:   pub,
		log:   logger.With("component", "toggler"),
		busy:  make(map[busyKey]int),
	}
}

// Check resolves the indicator for contentID. While it runs, toggles for the
// same user and content are rejected with ErrBusy. A failed lookup shows the
// show as not saved.
func (t *Toggler) Check(ctx context.Context, userID string, contentID int64) Indicator {
	if userID == "" {
		return Indicator{}
	}

	key := busyKey{userID, contentID}
	t.mu.Lock()
	t.busy[key]++
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		if t.busy[key]--; t.busy[key] <= 0 {
			delete(t.busy, key)
		}
		t.mu.Unlock()
	}()

	member, err := t.cache.Contains(ctx, userID, contentID)
	if err != nil {
		t.log.Warn("membership check failed", "user_id", userID, "content_id", contentID, "error", err)
		return Indicator{}
	}
	return Indicator{Member: member}
}

// Busy reports whether a Check is running for userID and contentID.
func (t *Toggler) Busy(userID string, contentID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy[busyKey{userID, contentID}] > 0
}

// Toggle flips the displayed membership and applies the change to the list.
//
// The returned indicator is what the UI should show afterwards: the flipped
// value on success, the previous value when the write failed, and not-member
// when a removal found nothing to remove. Only ErrBusy is returned as an
// error; remote failures are reported through the notification.
func (t *Toggler) Toggle(ctx context.Context, ind Indicator, userID string, show Show) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{
			Indicator:    ind,
			Notification: t.notify(ctx, "", show.ID, events.LevelError, MsgLoginRequired),
		}, nil
	}
	if ind.Busy || t.Busy(userID, show.ID) {
		return ToggleResult{Indicator: ind}, ErrBusy
	}

	previous := ind.Member
	if previous {
		return t.remove(ctx, userID, show), nil
	}
	return t.add(ctx, userID, show), nil
}

func (t *Toggler) remove(ctx context.Context, userID string, show Show) ToggleResult {
	item, found, err := t.cache.Lookup(ctx, userID, show.ID)
	if err == nil && !found {
		t.refreshLater(ctx, userID)
		return ToggleResult{
			Indicator:    Indicator{Member: false},
			Notification: t.notify(ctx, userID, show.ID, events.LevelError, MsgNotInList),
		}
	}
	if err == nil {
		err = t.cache.Remove(ctx, userID, item.ID)
	}
	if err != nil {
		t.log.Error("watch later remove failed", "user_id", userID, "content_id", show.ID, "error", err)
		return ToggleResult{
			Indicator:    Indicator{Member: true},
			Notification: t.notify(ctx, userID, show.ID, events.LevelError, MsgRemoveFailed),
		}
	}
	return ToggleResult{
		Indicator:    Indicator{Member: false},
		Notification: t.notify(ctx, userID, show.ID, events.LevelSuccess, MsgRemoved),
	}
}

func (t *Toggler) add(ctx context.Context, userID string, show Show) ToggleResult {
	if _, err := t.cache.Add(ctx, userID, show.NewItem()); err != nil {
		t.log.Error("watch later add failed", "user_id", userID, "content_id", show.ID, "error", err)
		return ToggleResult{
			Indicator:    Indicator{Member: false},
			Notification: t.notify(ctx, userID, show.ID, events.LevelError, MsgUpdateFailed),
		}
	}
	return ToggleResult{
		Indicator:    Indicator{Member: true},
		Notification: t.notify(ctx, userID, show.ID, events.LevelSuccess, MsgAdded),
	}
}

// refreshLater re-reads the list in the background, detached from ctx's cancellation.
func (t *Toggler) refreshLater(ctx context.Context, userID string) {
	ctx = context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if _, err := t.cache.Refresh(ctx, userID); err != nil {
			t.log.Warn("background refresh failed", "user_id", userID, "error", err)
		}
	}()
}

// Wait blocks until background refreshes have finished.
func (t *Toggler) Wait() {
	t.wg.Wait()
}

func (t *Toggler) notify(ctx context.Context, userID string, contentID int64, level, msg string) *events.Notification {
	n := events.NewNotification(userID, contentID, level, msg)
	if t.pub != nil && userID != "" {
		if err := t.pub.Publish(ctx, n); err != nil {
			t.log.Warn("publish notification failed", "error", err)
		}
	}
	return n
}
