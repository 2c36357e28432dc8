// Package lists implements per-user saved lists (watch later, watch history),
// the TTL cache in front of the remote list store, and the optimistic
// membership toggle used by the UI.
package lists

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the list item doesn't exist.
	ErrNotFound = errors.New("list item not found")

	// ErrInvalidProgress is returned for progress values outside 0-100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrInvalidItem is returned when an insert is missing required fields.
	ErrInvalidItem = errors.New("invalid list item")
)

// Collection names a per-user list in the store.
type Collection string

const (
	WatchLater   Collection = "watchlater"
	WatchHistory Collection = "watchHistory"
)

// MediaType is the kind of content a list item points at.
type MediaType string

const (
	MediaMovie MediaType = "movie"
	MediaTV    MediaType = "tv"
)

// Valid reports whether t is a known media type.
func (t MediaType) Valid() bool {
	return t == MediaMovie || t == MediaTV
}

// Item is a persisted list entry.
type Item struct {
	ID         string    `json:"id"`
	ContentID  int64     `json:"movieId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	MediaType  MediaType `json:"mediaType"`
	AddedAt    time.Time `json:"addedAt"` // watchedAt for history
	Progress   *int      `json:"progress,omitempty"`
}

// NewItem carries the caller-supplied fields of an insert.
type NewItem struct {
	ContentID  int64     `json:"movieId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	MediaType  MediaType `json:"mediaType"`
	Progress   *int      `json:"progress,omitempty"`
}

// Validate checks the fields the store requires.
func (n NewItem) Validate() error {
	if n.ContentID <= 0 {
		return errors.Join(ErrInvalidItem, errors.New("movieId must be positive"))
	}
	if !n.MediaType.Valid() {
		return errors.Join(ErrInvalidItem, errors.New("mediaType must be movie or tv"))
	}
	if n.Progress != nil {
		if err := ValidateProgress(*n.Progress); err != nil {
			return err
		}
	}
	return nil
}

// ValidateProgress returns ErrInvalidProgress unless 0 <= p <= 100.
func ValidateProgress(p int) error {
	if p < 0 || p > 100 {
		return ErrInvalidProgress
	}
	return nil
}

// State tags a cached entry with its provenance.
type State int

const (
	// Confirmed entries came back from a remote read.
	Confirmed State = iota
	// Pending entries were built locally after a write and have not been read back yet.
	Pending
)

func (s State) String() string {
	if s == Pending {
		return "pending"
	}
	return "confirmed"
}

// Entry is a cached list item tagged with its State.
type Entry struct {
	Item
	State State `json:"-"`
}

// Pending reports whether the entry was fabricated locally and not yet confirmed by a read.
func (e Entry) Pending() bool { return e.State == Pending }

// Items strips the state tags.
func Items(entries []Entry) []Item {
	out := make([]Item, len(entries))
	for i, e := range entries {
		out[i] = e.Item
	}
	return out
}

func confirmed(items []Item) []Entry {
	out := make([]Entry, len(items))
	for i, it := range items {
		out[i] = Entry{Item: it, State: Confirmed}
	}
	return out
}
