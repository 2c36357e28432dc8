package events

// Event types for user lists.
const (
	EventListItemAdded   = "list.item_added"
	EventListItemRemoved = "list.item_removed"
	EventListRefreshed   = "list.refreshed"
	EventNotification    = "notification"
)

// ListItemAdded is emitted after a list insert succeeds.
// EntityID is the TMDB content id.
type ListItemAdded struct {
	BaseEvent
	ItemID     string `json:"item_id"`
	Collection string `json:"collection"`
	Title      string `json:"title"`
}

// ListItemRemoved is emitted when an item is dropped from a list.
type ListItemRemoved struct {
	BaseEvent
	ItemID     string `json:"item_id"`
	Collection string `json:"collection"`
}

// ListRefreshed is emitted after a remote read replaced a cached list.
type ListRefreshed struct {
	BaseEvent
	Collection string `json:"collection"`
	Count      int    `json:"count"`
}

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Notification is a user-visible toast.
type Notification struct {
	BaseEvent
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NewNotification builds a notification event for userID about contentID.
func NewNotification(userID string, contentID int64, level, message string) *Notification {
	return &Notification{
		BaseEvent: NewBaseEvent(EventNotification, "notification", contentID, userID),
		Level:     level,
		Message:   message,
	}
}
