package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vmunix/streamverse/internal/database"
)

// EventLog persists events to the SQL store.
type EventLog struct {
	db *database.DB
}

// NewEventLog creates a new event log.
func NewEventLog(db *database.DB) *EventLog {
	return &EventLog{db: db}
}

// Append persists an event and returns its ID.
func (l *EventLog) Append(ctx context.Context, e Event) (int64, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return 0, fmt.Errorf("marshal event: %w", err)
	}

	var id int64
	err = l.db.QueryRowContext(ctx, l.db.Rebind(`
		INSERT INTO events (event_type, entity_type, entity_id, user_id, payload, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		e.EventType(), e.EntityType(), e.EntityID(), e.UserID(), string(payload), e.OccurredAt().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// RawEvent represents a persisted event with its raw payload.
type RawEvent struct {
	ID         int64
	EventType  string
	EntityType string
	EntityID   int64
	UserID     string
	Payload    string
	OccurredAt time.Time
	CreatedAt  time.Time
}

const selectEvents = `
	SELECT id, event_type, entity_type, entity_id, user_id, payload, occurred_at, created_at
	FROM events`

// Recent returns the newest events first, with the total count.
func (l *EventLog) Recent(ctx context.Context, limit, offset int) ([]RawEvent, int, error) {
	var total int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, l.db.Rebind(selectEvents+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`),
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	return events, total, err
}

// ForUser returns the newest events addressed to userID.
func (l *EventLog) ForUser(ctx context.Context, userID string, limit int) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, l.db.Rebind(selectEvents+`
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?`),
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Since returns all events since the given time, oldest first.
func (l *EventLog) Since(ctx context.Context, t time.Time) ([]RawEvent, error) {
	rows, err := l.db.QueryContext(ctx, l.db.Rebind(selectEvents+`
		WHERE occurred_at >= ?
		ORDER BY id ASC`),
		t.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Prune removes events older than the given duration.
func (l *EventLog) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := l.db.ExecContext(ctx, l.db.Rebind(`DELETE FROM events WHERE occurred_at < ?`), cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return result.RowsAffected()
}

func scanEvents(rows *sql.Rows) ([]RawEvent, error) {
	var events []RawEvent
	for rows.Next() {
		var e RawEvent
		if err := rows.Scan(&e.ID, &e.EventType, &e.EntityType, &e.EntityID, &e.UserID, &e.Payload, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
