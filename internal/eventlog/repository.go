package eventlog

import (
	"context"
	"time"
)

// Entry is one persisted audit event.
type Entry struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	UserID    *string                `json:"user_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// Repository is the storage contract for the audit trail. userID is nil for
// events with no extractable subject; such rows are still kept and purged.
type Repository interface {
	LogEvent(ctx context.Context, eventType string, userID *string, payload map[string]interface{}) error

	// GetEventsByUser returns the newest entries for a user, newest first.
	GetEventsByUser(ctx context.Context, userID string, limit int) ([]Entry, error)

	// CleanupOldEvents deletes entries older than retentionDays, returning
	// the number removed.
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
