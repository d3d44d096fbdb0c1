package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/strayline/casevault/internal/eventlog"
)

// EventLogRepository implements the audit event log for PostgreSQL
type EventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// LogEvent stores one audit row; the payload lands in a JSONB column
func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, userID *string, payload map[string]interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", errMsgEncodeEventPayload, err)
	}

	const query = `
		INSERT INTO event_log (event_type, user_id, payload, created_at)
		VALUES ($1, $2, $3, now())`

	if _, err := r.db.Exec(ctx, query, eventType, userID, raw); err != nil {
		return fmt.Errorf("%s: %w", errMsgInsertEventLog, err)
	}
	return nil
}

// GetEventsByUser returns the newest audit rows for a user
func (r *EventLogRepository) GetEventsByUser(ctx context.Context, userID string, limit int) ([]eventlog.Entry, error) {
	const query = `
		SELECT id, event_type, user_id, payload, created_at
		FROM event_log
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errMsgQueryEventLog, err)
	}
	defer rows.Close()

	var entries []eventlog.Entry
	for rows.Next() {
		var entry eventlog.Entry
		var raw []byte
		if err := rows.Scan(&entry.ID, &entry.EventType, &entry.UserID, &raw, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", errMsgQueryEventLog, err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entry.Payload); err != nil {
				return nil, fmt.Errorf("%s: %w", errMsgDecodeEventPayload, err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// CleanupOldEvents deletes audit rows older than the retention window
func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	const query = `
		DELETE FROM event_log
		WHERE created_at < now() - ($1 * interval '1 day')`

	tag, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", errMsgCleanupEventLog, err)
	}
	return tag.RowsAffected(), nil
}
