package event

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/strayline/casevault/internal/logger"
)

// DeadLetterSchemaVersion tags each entry so the format can evolve without
// breaking replay tooling.
const DeadLetterSchemaVersion = "1.0"

// DeadLetterEntry is one JSONL line in the dead-letter file: an event that
// exhausted its retries, with enough context to replay or triage it.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterLog appends undeliverable events to a JSONL file. The file is
// opened per append so a missing or rotated file never wedges the publisher.
type DeadLetterLog struct {
	path string
	mu   sync.Mutex
}

func NewDeadLetterLog(path string) *DeadLetterLog {
	return &DeadLetterLog{path: path}
}

// Append writes one entry. attempts counts delivery tries including the
// first synchronous one; lastErr may be nil.
func (l *DeadLetterLog) Append(evt Event, attempts int, lastErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return fmt.Errorf("open dead-letter file %s: %w", l.path, err)
	}
	defer f.Close()

	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Timestamp:     time.Now().UTC(),
		Event:         evt,
		Attempts:      attempts,
	}
	if lastErr != nil {
		entry.LastError = lastErr.Error()
	}

	if err := json.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("append dead-letter entry: %w", err)
	}

	logger.Info(LogMsgEventDeadLettered,
		"event_type", evt.Type,
		"attempts", attempts,
		"path", l.path)
	return nil
}
