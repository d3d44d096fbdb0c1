package event

import "time"

// EventSchemaVersion is the current event schema version.
const EventSchemaVersion = "1.0"

// DeadLetterFilePermissions is the mode for created dead-letter files.
const DeadLetterFilePermissions = 0644

// Log messages shared across the event package.
const (
	LogMsgPublishFailed        = "Failed to publish event, initiating async retry"
	LogMsgRetryFailed          = "Event retry failed"
	LogMsgRetrySucceeded       = "Event published after retry"
	LogMsgEventDeadLettered    = "Event written to dead-letter log"
	LogMsgDeadLetterFailed     = "Failed to dead-letter event"
	LogMsgQueueDrainedShutdown = "Drained retry queue during shutdown"
	LogMsgShutdownTimeout      = "Resilient publisher shutdown timed out"

	LogMsgHandlerErrorFormat = "encountered %d errors while handling event %s: %v"
)

// CalculateRetryDelay returns the exponential backoff delay for an attempt,
// baseDelay * 2^(attempt-1), so a 2s base yields 2s, 4s, 8s, 16s, 32s.
func CalculateRetryDelay(baseDelay time.Duration, attempt int) time.Duration {
	return baseDelay * time.Duration(1<<(attempt-1))
}
