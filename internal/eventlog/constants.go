package eventlog

// PayloadKeyUserID is the payload field the subject user is extracted from.
const PayloadKeyUserID = "user_id"

// Log messages for event persistence and the retention job.
const (
	LogMsgPayloadNotSerializable = "Event payload not serializable, skipping audit log"
	LogMsgFailedToLogEvent       = "Failed to persist audit event"
	LogMsgEventLogged            = "Audit event persisted"

	LogMsgCleanupJobStarting  = "Starting audit log cleanup"
	LogMsgCleanupJobFailed    = "Audit log cleanup failed"
	LogMsgCleanupJobCompleted = "Audit log cleanup completed"
)
