package postgres

// Error message prefixes for wrapped query failures
const (
	errMsgQueryBalance       = "failed to query balance"
	errMsgUpdateBalance      = "failed to update balance"
	errMsgInsertTransaction  = "failed to insert transaction record"
	errMsgQueryUser          = "failed to query user"
	errMsgQueryPass          = "failed to query unlock pass"
	errMsgGrantPass          = "failed to grant unlock pass"
	errMsgUpdateDiscount     = "failed to update discount level"
	errMsgCountInventory     = "failed to count inventory entries"
	errMsgInsertInventory    = "failed to insert inventory entries"
	errMsgInsertDropHistory  = "failed to insert drop history"
	errMsgUpdateBestDrop     = "failed to update best drop"
	errMsgBeginTx            = "failed to begin transaction"
	errMsgCommitTx           = "failed to commit transaction"
	errMsgEncodeEventPayload = "failed to encode event payload"
	errMsgDecodeEventPayload = "failed to decode event payload"
	errMsgInsertEventLog     = "failed to insert event log row"
	errMsgQueryEventLog      = "failed to query event log"
	errMsgCleanupEventLog    = "failed to clean up event log"
)

// pgErrUniqueViolation is the PostgreSQL error code for unique constraint violations
const pgErrUniqueViolation = "23505"
