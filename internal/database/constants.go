package database

// DefaultMinConnections is the floor of warm connections kept in the pool.
const DefaultMinConnections = 2

// Error context strings for pool construction.
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
)

const LogMsgSuccessfullyConnectedToDatabase = "Connected to the database"
