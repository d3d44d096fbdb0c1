package config

import "time"

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort        = 8080
	DefaultServiceName = "casevault"
	DefaultVersion     = "dev"

	DefaultCatalogPath = "configs/catalog.json"

	DefaultInventoryCapacity = 200

	DefaultRateLimitMax    = 30
	DefaultRateLimitWindow = time.Minute
	DefaultRateLimitSweep  = 30 * time.Second

	DefaultLogDir = "logs"

	DefaultEventMaxRetries     = 5
	DefaultEventRetryDelay     = 2 * time.Second
	DefaultEventDeadLetterPath = "data/events_deadletter.jsonl"

	DefaultEventLogRetentionDays = 30
	DefaultEventLogCleanupEvery  = 6 * time.Hour
)

// Environment names
const (
	EnvDev        = "dev"
	EnvStaging    = "staging"
	EnvProduction = "prod"
)

// Database pool settings
const (
	DefaultDBMaxConns    = 10
	DefaultDBMaxIdleTime = 5 * time.Minute
	DefaultDBMaxLifetime = 30 * time.Minute
)
