package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	Environment string
	ServiceName string
	Version     string

	LogLevel  string
	LogFormat string
	LogDir    string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey     string // API key for service-to-service authentication
	CSRFSecret string // HMAC secret for CSRF token validation

	TrustedProxies []string // proxies whose X-Forwarded-For is believed

	SessionServiceURL    string // external session validator
	CommissionServiceURL string // referral commission collaborator; empty disables

	CatalogPath string // JSON case catalog; empty falls back to the built-in set

	InventoryCapacity int // default inventory slot cap per user

	RateLimitWindow     time.Duration // per-identifier request window
	RateLimitMax        int           // max requests per window
	RateLimitSweepEvery time.Duration // minimum interval between cache sweeps

	EventMaxRetries     int           // publish retries before dead-lettering
	EventRetryDelay     time.Duration // base backoff between publish retries
	EventDeadLetterPath string        // JSONL file for undeliverable events

	EventLogRetentionDays int           // audit rows older than this get purged
	EventLogCleanupEvery  time.Duration // interval between audit purge runs
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", EnvDev),
		ServiceName: getEnv("SERVICE_NAME", DefaultServiceName),
		Version:     getEnv("VERSION", DefaultVersion),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogDir:    getEnv("LOG_DIR", DefaultLogDir),

		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "casevault"),

		APIKey:     getEnv("API_KEY", ""),
		CSRFSecret: getEnv("CSRF_SECRET", ""),

		SessionServiceURL:    getEnv("SESSION_SERVICE_URL", ""),
		CommissionServiceURL: getEnv("COMMISSION_SERVICE_URL", ""),

		CatalogPath: getEnv("CATALOG_PATH", DefaultCatalogPath),
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	port, err := getEnvInt("PORT", DefaultPort)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	capacity, err := getEnvInt("INVENTORY_CAPACITY", DefaultInventoryCapacity)
	if err != nil {
		return nil, err
	}
	cfg.InventoryCapacity = capacity

	rateMax, err := getEnvInt("RATE_LIMIT_MAX", DefaultRateLimitMax)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitMax = rateMax

	window, err := getEnvDuration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitWindow = window

	sweep, err := getEnvDuration("RATE_LIMIT_SWEEP_EVERY", DefaultRateLimitSweep)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitSweepEvery = sweep

	retries, err := getEnvInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries)
	if err != nil {
		return nil, err
	}
	cfg.EventMaxRetries = retries

	retryDelay, err := getEnvDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay)
	if err != nil {
		return nil, err
	}
	cfg.EventRetryDelay = retryDelay

	cfg.EventDeadLetterPath = getEnv("EVENT_DEAD_LETTER_PATH", DefaultEventDeadLetterPath)

	retention, err := getEnvInt("EVENT_LOG_RETENTION_DAYS", DefaultEventLogRetentionDays)
	if err != nil {
		return nil, err
	}
	cfg.EventLogRetentionDays = retention

	cleanupEvery, err := getEnvDuration("EVENT_LOG_CLEANUP_EVERY", DefaultEventLogCleanupEvery)
	if err != nil {
		return nil, err
	}
	cfg.EventLogCleanupEvery = cleanupEvery

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded configuration for values the server cannot
// start without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY environment variable must be set for security")
	}
	if c.CSRFSecret == "" {
		return fmt.Errorf("CSRF_SECRET environment variable must be set for security")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in (0, 65535], got %d", c.Port)
	}
	if c.InventoryCapacity <= 0 {
		return fmt.Errorf("INVENTORY_CAPACITY must be positive, got %d", c.InventoryCapacity)
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
