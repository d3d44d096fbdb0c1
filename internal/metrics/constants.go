package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameCasesOpened      = "cases_opened_total"
	MetricNameRareDrops        = "rare_drops_total"
	MetricNameRefundsIssued    = "refunds_issued_total"
	MetricNameRefundFailures   = "refund_failures_total"
	MetricNameDiscountUpgrades = "discount_upgrades_total"
	MetricNameMoneySpent       = "money_spent_total"
	MetricNameMoneyWon         = "money_won_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextCasesOpened      = "Total number of cases opened"
	HelpTextRareDrops        = "Total number of rare-tier drops"
	HelpTextRefundsIssued    = "Total number of compensating refunds issued"
	HelpTextRefundFailures   = "Total number of compensating refunds that failed"
	HelpTextDiscountUpgrades = "Total number of discount level upgrades"
	HelpTextMoneySpent       = "Total money debited for openings and upgrades"
	HelpTextMoneyWon         = "Total item value won from openings"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelCase   = "case_id"
	LabelRarity = "rarity"
)

// Log messages
const (
	LogMsgEventPayloadDecode = "Failed to decode event payload for metrics"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
