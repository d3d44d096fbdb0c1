package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	CasesOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCasesOpened,
			Help: HelpTextCasesOpened,
		},
		[]string{LabelCase},
	)

	RareDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRareDrops,
			Help: HelpTextRareDrops,
		},
		[]string{LabelRarity},
	)

	RefundsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRefundsIssued,
			Help: HelpTextRefundsIssued,
		},
	)

	RefundFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRefundFailures,
			Help: HelpTextRefundFailures,
		},
	)

	DiscountUpgrades = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDiscountUpgrades,
			Help: HelpTextDiscountUpgrades,
		},
	)

	MoneySpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneySpent,
			Help: HelpTextMoneySpent,
		},
	)

	MoneyWon = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameMoneyWon,
			Help: HelpTextMoneyWon,
		},
	)
)
