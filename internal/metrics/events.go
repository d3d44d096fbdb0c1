package metrics

import (
	"context"

	"github.com/strayline/casevault/internal/event"
	"github.com/strayline/casevault/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.OpeningCompleted,
		event.RareDropLanded,
		event.RefundIssued,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.OpeningCompleted:
		payload, err := event.DecodePayload[event.OpeningCompletedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		CasesOpened.WithLabelValues(payload.CaseID).Add(float64(payload.Quantity))
		MoneySpent.Add(payload.TotalCost)
		MoneyWon.Add(payload.TotalValue)

	case event.RareDropLanded:
		payload, err := event.DecodePayload[event.RareDropPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		RareDrops.WithLabelValues(payload.Rarity).Inc()

	case event.RefundIssued:
		payload, err := event.DecodePayload[event.RefundIssuedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
			return nil
		}
		RefundsIssued.Inc()
		if !payload.Refunded {
			RefundFailures.Inc()
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
