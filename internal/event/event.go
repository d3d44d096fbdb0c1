package event

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Common event types
const (
	// RareDropLanded fires when an opening wins an item from one of the
	// top-two rarity tiers.
	RareDropLanded Type = "drop.rare"

	// OpeningCompleted fires after a successful opening saga.
	OpeningCompleted Type = "opening.completed"

	// RefundIssued fires when a compensating refund is attempted after a
	// failed inventory persist, whether or not the credit landed.
	RefundIssued Type = "balance.refund_issued"
)

// Typed event payloads for type safety

// RareDropPayloadV1 is the typed payload for rare drop events
type RareDropPayloadV1 struct {
	UserID    string  `json:"user_id"`
	CaseID    string  `json:"case_id"`
	ItemName  string  `json:"item_name"`
	Rarity    string  `json:"rarity"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}

// OpeningCompletedPayloadV1 is the typed payload for opening completion events
type OpeningCompletedPayloadV1 struct {
	UserID     string  `json:"user_id"`
	CaseID     string  `json:"case_id"`
	Quantity   int     `json:"quantity"`
	TotalCost  float64 `json:"total_cost"`
	TotalValue float64 `json:"total_value"`
	NetProfit  float64 `json:"net_profit"`
	Timestamp  int64   `json:"timestamp"`
}

// RefundIssuedPayloadV1 is the typed payload for compensating refund events
type RefundIssuedPayloadV1 struct {
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	Refunded  bool    `json:"refunded"`
	Timestamp int64   `json:"timestamp"`
}

// Type-safe event constructors

// NewRareDropEvent creates a new rare drop event with type-safe payload
func NewRareDropEvent(userID, caseID, itemName, rarity string, value float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RareDropLanded,
		Payload: RareDropPayloadV1{
			UserID:    userID,
			CaseID:    caseID,
			ItemName:  itemName,
			Rarity:    rarity,
			Value:     value,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewOpeningCompletedEvent creates a new opening completed event
func NewOpeningCompletedEvent(userID, caseID string, quantity int, totalCost, totalValue, netProfit float64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    OpeningCompleted,
		Payload: OpeningCompletedPayloadV1{
			UserID:     userID,
			CaseID:     caseID,
			Quantity:   quantity,
			TotalCost:  totalCost,
			TotalValue: totalValue,
			NetProfit:  netProfit,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewRefundIssuedEvent creates a new refund issued event. refunded is false
// when the compensating credit itself failed and reconciliation is needed.
func NewRefundIssuedEvent(userID string, amount float64, reason string, refunded bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    RefundIssued,
		Payload: RefundIssuedPayloadV1{
			UserID:    userID,
			Amount:    amount,
			Reason:    reason,
			Refunded:  refunded,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-process Bus. Handlers run synchronously on the
// publisher's goroutine; callers needing fire-and-forget wrap Publish in
// their own goroutine or use the ResilientPublisher.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[Type][]Handler)}
}

// Publish invokes every subscriber for the event type. A failing handler
// does not stop the rest; all failures are reported together.
func (b *MemoryBus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	subscribers := b.handlers[evt.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handle := range subscribers {
		if err := handle(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), evt.Type, errs)
	}
	return nil
}

// Subscribe registers a handler for an event type.
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
