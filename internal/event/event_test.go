package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	var received []Event
	bus.Subscribe(RareDropLanded, func(ctx context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	evt := NewRareDropEvent("user-1", "royal", "Sovereign Crown", "Mythic", 412.50)
	require.NoError(t, bus.Publish(ctx, evt))

	require.Len(t, received, 1)
	payload, err := DecodePayload[RareDropPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, "Mythic", payload.Rarity)
	assert.Equal(t, 412.50, payload.Value)
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	// Publishing with nobody listening is not an error.
	assert.NoError(t, bus.Publish(context.Background(), NewRefundIssuedEvent("user-1", 5.00, "inventory failure", true)))
}

func TestMemoryBusHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	bus.Subscribe(OpeningCompleted, func(ctx context.Context, e Event) error {
		return errors.New("handler broke")
	})
	calls := 0
	bus.Subscribe(OpeningCompleted, func(ctx context.Context, e Event) error {
		calls++
		return nil
	})

	err := bus.Publish(ctx, NewOpeningCompletedEvent("user-1", "starter", 2, 5.00, 7.20, 2.20))
	assert.Error(t, err, "handler failures surface to the publisher")
	assert.Equal(t, 1, calls, "one failing handler does not stop the others")
}

func TestDecodePayloadJSONFallback(t *testing.T) {
	// Serialized payloads arrive as maps and decode through JSON.
	raw := map[string]interface{}{
		"user_id": "user-1", "amount": 10.0, "reason": "inventory failure", "refunded": false,
	}
	payload, err := DecodePayload[RefundIssuedPayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.False(t, payload.Refunded)
}
