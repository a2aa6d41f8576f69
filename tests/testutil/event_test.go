package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("records deliveries in order", func(t *testing.T) {
		h := NewMockEventHandler("OrderPlaced", "OrderCancelled")
		placed := NewTestEvent("OrderPlaced")
		cancelled := NewTestEvent("OrderCancelled")

		require.NoError(t, h.Handle(ctx, placed))
		require.NoError(t, h.Handle(ctx, cancelled))

		assert.Equal(t, []string{"OrderPlaced", "OrderCancelled"}, h.EventTypes())
		assert.Equal(t, 2, h.HandledCount())
		assert.Equal(t, placed, h.Handled()[0])
	})

	t.Run("failing handler still records the event", func(t *testing.T) {
		h := NewMockEventHandler("StockReceived")
		h.SetError(assert.AnError)

		err := h.Handle(ctx, NewTestEvent("StockReceived"))

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 1, h.HandledCount())
	})
}

func TestNewTestEvent(t *testing.T) {
	event := NewTestEvent("UserRegistered")

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "UserRegistered", event.EventType())
	assert.False(t, event.OccurredAt().IsZero())
}

func TestWaitForEventCount(t *testing.T) {
	h := NewMockEventHandler("OrderPlaced")

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = h.Handle(context.Background(), NewTestEvent("OrderPlaced"))
		_ = h.Handle(context.Background(), NewTestEvent("OrderPlaced"))
	}()

	WaitForEventCount(t, h, 2, time.Second)
	assert.Equal(t, 2, h.HandledCount())
}

func TestRecordingPublisher(t *testing.T) {
	p := NewRecordingPublisher()
	assert.Empty(t, p.Events())

	require.NoError(t, p.Publish(context.Background(),
		NewTestEvent("OrderPlaced"), NewTestEvent("LowStock"), NewTestEvent("OrderPlaced")))

	assert.Len(t, p.Events(), 3)
	assert.Len(t, p.EventsOfType("OrderPlaced"), 2)
	assert.Empty(t, p.EventsOfType("OrderCancelled"))
}
