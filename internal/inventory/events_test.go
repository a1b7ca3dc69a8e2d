package inventory

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestPublishStockAdjusted(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	storeID := uuid.New()
	sub := client.Subscribe(context.Background(), stockChannel(storeID))
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	pub := NewRedisPublisher(client)
	event := StockAdjustedEvent{
		AdjustmentID:     uuid.New(),
		ProductID:        uuid.New(),
		StoreID:          storeID,
		Type:             AdjustmentRestock,
		QuantityChange:   5,
		PreviousQuantity: 10,
		NewQuantity:      15,
		OccurredAt:       time.Now().UTC(),
	}
	require.NoError(t, pub.PublishStockAdjusted(context.Background(), event))

	select {
	case msg := <-sub.Channel():
		var got StockAdjustedEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		require.Equal(t, event.AdjustmentID, got.AdjustmentID)
		require.Equal(t, event.NewQuantity, got.NewQuantity)
	case <-time.After(2 * time.Second):
		t.Fatal("no stock event received")
	}
}

func TestPublisherNilSafe(t *testing.T) {
	var pub *RedisPublisher
	require.NoError(t, pub.PublishStockAdjusted(context.Background(), StockAdjustedEvent{}))
}
