package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// StockAdjustedEvent represents a committed stock change ready for consumers
// (dashboards, alerting) to pick up.
type StockAdjustedEvent struct {
	AdjustmentID     uuid.UUID      `json:"adjustment_id"`
	ProductID        uuid.UUID      `json:"product_id"`
	StoreID          uuid.UUID      `json:"store_id"`
	Type             AdjustmentType `json:"adjustment_type"`
	QuantityChange   int            `json:"quantity_change"`
	PreviousQuantity int            `json:"previous_quantity"`
	NewQuantity      int            `json:"new_quantity"`
	OccurredAt       time.Time      `json:"occurred_at"`
}

// stockChannel is the pub/sub channel stock events are published on, one per
// store so consumers can subscribe to a single tenant.
func stockChannel(storeID uuid.UUID) string {
	return fmt.Sprintf("stock.adjusted.%s", storeID)
}

// RedisPublisher publishes stock events on Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher constructs the publisher.
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

// PublishStockAdjusted serialises the event and publishes it. Delivery is
// best-effort; the ledger write has already committed by the time this runs.
func (p *RedisPublisher) PublishStockAdjusted(ctx context.Context, event StockAdjustedEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, stockChannel(event.StoreID), payload).Err()
}
