package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AdjustmentType enumerates the reasons a stock quantity can change.
type AdjustmentType string

const (
	AdjustmentManual   AdjustmentType = "manual"
	AdjustmentRestock  AdjustmentType = "restock"
	AdjustmentDamage   AdjustmentType = "damage"
	AdjustmentReturn   AdjustmentType = "return"
	AdjustmentTransfer AdjustmentType = "transfer"
)

// Valid reports whether the type is one of the known adjustment reasons.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentManual, AdjustmentRestock, AdjustmentDamage, AdjustmentReturn, AdjustmentTransfer:
		return true
	}
	return false
}

// Adjustment is an immutable ledger entry recording a single stock change.
// Rows are created exactly once per committed adjustment and never mutated or
// deleted afterwards.
type Adjustment struct {
	ID               uuid.UUID      `json:"id"`
	ProductID        uuid.UUID      `json:"product_id"`
	StoreID          uuid.UUID      `json:"store_id"`
	ActorID          uuid.UUID      `json:"actor_id"`
	Type             AdjustmentType `json:"adjustment_type"`
	QuantityChange   int            `json:"quantity_change"`
	PreviousQuantity int            `json:"previous_quantity"`
	NewQuantity      int            `json:"new_quantity"`
	Reason           string         `json:"reason,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ApplyInput describes a single-product stock adjustment request.
type ApplyInput struct {
	StoreID        uuid.UUID
	ProductID      uuid.UUID
	Delta          int
	Type           AdjustmentType
	Reason         string
	ActorID        uuid.UUID
	IdempotencyKey string
}

// BulkInput describes one delta applied across a set of products. The delta is
// uniform; each product's precondition is evaluated against its own quantity.
type BulkInput struct {
	StoreID        uuid.UUID
	ProductIDs     []uuid.UUID
	Delta          int
	Type           AdjustmentType
	Reason         string
	ActorID        uuid.UUID
	IdempotencyKey string
}

// BulkResult lists the per-product ledger entries of a committed batch.
type BulkResult struct {
	Applied []Adjustment `json:"applied"`
}

// AdjustmentFilter narrows ledger history queries.
type AdjustmentFilter struct {
	ProductID uuid.UUID
	From      time.Time
	To        time.Time
	Limit     int
}

// ErrInvalidAdjustment is returned for a zero delta.
var ErrInvalidAdjustment = errors.New("inventory: adjustment delta must be non zero")

// ErrInvalidAdjustmentType is returned for an unknown adjustment type.
var ErrInvalidAdjustmentType = errors.New("inventory: unknown adjustment type")

// ErrNegativeStock is returned when an adjustment would drive a product's
// quantity below zero. No writes are performed.
var ErrNegativeStock = errors.New("inventory: negative stock not allowed")

// ErrConcurrentModification is returned when the conditional quantity write
// kept losing to concurrent adjustments and the retry budget ran out.
var ErrConcurrentModification = errors.New("inventory: concurrent modification, retries exhausted")

// ErrProductInactive is returned when adjusting a soft-deleted product.
var ErrProductInactive = errors.New("inventory: product is inactive")

// BulkRejectedError reports the members of a batch that would go negative.
// The whole batch is rejected and zero writes occur.
type BulkRejectedError struct {
	RejectedIDs []uuid.UUID
}

func (e *BulkRejectedError) Error() string {
	return fmt.Sprintf("inventory: bulk adjustment rejected, %d product(s) would go negative", len(e.RejectedIDs))
}
