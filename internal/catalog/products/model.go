package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable item owned by a store.
type Product struct {
	ID                uuid.UUID       `json:"id"`
	StoreID           uuid.UUID       `json:"store_id"`
	Name              string          `json:"name"`
	SKU               string          `json:"sku,omitempty"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CategoryID        *uuid.UUID      `json:"category_id,omitempty"`
	SupplierID        *uuid.UUID      `json:"supplier_id,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StockBucket classifies a product's stock level against its threshold.
type StockBucket string

const (
	StockOut    StockBucket = "out"
	StockLow    StockBucket = "low"
	StockNormal StockBucket = "normal"
)

// Bucket derives the stock-level classification.
func (p Product) Bucket() StockBucket {
	switch {
	case p.StockQuantity == 0:
		return StockOut
	case p.StockQuantity <= p.LowStockThreshold:
		return StockLow
	default:
		return StockNormal
	}
}
