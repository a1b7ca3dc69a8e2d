package categories

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products within a store. Names are unique per store.
type Category struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
