package suppliers

import (
	"time"

	"github.com/google/uuid"
)

// Supplier represents a supplier entity. Unlike categories, suppliers carry an
// is_active flag and are deactivated rather than removed, so they can be
// reactivated later by editing.
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
