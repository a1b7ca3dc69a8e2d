package shared

import (
	"fmt"

	"github.com/stocklane/stocklane/internal/platform/httpx"
)

// Sentinels reuse the httpx values so handlers can hand any catalog error to
// httpx.RespondError and get the right status back.
var (
	ErrNotFound      = httpx.ErrNotFound
	ErrDuplicate     = httpx.ErrDuplicate
	ErrValidation    = httpx.ErrValidation
	ErrInvalidID     = fmt.Errorf("%w: invalid id", httpx.ErrValidation)
	ErrRequiredField = fmt.Errorf("%w: field is required", httpx.ErrValidation)
)

// DeleteBlockedError reports how many active products still reference the
// category or supplier a caller tried to remove.
type DeleteBlockedError struct {
	Entity        string
	BlockingCount int
}

func (e *DeleteBlockedError) Error() string {
	return fmt.Sprintf("%s is referenced by %d active product(s)", e.Entity, e.BlockingCount)
}

// RemovalCheck is the integrity-guard verdict for a delete attempt.
type RemovalCheck struct {
	Allowed       bool `json:"allowed"`
	BlockingCount int  `json:"blocking_count"`
}
