package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stocklane/stocklane/internal/catalog/products"
)

// SelectionState describes where the coordinator is in its lifecycle.
type SelectionState string

const (
	// SelectionEmpty means nothing is selected.
	SelectionEmpty SelectionState = "empty"
	// SelectionSelecting means at least one product is selected.
	SelectionSelecting SelectionState = "selecting"
	// SelectionCommitting means a bulk adjustment is in flight.
	SelectionCommitting SelectionState = "committing"
)

// ErrCommitInFlight is returned when the selection is mutated while a bulk
// commit is running.
var ErrCommitInFlight = errors.New("inventory: bulk commit in flight")

// ErrEmptySelection is returned when committing with nothing selected.
var ErrEmptySelection = errors.New("inventory: selection is empty")

// SelectionCoordinator tracks the working set of selected products and
// dispatches a single ledger delta across all of them. The selection is always
// scoped to the currently visible (filtered) set: Reconcile must be called
// whenever the filter spec changes so the selection never drifts out of sync
// with what the user sees.
//
// The coordinator models the single-threaded UI event loop and is not safe for
// concurrent use.
type SelectionCoordinator struct {
	ledger   *Service
	storeID  uuid.UUID
	selected map[uuid.UUID]struct{}
	state    SelectionState
}

// NewSelectionCoordinator builds a coordinator bound to one store's ledger.
func NewSelectionCoordinator(ledger *Service, storeID uuid.UUID) *SelectionCoordinator {
	return &SelectionCoordinator{
		ledger:   ledger,
		storeID:  storeID,
		selected: make(map[uuid.UUID]struct{}),
		state:    SelectionEmpty,
	}
}

// State reports the current lifecycle state.
func (c *SelectionCoordinator) State() SelectionState {
	return c.state
}

// Selected returns the selected ids in no particular order.
func (c *SelectionCoordinator) Selected() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(c.selected))
	for id := range c.selected {
		out = append(out, id)
	}
	return out
}

// Count returns the number of selected products.
func (c *SelectionCoordinator) Count() int {
	return len(c.selected)
}

// SelectAll sets the selection to the full currently-visible set, or clears it.
// Selection is scoped to what filtering currently shows, never the unfiltered
// universe.
func (c *SelectionCoordinator) SelectAll(visible []products.Product, checked bool) error {
	if c.state == SelectionCommitting {
		return ErrCommitInFlight
	}
	c.selected = make(map[uuid.UUID]struct{}, len(visible))
	if checked {
		for _, p := range visible {
			c.selected[p.ID] = struct{}{}
		}
	}
	c.syncState()
	return nil
}

// Toggle adds or removes a single product. Repeating the same toggle is a
// no-op.
func (c *SelectionCoordinator) Toggle(id uuid.UUID, checked bool) error {
	if c.state == SelectionCommitting {
		return ErrCommitInFlight
	}
	if checked {
		c.selected[id] = struct{}{}
	} else {
		delete(c.selected, id)
	}
	c.syncState()
	return nil
}

// Reconcile intersects the selection with the visible set. Called after the
// filter spec changes so a "select all" made under a previous filter narrows
// to what is actually shown.
func (c *SelectionCoordinator) Reconcile(visible []products.Product) {
	if c.state == SelectionCommitting || len(c.selected) == 0 {
		return
	}
	shown := make(map[uuid.UUID]struct{}, len(visible))
	for _, p := range visible {
		shown[p.ID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := shown[id]; !ok {
			delete(c.selected, id)
		}
	}
	c.syncState()
}

// Clear empties the selection.
func (c *SelectionCoordinator) Clear() error {
	if c.state == SelectionCommitting {
		return ErrCommitInFlight
	}
	c.selected = make(map[uuid.UUID]struct{})
	c.state = SelectionEmpty
	return nil
}

// Commit dispatches one bulk delta across the whole selection. On success the
// selection is cleared; on rejection it is kept so the caller can show which
// members blocked the batch and let the user retry.
func (c *SelectionCoordinator) Commit(ctx context.Context, delta int, typ AdjustmentType, reason string, actorID uuid.UUID) (BulkResult, error) {
	if c.state == SelectionCommitting {
		return BulkResult{}, ErrCommitInFlight
	}
	if len(c.selected) == 0 {
		return BulkResult{}, ErrEmptySelection
	}

	c.state = SelectionCommitting
	result, err := c.ledger.ApplyBulk(ctx, BulkInput{
		StoreID:    c.storeID,
		ProductIDs: c.Selected(),
		Delta:      delta,
		Type:       typ,
		Reason:     reason,
		ActorID:    actorID,
	})
	if err != nil {
		c.syncState()
		return result, err
	}

	c.selected = make(map[uuid.UUID]struct{})
	c.state = SelectionEmpty
	return result, nil
}

func (c *SelectionCoordinator) syncState() {
	if len(c.selected) == 0 {
		c.state = SelectionEmpty
	} else {
		c.state = SelectionSelecting
	}
}
