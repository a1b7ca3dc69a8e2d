package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stocklane/stocklane/internal/shared"
)

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// EventPort publishes committed stock changes to interested consumers.
type EventPort interface {
	PublishStockAdjusted(ctx context.Context, event StockAdjustedEvent) error
}

// Service is the stock ledger: it applies signed quantity deltas to products
// and appends one immutable adjustment record per committed change.
type Service struct {
	repo        Repository
	audit       AuditPort
	events      EventPort
	idempotency *shared.IdempotencyStore
	maxRetries  int
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// MaxRetries bounds the read-check-write cycles attempted when the
	// conditional quantity update loses to a concurrent adjustment.
	MaxRetries int
}

// NewService builds Service.
func NewService(repo Repository, audit AuditPort, events EventPort, idem *shared.IdempotencyStore, cfg ServiceConfig) *Service {
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Service{repo: repo, audit: audit, events: events, idempotency: idem, maxRetries: retries}
}

// Apply adjusts a single product's stock and records the change. The quantity
// update is a compare-and-swap against the quantity read during the
// precondition check; the before/after snapshot on the adjustment row comes
// from that same read, never a re-read, so a concurrent adjustment cannot slip
// between check and write unnoticed.
func (s *Service) Apply(ctx context.Context, input ApplyInput) (Adjustment, error) {
	if err := s.validateInput(input.Delta, input.Type); err != nil {
		return Adjustment{}, err
	}

	insertedKey, err := s.claimKey(ctx, input.IdempotencyKey)
	if err != nil {
		return Adjustment{}, err
	}

	adj, err := s.applyOne(ctx, input.StoreID, input.ProductID, input.Delta, input.Type, input.Reason, input.ActorID)
	if err != nil {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
		}
		return Adjustment{}, err
	}

	s.recordAudit(ctx, adj)
	s.publish(ctx, adj)
	return adj, nil
}

// ApplyBulk applies one uniform delta across a set of products. The policy is
// all-or-nothing: every member's precondition is evaluated against its own
// fresh quantity before any write starts, and a single violation rejects the
// whole batch with zero writes. On success one adjustment row is written per
// product, preserving per-product audit granularity.
func (s *Service) ApplyBulk(ctx context.Context, input BulkInput) (BulkResult, error) {
	if err := s.validateInput(input.Delta, input.Type); err != nil {
		return BulkResult{}, err
	}
	ids := dedupe(input.ProductIDs)
	if len(ids) == 0 {
		return BulkResult{}, ErrInvalidAdjustment
	}

	insertedKey, err := s.claimKey(ctx, input.IdempotencyKey)
	if err != nil {
		return BulkResult{}, err
	}
	rollbackKey := func() {
		if insertedKey {
			_ = s.idempotency.Delete(ctx, input.IdempotencyKey)
		}
	}

	// Precondition phase: fetch every member's current quantity before any
	// write begins. Rejections are collected across the whole set so the
	// caller can name every offending product, not just the first.
	quantities := make([]int, len(ids))
	var mu sync.Mutex
	var rejected []uuid.UUID

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			qty, err := s.repo.GetQuantity(gctx, input.StoreID, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			quantities[i] = qty
			if qty+input.Delta < 0 {
				mu.Lock()
				rejected = append(rejected, id)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		rollbackKey()
		return BulkResult{}, err
	}
	if len(rejected) > 0 {
		rollbackKey()
		return BulkResult{}, &BulkRejectedError{RejectedIDs: sortByInput(ids, rejected)}
	}

	// Last cancellation point: once the first write is issued the batch runs
	// to completion.
	if err := ctx.Err(); err != nil {
		rollbackKey()
		return BulkResult{}, err
	}

	result := BulkResult{Applied: make([]Adjustment, 0, len(ids))}
	for _, id := range ids {
		adj, err := s.applyOne(ctx, input.StoreID, id, input.Delta, input.Type, input.Reason, input.ActorID)
		if err != nil {
			rollbackKey()
			return result, fmt.Errorf("product %s: %w", id, err)
		}
		result.Applied = append(result.Applied, adj)
	}

	for _, adj := range result.Applied {
		s.recordAudit(ctx, adj)
		s.publish(ctx, adj)
	}
	return result, nil
}

// History lists ledger entries, newest first.
func (s *Service) History(ctx context.Context, storeID uuid.UUID, filter AdjustmentFilter) ([]Adjustment, error) {
	return s.repo.ListAdjustments(ctx, storeID, filter)
}

// applyOne runs the read-check-write cycle for a single product, retrying a
// bounded number of times when the conditional write loses the race.
func (s *Service) applyOne(ctx context.Context, storeID, productID uuid.UUID, delta int, typ AdjustmentType, reason string, actorID uuid.UUID) (Adjustment, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		current, err := s.repo.GetQuantity(ctx, storeID, productID)
		if err != nil {
			return Adjustment{}, err
		}
		next := current + delta
		if next < 0 {
			return Adjustment{}, ErrNegativeStock
		}

		ok, err := s.repo.UpdateQuantity(ctx, storeID, productID, current, next)
		if err != nil {
			return Adjustment{}, err
		}
		if !ok {
			// Lost to a concurrent adjustment; re-read and try again.
			continue
		}

		adj := Adjustment{
			ID:               uuid.New(),
			ProductID:        productID,
			StoreID:          storeID,
			ActorID:          actorID,
			Type:             typ,
			QuantityChange:   delta,
			PreviousQuantity: current,
			NewQuantity:      next,
			Reason:           reason,
			CreatedAt:        time.Now().UTC(),
		}
		if err := s.repo.InsertAdjustment(ctx, adj); err != nil {
			return Adjustment{}, err
		}
		return adj, nil
	}
	return Adjustment{}, ErrConcurrentModification
}

func (s *Service) validateInput(delta int, typ AdjustmentType) error {
	if delta == 0 {
		return ErrInvalidAdjustment
	}
	if !typ.Valid() {
		return ErrInvalidAdjustmentType
	}
	return nil
}

func (s *Service) claimKey(ctx context.Context, key string) (bool, error) {
	if s.idempotency == nil || key == "" {
		return false, nil
	}
	if err := s.idempotency.CheckAndInsert(ctx, key, "inventory"); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) recordAudit(ctx context.Context, adj Adjustment) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		StoreID:  adj.StoreID,
		ActorID:  adj.ActorID,
		Action:   fmt.Sprintf("inventory:%s", adj.Type),
		Entity:   "stock_adjustment",
		EntityID: adj.ID.String(),
		Meta: map[string]any{
			"product_id":        adj.ProductID.String(),
			"quantity_change":   adj.QuantityChange,
			"previous_quantity": adj.PreviousQuantity,
			"new_quantity":      adj.NewQuantity,
			"reason":            adj.Reason,
		},
	})
}

func (s *Service) publish(ctx context.Context, adj Adjustment) {
	if s.events == nil {
		return
	}
	_ = s.events.PublishStockAdjusted(ctx, StockAdjustedEvent{
		AdjustmentID:     adj.ID,
		ProductID:        adj.ProductID,
		StoreID:          adj.StoreID,
		Type:             adj.Type,
		QuantityChange:   adj.QuantityChange,
		PreviousQuantity: adj.PreviousQuantity,
		NewQuantity:      adj.NewQuantity,
		OccurredAt:       adj.CreatedAt,
	})
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// sortByInput orders the rejected ids by their position in the input set so
// error messages are stable regardless of fetch completion order.
func sortByInput(input, rejected []uuid.UUID) []uuid.UUID {
	member := make(map[uuid.UUID]struct{}, len(rejected))
	for _, id := range rejected {
		member[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(rejected))
	for _, id := range input {
		if _, ok := member[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
