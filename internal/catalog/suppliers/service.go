package suppliers

import (
	"context"

	"github.com/google/uuid"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, storeID uuid.UUID, search string, includeInactive bool) ([]Supplier, error) {
	return s.repo.List(ctx, storeID, search, includeInactive)
}

func (s *Service) Get(ctx context.Context, storeID, id uuid.UUID) (Supplier, error) {
	if id == uuid.Nil {
		return Supplier{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, storeID, id)
}

func (s *Service) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if err := s.validate(supplier); err != nil {
		return Supplier{}, err
	}
	return s.repo.Create(ctx, supplier)
}

func (s *Service) Update(ctx context.Context, supplier Supplier) error {
	if supplier.ID == uuid.Nil {
		return shared.ErrInvalidID
	}
	if err := s.validate(supplier); err != nil {
		return err
	}
	return s.repo.Update(ctx, supplier)
}

// CanRemove counts active products still referencing the supplier.
func (s *Service) CanRemove(ctx context.Context, storeID, id uuid.UUID) (shared.RemovalCheck, error) {
	if id == uuid.Nil {
		return shared.RemovalCheck{}, shared.ErrInvalidID
	}
	count, err := s.repo.CountActiveProducts(ctx, storeID, id)
	if err != nil {
		return shared.RemovalCheck{}, err
	}
	return shared.RemovalCheck{Allowed: count == 0, BlockingCount: count}, nil
}

// Delete deactivates the supplier once the integrity guard passes. This is a
// soft delete on purpose: deactivated suppliers can be brought back by
// editing, unlike categories which are removed for good.
func (s *Service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	check, err := s.CanRemove(ctx, storeID, id)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return &shared.DeleteBlockedError{Entity: "supplier", BlockingCount: check.BlockingCount}
	}
	return s.repo.SoftDelete(ctx, storeID, id)
}
