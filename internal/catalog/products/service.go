package products

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

// List returns the store's products filtered and ordered by the spec. The
// filter runs over an in-memory snapshot so the visible set is deterministic
// for a given read.
func (s *Service) List(ctx context.Context, storeID uuid.UUID, spec FilterSpec) ([]Product, error) {
	items, err := s.repo.List(ctx, storeID, false)
	if err != nil {
		return nil, err
	}
	return Visible(items, spec), nil
}

func (s *Service) Get(ctx context.Context, storeID, id uuid.UUID) (Product, error) {
	if id == uuid.Nil {
		return Product{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, storeID, id)
}

func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := s.validate(product); err != nil {
		return Product{}, err
	}
	product.IsActive = true
	return s.repo.Create(ctx, product)
}

func (s *Service) Update(ctx context.Context, product Product) error {
	if product.ID == uuid.Nil {
		return shared.ErrInvalidID
	}
	if err := s.validate(product); err != nil {
		return err
	}
	return s.repo.Update(ctx, product)
}

// Delete deactivates the product. Rows are never physically removed so the
// adjustment ledger keeps a valid reference.
func (s *Service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if id == uuid.Nil {
		return shared.ErrInvalidID
	}
	return s.repo.SoftDelete(ctx, storeID, id)
}
