package categories

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

func (s *Service) List(ctx context.Context, storeID uuid.UUID, search string) ([]Category, error) {
	return s.repo.List(ctx, storeID, search)
}

func (s *Service) Get(ctx context.Context, storeID, id uuid.UUID) (Category, error) {
	if id == uuid.Nil {
		return Category{}, shared.ErrInvalidID
	}
	return s.repo.Get(ctx, storeID, id)
}

func (s *Service) Create(ctx context.Context, category Category) (Category, error) {
	if err := s.validate(category); err != nil {
		return Category{}, err
	}
	return s.repo.Create(ctx, category)
}

func (s *Service) Update(ctx context.Context, category Category) error {
	if category.ID == uuid.Nil {
		return shared.ErrInvalidID
	}
	if err := s.validate(category); err != nil {
		return err
	}
	return s.repo.Update(ctx, category)
}

// CanRemove counts active products still referencing the category. Removal is
// allowed only when the count is zero.
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

// Delete hard-deletes the category after the integrity guard passes. Products
// left without a category are a caller concern, not reassigned here.
func (s *Service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	check, err := s.CanRemove(ctx, storeID, id)
	if err != nil {
		return err
	}
	if !check.Allowed {
		return &shared.DeleteBlockedError{Entity: "category", BlockingCount: check.BlockingCount}
	}
	return s.repo.HardDelete(ctx, storeID, id)
}
