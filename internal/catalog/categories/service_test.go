package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type memoryRepo struct {
	categories map[uuid.UUID]Category
	// active product count per category id
	references map[uuid.UUID]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		categories: make(map[uuid.UUID]Category),
		references: make(map[uuid.UUID]int),
	}
}

func (r *memoryRepo) List(ctx context.Context, storeID uuid.UUID, search string) ([]Category, error) {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, storeID, id uuid.UUID) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, category Category) (Category, error) {
	category.ID = uuid.New()
	r.categories[category.ID] = category
	return category, nil
}

func (r *memoryRepo) Update(ctx context.Context, category Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return shared.ErrNotFound
	}
	r.categories[category.ID] = category
	return nil
}

func (r *memoryRepo) HardDelete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, ok := r.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *memoryRepo) CountActiveProducts(ctx context.Context, storeID, id uuid.UUID) (int, error) {
	return r.references[id], nil
}

func TestCanRemoveCountsActiveReferences(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Category{Name: "Beverages"})
	require.NoError(t, err)

	check, err := svc.CanRemove(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.True(t, check.Allowed)
	require.Zero(t, check.BlockingCount)

	repo.references[created.ID] = 3
	check, err = svc.CanRemove(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.False(t, check.Allowed)
	require.Equal(t, 3, check.BlockingCount)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Category{Name: "Snacks"})
	require.NoError(t, err)
	repo.references[created.ID] = 2

	err = svc.Delete(ctx, uuid.Nil, created.ID)
	var blocked *shared.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "category", blocked.Entity)
	require.Equal(t, 2, blocked.BlockingCount)

	// Still there.
	_, err = svc.Get(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
}

func TestDeleteIsHard(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Category{Name: "Seasonal"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, uuid.Nil, created.ID))

	// The row is gone, not deactivated.
	_, err = svc.Get(ctx, uuid.Nil, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Category{Name: "   "})
	require.Error(t, err)
}

func TestNilIDRejected(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Get(ctx, uuid.Nil, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrInvalidID)
	_, err = svc.CanRemove(ctx, uuid.Nil, uuid.Nil)
	require.ErrorIs(t, err, shared.ErrInvalidID)
}
