package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type memoryRepo struct {
	products map[uuid.UUID]Product
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[uuid.UUID]Product)}
}

func (r *memoryRepo) List(ctx context.Context, storeID uuid.UUID, includeInactive bool) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, storeID, id uuid.UUID) (Product, error) {
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(ctx context.Context, product Product) (Product, error) {
	product.ID = uuid.New()
	r.products[product.ID] = product
	return product, nil
}

func (r *memoryRepo) Update(ctx context.Context, product Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return shared.ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	p.IsActive = false
	r.products[id] = p
	return nil
}

func TestListAppliesFilterSpec(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Name: "Hammer", Price: decimal.RequireFromString("12.00")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Product{Name: "Screwdriver", Price: decimal.RequireFromString("6.50")})
	require.NoError(t, err)

	got, err := svc.List(ctx, uuid.Nil, FilterSpec{Search: "hammer"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Hammer", got[0].Name)

	got, err = svc.List(ctx, uuid.Nil, FilterSpec{SortBy: SortByPrice})
	require.NoError(t, err)
	require.Equal(t, "Screwdriver", got[0].Name)
}

func TestDeleteDeactivatesAndHidesFromList(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Product{Name: "Discontinued Widget"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, uuid.Nil, created.ID))

	got, err := svc.List(ctx, uuid.Nil, FilterSpec{})
	require.NoError(t, err)
	require.Empty(t, got)

	// The row itself survives for ledger references.
	kept, err := svc.Get(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.False(t, kept.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, Product{Name: ""})
	require.Error(t, err)

	_, err = svc.Create(ctx, Product{Name: "Bad Price", Price: decimal.RequireFromString("-1")})
	require.Error(t, err)

	_, err = svc.Create(ctx, Product{Name: "Bad Stock", StockQuantity: -2})
	require.Error(t, err)
}
