package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type memoryRepo struct {
	suppliers map[uuid.UUID]Supplier
	// active product count per supplier id
	references map[uuid.UUID]int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		suppliers:  make(map[uuid.UUID]Supplier),
		references: make(map[uuid.UUID]int),
	}
}

func (r *memoryRepo) List(ctx context.Context, storeID uuid.UUID, search string, includeInactive bool) ([]Supplier, error) {
	out := make([]Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		if !includeInactive && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, storeID, id uuid.UUID) (Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return Supplier{}, shared.ErrNotFound
	}
	return s, nil
}

func (r *memoryRepo) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	supplier.ID = uuid.New()
	supplier.IsActive = true
	r.suppliers[supplier.ID] = supplier
	return supplier, nil
}

func (r *memoryRepo) Update(ctx context.Context, supplier Supplier) error {
	if _, ok := r.suppliers[supplier.ID]; !ok {
		return shared.ErrNotFound
	}
	r.suppliers[supplier.ID] = supplier
	return nil
}

func (r *memoryRepo) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	s, ok := r.suppliers[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.IsActive = false
	r.suppliers[id] = s
	return nil
}

func (r *memoryRepo) CountActiveProducts(ctx context.Context, storeID, id uuid.UUID) (int, error) {
	return r.references[id], nil
}

func TestCanRemoveCountsActiveReferences(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Supplier{Name: "Acme Wholesale"})
	require.NoError(t, err)

	check, err := svc.CanRemove(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.True(t, check.Allowed)

	repo.references[created.ID] = 5
	check, err = svc.CanRemove(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.False(t, check.Allowed)
	require.Equal(t, 5, check.BlockingCount)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Supplier{Name: "Northside Foods"})
	require.NoError(t, err)
	repo.references[created.ID] = 1

	err = svc.Delete(ctx, uuid.Nil, created.ID)
	var blocked *shared.DeleteBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Equal(t, "supplier", blocked.Entity)
	require.Equal(t, 1, blocked.BlockingCount)

	got, err := svc.Get(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
}

func TestDeleteIsSoft(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, Supplier{Name: "Retired Imports"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, uuid.Nil, created.ID))

	// The row survives deactivated and can be reactivated by an update,
	// unlike a category delete which removes the record.
	got, err := svc.Get(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	active, err := svc.List(ctx, uuid.Nil, "", false)
	require.NoError(t, err)
	require.Empty(t, active)

	all, err := svc.List(ctx, uuid.Nil, "", true)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got.IsActive = true
	require.NoError(t, svc.Update(ctx, got))
	restored, err := svc.Get(ctx, uuid.Nil, created.ID)
	require.NoError(t, err)
	require.True(t, restored.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Supplier{Name: ""})
	require.Error(t, err)
}
