package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/stocklane/stocklane/internal/catalog/products"
)

func visibleSet(ids ...uuid.UUID) []products.Product {
	out := make([]products.Product, len(ids))
	for i, id := range ids {
		out[i] = products.Product{ID: id}
	}
	return out
}

func TestSelectionLifecycle(t *testing.T) {
	repo := newMemoryRepo()
	storeID := uuid.New()
	coord := NewSelectionCoordinator(NewService(repo, nil, nil, nil, ServiceConfig{}), storeID)

	a, b := uuid.New(), uuid.New()
	require.Equal(t, SelectionEmpty, coord.State())

	require.NoError(t, coord.Toggle(a, true))
	require.Equal(t, SelectionSelecting, coord.State())
	require.Equal(t, 1, coord.Count())

	// Repeating the same toggle changes nothing.
	require.NoError(t, coord.Toggle(a, true))
	require.Equal(t, 1, coord.Count())

	require.NoError(t, coord.SelectAll(visibleSet(a, b), true))
	require.Equal(t, 2, coord.Count())

	require.NoError(t, coord.Toggle(b, false))
	require.Equal(t, 1, coord.Count())

	require.NoError(t, coord.Clear())
	require.Equal(t, SelectionEmpty, coord.State())
}

func TestSelectionReconcileNarrowsToVisible(t *testing.T) {
	repo := newMemoryRepo()
	coord := NewSelectionCoordinator(NewService(repo, nil, nil, nil, ServiceConfig{}), uuid.New())

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, coord.SelectAll(visibleSet(a, b, c), true))

	// Filter changed; only a and c remain visible.
	coord.Reconcile(visibleSet(a, c))
	require.Equal(t, 2, coord.Count())
	require.NotContains(t, coord.Selected(), b)

	coord.Reconcile(visibleSet())
	require.Equal(t, SelectionEmpty, coord.State())
}

func TestSelectionCommitClearsOnSuccess(t *testing.T) {
	repo := newMemoryRepo()
	storeID := uuid.New()
	coord := NewSelectionCoordinator(NewService(repo, nil, nil, nil, ServiceConfig{}), storeID)

	a, b := uuid.New(), uuid.New()
	repo.quantities[a] = 10
	repo.quantities[b] = 8

	require.NoError(t, coord.SelectAll(visibleSet(a, b), true))

	result, err := coord.Commit(context.Background(), -2, AdjustmentManual, "cycle count", uuid.Nil)
	require.NoError(t, err)
	require.Len(t, result.Applied, 2)
	require.Equal(t, 8, repo.quantities[a])
	require.Equal(t, 6, repo.quantities[b])
	require.Equal(t, SelectionEmpty, coord.State())
}

func TestSelectionCommitKeepsSelectionOnRejection(t *testing.T) {
	repo := newMemoryRepo()
	coord := NewSelectionCoordinator(NewService(repo, nil, nil, nil, ServiceConfig{}), uuid.New())

	a, b := uuid.New(), uuid.New()
	repo.quantities[a] = 10
	repo.quantities[b] = 1

	require.NoError(t, coord.SelectAll(visibleSet(a, b), true))

	_, err := coord.Commit(context.Background(), -2, AdjustmentManual, "", uuid.Nil)
	var rejected *BulkRejectedError
	require.ErrorAs(t, err, &rejected)

	// The selection survives so the caller can drop the blockers and retry.
	require.Equal(t, SelectionSelecting, coord.State())
	require.Equal(t, 2, coord.Count())
	require.Equal(t, 10, repo.quantities[a])
	require.Equal(t, 1, repo.quantities[b])
}

func TestSelectionCommitEmpty(t *testing.T) {
	coord := NewSelectionCoordinator(NewService(newMemoryRepo(), nil, nil, nil, ServiceConfig{}), uuid.New())

	_, err := coord.Commit(context.Background(), 1, AdjustmentManual, "", uuid.Nil)
	require.ErrorIs(t, err, ErrEmptySelection)
}
