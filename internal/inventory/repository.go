package inventory

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

// Repository is the record-store surface the ledger needs. The backing store
// offers no cross-table transactions to the client, so the quantity update is
// a conditional write and the adjustment insert is gated on its success.
type Repository interface {
	GetQuantity(ctx context.Context, storeID, productID uuid.UUID) (int, error)
	UpdateQuantity(ctx context.Context, storeID, productID uuid.UUID, expected, next int) (bool, error)
	InsertAdjustment(ctx context.Context, adj Adjustment) error
	ListAdjustments(ctx context.Context, storeID uuid.UUID, filter AdjustmentFilter) ([]Adjustment, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository persists ledger data in PostgreSQL.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) GetQuantity(ctx context.Context, storeID, productID uuid.UUID) (int, error) {
	var qty int
	var active bool
	err := r.db.QueryRow(ctx, `SELECT stock_quantity, is_active FROM products WHERE store_id = $1 AND id = $2`, storeID, productID).
		Scan(&qty, &active)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, shared.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, ErrProductInactive
	}
	return qty, nil
}

// UpdateQuantity performs the compare-and-swap write: it succeeds only if the
// row's quantity still equals the value the caller read.
func (r *repository) UpdateQuantity(ctx context.Context, storeID, productID uuid.UUID, expected, next int) (bool, error) {
	tag, err := r.db.Exec(ctx, `UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE store_id = $3 AND id = $4 AND stock_quantity = $5`,
		next, time.Now().UTC(), storeID, productID, expected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repository) InsertAdjustment(ctx context.Context, adj Adjustment) error {
	_, err := r.db.Exec(ctx, `INSERT INTO stock_adjustments
		(id, product_id, store_id, actor_id, adjustment_type, quantity_change, previous_quantity, new_quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		adj.ID, adj.ProductID, adj.StoreID, adj.ActorID, string(adj.Type),
		adj.QuantityChange, adj.PreviousQuantity, adj.NewQuantity, adj.Reason, adj.CreatedAt)
	return err
}

func (r *repository) ListAdjustments(ctx context.Context, storeID uuid.UUID, filter AdjustmentFilter) ([]Adjustment, error) {
	query := `SELECT id, product_id, store_id, actor_id, adjustment_type, quantity_change, previous_quantity, new_quantity, reason, created_at
		FROM stock_adjustments WHERE store_id = $1`
	args := []interface{}{storeID}
	if filter.ProductID != uuid.Nil {
		args = append(args, filter.ProductID)
		query += ` AND product_id = $` + strconv.Itoa(len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Adjustment
	for rows.Next() {
		var a Adjustment
		var typ string
		if err := rows.Scan(&a.ID, &a.ProductID, &a.StoreID, &a.ActorID, &typ,
			&a.QuantityChange, &a.PreviousQuantity, &a.NewQuantity, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = AdjustmentType(typ)
		items = append(items, a)
	}
	return items, rows.Err()
}
