package products

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type Repository interface {
	List(ctx context.Context, storeID uuid.UUID, includeInactive bool) ([]Product, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, product Product) error
	SoftDelete(ctx context.Context, storeID, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

var productColumns = []string{
	"id", "store_id", "name", "sku", "description", "price", "cost",
	"stock_quantity", "low_stock_threshold", "category_id", "supplier_id",
	"is_active", "created_at", "updated_at",
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID, includeInactive bool) ([]Product, error) {
	qb := squirrel.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"store_id": storeID}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar)
	if !includeInactive {
		qb = qb.Where(squirrel.Eq{"is_active": true})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id uuid.UUID) (Product, error) {
	sql, args, err := squirrel.Select(productColumns...).
		From("products").
		Where(squirrel.Eq{"store_id": storeID, "id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return Product{}, err
	}
	row := r.db.QueryRow(ctx, sql, args...)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.db.Exec(ctx, `INSERT INTO products
		(id, store_id, name, sku, description, price, cost, stock_quantity, low_stock_threshold, category_id, supplier_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		product.ID, product.StoreID, product.Name, product.SKU, product.Description,
		product.Price, product.Cost, product.StockQuantity, product.LowStockThreshold,
		product.CategoryID, product.SupplierID, product.IsActive, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, mapPgError(err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET
		name = $1, sku = $2, description = $3, price = $4, cost = $5,
		low_stock_threshold = $6, category_id = $7, supplier_id = $8,
		is_active = $9, updated_at = $10
		WHERE store_id = $11 AND id = $12`,
		product.Name, product.SKU, product.Description, product.Price, product.Cost,
		product.LowStockThreshold, product.CategoryID, product.SupplierID,
		product.IsActive, time.Now().UTC(), product.StoreID, product.ID)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = $1 WHERE store_id = $2 AND id = $3`,
		time.Now().UTC(), storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.StoreID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.Cost,
		&p.StockQuantity, &p.LowStockThreshold, &p.CategoryID, &p.SupplierID,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
