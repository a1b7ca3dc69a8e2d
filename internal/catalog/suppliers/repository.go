package suppliers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type Repository interface {
	List(ctx context.Context, storeID uuid.UUID, search string, includeInactive bool) ([]Supplier, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, supplier Supplier) error
	SoftDelete(ctx context.Context, storeID, id uuid.UUID) error
	CountActiveProducts(ctx context.Context, storeID, id uuid.UUID) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID, search string, includeInactive bool) ([]Supplier, error) {
	query := `SELECT id, store_id, name, email, phone, address, is_active, created_at FROM suppliers WHERE store_id = $1`
	args := []interface{}{storeID}
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += ` AND name ILIKE $2`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.StoreID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id uuid.UUID) (Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx, `SELECT id, store_id, name, email, phone, address, is_active, created_at FROM suppliers WHERE store_id = $1 AND id = $2`, storeID, id).
		Scan(&s.ID, &s.StoreID, &s.Name, &s.Email, &s.Phone, &s.Address, &s.IsActive, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	supplier.IsActive = true
	supplier.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx, `INSERT INTO suppliers (id, store_id, name, email, phone, address, is_active, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		supplier.ID, supplier.StoreID, supplier.Name, supplier.Email, supplier.Phone, supplier.Address, supplier.IsActive, supplier.CreatedAt)
	if err != nil {
		return Supplier{}, err
	}
	return supplier, nil
}

func (r *repository) Update(ctx context.Context, supplier Supplier) error {
	tag, err := r.db.Exec(ctx, `UPDATE suppliers SET name = $1, email = $2, phone = $3, address = $4, is_active = $5 WHERE store_id = $6 AND id = $7`,
		supplier.Name, supplier.Email, supplier.Phone, supplier.Address, supplier.IsActive, supplier.StoreID, supplier.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE suppliers SET is_active = FALSE WHERE store_id = $1 AND id = $2`, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) CountActiveProducts(ctx context.Context, storeID, id uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE store_id = $1 AND supplier_id = $2 AND is_active = TRUE`, storeID, id).Scan(&count)
	return count, err
}
