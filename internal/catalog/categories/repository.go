package categories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stocklane/stocklane/internal/catalog/shared"
)

type Repository interface {
	List(ctx context.Context, storeID uuid.UUID, search string) ([]Category, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (Category, error)
	Create(ctx context.Context, category Category) (Category, error)
	Update(ctx context.Context, category Category) error
	HardDelete(ctx context.Context, storeID, id uuid.UUID) error
	CountActiveProducts(ctx context.Context, storeID, id uuid.UUID) (int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, storeID uuid.UUID, search string) ([]Category, error) {
	query := `SELECT id, store_id, name, description, created_at FROM categories WHERE store_id = $1`
	args := []interface{}{storeID}
	if search != "" {
		query += ` AND name ILIKE $2`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.StoreID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repository) Get(ctx context.Context, storeID, id uuid.UUID) (Category, error) {
	var c Category
	err := r.db.QueryRow(ctx, `SELECT id, store_id, name, description, created_at FROM categories WHERE store_id = $1 AND id = $2`, storeID, id).
		Scan(&c.ID, &c.StoreID, &c.Name, &c.Description, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, shared.ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, category Category) (Category, error) {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = time.Now().UTC()
	_, err := r.db.Exec(ctx, `INSERT INTO categories (id, store_id, name, description, created_at) VALUES ($1, $2, $3, $4, $5)`,
		category.ID, category.StoreID, category.Name, category.Description, category.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Category{}, shared.ErrDuplicate
		}
		return Category{}, err
	}
	return category, nil
}

func (r *repository) Update(ctx context.Context, category Category) error {
	tag, err := r.db.Exec(ctx, `UPDATE categories SET name = $1, description = $2 WHERE store_id = $3 AND id = $4`,
		category.Name, category.Description, category.StoreID, category.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return shared.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// HardDelete removes the row. Categories have no soft-delete flag; the
// integrity guard in the service layer is the only thing standing between a
// referenced category and removal.
func (r *repository) HardDelete(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE store_id = $1 AND id = $2`, storeID, id)
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
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE store_id = $1 AND category_id = $2 AND is_active = TRUE`, storeID, id).Scan(&count)
	return count, err
}
