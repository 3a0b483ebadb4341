package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/productview/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, price, description, is_deleted, view_count, created_at, updated_at, deleted_at`

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db: dbp,
	}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID or it has been soft-deleted.
func (p *PgStore) FindByID(ctx context.Context, id int64) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM product WHERE id = $1 AND is_deleted = FALSE`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindMostViewed retrieves up to limit products with at least one view,
// ordered by view count descending.
func (p *PgStore) FindMostViewed(ctx context.Context, limit int32) ([]Product, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+productColumns+` FROM product
		 WHERE view_count > 0 AND is_deleted = FALSE
		 ORDER BY view_count DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find most viewed products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0, limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read most viewed products: %w", err)
	}
	return products, nil
}

// IncrementViewCount adds one to the product's view counter and returns the new value.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	var viewCount int64
	err := p.db.QueryRow(ctx,
		`UPDATE product
		 SET view_count = view_count + 1, updated_at = now()
		 WHERE id = $1 AND is_deleted = FALSE
		 RETURNING view_count`, id).Scan(&viewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, perrors.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}
	return viewCount, nil
}

// Create adds a new product to the catalog.
func (p *PgStore) Create(ctx context.Context, name string, price float64, description *string) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`INSERT INTO product (name, price, description)
		 VALUES ($1, $2, $3)
		 RETURNING `+productColumns, name, price, description)
	product, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update modifies an existing product's name, price and description.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Update(ctx context.Context, id int64, name string, price float64, description *string) (*Product, error) {
	row := p.db.QueryRow(ctx,
		`UPDATE product
		 SET name = $2, price = $3, description = $4, updated_at = now()
		 WHERE id = $1 AND is_deleted = FALSE
		 RETURNING `+productColumns, id, name, price, description)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// SoftDelete marks a product as deleted without removing the row.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) SoftDelete(ctx context.Context, id int64) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE product
		 SET is_deleted = TRUE, deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND is_deleted = FALSE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// scanProduct reads a single product from a pgx row.
func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Description,
		&product.IsDeleted,
		&product.ViewCount,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
