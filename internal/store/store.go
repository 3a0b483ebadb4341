// Package store provides an interface for product storage operations.
package store

import (
	"context"
	"time"
)

// Product is a catalog product row. Price is stored in the base currency and
// is never persisted in any other currency.
type Product struct {
	ID          int64
	Name        string
	Price       float64
	Description *string
	IsDeleted   bool
	ViewCount   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID or it has been soft-deleted.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindMostViewed returns up to limit products ordered by view count descending.
	// Only products that have been viewed at least once are included.
	// Returns an empty slice if nothing qualifies.
	FindMostViewed(ctx context.Context, limit int32) ([]Product, error)

	// IncrementViewCount adds exactly one to the product's view counter
	// and returns the new counter value.
	// Returns ErrProductNotFound if no product exists with the given ID.
	IncrementViewCount(ctx context.Context, id int64) (int64, error)

	// Create adds a new product to the catalog.
	// Returns an error if the product cannot be created.
	Create(ctx context.Context, name string, price float64, description *string) (*Product, error)

	// Update modifies an existing product's name, price and description.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, name string, price float64, description *string) (*Product, error)

	// SoftDelete marks a product as deleted without removing the row.
	// Returns ErrProductNotFound if no product exists with the given ID.
	SoftDelete(ctx context.Context, id int64) error
}
