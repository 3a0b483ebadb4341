// Package service implements the catalog read pipeline: product reads with
// view counting, the cached most-viewed ranking, and currency normalization
// of displayed prices.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abgdnv/productview/internal/currency"
	perrors "github.com/abgdnv/productview/internal/errors"
	"github.com/abgdnv/productview/internal/store"
	"github.com/abgdnv/productview/internal/views"
)

// CatalogService defines the methods for serving and managing catalog products.
// It abstracts the underlying business logic and data access.
type CatalogService interface {
	// GetProduct retrieves a single product by ID, counts the view and
	// normalizes the displayed price into target when one is requested.
	// Returns ErrProductNotFound if no product exists with the given ID.
	GetProduct(ctx context.Context, id int64, target currency.Currency) (*ProductSummary, error)

	// GetMostViewed returns up to limit products ordered by view count
	// descending, served through the ranking cache.
	// Returns ErrNoViewedProducts if nothing has been viewed yet.
	GetMostViewed(ctx context.Context, limit int32, target currency.Currency) ([]ProductSummary, error)

	// Create adds a new product to the catalog.
	Create(ctx context.Context, product ProductCreateDto) (*ProductSummary, error)

	// Update modifies an existing product's details.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductSummary, error)

	// DeleteByID soft-deletes a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// RankingCache holds the most recently computed most-viewed ranking under a
// single key. A hit may carry more or fewer entries than the caller asked
// for; the service trims longer lists and serves shorter ones as-is.
type RankingCache interface {
	Get(key string) ([]store.Product, bool)
	Set(key string, value []store.Product)
	Evict(key string)
}

// Service implements CatalogService.
type Service struct {
	repository store.ProductStore
	cache      RankingCache
	counter    views.ViewCounter
	converter  currency.PriceConverter
}

var _ CatalogService = (*Service)(nil)

// NewService creates a new instance of CatalogService with the provided collaborators.
func NewService(repo store.ProductStore, cache RankingCache, counter views.ViewCounter, converter currency.PriceConverter) *Service {
	return &Service{
		repository: repo,
		cache:      cache,
		counter:    counter,
		converter:  converter,
	}
}

// ProductCreateDto represents the data transfer object for creating a new product.
type ProductCreateDto struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Price       float64 `json:"price"       validate:"required,min=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ProductUpdateDto represents the data transfer object for updating a product.
type ProductUpdateDto struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Price       float64 `json:"price"       validate:"required,min=0"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ProductSummary is the externally visible projection of a product.
// It omits the persistence identifier. Price is in the base currency unless
// a conversion was requested.
type ProductSummary struct {
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description *string   `json:"description,omitempty"`
	IsDeleted   bool      `json:"isDeleted"`
	ViewCount   int64     `json:"viewCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GetProduct fetches a product, records the view and returns the summary.
// When target is set, the summary price is converted for display only; the
// canonical stored price is never overwritten. A conversion failure fails
// the request rather than silently serving the unconverted price.
func (s *Service) GetProduct(ctx context.Context, id int64, target currency.Currency) (*ProductSummary, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	viewCount, err := s.counter.RecordView(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	product.ViewCount = viewCount

	summary := toSummary(product)
	if target != "" {
		converted, err := s.converter.ConvertAmount(ctx, product.Price, currency.Base, target)
		if err != nil {
			return nil, err
		}
		summary.Price = converted
	}
	return summary, nil
}

// GetMostViewed serves the ranking through the cache. On a miss the store is
// queried and the result cached before currency conversion, so the cached
// ranking stays canonical.
func (s *Service) GetMostViewed(ctx context.Context, limit int32, target currency.Currency) ([]ProductSummary, error) {
	products, hit := s.cache.Get(views.RankingKey)
	if !hit {
		var err error
		products, err = s.repository.FindMostViewed(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch most viewed products: %w", err)
		}
		s.cache.Set(views.RankingKey, products)
	}
	if int32(len(products)) > limit {
		products = products[:limit]
	}

	if len(products) == 0 {
		return nil, perrors.ErrNoViewedProducts
	}

	if target != "" {
		var err error
		products, err = s.converter.ConvertPrices(ctx, products, target)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]ProductSummary, len(products))
	for i, product := range products {
		summaries[i] = *toSummary(&product)
	}
	return summaries, nil
}

// Create adds a new product. A new product starts with zero views, so the
// cached ranking stays valid and no eviction is needed.
func (s *Service) Create(ctx context.Context, product ProductCreateDto) (*ProductSummary, error) {
	created, err := s.repository.Create(ctx, product.Name, product.Price, product.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return toSummary(created), nil
}

// Update modifies a product and evicts the ranking so cached prices do not
// outlive the change.
func (s *Service) Update(ctx context.Context, id int64, product ProductUpdateDto) (*ProductSummary, error) {
	updated, err := s.repository.Update(ctx, id, product.Name, product.Price, product.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}
	s.cache.Evict(views.RankingKey)
	return toSummary(updated), nil
}

// DeleteByID soft-deletes a product and evicts the ranking so the deleted
// product stops showing up immediately.
func (s *Service) DeleteByID(ctx context.Context, id int64) error {
	if err := s.repository.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product with ID %d: %w", id, err)
	}
	s.cache.Evict(views.RankingKey)
	return nil
}

// toSummary converts a store.Product to a ProductSummary.
func toSummary(product *store.Product) *ProductSummary {
	return &ProductSummary{
		Name:        product.Name,
		Price:       product.Price,
		Description: product.Description,
		IsDeleted:   product.IsDeleted,
		ViewCount:   product.ViewCount,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}
