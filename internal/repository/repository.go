package repository

import (
	"context"

	"github.com/stridekart/catalog/internal/domain"
)

// ProductFilter defines the normalized filter criteria for listing products.
// Nil fields are not applied; an all-nil filter matches every product.
//
// Matching semantics are deliberately uneven, mirroring the catalog's query
// contract: Search is a case-insensitive substring on name, Category a
// case-insensitive whole-string match, FootwearType a case-sensitive exact
// match, and Brands a case-sensitive set membership.
type ProductFilter struct {
	Search       *string
	Category     *string
	FootwearType *string
	MinPrice     *float64
	MaxPrice     *float64
	Brands       []string
}

// ProductRepository defines the interface for product persistence. A product
// is stored as a single self-contained document including its embedded review
// list; Update and SaveIfVersion replace the whole document.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter in insertion order,
	// sliced by skip/limit, along with the total match count.
	List(ctx context.Context, filter ProductFilter, limit, skip int) ([]domain.Product, int, error)

	// ListTopRated returns the n highest-rated products, rating descending,
	// ties broken by insertion order.
	ListTopRated(ctx context.Context, n int) ([]domain.Product, error)

	// Update replaces an existing product document unconditionally.
	Update(ctx context.Context, product *domain.Product) error

	// SaveIfVersion replaces the product document only if the stored version
	// still equals expectedVersion, incrementing the version on success.
	// Reports false without error when the version did not match.
	SaveIfVersion(ctx context.Context, product *domain.Product, expectedVersion int64) (bool, error)

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// TopProductsCache caches the top-rated product listing. Implementations are
// best-effort: a cache failure must never fail the read path.
type TopProductsCache interface {
	// Get returns the cached listing for n, or nil on a miss.
	Get(ctx context.Context, n int) ([]domain.Product, error)

	// Set stores the listing for n.
	Set(ctx context.Context, n int, products []domain.Product) error

	// Invalidate drops all cached listings.
	Invalidate(ctx context.Context) error
}
